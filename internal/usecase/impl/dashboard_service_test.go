package impl

import (
	"context"
	"testing"
	"time"

	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type dashboardFixtures struct {
	service       usecase.DashboardUsecase
	userRepo      *fakeUserRepo
	propertyRepo  *fakePropertyRepo
	dashboardRepo *fakeDashboardRepo
}

func createTestDashboardService(t *testing.T) dashboardFixtures {
	t.Helper()

	userRepo := newFakeUserRepo()
	propertyRepo := newFakePropertyRepo()
	dashboardRepo := newFakeDashboardRepo()
	service := NewDashboardService(dashboardRepo, propertyRepo, userRepo, newTestConfig(), newDiscardLogger())

	return dashboardFixtures{
		service:       service,
		userRepo:      userRepo,
		propertyRepo:  propertyRepo,
		dashboardRepo: dashboardRepo,
	}
}

func adminRequester() usecase.Requester {
	return usecase.Requester{UserID: bson.NewObjectID(), Role: entity.RoleAdmin}
}

func price(v float64) *float64 { return &v }

func seedProperty(fx dashboardFixtures, status entity.PropertyStatus, p *float64, views int64) *entity.Property {
	now := time.Now()

	return fx.propertyRepo.add(&entity.Property{
		Title:     "Listing",
		Category:  entity.CategorySingleStory,
		Status:    status,
		Price:     p,
		AgentID:   bson.NewObjectID(),
		OwnerID:   bson.NewObjectID(),
		Views:     views,
		IsActive:  status != entity.StatusInactive,
		Location:  entity.Location{Country: "Malaysia"},
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func TestDashboardService_GetStats_EmptyState(t *testing.T) {
	fx := createTestDashboardService(t)

	output, err := fx.service.GetStats(context.Background(), adminRequester())
	require.NoError(t, err)

	assert.Equal(t, entity.Statistics{}, output.Statistics)
	assert.False(t, output.LastUpdated.IsZero())
}

func TestDashboardService_GetStats_Rollups(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	seedProperty(fx, entity.StatusAvailable, price(450000), 10)
	seedProperty(fx, entity.StatusSold, price(300000), 5)
	seedProperty(fx, entity.StatusSold, nil, 2) // unpriced sale contributes 0 revenue
	seedProperty(fx, entity.StatusRented, price(1500), 1)
	seedProperty(fx, entity.StatusInactive, price(999999), 0)

	require.NoError(t, fx.userRepo.Create(ctx, &entity.User{Email: "a@x.com", Role: entity.RoleAgent, IsActive: true}))
	require.NoError(t, fx.userRepo.Create(ctx, &entity.User{Email: "c@x.com", Role: entity.RoleUser, IsActive: true}))
	require.NoError(t, fx.userRepo.Create(ctx, &entity.User{Email: "gone@x.com", Role: entity.RoleUser, IsActive: false}))

	output, err := fx.service.GetStats(ctx, adminRequester())
	require.NoError(t, err)

	assert.Equal(t, int64(4), output.Statistics.TotalProperties, "deactivated listings are not counted")
	assert.Equal(t, int64(2), output.Statistics.PropertiesSold)
	assert.Equal(t, int64(1), output.Statistics.PropertiesRented)
	assert.Equal(t, int64(1), output.Statistics.ActiveListings)
	assert.Equal(t, int64(1), output.Statistics.TotalAgents)
	assert.Equal(t, int64(1), output.Statistics.TotalCustomers, "deactivated accounts are not counted")
	assert.InDelta(t, 300000, output.Statistics.TotalRevenue, 0.001)
	assert.Equal(t, int64(18), output.Statistics.TotalViews)
}

func TestDashboardService_GetStats_Idempotent(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	seedProperty(fx, entity.StatusSold, price(100000), 3)

	first, err := fx.service.GetStats(ctx, adminRequester())
	require.NoError(t, err)
	second, err := fx.service.GetStats(ctx, adminRequester())
	require.NoError(t, err)

	assert.Equal(t, first.Statistics, second.Statistics)
}

func TestDashboardService_GetAnalytics_MonthLabelsAndRevenue(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	now := time.Now()
	sold := seedProperty(fx, entity.StatusSold, price(200000), 0)
	rented := seedProperty(fx, entity.StatusRented, price(2000), 0)
	sold.UpdatedAt = now
	rented.UpdatedAt = now

	output, err := fx.service.GetAnalytics(ctx, adminRequester(), &usecase.AnalyticsInput{})
	require.NoError(t, err)

	wantLabel := now.Format("2006-01")
	require.NotEmpty(t, output.Charts.PropertyData)
	assert.Equal(t, wantLabel, output.Charts.PropertyData[0].Month)

	// Sold and rented closings of one month stay in separate buckets.
	require.Len(t, output.Charts.RevenueData, 2)
	byType := map[string]float64{}
	for _, bucket := range output.Charts.RevenueData {
		assert.Equal(t, wantLabel, bucket.Month)
		byType[bucket.Type] = bucket.Revenue
	}
	assert.InDelta(t, 2000, byType["rented"], 0.001)
	assert.InDelta(t, 200000, byType["sold"], 0.001)
}

func TestDashboardService_GetAnalytics_BreakdownPercentages(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	for range 2 {
		seedProperty(fx, entity.StatusAvailable, price(100), 0)
	}
	third := seedProperty(fx, entity.StatusAvailable, price(100), 0)
	third.Location.Country = "Singapore"

	output, err := fx.service.GetAnalytics(ctx, adminRequester(), &usecase.AnalyticsInput{})
	require.NoError(t, err)

	require.Len(t, output.Charts.CountryData, 2)
	assert.Equal(t, "Malaysia", output.Charts.CountryData[0].Label)
	assert.InDelta(t, 66.7, output.Charts.CountryData[0].Percentage, 0.001)
	assert.InDelta(t, 33.3, output.Charts.CountryData[1].Percentage, 0.001)
}

func TestDashboardService_GetAnalytics_ZeroTotalPercentages(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	// Only inactive stock: group totals exist for no active base.
	seedProperty(fx, entity.StatusInactive, price(100), 0)

	output, err := fx.service.GetAnalytics(ctx, adminRequester(), &usecase.AnalyticsInput{})
	require.NoError(t, err)

	for _, group := range output.Charts.CountryData {
		assert.Zero(t, group.Percentage)
	}
}

func TestDashboardService_GetAnalytics_PeriodWindow(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	old := seedProperty(fx, entity.StatusAvailable, price(100), 0)
	old.CreatedAt = time.Now().AddDate(0, 0, -60)
	seedProperty(fx, entity.StatusAvailable, price(100), 0)

	output, err := fx.service.GetAnalytics(ctx, adminRequester(), &usecase.AnalyticsInput{Period: "7d"})
	require.NoError(t, err)

	var counted int64
	for _, bucket := range output.Charts.PropertyData {
		counted += bucket.Count
	}
	assert.Equal(t, int64(1), counted, "listings older than the window stay out of the series")
}

func TestDashboardService_GetAnalytics_UnknownPeriodFallsBack(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	recent := seedProperty(fx, entity.StatusAvailable, price(100), 0)
	recent.CreatedAt = time.Now().AddDate(0, 0, -20)

	output, err := fx.service.GetAnalytics(ctx, adminRequester(), &usecase.AnalyticsInput{Period: "bogus"})
	require.NoError(t, err)

	var counted int64
	for _, bucket := range output.Charts.PropertyData {
		counted += bucket.Count
	}
	assert.Equal(t, int64(1), counted, "unknown period behaves like 30d")
}

func TestDashboardService_GetAnalytics_InvalidType(t *testing.T) {
	fx := createTestDashboardService(t)

	_, err := fx.service.GetAnalytics(context.Background(), adminRequester(), &usecase.AnalyticsInput{Type: "bogus"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDashboardTypeInvalid))
}

func TestDashboardService_GetAnalytics_TopPerformers(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	star := &entity.User{Email: "star@x.com", Role: entity.RoleAgent, Name: "Star Agent", IsActive: true}
	require.NoError(t, fx.userRepo.Create(ctx, star))

	sold := seedProperty(fx, entity.StatusSold, price(500000), 9)
	sold.AgentID = star.ID
	seedProperty(fx, entity.StatusAvailable, price(100), 1)

	output, err := fx.service.GetAnalytics(ctx, adminRequester(), &usecase.AnalyticsInput{})
	require.NoError(t, err)

	require.NotEmpty(t, output.TopPerformers.Agents)
	assert.Equal(t, star.ID, output.TopPerformers.Agents[0].AgentID)
	assert.Equal(t, "Star Agent", output.TopPerformers.Agents[0].Name)
	assert.InDelta(t, 500000, output.TopPerformers.Agents[0].Revenue, 0.001)

	require.NotEmpty(t, output.TopPerformers.Properties)
	assert.Equal(t, sold.ID, output.TopPerformers.Properties[0].PropertyID)
}

func TestDashboardService_GetAgentDashboard_ScopedFold(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	agent := &entity.User{Email: "agent@x.com", Role: entity.RoleAgent, IsActive: true}
	require.NoError(t, fx.userRepo.Create(ctx, agent))

	mine := seedProperty(fx, entity.StatusSold, price(100000), 7)
	mine.AgentID = agent.ID
	mine.FavoritedBy = []bson.ObjectID{bson.NewObjectID(), bson.NewObjectID()}
	active := seedProperty(fx, entity.StatusAvailable, price(50000), 3)
	active.AgentID = agent.ID
	seedProperty(fx, entity.StatusSold, price(999999), 100) // someone else's sale

	requester := usecase.Requester{UserID: agent.ID, Role: entity.RoleAgent}
	output, err := fx.service.GetAgentDashboard(ctx, requester, agent.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), output.Statistics.TotalProperties)
	assert.Equal(t, int64(1), output.Statistics.PropertiesSold)
	assert.Equal(t, int64(1), output.Statistics.ActiveListings)
	assert.InDelta(t, 100000, output.Statistics.TotalRevenue, 0.001)
	assert.Equal(t, int64(10), output.Statistics.TotalViews)
	assert.Equal(t, int64(2), output.Statistics.TotalFavorites)
}

func TestDashboardService_GetAgentDashboard_ForbiddenForOtherAgent(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	agent := &entity.User{Email: "agent@x.com", Role: entity.RoleAgent, IsActive: true}
	require.NoError(t, fx.userRepo.Create(ctx, agent))

	requester := usecase.Requester{UserID: bson.NewObjectID(), Role: entity.RoleAgent}
	_, err := fx.service.GetAgentDashboard(ctx, requester, agent.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestDashboardService_GetAgentDashboard_NotAnAgent(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	customer := &entity.User{Email: "c@x.com", Role: entity.RoleUser, IsActive: true}
	require.NoError(t, fx.userRepo.Create(ctx, customer))

	_, err := fx.service.GetAgentDashboard(ctx, adminRequester(), customer.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAgentNotFound))
}

func TestDashboardService_GetCustomerDashboard(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	customer := &entity.User{Email: "c@x.com", Role: entity.RoleUser, IsActive: true}
	require.NoError(t, fx.userRepo.Create(ctx, customer))

	favorite := seedProperty(fx, entity.StatusAvailable, price(100), 5)
	favorite.FavoritedBy = []bson.ObjectID{customer.ID}
	seedProperty(fx, entity.StatusAvailable, price(100), 50)

	requester := usecase.Requester{UserID: customer.ID, Role: entity.RoleUser}
	output, err := fx.service.GetCustomerDashboard(ctx, requester, customer.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), output.FavoriteCount)
	assert.Equal(t, int64(2), output.TotalProperties)
	require.NotEmpty(t, output.MostViewed)
	assert.Equal(t, int64(50), output.MostViewed[0].Views)
}

func TestDashboardService_GetCustomerDashboard_ForbiddenForOther(t *testing.T) {
	fx := createTestDashboardService(t)
	ctx := context.Background()

	customer := &entity.User{Email: "c@x.com", Role: entity.RoleUser, IsActive: true}
	require.NoError(t, fx.userRepo.Create(ctx, customer))

	requester := usecase.Requester{UserID: bson.NewObjectID(), Role: entity.RoleUser}
	_, err := fx.service.GetCustomerDashboard(ctx, requester, customer.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}
