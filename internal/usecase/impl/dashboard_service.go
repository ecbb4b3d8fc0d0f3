package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"estate/config"
	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/usecase"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// countryGroupLimit caps the country breakdown chart.
const countryGroupLimit = 10

// dashboardService implements the DashboardUsecase interface. Every call
// recomputes the roll-ups from the Property and User collections and writes
// the result back into the per-type dashboard record.
type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	propertyRepo  repository.PropertyRepository
	userRepo      repository.UserRepository
	cfg           *config.DashboardConfig
	logger        *slog.Logger
}

// NewDashboardService is the constructor for dashboardService.
func NewDashboardService(
	dashboardRepo repository.DashboardRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.DashboardUsecase {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		propertyRepo:  propertyRepo,
		userRepo:      userRepo,
		cfg:           cfg.Dashboard,
		logger:        logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *dashboardService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetStats refreshes and returns the global roll-ups.
func (srv *dashboardService) GetStats(ctx context.Context, requester usecase.Requester) (*usecase.StatsOutput, error) {
	srv.log(ctx).Debug("Refreshing dashboard statistics", "requester", requester.UserID)

	dashboard, err := srv.dashboardRepo.GetOrCreate(ctx, entity.DashboardAnalytics)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analytics dashboard")
	}

	stats, err := srv.computeStatistics(ctx)
	if err != nil {
		return nil, err
	}

	dashboard.Statistics = stats
	if err := srv.dashboardRepo.Save(ctx, dashboard); err != nil {
		return nil, errors.Wrap(err, "failed to persist refreshed statistics")
	}

	return &usecase.StatsOutput{
		Statistics:  dashboard.Statistics,
		LastUpdated: dashboard.LastUpdated,
	}, nil
}

// GetAnalytics refreshes the full analytics view: statistics, the four chart
// series, the top performers, and the bounded recent-activity log.
func (srv *dashboardService) GetAnalytics(ctx context.Context, requester usecase.Requester, input *usecase.AnalyticsInput) (*usecase.AnalyticsOutput, error) {
	dashboardType := entity.DashboardType(input.Type)
	if input.Type == "" {
		dashboardType = entity.DashboardAnalytics
	}
	if !dashboardType.Valid() {
		return nil, errors.Wrapf(domainerrors.ErrDashboardTypeInvalid, "unknown dashboard type %q", input.Type)
	}

	since := periodStart(input.Period, time.Now())
	srv.log(ctx).Debug("Refreshing analytics view",
		"type", dashboardType, "period", input.Period, "since", since)

	dashboard, err := srv.dashboardRepo.GetOrCreate(ctx, dashboardType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dashboard")
	}

	stats, err := srv.computeStatistics(ctx)
	if err != nil {
		return nil, err
	}

	charts, err := srv.generateCharts(ctx, since)
	if err != nil {
		return nil, err
	}

	performers, err := srv.computeTopPerformers(ctx)
	if err != nil {
		return nil, err
	}

	dashboard.Statistics = stats
	dashboard.Charts = *charts
	dashboard.TopPerformers = *performers
	if limit := srv.cfg.RecentActivityLimit; len(dashboard.RecentActivity) > limit {
		dashboard.RecentActivity = dashboard.RecentActivity[:limit]
	}

	if err := srv.dashboardRepo.Save(ctx, dashboard); err != nil {
		return nil, errors.Wrap(err, "failed to persist refreshed analytics")
	}

	return &usecase.AnalyticsOutput{
		Statistics:     dashboard.Statistics,
		Charts:         dashboard.Charts,
		RecentActivity: dashboard.RecentActivity,
		TopPerformers:  dashboard.TopPerformers,
		LastUpdated:    dashboard.LastUpdated,
	}, nil
}

// GetAgentDashboard returns the agent-scoped view. The roll-up folds the
// agent's own listings client-side instead of running collection-wide
// aggregations; an agent rarely holds more than a few hundred.
func (srv *dashboardService) GetAgentDashboard(ctx context.Context, requester usecase.Requester, agentID bson.ObjectID) (*usecase.AgentDashboardOutput, error) {
	if requester.Role != entity.RoleAdmin && requester.UserID != agentID {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "agents may only view their own dashboard")
	}

	agent, err := srv.userRepo.FindByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAgentNotFound, "agent not found")
		}

		return nil, errors.Wrap(err, "failed to find agent")
	}
	if !agent.IsAgent() {
		return nil, errors.Wrap(domainerrors.ErrAgentNotFound, "account is not an agent")
	}

	properties, err := srv.propertyRepo.FindByAgent(ctx, agentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load agent properties")
	}

	var stats usecase.AgentStatistics
	stats.TotalProperties = int64(len(properties))
	for _, property := range properties {
		switch property.Status {
		case entity.StatusSold:
			stats.PropertiesSold++
			stats.TotalRevenue += property.PriceOrZero()
		case entity.StatusRented:
			stats.PropertiesRented++
		case entity.StatusAvailable:
			stats.ActiveListings++
		}
		stats.TotalViews += property.Views
		stats.TotalFavorites += int64(len(property.FavoritedBy))
	}

	return &usecase.AgentDashboardOutput{
		Agent:      agent,
		Statistics: stats,
	}, nil
}

// GetCustomerDashboard returns the customer-scoped view.
func (srv *dashboardService) GetCustomerDashboard(ctx context.Context, requester usecase.Requester, customerID bson.ObjectID) (*usecase.CustomerDashboardOutput, error) {
	if requester.Role != entity.RoleAdmin && requester.UserID != customerID {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "customers may only view their own dashboard")
	}

	customer, err := srv.userRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrCustomerNotFound, "customer not found")
		}

		return nil, errors.Wrap(err, "failed to find customer")
	}
	if customer.Role != entity.RoleUser {
		return nil, errors.Wrap(domainerrors.ErrCustomerNotFound, "account is not a customer")
	}

	favorites, err := srv.propertyRepo.FindFavoritedBy(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load favorites")
	}

	mostViewed, err := srv.propertyRepo.FindMostViewed(ctx, int64(srv.cfg.MostViewedLimit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load most viewed properties")
	}

	total, err := srv.propertyRepo.CountActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count active properties")
	}

	return &usecase.CustomerDashboardOutput{
		Customer:        customer,
		FavoriteCount:   int64(len(favorites)),
		MostViewed:      mostViewed,
		TotalProperties: total,
	}, nil
}

// computeStatistics rebuilds the eight global roll-ups from the source
// collections.
func (srv *dashboardService) computeStatistics(ctx context.Context) (entity.Statistics, error) {
	var stats entity.Statistics
	var err error

	if stats.TotalProperties, err = srv.propertyRepo.CountActive(ctx); err != nil {
		return stats, errors.Wrap(err, "failed to count properties")
	}
	if stats.PropertiesSold, err = srv.propertyRepo.CountByStatus(ctx, entity.StatusSold); err != nil {
		return stats, errors.Wrap(err, "failed to count sold properties")
	}
	if stats.PropertiesRented, err = srv.propertyRepo.CountByStatus(ctx, entity.StatusRented); err != nil {
		return stats, errors.Wrap(err, "failed to count rented properties")
	}
	if stats.ActiveListings, err = srv.propertyRepo.CountByStatus(ctx, entity.StatusAvailable); err != nil {
		return stats, errors.Wrap(err, "failed to count available properties")
	}
	if stats.TotalAgents, err = srv.userRepo.CountActiveByRole(ctx, entity.RoleAgent); err != nil {
		return stats, errors.Wrap(err, "failed to count agents")
	}
	if stats.TotalCustomers, err = srv.userRepo.CountActiveByRole(ctx, entity.RoleUser); err != nil {
		return stats, errors.Wrap(err, "failed to count customers")
	}
	if stats.TotalRevenue, err = srv.propertyRepo.SumPriceByStatus(ctx, entity.StatusSold); err != nil {
		return stats, errors.Wrap(err, "failed to sum revenue")
	}
	if stats.TotalViews, err = srv.propertyRepo.SumViews(ctx); err != nil {
		return stats, errors.Wrap(err, "failed to sum views")
	}

	return stats, nil
}

// generateCharts builds the four chart series over the given window.
func (srv *dashboardService) generateCharts(ctx context.Context, since time.Time) (*entity.Charts, error) {
	charts := &entity.Charts{}

	monthly, err := srv.propertyRepo.CountCreatedByMonth(ctx, since)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate monthly property counts")
	}
	for _, bucket := range monthly {
		charts.PropertyData = append(charts.PropertyData, entity.MonthBucket{
			Month: monthLabel(bucket.Year, bucket.Month),
			Count: bucket.Count,
			Total: bucket.Total,
		})
	}

	revenue, err := srv.propertyRepo.RevenueByMonth(ctx, since)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate monthly revenue")
	}
	for _, bucket := range revenue {
		charts.RevenueData = append(charts.RevenueData, entity.RevenueBucket{
			Month:   monthLabel(bucket.Year, bucket.Month),
			Type:    bucket.Status,
			Revenue: bucket.Revenue,
		})
	}

	totalActive, err := srv.propertyRepo.CountActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count active properties")
	}

	countries, err := srv.propertyRepo.CountActiveByCountry(ctx, countryGroupLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate properties by country")
	}
	charts.CountryData = breakdown(countries, totalActive)

	categories, err := srv.propertyRepo.CountActiveByCategory(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate properties by category")
	}
	charts.CategoryData = breakdown(categories, totalActive)

	return charts, nil
}

// computeTopPerformers builds the top-agents and top-properties boards.
func (srv *dashboardService) computeTopPerformers(ctx context.Context) (*entity.TopPerformers, error) {
	performers := &entity.TopPerformers{}

	agentTotals, err := srv.propertyRepo.TopAgents(ctx, int64(srv.cfg.TopPerformersLimit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate top agents")
	}
	for _, totals := range agentTotals {
		perf := entity.AgentPerformance{
			AgentID:    totals.AgentID,
			Properties: totals.Count,
			Revenue:    totals.Revenue,
		}
		// A deactivated or missing agent still appears; only the name is lost.
		if agent, err := srv.userRepo.FindByID(ctx, totals.AgentID); err == nil {
			perf.Name = agent.Name
		}
		performers.Agents = append(performers.Agents, perf)
	}

	mostViewed, err := srv.propertyRepo.FindMostViewed(ctx, int64(srv.cfg.TopPerformersLimit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load most viewed properties")
	}
	for _, property := range mostViewed {
		performers.Properties = append(performers.Properties, entity.PropertyPerformance{
			PropertyID: property.ID,
			Title:      property.Title,
			Views:      property.Views,
			Favorites:  int64(len(property.FavoritedBy)),
		})
	}

	return performers, nil
}

// periodStart maps a period token onto the window's start instant.
// Unrecognized or empty tokens fall back to 30 days.
func periodStart(period string, now time.Time) time.Time {
	switch period {
	case "7d":
		return now.AddDate(0, 0, -7)
	case "90d":
		return now.AddDate(0, 0, -90)
	case "1y":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -30)
	}
}

// monthLabel renders a calendar month as "YYYY-MM".
func monthLabel(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// breakdown converts raw group counts into share-of-total slices. When the
// total is zero every percentage is zero rather than NaN.
func breakdown(groups []repository.GroupCount, total int64) []entity.BreakdownGroup {
	out := make([]entity.BreakdownGroup, 0, len(groups))
	for _, group := range groups {
		var pct float64
		if total > 0 {
			pct = math.Round(float64(group.Count)/float64(total)*1000) / 10
		}
		out = append(out, entity.BreakdownGroup{
			Label:      group.Label,
			Count:      group.Count,
			Percentage: pct,
		})
	}

	return out
}
