package impl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"

	"estate/config"
	"estate/internal/domain/entity"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{
		BcryptCost:      4,
		VerificationTTL: 24 * time.Hour,
		ResetTTL:        time.Hour,
	}
	cfg.Dashboard = &config.DashboardConfig{
		RecentActivityLimit: 10,
		TopPerformersLimit:  5,
		MostViewedLimit:     5,
	}

	return cfg
}

// fakeUserRepo is an in-memory repository.UserRepository.
type fakeUserRepo struct {
	users map[bson.ObjectID]*entity.User
	seq   int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[bson.ObjectID]*entity.User)}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id bson.ObjectID) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user

	return &clone, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByVerificationToken(_ context.Context, token string) (*entity.User, error) {
	for _, user := range f.users {
		if user.EmailVerification != nil && user.EmailVerification.Token == token {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByResetToken(_ context.Context, token string) (*entity.User, error) {
	for _, user := range f.users {
		if user.PasswordReset != nil && user.PasswordReset.Token == token {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.UserListFilter) ([]*entity.User, error) {
	var out []*entity.User
	for _, user := range f.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && user.IsActive != *filter.IsActive {
			continue
		}
		clone := *user
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	f.users[user.ID] = &clone

	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	clone := *user
	f.users[user.ID] = &clone

	return nil
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id bson.ObjectID) error {
	user, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.IsActive = false

	return nil
}

func (f *fakeUserRepo) RecordLogin(_ context.Context, id bson.ObjectID, at time.Time) error {
	user, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.LastLoginAt = &at

	return nil
}

func (f *fakeUserRepo) CountActiveByRole(_ context.Context, role entity.Role) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.IsActive && user.Role == role {
			count++
		}
	}

	return count, nil
}

func (f *fakeUserRepo) NextAgentSequence(_ context.Context) (int64, error) {
	f.seq++

	return f.seq, nil
}

// fakePropertyRepo is an in-memory repository.PropertyRepository whose
// aggregation methods reproduce the pipelines' grouping and ordering.
type fakePropertyRepo struct {
	properties map[bson.ObjectID]*entity.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{properties: make(map[bson.ObjectID]*entity.Property)}
}

func (f *fakePropertyRepo) add(property *entity.Property) *entity.Property {
	if property.ID.IsZero() {
		property.ID = bson.NewObjectID()
	}
	f.properties[property.ID] = property

	return property
}

func (f *fakePropertyRepo) FindByID(_ context.Context, id bson.ObjectID) (*entity.Property, error) {
	property, ok := f.properties[id]
	if !ok {
		return nil, repository.ErrPropertyNotFound
	}
	clone := *property

	return &clone, nil
}

func (f *fakePropertyRepo) List(_ context.Context, filter repository.PropertyListFilter) ([]*entity.Property, error) {
	var out []*entity.Property
	for _, property := range f.properties {
		if filter.Status != "" && property.Status != filter.Status {
			continue
		}
		if filter.Category != "" && property.Category != filter.Category {
			continue
		}
		if filter.Country != "" && property.Location.Country != filter.Country {
			continue
		}
		if !filter.AgentID.IsZero() && property.AgentID != filter.AgentID {
			continue
		}
		clone := *property
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (f *fakePropertyRepo) FindByAgent(ctx context.Context, agentID bson.ObjectID) ([]*entity.Property, error) {
	return f.List(ctx, repository.PropertyListFilter{AgentID: agentID})
}

func (f *fakePropertyRepo) FindFavoritedBy(_ context.Context, userID bson.ObjectID) ([]*entity.Property, error) {
	var out []*entity.Property
	for _, property := range f.properties {
		for _, fav := range property.FavoritedBy {
			if fav == userID {
				clone := *property
				out = append(out, &clone)

				break
			}
		}
	}

	return out, nil
}

func (f *fakePropertyRepo) FindMostViewed(_ context.Context, limit int64) ([]*entity.Property, error) {
	var out []*entity.Property
	for _, property := range f.properties {
		if property.IsActive {
			clone := *property
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if int64(len(out)) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (f *fakePropertyRepo) Create(_ context.Context, property *entity.Property) error {
	if property.ID.IsZero() {
		property.ID = bson.NewObjectID()
	}
	now := time.Now()
	property.CreatedAt = now
	property.UpdatedAt = now
	clone := *property
	f.properties[property.ID] = &clone

	return nil
}

func (f *fakePropertyRepo) Update(_ context.Context, property *entity.Property) error {
	if _, ok := f.properties[property.ID]; !ok {
		return repository.ErrPropertyNotFound
	}
	property.UpdatedAt = time.Now()
	clone := *property
	f.properties[property.ID] = &clone

	return nil
}

func (f *fakePropertyRepo) Delete(_ context.Context, id bson.ObjectID) error {
	if _, ok := f.properties[id]; !ok {
		return repository.ErrPropertyNotFound
	}
	delete(f.properties, id)

	return nil
}

func (f *fakePropertyRepo) IncrementViews(_ context.Context, id bson.ObjectID) error {
	property, ok := f.properties[id]
	if !ok {
		return repository.ErrPropertyNotFound
	}
	property.Views++

	return nil
}

func (f *fakePropertyRepo) AddFavorite(_ context.Context, propertyID, userID bson.ObjectID) error {
	property, ok := f.properties[propertyID]
	if !ok {
		return repository.ErrPropertyNotFound
	}
	for _, fav := range property.FavoritedBy {
		if fav == userID {
			return nil
		}
	}
	property.FavoritedBy = append(property.FavoritedBy, userID)

	return nil
}

func (f *fakePropertyRepo) RemoveFavorite(_ context.Context, propertyID, userID bson.ObjectID) error {
	property, ok := f.properties[propertyID]
	if !ok {
		return repository.ErrPropertyNotFound
	}
	kept := property.FavoritedBy[:0]
	for _, fav := range property.FavoritedBy {
		if fav != userID {
			kept = append(kept, fav)
		}
	}
	property.FavoritedBy = kept

	return nil
}

func (f *fakePropertyRepo) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, property := range f.properties {
		if property.IsActive {
			count++
		}
	}

	return count, nil
}

func (f *fakePropertyRepo) CountByStatus(_ context.Context, status entity.PropertyStatus) (int64, error) {
	var count int64
	for _, property := range f.properties {
		if property.Status == status {
			count++
		}
	}

	return count, nil
}

func (f *fakePropertyRepo) SumPriceByStatus(_ context.Context, status entity.PropertyStatus) (float64, error) {
	var total float64
	for _, property := range f.properties {
		if property.Status == status {
			total += property.PriceOrZero()
		}
	}

	return total, nil
}

func (f *fakePropertyRepo) CountCreatedByMonth(_ context.Context, since time.Time) ([]repository.MonthlyCount, error) {
	type key struct{ year, month int }
	buckets := make(map[key]*repository.MonthlyCount)
	for _, property := range f.properties {
		if property.CreatedAt.Before(since) {
			continue
		}
		k := key{property.CreatedAt.Year(), int(property.CreatedAt.Month())}
		bucket, ok := buckets[k]
		if !ok {
			bucket = &repository.MonthlyCount{Year: k.year, Month: k.month}
			buckets[k] = bucket
		}
		bucket.Count++
		bucket.Total += property.PriceOrZero()
	}

	out := make([]repository.MonthlyCount, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}

		return out[i].Month < out[j].Month
	})

	return out, nil
}

func (f *fakePropertyRepo) RevenueByMonth(_ context.Context, since time.Time) ([]repository.MonthlyRevenue, error) {
	type key struct {
		year, month int
		status      string
	}
	buckets := make(map[key]*repository.MonthlyRevenue)
	for _, property := range f.properties {
		if property.Status != entity.StatusSold && property.Status != entity.StatusRented {
			continue
		}
		if property.UpdatedAt.Before(since) {
			continue
		}
		k := key{property.UpdatedAt.Year(), int(property.UpdatedAt.Month()), string(property.Status)}
		bucket, ok := buckets[k]
		if !ok {
			bucket = &repository.MonthlyRevenue{Year: k.year, Month: k.month, Status: k.status}
			buckets[k] = bucket
		}
		bucket.Revenue += property.PriceOrZero()
	}

	out := make([]repository.MonthlyRevenue, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}

		return out[i].Status < out[j].Status
	})

	return out, nil
}

func (f *fakePropertyRepo) CountActiveByCountry(_ context.Context, limit int64) ([]repository.GroupCount, error) {
	groups := f.groupActive(func(p *entity.Property) string { return p.Location.Country })
	if int64(len(groups)) > limit {
		groups = groups[:limit]
	}

	return groups, nil
}

func (f *fakePropertyRepo) CountActiveByCategory(_ context.Context) ([]repository.GroupCount, error) {
	return f.groupActive(func(p *entity.Property) string { return string(p.Category) }), nil
}

func (f *fakePropertyRepo) groupActive(label func(*entity.Property) string) []repository.GroupCount {
	counts := make(map[string]int64)
	for _, property := range f.properties {
		if property.IsActive {
			counts[label(property)]++
		}
	}
	out := make([]repository.GroupCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, repository.GroupCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].Label < out[j].Label
	})

	return out
}

func (f *fakePropertyRepo) SumViews(_ context.Context) (int64, error) {
	var total int64
	for _, property := range f.properties {
		total += property.Views
	}

	return total, nil
}

func (f *fakePropertyRepo) TopAgents(_ context.Context, limit int64) ([]repository.AgentTotals, error) {
	totals := make(map[bson.ObjectID]*repository.AgentTotals)
	for _, property := range f.properties {
		agent, ok := totals[property.AgentID]
		if !ok {
			agent = &repository.AgentTotals{AgentID: property.AgentID}
			totals[property.AgentID] = agent
		}
		agent.Count++
		if property.Status == entity.StatusSold {
			agent.Revenue += property.PriceOrZero()
		}
	}
	out := make([]repository.AgentTotals, 0, len(totals))
	for _, agent := range totals {
		out = append(out, *agent)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}

		return out[i].Count > out[j].Count
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}

	return out, nil
}

// fakeDashboardRepo is an in-memory repository.DashboardRepository.
type fakeDashboardRepo struct {
	dashboards map[entity.DashboardType]*entity.Dashboard
}

func newFakeDashboardRepo() *fakeDashboardRepo {
	return &fakeDashboardRepo{dashboards: make(map[entity.DashboardType]*entity.Dashboard)}
}

func (f *fakeDashboardRepo) GetOrCreate(_ context.Context, dashboardType entity.DashboardType) (*entity.Dashboard, error) {
	dashboard, ok := f.dashboards[dashboardType]
	if !ok {
		dashboard = &entity.Dashboard{
			ID:          bson.NewObjectID(),
			Type:        dashboardType,
			LastUpdated: time.Now(),
		}
		f.dashboards[dashboardType] = dashboard
	}
	clone := *dashboard

	return &clone, nil
}

func (f *fakeDashboardRepo) Save(_ context.Context, dashboard *entity.Dashboard) error {
	dashboard.LastUpdated = time.Now()
	clone := *dashboard
	f.dashboards[dashboard.Type] = &clone

	return nil
}

func (f *fakeDashboardRepo) AppendActivity(ctx context.Context, dashboardType entity.DashboardType, activity entity.Activity, limit int) error {
	if _, err := f.GetOrCreate(ctx, dashboardType); err != nil {
		return err
	}
	dashboard := f.dashboards[dashboardType]
	dashboard.RecentActivity = append([]entity.Activity{activity}, dashboard.RecentActivity...)
	if len(dashboard.RecentActivity) > limit {
		dashboard.RecentActivity = dashboard.RecentActivity[:limit]
	}

	return nil
}

// fakeHasher is a transparent service.PasswordHasher.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return "hash:"+password == hash }

// fakeTokenService issues opaque tokens backed by a map.
type fakeTokenService struct {
	access  map[string]service.Claims
	refresh map[string]service.Claims
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{
		access:  make(map[string]service.Claims),
		refresh: make(map[string]service.Claims),
	}
}

func (f *fakeTokenService) GenerateTokens(userID bson.ObjectID, role entity.Role) (string, string, error) {
	accessToken := "access-" + bson.NewObjectID().Hex()
	refreshToken := "refresh-" + bson.NewObjectID().Hex()
	f.access[accessToken] = service.Claims{UserID: userID, Role: role, Type: "access"}
	f.refresh[refreshToken] = service.Claims{UserID: userID, Role: role, Type: "refresh"}

	return accessToken, refreshToken, nil
}

func (f *fakeTokenService) ValidateAccessToken(token string) (*service.Claims, error) {
	claims, ok := f.access[token]
	if !ok {
		return nil, errors.New("unknown access token")
	}

	return &claims, nil
}

func (f *fakeTokenService) ValidateRefreshToken(token string) (*service.Claims, error) {
	claims, ok := f.refresh[token]
	if !ok {
		return nil, errors.New("unknown refresh token")
	}

	return &claims, nil
}


// fakeMailer records outbound mail.
type fakeMailer struct {
	sent []service.Mail
}

func (f *fakeMailer) Send(_ context.Context, mail service.Mail) error {
	f.sent = append(f.sent, mail)

	return nil
}
