package usecase

import (
	"context"
	"time"

	"estate/internal/domain/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// --- Input DTOs ---

// AnalyticsInput selects the chart window and the dashboard record type.
// Unrecognized periods fall back to 30d; an empty type means analytics.
type AnalyticsInput struct {
	Period string `query:"period"`
	Type   string `query:"type"`
}

// --- Output DTOs ---

// StatsOutput is the envelope of the plain stats endpoint.
type StatsOutput struct {
	Statistics  entity.Statistics `json:"statistics"`
	LastUpdated time.Time         `json:"lastUpdated"`
}

// AnalyticsOutput is the full analytics view: refreshed roll-ups plus the
// four chart series and the auxiliary dashboard content.
type AnalyticsOutput struct {
	Statistics     entity.Statistics    `json:"statistics"`
	Charts         entity.Charts        `json:"charts"`
	RecentActivity []entity.Activity    `json:"recentActivity"`
	TopPerformers  entity.TopPerformers `json:"topPerformers"`
	LastUpdated    time.Time            `json:"lastUpdated"`
}

// AgentStatistics is the agent-scoped roll-up. It is computed by folding the
// agent's own property list rather than running collection-wide aggregations.
type AgentStatistics struct {
	TotalProperties  int64   `json:"totalProperties"`
	PropertiesSold   int64   `json:"propertiesSold"`
	PropertiesRented int64   `json:"propertiesRented"`
	ActiveListings   int64   `json:"activeListings"`
	TotalRevenue     float64 `json:"totalRevenue"`
	TotalViews       int64   `json:"totalViews"`
	TotalFavorites   int64   `json:"totalFavorites"`
}

// AgentDashboardOutput is the agent-scoped dashboard view.
type AgentDashboardOutput struct {
	Agent      *entity.User    `json:"agent"`
	Statistics AgentStatistics `json:"statistics"`
}

// CustomerDashboardOutput is the customer-scoped dashboard view.
type CustomerDashboardOutput struct {
	Customer        *entity.User       `json:"customer"`
	FavoriteCount   int64              `json:"favoriteCount"`
	MostViewed      []*entity.Property `json:"mostViewed"`
	TotalProperties int64              `json:"totalProperties"`
}

// DashboardUsecase defines the interface for the dashboard analytics
// operations. Every call recomputes from the source-of-truth Property and
// User collections; the stored dashboard record is only a derived cache.
type DashboardUsecase interface {
	// GetStats refreshes and returns the global roll-ups. Admin or agent.
	GetStats(ctx context.Context, requester Requester) (*StatsOutput, error)

	// GetAnalytics refreshes the full analytics view for the requested
	// period and dashboard type. Admin or agent.
	GetAnalytics(ctx context.Context, requester Requester, input *AnalyticsInput) (*AnalyticsOutput, error)

	// GetAgentDashboard returns the agent-scoped view. Agents may only view
	// their own dashboard; admins may view any.
	GetAgentDashboard(ctx context.Context, requester Requester, agentID bson.ObjectID) (*AgentDashboardOutput, error)

	// GetCustomerDashboard returns the customer-scoped view. Customers may
	// only view their own dashboard; admins may view any.
	GetCustomerDashboard(ctx context.Context, requester Requester, customerID bson.ObjectID) (*CustomerDashboardOutput, error)
}
