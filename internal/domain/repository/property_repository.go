package repository

import (
	"context"
	"time"

	"estate/internal/domain/entity"
	"estate/internal/errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrPropertyNotFound is a domain-specific error returned when a property is not found.
var ErrPropertyNotFound = errors.New("property not found")

// PropertyListFilter narrows a property listing. Zero values mean "no constraint".
type PropertyListFilter struct {
	Status   entity.PropertyStatus
	Category entity.PropertyCategory
	Country  string
	AgentID  bson.ObjectID
	Page     int64
	PerPage  int64
}

// MonthlyCount is one (year, month) aggregation bucket with a document count
// and a price sum.
type MonthlyCount struct {
	Year  int     `bson:"year"`
	Month int     `bson:"month"`
	Count int64   `bson:"count"`
	Total float64 `bson:"total"`
}

// MonthlyRevenue is one (year, month, status) aggregation bucket over closed
// listings. Grouping by status keeps the bucket's type tag deterministic when
// a month mixes sold and rented closings.
type MonthlyRevenue struct {
	Year    int     `bson:"year"`
	Month   int     `bson:"month"`
	Status  string  `bson:"status"`
	Revenue float64 `bson:"revenue"`
}

// GroupCount is one label bucket of a group-by aggregation.
type GroupCount struct {
	Label string `bson:"label"`
	Count int64  `bson:"count"`
}

// AgentTotals is one agent's roll-up over their listings, used for the
// top-performers board.
type AgentTotals struct {
	AgentID bson.ObjectID `bson:"agentId"`
	Count   int64         `bson:"count"`
	Revenue float64       `bson:"revenue"`
}

// PropertyRepository defines the persistence operations for listings,
// including the aggregation queries that back the dashboard.
type PropertyRepository interface {
	// FindByID retrieves a single property by its unique ID.
	FindByID(ctx context.Context, id bson.ObjectID) (*entity.Property, error)

	// List returns properties matching the filter, newest first.
	List(ctx context.Context, filter PropertyListFilter) ([]*entity.Property, error)

	// FindByAgent returns every property listed by the given agent.
	FindByAgent(ctx context.Context, agentID bson.ObjectID) ([]*entity.Property, error)

	// FindFavoritedBy returns every property the given user has favorited.
	FindFavoritedBy(ctx context.Context, userID bson.ObjectID) ([]*entity.Property, error)

	// FindMostViewed returns the most-viewed active properties, capped at limit.
	FindMostViewed(ctx context.Context, limit int64) ([]*entity.Property, error)

	// Create persists a new property. The generated ID is written back.
	Create(ctx context.Context, property *entity.Property) error

	// Update overwrites an existing property document.
	Update(ctx context.Context, property *entity.Property) error

	// Delete hard-deletes a property. Listings have no soft-delete path.
	Delete(ctx context.Context, id bson.ObjectID) error

	// IncrementViews atomically bumps the view counter, avoiding the
	// read-modify-write lost-update race.
	IncrementViews(ctx context.Context, id bson.ObjectID) error

	// AddFavorite atomically adds the user to the favorited-by set.
	AddFavorite(ctx context.Context, propertyID, userID bson.ObjectID) error

	// RemoveFavorite atomically removes the user from the favorited-by set.
	RemoveFavorite(ctx context.Context, propertyID, userID bson.ObjectID) error

	// CountActive counts properties with the isActive flag set.
	CountActive(ctx context.Context) (int64, error)

	// CountByStatus counts properties in the given status regardless of the
	// isActive flag.
	CountByStatus(ctx context.Context, status entity.PropertyStatus) (int64, error)

	// SumPriceByStatus sums the price over properties in the given status.
	// Documents without a price contribute 0.
	SumPriceByStatus(ctx context.Context, status entity.PropertyStatus) (float64, error)

	// CountCreatedByMonth groups properties created at or after since by
	// calendar month, ascending.
	CountCreatedByMonth(ctx context.Context, since time.Time) ([]MonthlyCount, error)

	// RevenueByMonth groups sold and rented properties updated at or after
	// since by (calendar month, status), ascending.
	RevenueByMonth(ctx context.Context, since time.Time) ([]MonthlyRevenue, error)

	// CountActiveByCountry groups active properties by country, descending by
	// count, capped at limit.
	CountActiveByCountry(ctx context.Context, limit int64) ([]GroupCount, error)

	// CountActiveByCategory groups active properties by category, descending
	// by count, with no cap.
	CountActiveByCategory(ctx context.Context) ([]GroupCount, error)

	// SumViews sums the view counters across all properties.
	SumViews(ctx context.Context) (int64, error)

	// TopAgents rolls up listing count and sold-price revenue per agent,
	// descending by revenue then count, capped at limit.
	TopAgents(ctx context.Context, limit int64) ([]AgentTotals, error)
}
