package mongo

import (
	"context"
	"time"

	"estate/internal/domain/entity"
	"estate/internal/domain/repository"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// propertyRepository implements repository.PropertyRepository on MongoDB.
// The dashboard aggregations live here as pipelines so the grouping work
// stays in the database.
type propertyRepository struct {
	coll *mongo.Collection
}

// NewPropertyRepository is the constructor for propertyRepository.
func NewPropertyRepository(client *Client) repository.PropertyRepository {
	return &propertyRepository{coll: client.Properties()}
}

// FindByID retrieves a single property by its unique ID.
func (repo *propertyRepository) FindByID(ctx context.Context, id bson.ObjectID) (*entity.Property, error) {
	var property entity.Property
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&property); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrPropertyNotFound
		}

		return nil, errors.Wrap(err, "failed to find property")
	}

	return &property, nil
}

// List returns properties matching the filter, newest first.
func (repo *propertyRepository) List(ctx context.Context, filter repository.PropertyListFilter) ([]*entity.Property, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Country != "" {
		query["location.country"] = filter.Country
	}
	if !filter.AgentID.IsZero() {
		query["agentId"] = filter.AgentID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.PerPage > 0 {
		opts.SetLimit(filter.PerPage)
		if filter.Page > 1 {
			opts.SetSkip((filter.Page - 1) * filter.PerPage)
		}
	}

	return repo.findMany(ctx, query, opts)
}

// FindByAgent returns every property listed by the given agent.
func (repo *propertyRepository) FindByAgent(ctx context.Context, agentID bson.ObjectID) ([]*entity.Property, error) {
	return repo.findMany(ctx, bson.M{"agentId": agentID}, nil)
}

// FindFavoritedBy returns every property the given user has favorited.
func (repo *propertyRepository) FindFavoritedBy(ctx context.Context, userID bson.ObjectID) ([]*entity.Property, error) {
	return repo.findMany(ctx, bson.M{"favoritedBy": userID}, nil)
}

// FindMostViewed returns the most-viewed active properties, capped at limit.
func (repo *propertyRepository) FindMostViewed(ctx context.Context, limit int64) ([]*entity.Property, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "views", Value: -1}}).
		SetLimit(limit)

	return repo.findMany(ctx, bson.M{"isActive": true}, opts)
}

func (repo *propertyRepository) findMany(ctx context.Context, query bson.M, opts *options.FindOptionsBuilder) ([]*entity.Property, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = repo.coll.Find(ctx, query, opts)
	} else {
		cursor, err = repo.coll.Find(ctx, query)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query properties")
	}
	defer cursor.Close(ctx)

	var properties []*entity.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, errors.Wrap(err, "failed to decode properties")
	}

	return properties, nil
}

// Create persists a new property. The generated ID is written back.
func (repo *propertyRepository) Create(ctx context.Context, property *entity.Property) error {
	now := time.Now()
	property.CreatedAt = now
	property.UpdatedAt = now

	result, err := repo.coll.InsertOne(ctx, property)
	if err != nil {
		return errors.Wrap(err, "failed to insert property")
	}

	property.ID = result.InsertedID.(bson.ObjectID)

	return nil
}

// Update overwrites an existing property document.
func (repo *propertyRepository) Update(ctx context.Context, property *entity.Property) error {
	property.UpdatedAt = time.Now()

	result, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": property.ID}, property)
	if err != nil {
		return errors.Wrap(err, "failed to update property")
	}
	if result.MatchedCount == 0 {
		return repository.ErrPropertyNotFound
	}

	return nil
}

// Delete hard-deletes a property.
func (repo *propertyRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "failed to delete property")
	}
	if result.DeletedCount == 0 {
		return repository.ErrPropertyNotFound
	}

	return nil
}

// IncrementViews atomically bumps the view counter.
func (repo *propertyRepository) IncrementViews(ctx context.Context, id bson.ObjectID) error {
	update := bson.M{"$inc": bson.M{"views": 1}}

	result, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.Wrap(err, "failed to increment views")
	}
	if result.MatchedCount == 0 {
		return repository.ErrPropertyNotFound
	}

	return nil
}

// AddFavorite atomically adds the user to the favorited-by set.
func (repo *propertyRepository) AddFavorite(ctx context.Context, propertyID, userID bson.ObjectID) error {
	update := bson.M{"$addToSet": bson.M{"favoritedBy": userID}}

	result, err := repo.coll.UpdateOne(ctx, bson.M{"_id": propertyID}, update)
	if err != nil {
		return errors.Wrap(err, "failed to add favorite")
	}
	if result.MatchedCount == 0 {
		return repository.ErrPropertyNotFound
	}

	return nil
}

// RemoveFavorite atomically removes the user from the favorited-by set.
func (repo *propertyRepository) RemoveFavorite(ctx context.Context, propertyID, userID bson.ObjectID) error {
	update := bson.M{"$pull": bson.M{"favoritedBy": userID}}

	result, err := repo.coll.UpdateOne(ctx, bson.M{"_id": propertyID}, update)
	if err != nil {
		return errors.Wrap(err, "failed to remove favorite")
	}
	if result.MatchedCount == 0 {
		return repository.ErrPropertyNotFound
	}

	return nil
}

// CountActive counts properties with the isActive flag set.
func (repo *propertyRepository) CountActive(ctx context.Context) (int64, error) {
	count, err := repo.coll.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count active properties")
	}

	return count, nil
}

// CountByStatus counts properties in the given status regardless of isActive.
func (repo *propertyRepository) CountByStatus(ctx context.Context, status entity.PropertyStatus) (int64, error) {
	count, err := repo.coll.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count properties by status")
	}

	return count, nil
}

// SumPriceByStatus sums the price over properties in the given status.
// $ifNull folds documents without a price into the sum as 0.
func (repo *propertyRepository) SumPriceByStatus(ctx context.Context, status entity.PropertyStatus) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": status}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$ifNull": []any{"$price", 0}}},
		}}},
	}

	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum prices")
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, errors.Wrap(err, "failed to decode price sum")
	}
	if len(results) == 0 {
		return 0, nil
	}

	return results[0].Total, nil
}

// CountCreatedByMonth groups properties created at or after since by calendar
// month, sorted chronologically ascending.
func (repo *propertyRepository) CountCreatedByMonth(ctx context.Context, since time.Time) ([]repository.MonthlyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
			},
			"count": bson.M{"$sum": 1},
			"total": bson.M{"$sum": bson.M{"$ifNull": []any{"$price", 0}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"year":  "$_id.year",
			"month": "$_id.month",
			"count": 1,
			"total": 1,
		}}},
	}

	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate monthly property counts")
	}
	defer cursor.Close(ctx)

	var buckets []repository.MonthlyCount
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, errors.Wrap(err, "failed to decode monthly property counts")
	}

	return buckets, nil
}

// RevenueByMonth groups sold and rented properties updated at or after since
// by (calendar month, status). Including status in the group key keeps the
// bucket's type tag deterministic when a month mixes both closing kinds.
func (repo *propertyRepository) RevenueByMonth(ctx context.Context, since time.Time) ([]repository.MonthlyRevenue, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":    bson.M{"$in": []entity.PropertyStatus{entity.StatusSold, entity.StatusRented}},
			"updatedAt": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":   bson.M{"$year": "$updatedAt"},
				"month":  bson.M{"$month": "$updatedAt"},
				"status": "$status",
			},
			"revenue": bson.M{"$sum": bson.M{"$ifNull": []any{"$price", 0}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
			{Key: "_id.status", Value: 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":     0,
			"year":    "$_id.year",
			"month":   "$_id.month",
			"status":  "$_id.status",
			"revenue": 1,
		}}},
	}

	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate monthly revenue")
	}
	defer cursor.Close(ctx)

	var buckets []repository.MonthlyRevenue
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, errors.Wrap(err, "failed to decode monthly revenue")
	}

	return buckets, nil
}

// CountActiveByCountry groups active properties by country, descending by
// count, capped at limit.
func (repo *propertyRepository) CountActiveByCountry(ctx context.Context, limit int64) ([]repository.GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$location.country",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{"_id": 0, "label": "$_id", "count": 1}}},
	}

	return repo.aggregateGroups(ctx, pipeline, "country")
}

// CountActiveByCategory groups active properties by category, descending by
// count, with no cap.
func (repo *propertyRepository) CountActiveByCategory(ctx context.Context) ([]repository.GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$category",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$project", Value: bson.M{"_id": 0, "label": "$_id", "count": 1}}},
	}

	return repo.aggregateGroups(ctx, pipeline, "category")
}

// SumViews sums the view counters across all properties.
func (repo *propertyRepository) SumViews(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$views"},
		}}},
	}

	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum views")
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, errors.Wrap(err, "failed to decode view sum")
	}
	if len(results) == 0 {
		return 0, nil
	}

	return results[0].Total, nil
}

// TopAgents rolls up listing count and sold-price revenue per agent,
// descending by revenue then count.
func (repo *propertyRepository) TopAgents(ctx context.Context, limit int64) ([]repository.AgentTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$agentId",
			"count": bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": bson.M{"$cond": []any{
				bson.M{"$eq": []any{"$status", entity.StatusSold}},
				bson.M{"$ifNull": []any{"$price", 0}},
				0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}, {Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{
			"_id":     0,
			"agentId": "$_id",
			"count":   1,
			"revenue": 1,
		}}},
	}

	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate top agents")
	}
	defer cursor.Close(ctx)

	var totals []repository.AgentTotals
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, errors.Wrap(err, "failed to decode top agents")
	}

	return totals, nil
}

func (repo *propertyRepository) aggregateGroups(ctx context.Context, pipeline mongo.Pipeline, kind string) ([]repository.GroupCount, error) {
	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to aggregate properties by %s", kind)
	}
	defer cursor.Close(ctx)

	var groups []repository.GroupCount
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s groups", kind)
	}

	return groups, nil
}
