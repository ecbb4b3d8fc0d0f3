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

// dashboardRepository implements repository.DashboardRepository on MongoDB.
type dashboardRepository struct {
	coll *mongo.Collection
}

// NewDashboardRepository is the constructor for dashboardRepository.
func NewDashboardRepository(client *Client) repository.DashboardRepository {
	return &dashboardRepository{coll: client.Dashboards()}
}

// GetOrCreate returns the single dashboard document for the given type. The
// $setOnInsert upsert is atomic, so two concurrent first requests resolve to
// the same document instead of racing a find-then-insert.
func (repo *dashboardRepository) GetOrCreate(ctx context.Context, dashboardType entity.DashboardType) (*entity.Dashboard, error) {
	update := bson.M{
		"$setOnInsert": bson.M{
			"type":        dashboardType,
			"statistics":  entity.Statistics{},
			"charts":      entity.Charts{},
			"lastUpdated": time.Now(),
		},
	}

	var dashboard entity.Dashboard
	err := repo.coll.FindOneAndUpdate(ctx,
		bson.M{"type": dashboardType},
		update,
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&dashboard)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get or create dashboard")
	}

	return &dashboard, nil
}

// AppendActivity prepends an activity entry to the recent-activity log.
// $push with $position 0 and $slice keeps the log newest-first and bounded in
// a single atomic update.
func (repo *dashboardRepository) AppendActivity(ctx context.Context, dashboardType entity.DashboardType, activity entity.Activity, limit int) error {
	if _, err := repo.GetOrCreate(ctx, dashboardType); err != nil {
		return err
	}

	update := bson.M{
		"$push": bson.M{
			"recentActivity": bson.M{
				"$each":     []entity.Activity{activity},
				"$position": 0,
				"$slice":    limit,
			},
		},
		"$set": bson.M{"lastUpdated": time.Now()},
	}

	if _, err := repo.coll.UpdateOne(ctx, bson.M{"type": dashboardType}, update); err != nil {
		return errors.Wrap(err, "failed to append dashboard activity")
	}

	return nil
}

// Save overwrites the dashboard document and bumps its lastUpdated stamp.
func (repo *dashboardRepository) Save(ctx context.Context, dashboard *entity.Dashboard) error {
	dashboard.LastUpdated = time.Now()

	result, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": dashboard.ID}, dashboard)
	if err != nil {
		return errors.Wrap(err, "failed to save dashboard")
	}
	if result.MatchedCount == 0 {
		return errors.New("dashboard document disappeared during save")
	}

	return nil
}
