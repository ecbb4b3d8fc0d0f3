// Package mongo contains the concrete implementation of the persistence layer
// using the official MongoDB driver.
package mongo

import (
	"context"
	"log/slog"
	"time"

	"estate/config"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/fx"
)

const (
	collUsers      = "users"
	collProperties = "properties"
	collDashboards = "dashboards"
	collCounters   = "counters"
)

// Client wraps the MongoDB connection and exposes the application's collections.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Params holds dependencies for the Mongo client, injected by Fx.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New connects to MongoDB, verifies the connection, and ensures indexes.
// Disconnection is registered on the Fx lifecycle.
func New(params Params) (*Client, error) {
	opts := options.Client().
		ApplyURI(params.Config.Mongo.URI).
		SetConnectTimeout(10 * time.Second)

	mongoClient, err := mongo.Connect(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to MongoDB")
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := mongoClient.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(err, "failed to ping MongoDB")
	}

	client := &Client{
		client: mongoClient,
		db:     mongoClient.Database(params.Config.Mongo.Database),
	}

	if err := client.ensureIndexes(pingCtx); err != nil {
		return nil, err
	}

	params.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Disconnecting from MongoDB")

			return errors.WithStack(mongoClient.Disconnect(ctx))
		},
	})

	return client, nil
}

// Users returns the users collection.
func (c *Client) Users() *mongo.Collection {
	return c.db.Collection(collUsers)
}

// Properties returns the properties collection.
func (c *Client) Properties() *mongo.Collection {
	return c.db.Collection(collProperties)
}

// Dashboards returns the dashboards collection.
func (c *Client) Dashboards() *mongo.Collection {
	return c.db.Collection(collDashboards)
}

// Counters returns the counters collection backing sequence generation.
func (c *Client) Counters() *mongo.Collection {
	return c.db.Collection(collCounters)
}

// ensureIndexes creates the indexes the application relies on: the unique
// email constraint, the unique dashboard type constraint, and the query paths
// used by listing filters and aggregations.
func (c *Client) ensureIndexes(ctx context.Context) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}, {Key: "isActive", Value: 1}},
		},
	}
	if _, err := c.Users().Indexes().CreateMany(ctx, userIndexes); err != nil {
		return errors.Wrap(err, "failed to create user indexes")
	}

	propertyIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "agentId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "views", Value: -1}}},
	}
	if _, err := c.Properties().Indexes().CreateMany(ctx, propertyIndexes); err != nil {
		return errors.Wrap(err, "failed to create property indexes")
	}

	// One dashboard document per type; GetOrCreate upserts against this.
	dashboardIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "type", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := c.Dashboards().Indexes().CreateOne(ctx, dashboardIndex); err != nil {
		return errors.Wrap(err, "failed to create dashboard index")
	}

	return nil
}
