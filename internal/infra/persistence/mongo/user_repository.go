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

// agentSequenceID is the _id of the counter document backing agent identifiers.
const agentSequenceID = "agent_id"

// userRepository implements repository.UserRepository on MongoDB.
type userRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(client *Client) repository.UserRepository {
	return &userRepository{
		coll:     client.Users(),
		counters: client.Counters(),
	}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id bson.ObjectID) (*entity.User, error) {
	return repo.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, bson.M{"email": email})
}

// FindByVerificationToken retrieves the user holding the given email-verification token.
func (repo *userRepository) FindByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	return repo.findOne(ctx, bson.M{"emailVerification.token": token})
}

// FindByResetToken retrieves the user holding the given password-reset token.
func (repo *userRepository) FindByResetToken(ctx context.Context, token string) (*entity.User, error) {
	return repo.findOne(ctx, bson.M{"passwordReset.token": token})
}

func (repo *userRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var user entity.User
	if err := repo.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return &user, nil
}

// List returns users matching the filter, newest first.
func (repo *userRepository) List(ctx context.Context, filter repository.UserListFilter) ([]*entity.User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.PerPage > 0 {
		opts.SetLimit(filter.PerPage)
		if filter.Page > 1 {
			opts.SetSkip((filter.Page - 1) * filter.PerPage)
		}
	}

	cursor, err := repo.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	defer cursor.Close(ctx)

	var users []*entity.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "failed to decode users")
	}

	return users, nil
}

// Create persists a new user entity. The generated ID is written back onto the entity.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := repo.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}

		return errors.Wrap(err, "failed to insert user")
	}

	user.ID = result.InsertedID.(bson.ObjectID)

	return nil
}

// Update overwrites an existing user document.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	result, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return errors.Wrap(err, "failed to update user")
	}
	if result.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// Deactivate soft-deletes a user by clearing the isActive flag.
func (repo *userRepository) Deactivate(ctx context.Context, id bson.ObjectID) error {
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}}

	result, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.Wrap(err, "failed to deactivate user")
	}
	if result.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// RecordLogin atomically stamps the last-login time.
func (repo *userRepository) RecordLogin(ctx context.Context, id bson.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{"lastLoginAt": at}}

	if _, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return errors.Wrap(err, "failed to record login")
	}

	return nil
}

// CountActiveByRole counts active users holding the given role.
func (repo *userRepository) CountActiveByRole(ctx context.Context, role entity.Role) (int64, error) {
	count, err := repo.coll.CountDocuments(ctx, bson.M{"role": role, "isActive": true})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count users by role")
	}

	return count, nil
}

// NextAgentSequence atomically increments and returns the agent identifier
// sequence. The upsert creates the counter on first use, so the first call
// returns 1. This replaces deriving the sequence from a live document count,
// which races under concurrent agent creation.
func (repo *userRepository) NextAgentSequence(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := repo.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": agentSequenceID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, errors.Wrap(err, "failed to advance agent sequence")
	}

	return counter.Seq, nil
}
