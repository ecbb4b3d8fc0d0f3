// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"time"

	"estate/internal/domain/entity"
	"estate/internal/errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when a create collides with the unique email index.
var ErrDuplicateEmail = errors.New("email already registered")

// UserListFilter narrows a user listing. Zero values mean "no constraint".
type UserListFilter struct {
	Role     entity.Role
	IsActive *bool
	Page     int64
	PerPage  int64
}

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id bson.ObjectID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByVerificationToken retrieves the user holding the given
	// email-verification token.
	FindByVerificationToken(ctx context.Context, token string) (*entity.User, error)

	// FindByResetToken retrieves the user holding the given password-reset token.
	FindByResetToken(ctx context.Context, token string) (*entity.User, error)

	// List returns users matching the filter, newest first.
	List(ctx context.Context, filter UserListFilter) ([]*entity.User, error)

	// Create persists a new user entity. The generated ID is written back onto
	// the entity. Returns ErrDuplicateEmail on a unique-index collision.
	Create(ctx context.Context, user *entity.User) error

	// Update overwrites an existing user document.
	Update(ctx context.Context, user *entity.User) error

	// Deactivate soft-deletes a user by clearing the isActive flag.
	Deactivate(ctx context.Context, id bson.ObjectID) error

	// RecordLogin atomically stamps the last-login time.
	RecordLogin(ctx context.Context, id bson.ObjectID, at time.Time) error

	// CountActiveByRole counts active users holding the given role.
	CountActiveByRole(ctx context.Context, role entity.Role) (int64, error)

	// NextAgentSequence atomically increments and returns the agent identifier
	// sequence. The first call returns 1.
	NextAgentSequence(ctx context.Context) (int64, error)
}
