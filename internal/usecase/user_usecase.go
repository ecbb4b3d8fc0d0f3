package usecase

import (
	"context"

	"estate/internal/domain/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Requester identifies the authenticated caller for authorization decisions.
type Requester struct {
	UserID bson.ObjectID
	Role   entity.Role
}

// CreateAgentInput defines the data required for an admin to create an agent
// account. The sequential agent identifier is assigned by the service.
type CreateAgentInput struct {
	Name            string   `json:"name" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	Phone           string   `json:"phone"`
	Specializations []string `json:"specializations"`
	ExperienceYears int      `json:"experienceYears" validate:"gte=0"`
	Commission      float64  `json:"commission" validate:"gte=0"`
}

// UpdateUserInput defines the editable profile fields. Nil means unchanged.
type UpdateUserInput struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	ProfileImage *string `json:"profileImage"`
}

// ListUsersInput narrows the admin user listing.
type ListUsersInput struct {
	Role    string `query:"role"`
	Page    int64  `query:"page"`
	PerPage int64  `query:"perPage"`
}

// UserUsecase defines the interface for account management operations.
type UserUsecase interface {
	// ListUsers returns users matching the filter. Admin only.
	ListUsers(ctx context.Context, requester Requester, input *ListUsersInput) ([]*entity.User, error)

	// GetUser returns a single account. Self-service or admin.
	GetUser(ctx context.Context, requester Requester, id bson.ObjectID) (*entity.User, error)

	// UpdateUser edits profile fields. Self-service or admin.
	UpdateUser(ctx context.Context, requester Requester, id bson.ObjectID, input *UpdateUserInput) (*entity.User, error)

	// DeactivateUser soft-deletes an account. Admin only; there is no hard
	// delete path for users.
	DeactivateUser(ctx context.Context, requester Requester, id bson.ObjectID) error

	// CreateAgent creates an agent account with the next sequential agent
	// identifier. Admin only.
	CreateAgent(ctx context.Context, requester Requester, input *CreateAgentInput) (*entity.User, error)
}
