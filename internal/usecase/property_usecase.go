package usecase

import (
	"context"

	"estate/internal/domain/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PropertyInput defines the full set of listing fields. Updates are
// full-field overwrites, so create and update share this shape.
type PropertyInput struct {
	Title       string                 `json:"title" validate:"required"`
	Description string                 `json:"description"`
	Category    string                 `json:"category" validate:"required"`
	PropertyFor string                 `json:"propertyFor"`
	Status      string                 `json:"status"`
	Price       *float64               `json:"price" validate:"omitempty,gte=0"`
	Currency    string                 `json:"currency"`
	Location    entity.Location        `json:"location"`
	Features    entity.Features        `json:"features"`
	Images      []entity.PropertyImage `json:"images"`
	AgentID     string                 `json:"agentId"`
	OwnerID     string                 `json:"ownerId"`

	AdditionalInfo map[string]any `json:"additionalInfo"`
}

// ListPropertiesInput narrows the public property listing.
type ListPropertiesInput struct {
	Status   string `query:"status"`
	Category string `query:"category"`
	Country  string `query:"country"`
	Page     int64  `query:"page"`
	PerPage  int64  `query:"perPage"`
}

// PropertyOutput decorates a listing with its derived read-time fields.
type PropertyOutput struct {
	*entity.Property
	FormattedPrice  string `json:"formattedPrice,omitempty"`
	PrimaryImageURL string `json:"primaryImageUrl,omitempty"`
	FullAddress     string `json:"fullAddress,omitempty"`
}

// PropertyUsecase defines the interface for listing management operations.
type PropertyUsecase interface {
	// CreateProperty creates a listing. The creator becomes both agent and
	// owner unless the input names others (admin only).
	CreateProperty(ctx context.Context, requester Requester, input *PropertyInput) (*PropertyOutput, error)

	// GetProperty returns one listing and atomically bumps its view counter.
	GetProperty(ctx context.Context, id bson.ObjectID) (*PropertyOutput, error)

	// ListProperties returns listings matching the filter, newest first.
	ListProperties(ctx context.Context, input *ListPropertiesInput) ([]*PropertyOutput, error)

	// UpdateProperty overwrites a listing. Owning agent or admin.
	UpdateProperty(ctx context.Context, requester Requester, id bson.ObjectID, input *PropertyInput) (*PropertyOutput, error)

	// DeleteProperty hard-deletes a listing. Owning agent or admin.
	DeleteProperty(ctx context.Context, requester Requester, id bson.ObjectID) error

	// AddFavorite adds the requester to the listing's favorited-by set.
	AddFavorite(ctx context.Context, requester Requester, propertyID bson.ObjectID) error

	// RemoveFavorite removes the requester from the favorited-by set.
	RemoveFavorite(ctx context.Context, requester Requester, propertyID bson.ObjectID) error
}
