package impl

import (
	"context"
	"log/slog"
	"time"

	"estate/config"
	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/usecase"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// propertyService implements the PropertyUsecase interface.
type propertyService struct {
	propertyRepo  repository.PropertyRepository
	dashboardRepo repository.DashboardRepository
	cfg           *config.Config
	logger        *slog.Logger
}

// NewPropertyService is the constructor for propertyService.
func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	dashboardRepo repository.DashboardRepository,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.PropertyUsecase {
	return &propertyService{
		propertyRepo:  propertyRepo,
		dashboardRepo: dashboardRepo,
		cfg:           cfg,
		logger:        logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *propertyService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateProperty creates a listing. The creator becomes both agent and owner
// unless the input names others, which only admins may do.
func (srv *propertyService) CreateProperty(ctx context.Context, requester usecase.Requester, input *usecase.PropertyInput) (*usecase.PropertyOutput, error) {
	property := &entity.Property{
		AgentID:  requester.UserID,
		OwnerID:  requester.UserID,
		IsActive: true,
	}
	if err := applyInput(property, input); err != nil {
		return nil, err
	}

	if input.AgentID != "" || input.OwnerID != "" {
		if requester.Role != entity.RoleAdmin {
			return nil, errors.Wrap(domainerrors.ErrForbidden, "only admins may assign listings to others")
		}
		if input.AgentID != "" {
			agentID, err := bson.ObjectIDFromHex(input.AgentID)
			if err != nil {
				return nil, errors.Wrap(domainerrors.ErrValidationFailed, "malformed agent id")
			}
			property.AgentID = agentID
		}
		if input.OwnerID != "" {
			ownerID, err := bson.ObjectIDFromHex(input.OwnerID)
			if err != nil {
				return nil, errors.Wrap(domainerrors.ErrValidationFailed, "malformed owner id")
			}
			property.OwnerID = ownerID
		}
	}

	if err := srv.propertyRepo.Create(ctx, property); err != nil {
		return nil, errors.Wrap(err, "failed to create property")
	}

	srv.log(ctx).Info("Property created", "propertyID", property.ID, "agentID", property.AgentID)

	srv.recordActivity(ctx, entity.Activity{
		Kind:       "property_listed",
		Message:    "New listing: " + property.Title,
		ActorID:    requester.UserID,
		OccurredAt: time.Now(),
	})

	return decorate(property), nil
}

// GetProperty returns one listing and bumps its view counter. The bump is
// atomic on the server so concurrent reads never lose counts.
func (srv *propertyService) GetProperty(ctx context.Context, id bson.ObjectID) (*usecase.PropertyOutput, error) {
	property, err := srv.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := srv.propertyRepo.IncrementViews(ctx, id); err != nil {
		// A lost view count is not worth failing the read.
		srv.log(ctx).Warn("Failed to increment views", "propertyID", id, "error", err)
	} else {
		property.Views++
	}

	return decorate(property), nil
}

// ListProperties returns listings matching the filter, newest first.
func (srv *propertyService) ListProperties(ctx context.Context, input *usecase.ListPropertiesInput) ([]*usecase.PropertyOutput, error) {
	filter := repository.PropertyListFilter{
		Country: input.Country,
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	if input.Status != "" {
		status := entity.PropertyStatus(input.Status)
		if !status.Valid() {
			return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown status %q", input.Status)
		}
		filter.Status = status
	}
	if input.Category != "" {
		category := entity.PropertyCategory(input.Category)
		if !category.Valid() {
			return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown category %q", input.Category)
		}
		filter.Category = category
	}

	properties, err := srv.propertyRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list properties")
	}

	outputs := make([]*usecase.PropertyOutput, 0, len(properties))
	for _, property := range properties {
		outputs = append(outputs, decorate(property))
	}

	return outputs, nil
}

// UpdateProperty overwrites a listing's editable fields. Owning agent or
// admin. Views, favorites, and ownership survive the overwrite.
func (srv *propertyService) UpdateProperty(ctx context.Context, requester usecase.Requester, id bson.ObjectID, input *usecase.PropertyInput) (*usecase.PropertyOutput, error) {
	property, err := srv.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeListingAccess(requester, property); err != nil {
		return nil, err
	}

	previousStatus := property.Status
	if err := applyInput(property, input); err != nil {
		return nil, err
	}

	if err := srv.propertyRepo.Update(ctx, property); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPropertyNotFound, "property disappeared during update")
		}

		return nil, errors.Wrap(err, "failed to update property")
	}

	if property.Status != previousStatus && (property.Status == entity.StatusSold || property.Status == entity.StatusRented) {
		srv.recordActivity(ctx, entity.Activity{
			Kind:       "property_" + string(property.Status),
			Message:    property.Title + " marked " + string(property.Status),
			ActorID:    requester.UserID,
			OccurredAt: time.Now(),
		})
	}

	srv.log(ctx).Info("Property updated", "propertyID", property.ID, "status", property.Status)

	return decorate(property), nil
}

// DeleteProperty hard-deletes a listing. Owning agent or admin.
func (srv *propertyService) DeleteProperty(ctx context.Context, requester usecase.Requester, id bson.ObjectID) error {
	property, err := srv.findProperty(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeListingAccess(requester, property); err != nil {
		return err
	}

	if err := srv.propertyRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return errors.Wrap(domainerrors.ErrPropertyNotFound, "property already deleted")
		}

		return errors.Wrap(err, "failed to delete property")
	}

	srv.log(ctx).Info("Property deleted", "propertyID", id, "by", requester.UserID)

	return nil
}

// AddFavorite adds the requester to the listing's favorited-by set. The set
// semantics make repeat calls idempotent.
func (srv *propertyService) AddFavorite(ctx context.Context, requester usecase.Requester, propertyID bson.ObjectID) error {
	if err := srv.propertyRepo.AddFavorite(ctx, propertyID, requester.UserID); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return errors.Wrap(domainerrors.ErrPropertyNotFound, "property not found")
		}

		return errors.Wrap(err, "failed to add favorite")
	}

	return nil
}

// RemoveFavorite removes the requester from the favorited-by set.
func (srv *propertyService) RemoveFavorite(ctx context.Context, requester usecase.Requester, propertyID bson.ObjectID) error {
	if err := srv.propertyRepo.RemoveFavorite(ctx, propertyID, requester.UserID); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return errors.Wrap(domainerrors.ErrPropertyNotFound, "property not found")
		}

		return errors.Wrap(err, "failed to remove favorite")
	}

	return nil
}

func (srv *propertyService) findProperty(ctx context.Context, id bson.ObjectID) (*entity.Property, error) {
	property, err := srv.propertyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPropertyNotFound, "property not found")
		}

		return nil, errors.Wrap(err, "failed to find property")
	}

	return property, nil
}

func (srv *propertyService) recordActivity(ctx context.Context, activity entity.Activity) {
	limit := srv.cfg.Dashboard.RecentActivityLimit
	if err := srv.dashboardRepo.AppendActivity(ctx, entity.DashboardAnalytics, activity, limit); err != nil {
		srv.log(ctx).Warn("Failed to record dashboard activity", "kind", activity.Kind, "error", err)
	}
}

// applyInput copies the editable fields onto the entity and normalizes them.
func applyInput(property *entity.Property, input *usecase.PropertyInput) error {
	status := entity.StatusAvailable
	if input.Status != "" {
		status = entity.PropertyStatus(input.Status)
		if !status.Valid() {
			return errors.Wrapf(domainerrors.ErrValidationFailed, "unknown status %q", input.Status)
		}
	}

	category := entity.PropertyCategory(input.Category)
	if !category.Valid() {
		return errors.Wrapf(domainerrors.ErrValidationFailed, "unknown category %q", input.Category)
	}

	if input.Price != nil && *input.Price < 0 {
		return errors.Wrap(domainerrors.ErrInvalidPrice, "price must not be negative")
	}

	property.Title = input.Title
	property.Description = input.Description
	property.Category = category
	property.PropertyFor = input.PropertyFor
	property.Status = status
	property.Price = input.Price
	property.Currency = input.Currency
	property.Location = input.Location
	property.Features = input.Features
	property.Images = input.Images
	property.AdditionalInfo = input.AdditionalInfo
	property.NormalizeImages()

	return nil
}

// authorizeListingAccess allows admins and the listing's agent through.
func authorizeListingAccess(requester usecase.Requester, property *entity.Property) error {
	if requester.Role == entity.RoleAdmin || property.AgentID == requester.UserID {
		return nil
	}

	return errors.Wrap(domainerrors.ErrPropertyOwnershipViolation, "listing belongs to another agent")
}

// decorate attaches the derived read-time fields to a listing.
func decorate(property *entity.Property) *usecase.PropertyOutput {
	return &usecase.PropertyOutput{
		Property:        property,
		FormattedPrice:  property.FormattedPrice(),
		PrimaryImageURL: property.PrimaryImageURL(),
		FullAddress:     property.FullAddress(),
	}
}
