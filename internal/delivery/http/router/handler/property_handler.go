package handler

import (
	"log/slog"
	"net/http"

	"estate/internal/delivery/http/middleware"
	"estate/internal/delivery/http/response"
	"estate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PropertyHandler holds dependencies for listing management handlers.
type PropertyHandler struct {
	uc     usecase.PropertyUsecase
	logger *slog.Logger
}

// NewPropertyHandler is the constructor for PropertyHandler, injected by Fx.
func NewPropertyHandler(uc usecase.PropertyUsecase, logger *slog.Logger) *PropertyHandler {
	return &PropertyHandler{uc: uc, logger: logger}
}

// Create publishes a new listing. Agent or admin.
func (h *PropertyHandler) Create(c echo.Context) error {
	var input usecase.PropertyInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid property input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.CreateProperty(c.Request().Context(), middleware.RequesterFrom(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Property created")
}

// Get returns one listing and counts the view.
func (h *PropertyHandler) Get(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.GetProperty(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// List returns listings matching the query filter.
func (h *PropertyHandler) List(c echo.Context) error {
	var input usecase.ListPropertiesInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing filter")
	}

	outputs, err := h.uc.ListProperties(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, outputs, "")
}

// Update overwrites a listing. Owning agent or admin.
func (h *PropertyHandler) Update(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var input usecase.PropertyInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid property input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.UpdateProperty(c.Request().Context(), middleware.RequesterFrom(c), id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Property updated")
}

// Delete removes a listing. Owning agent or admin.
func (h *PropertyHandler) Delete(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeleteProperty(c.Request().Context(), middleware.RequesterFrom(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Property deleted")
}

// Favorite adds the caller to the listing's favorited-by set.
func (h *PropertyHandler) Favorite(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.AddFavorite(c.Request().Context(), middleware.RequesterFrom(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Property favorited")
}

// Unfavorite removes the caller from the listing's favorited-by set.
func (h *PropertyHandler) Unfavorite(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.RemoveFavorite(c.Request().Context(), middleware.RequesterFrom(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Favorite removed")
}
