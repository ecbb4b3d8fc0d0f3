package handler

import (
	"log/slog"
	"net/http"

	"estate/internal/delivery/http/middleware"
	"estate/internal/delivery/http/response"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserHandler holds dependencies for account management handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{uc: uc, logger: logger}
}

// List returns users matching the query filter. Admin only.
func (h *UserHandler) List(c echo.Context) error {
	var input usecase.ListUsersInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing filter")
	}

	users, err := h.uc.ListUsers(c.Request().Context(), middleware.RequesterFrom(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users, "")
}

// Get returns a single account.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.GetUser(c.Request().Context(), middleware.RequesterFrom(c), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "")
}

// Update edits an account's profile fields.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var input usecase.UpdateUserInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid update input")
	}

	user, err := h.uc.UpdateUser(c.Request().Context(), middleware.RequesterFrom(c), id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Profile updated")
}

// Deactivate soft-deletes an account. Admin only.
func (h *UserHandler) Deactivate(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeactivateUser(c.Request().Context(), middleware.RequesterFrom(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Account deactivated")
}

// CreateAgent creates an agent account. Admin only.
func (h *UserHandler) CreateAgent(c echo.Context) error {
	var input usecase.CreateAgentInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid agent input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	agent, err := h.uc.CreateAgent(c.Request().Context(), middleware.RequesterFrom(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, agent, "Agent created")
}

// pathObjectID parses an ObjectID path parameter.
func pathObjectID(c echo.Context, name string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return bson.ObjectID{}, errors.Wrapf(domainerrors.ErrValidationFailed, "malformed %s parameter", name)
	}

	return id, nil
}
