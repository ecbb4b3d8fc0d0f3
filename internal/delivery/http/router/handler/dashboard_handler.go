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

// DashboardHandler holds dependencies for the analytics handlers.
type DashboardHandler struct {
	uc     usecase.DashboardUsecase
	logger *slog.Logger
}

// NewDashboardHandler is the constructor for DashboardHandler, injected by Fx.
func NewDashboardHandler(uc usecase.DashboardUsecase, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, logger: logger}
}

// Stats refreshes and returns the global roll-ups.
func (h *DashboardHandler) Stats(c echo.Context) error {
	output, err := h.uc.GetStats(c.Request().Context(), middleware.RequesterFrom(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// Analytics refreshes and returns the full analytics view.
func (h *DashboardHandler) Analytics(c echo.Context) error {
	var input usecase.AnalyticsInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid analytics query")
	}

	output, err := h.uc.GetAnalytics(c.Request().Context(), middleware.RequesterFrom(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// AgentDashboard returns the agent-scoped view.
func (h *DashboardHandler) AgentDashboard(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.GetAgentDashboard(c.Request().Context(), middleware.RequesterFrom(c), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// CustomerDashboard returns the customer-scoped view.
func (h *DashboardHandler) CustomerDashboard(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.GetCustomerDashboard(c.Request().Context(), middleware.RequesterFrom(c), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}
