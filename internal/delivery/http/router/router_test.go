package router

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"estate/internal/delivery/http/middleware"
	"estate/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes_APIPrefix(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	params := RouterParams{
		AuthHandler:      handler.NewAuthHandler(nil, logger),
		UserHandler:      handler.NewUserHandler(nil, logger),
		PropertyHandler:  handler.NewPropertyHandler(nil, logger),
		DashboardHandler: handler.NewDashboardHandler(nil, logger),
		UploadHandler:    handler.NewUploadHandler(nil, logger),
		AuthMiddleware:   middleware.NewAuthMiddleware(nil),
	}

	e := echo.New()
	NewRouter(params).RegisterRoutes(e)

	registered := make(map[string]bool)
	for _, route := range e.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		http.MethodGet + " /health",
		http.MethodPost + " /auth/signup",
		http.MethodPost + " /auth/signin",
		http.MethodGet + " /api/properties",
		http.MethodGet + " /api/properties/:id",
		http.MethodPost + " /api/properties",
		http.MethodPost + " /api/properties/:id/favorite",
		http.MethodGet + " /api/users",
		http.MethodPost + " /api/users/agents",
		http.MethodGet + " /api/dashboard/stats",
		http.MethodGet + " /api/dashboard/analytics",
		http.MethodGet + " /api/dashboard/agent/:id",
		http.MethodGet + " /api/dashboard/customer/:id",
		http.MethodPost + " /api/upload",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
