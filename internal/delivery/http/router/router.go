// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"estate/internal/delivery/http/middleware"
	"estate/internal/delivery/http/router/handler"
	"estate/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	PropertyHandler  *handler.PropertyHandler
	DashboardHandler *handler.DashboardHandler
	UploadHandler    *handler.UploadHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	auth := r.params.AuthMiddleware

	e.GET("/health", handler.HealthCheck)

	// Auth routes, all public.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.params.AuthHandler.Signup)
		authGroup.POST("/signin", r.params.AuthHandler.Signin)
		authGroup.POST("/refresh", r.params.AuthHandler.Refresh)
		authGroup.POST("/verify-email", r.params.AuthHandler.VerifyEmail)
		authGroup.POST("/forgot-password", r.params.AuthHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.params.AuthHandler.ResetPassword)
	}

	api := e.Group("/api")

	// Property routes. Reads are public; writes need an agent or admin, and
	// favorites need any signed-in account.
	propertyGroup := api.Group("/properties")
	{
		propertyGroup.GET("", r.params.PropertyHandler.List)
		propertyGroup.GET("/:id", r.params.PropertyHandler.Get)

		propertyGroup.POST("", r.params.PropertyHandler.Create,
			auth.Authenticate, auth.RequireRole(entity.RoleAgent, entity.RoleAdmin))
		propertyGroup.PUT("/:id", r.params.PropertyHandler.Update,
			auth.Authenticate, auth.RequireRole(entity.RoleAgent, entity.RoleAdmin))
		propertyGroup.DELETE("/:id", r.params.PropertyHandler.Delete,
			auth.Authenticate, auth.RequireRole(entity.RoleAgent, entity.RoleAdmin))

		propertyGroup.POST("/:id/favorite", r.params.PropertyHandler.Favorite, auth.Authenticate)
		propertyGroup.DELETE("/:id/favorite", r.params.PropertyHandler.Unfavorite, auth.Authenticate)
	}

	// Account routes. Listing, deactivation, and agent creation are
	// admin-only; get and update do their own self-or-admin checks.
	userGroup := api.Group("/users")
	userGroup.Use(auth.Authenticate)
	{
		userGroup.GET("", r.params.UserHandler.List, auth.RequireRole(entity.RoleAdmin))
		userGroup.GET("/:id", r.params.UserHandler.Get)
		userGroup.PUT("/:id", r.params.UserHandler.Update)
		userGroup.DELETE("/:id", r.params.UserHandler.Deactivate, auth.RequireRole(entity.RoleAdmin))
		userGroup.POST("/agents", r.params.UserHandler.CreateAgent, auth.RequireRole(entity.RoleAdmin))
	}

	// Dashboard routes. The global views are staff-only; the scoped views
	// enforce ownership in the usecase.
	dashboardGroup := api.Group("/dashboard")
	dashboardGroup.Use(auth.Authenticate)
	{
		dashboardGroup.GET("/stats", r.params.DashboardHandler.Stats,
			auth.RequireRole(entity.RoleAgent, entity.RoleAdmin))
		dashboardGroup.GET("/analytics", r.params.DashboardHandler.Analytics,
			auth.RequireRole(entity.RoleAgent, entity.RoleAdmin))
		dashboardGroup.GET("/agent/:id", r.params.DashboardHandler.AgentDashboard)
		dashboardGroup.GET("/customer/:id", r.params.DashboardHandler.CustomerDashboard)
	}

	api.POST("/upload", r.params.UploadHandler.Upload,
		auth.Authenticate, auth.RequireRole(entity.RoleAgent, entity.RoleAdmin))
}
