package middleware

import (
	"net/http"
	"slices"
	"strings"

	"estate/internal/domain/entity"
	"estate/internal/domain/service"
	"estate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// keyRequester is the echo context key holding the authenticated caller.
const keyRequester = "requester"

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the Bearer access token and stores the caller's
// identity on the context for handlers to use.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set(keyRequester, usecase.Requester{
			UserID: claims.UserID,
			Role:   claims.Role,
		})

		return next(c)
	}
}

// RequireRole only lets callers holding one of the given roles through.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requester, ok := c.Get(keyRequester).(usecase.Requester)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Permission denied: identity missing")
			}

			if !slices.Contains(roles, requester.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "Permission denied: insufficient role")
			}

			return next(c)
		}
	}
}

// RequesterFrom returns the authenticated caller stored by Authenticate.
// The zero Requester means the route ran without authentication.
func RequesterFrom(c echo.Context) usecase.Requester {
	requester, _ := c.Get(keyRequester).(usecase.Requester)

	return requester
}
