package service

import (
	"estate/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Claims defines the custom claims carried by the platform's JWTs.
type Claims struct {
	UserID bson.ObjectID
	Role   entity.Role
	Type   string // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a given user.
	GenerateTokens(userID bson.ObjectID, role entity.Role) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken checks an access token and returns its claims.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks a refresh token and returns its claims.
	ValidateRefreshToken(tokenString string) (*Claims, error)
}
