package auth

import (
	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/models"
)

// JWTValidator defines the interface for JWT validation
type JWTValidator interface {
	// ValidateToken validates a JWT token and returns its claims if valid
	ValidateToken(tokenString string, expectedType string) (*CustomClaims, error)

	// GetConfig returns the JWT settings configuration
	GetConfig() *config.JWTSettings
}

// TokenIssuer is implemented by services that mint access and refresh tokens.
type TokenIssuer interface {
	JWTValidator
	GenerateAccessToken(user *models.User) (string, string, error)
	GenerateRefreshToken(user *models.User) (string, string, error)
}

var _ TokenIssuer = (*JWTService)(nil)
