// Package handlers provides HTTP request handlers for the storefront API.
package handlers

import (
	"context"

	"github.com/yasinhessnawi1/storefront/internal/models"
)

// AuthServiceInterface defines the methods required from the authentication service.
type AuthServiceInterface interface {
	// ObtainTokens exchanges a username and password for an access and refresh token.
	ObtainTokens(ctx context.Context, req *models.TokenObtainRequest) (*models.TokenPair, error)

	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, req *models.TokenRefreshRequest) (*models.AccessToken, error)
}

// PasswordResetServiceInterface defines the methods required from the password reset service.
type PasswordResetServiceInterface interface {
	// RequestReset mails reset links for every eligible account using email.
	// Unknown addresses are not an error.
	RequestReset(ctx context.Context, email string) error

	// ConfirmReset verifies a uid and token and stores the new password.
	ConfirmReset(ctx context.Context, req *models.PasswordResetConfirm) error
}

// CatalogServiceInterface defines the methods required from the catalog service.
type CatalogServiceInterface interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, in *models.CategoryCreate) (*models.Category, error)
	ReplaceCategory(ctx context.Context, id int64, in *models.CategoryCreate) (*models.Category, error)
	PatchCategory(ctx context.Context, id int64, in *models.CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListCategoryProducts(ctx context.Context, categoryID int64) ([]*models.Product, error)

	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, in *models.ProductCreate) (*models.Product, error)
	ReplaceProduct(ctx context.Context, id int64, in *models.ProductCreate) (*models.Product, error)
	PatchProduct(ctx context.Context, id int64, in *models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// AdminServiceInterface defines the methods required from the admin service.
type AdminServiceInterface interface {
	// Overview counts users, categories and products.
	Overview(ctx context.Context) (*models.AdminOverview, error)

	// Health reports whether the application can serve requests.
	Health(ctx context.Context) (*models.HealthStatus, bool)

	// Version returns the running application version.
	Version() string
}
