package constants

// Base Routes
const (
	APIBasePath   = "/api"
	APIRootPath   = "/api/"
	AdminPath     = "/admin/"
	HealthPath    = "/health"
	VersionPath   = "/version"
	ResetLinkPath = "/reset-password/%s/%s/"
)

// Token Routes
const (
	TokenObtainPath  = "/api/token/"
	TokenRefreshPath = "/api/token/refresh/"
)

// Password Reset Routes
const (
	PasswordResetPath        = "/api/password-reset/"
	PasswordResetConfirmPath = "/api/password-reset-confirm/"
)

// Catalog Routes
const (
	CategoriesBasePath     = "/api/categories/"
	CategoryDetailPath     = "/api/categories/{id}/"
	CategoryProductsPath   = "/api/categories/{id}/products/"
	ProductsBasePath       = "/api/products/"
	ProductDetailPath      = "/api/products/{id}/"
	CategoriesResourceName = "categories"
	ProductsResourceName   = "products"
)

// URL Parameters
const (
	ParamID = "id"
)
