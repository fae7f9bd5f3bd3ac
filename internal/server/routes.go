package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/middleware"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// SetupRoutes configures the routes for the application.
//
// Every request passes through auth.Identify, which attaches the caller when a
// bearer token is present. Permission checks run per route through
// middleware.Authorize. Paths that match no route are handed to the client
// application.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	r.Use(corsMiddleware(s.Config.CORS.AllowedOrigins, s.Config.CORS.AllowCredentials))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(chimiddleware.GetHead)
	r.Use(auth.Identify(auth.NewJWTAuthProvider(s.jwtService, s.users)))

	h := s.Handlers

	// Health checks
	r.Get(constants.HealthPath, h.AdminHandler.Health)
	r.Get(constants.VersionPath, h.AdminHandler.Version)

	r.Get(constants.APIRootPath, h.AdminHandler.APIRoot)
	r.With(middleware.Authorize(auth.OpAdminView)).Get(constants.AdminPath, h.AdminHandler.Overview)

	// Tokens
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.security, constants.RateLimitCategoryAuth))
		r.Post(constants.TokenObtainPath, h.AuthHandler.ObtainToken)
		r.Post(constants.TokenRefreshPath, h.AuthHandler.RefreshToken)
	})

	// Password reset
	r.With(middleware.RateLimit(s.security, constants.RateLimitCategoryReset)).
		Post(constants.PasswordResetPath, h.PasswordResetHandler.RequestReset)
	r.Post(constants.PasswordResetConfirmPath, h.PasswordResetHandler.ConfirmReset)

	// Catalog: reads are public, writes need staff
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthorizeByMethod())

		r.Get(constants.CategoriesBasePath, h.CatalogHandler.ListCategories)
		r.Post(constants.CategoriesBasePath, h.CatalogHandler.CreateCategory)
		r.Get(constants.CategoryDetailPath, h.CatalogHandler.GetCategory)
		r.Put(constants.CategoryDetailPath, h.CatalogHandler.ReplaceCategory)
		r.Patch(constants.CategoryDetailPath, h.CatalogHandler.PatchCategory)
		r.Delete(constants.CategoryDetailPath, h.CatalogHandler.DeleteCategory)
		r.Get(constants.CategoryProductsPath, h.CatalogHandler.ListCategoryProducts)

		r.Get(constants.ProductsBasePath, h.CatalogHandler.ListProducts)
		r.Post(constants.ProductsBasePath, h.CatalogHandler.CreateProduct)
		r.Get(constants.ProductDetailPath, h.CatalogHandler.GetProduct)
		r.Put(constants.ProductDetailPath, h.CatalogHandler.ReplaceProduct)
		r.Patch(constants.ProductDetailPath, h.CatalogHandler.PatchProduct)
		r.Delete(constants.ProductDetailPath, h.CatalogHandler.DeleteProduct)
	})

	r.NotFound(h.SPAHandler.ServeHTTP)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w)
	})

	s.router = r
}

// GetRouter returns the router
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// corsMiddleware answers preflight requests and tags responses for allowed
// origins. A "*" entry allows every origin.
func corsMiddleware(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !originAllowed(allowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			if allowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "300")
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func originAllowed(allowedOrigins []string, origin string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
