package handlers

import (
	"net/http"

	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// AdminHandler serves the API root, the admin overview and the health check endpoints.
type AdminHandler struct {
	adminService AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService AdminServiceInterface) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// APIRoot lists the browsable collections as absolute URLs.
func (h *AdminHandler) APIRoot(w http.ResponseWriter, r *http.Request) {
	base := requestBaseURL(r)
	utils.JSON(w, http.StatusOK, map[string]string{
		constants.CategoriesResourceName: base + constants.CategoriesBasePath,
		constants.ProductsResourceName:   base + constants.ProductsBasePath,
	})
}

// Overview returns row counts for staff users.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.adminService.Overview(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, overview)
}

// Health answers 200 while the database is reachable and 503 otherwise.
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, healthy := h.adminService.Health(r.Context())
	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	utils.SendJSON(w, code, status)
}

// Version reports the running application version.
func (h *AdminHandler) Version(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, http.StatusOK, map[string]string{"version": h.adminService.Version()})
}

// requestBaseURL rebuilds scheme://host for the current request.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
