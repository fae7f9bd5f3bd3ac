package handlers

import (
	"net/http"

	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// CatalogHandler serves the category and product endpoints. Permission
// checks happen in middleware before these handlers run.
type CatalogHandler struct {
	catalogService CatalogServiceInterface
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListCategories returns all categories with their products.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, categories)
}

// GetCategory returns one category.
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	category, err := h.catalogService.GetCategory(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, category)
}

// CreateCategory stores a new category.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryCreate
	if err := utils.DecodeAndValidate(r, &in); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), &in)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusCreated, category)
}

// ReplaceCategory handles PUT: every writable field is required.
func (h *CatalogHandler) ReplaceCategory(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var in models.CategoryCreate
	if err := utils.DecodeAndValidate(r, &in); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	category, err := h.catalogService.ReplaceCategory(r.Context(), id, &in)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, category)
}

// PatchCategory handles PATCH: only supplied fields change.
func (h *CatalogHandler) PatchCategory(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var in models.CategoryPatch
	if err := utils.DecodeAndValidate(r, &in); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	category, err := h.catalogService.PatchCategory(r.Context(), id, &in)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, category)
}

// DeleteCategory removes a category and its products.
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.NoContent(w)
}

// ListCategoryProducts returns the products of one category.
func (h *CatalogHandler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	products, err := h.catalogService.ListCategoryProducts(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, products)
}

// ListProducts returns all products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, products)
}

// GetProduct returns one product.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

// CreateProduct stores a new product.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.ProductCreate
	if err := utils.DecodeAndValidate(r, &in); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), &in)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusCreated, product)
}

// ReplaceProduct handles PUT on a product.
func (h *CatalogHandler) ReplaceProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var in models.ProductCreate
	if err := utils.DecodeAndValidate(r, &in); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	product, err := h.catalogService.ReplaceProduct(r.Context(), id, &in)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

// PatchProduct handles PATCH on a product.
func (h *CatalogHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var in models.ProductPatch
	if err := utils.DecodeAndValidate(r, &in); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	product, err := h.catalogService.PatchProduct(r.Context(), id, &in)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product.
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.NoContent(w)
}
