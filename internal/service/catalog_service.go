package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/repository"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// CatalogService handles category and product operations.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// ListCategories returns every category with its products.
func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns one category with its products.
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// CreateCategory stores a new category.
func (s *CatalogService) CreateCategory(ctx context.Context, in *models.CategoryCreate) (*models.Category, error) {
	category := &models.Category{Products: []models.Product{}}
	in.Apply(category)

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ReplaceCategory overwrites every writable field of a category.
func (s *CatalogService) ReplaceCategory(ctx context.Context, id int64, in *models.CategoryCreate) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(category)
	return s.saveCategory(ctx, category)
}

// PatchCategory updates only the supplied fields of a category.
func (s *CatalogService) PatchCategory(ctx context.Context, id int64, in *models.CategoryPatch) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(category)
	return s.saveCategory(ctx, category)
}

// saveCategory writes the category and reads it back with its products.
func (s *CatalogService) saveCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return s.categoryRepo.GetByID(ctx, category.ID)
}

// DeleteCategory removes a category and all of its products.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categoryRepo.Delete(ctx, id)
}

// ListCategoryProducts returns the products of one category. An unknown
// category is a not-found rather than an empty list.
func (s *CatalogService) ListCategoryProducts(ctx context.Context, categoryID int64) ([]*models.Product, error) {
	exists, err := s.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, utils.NewNotFoundError("Category", categoryID)
	}

	products, err := s.productRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListProducts returns every product.
func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct returns one product.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// CreateProduct stores a new product under an existing category.
func (s *CatalogService) CreateProduct(ctx context.Context, in *models.ProductCreate) (*models.Product, error) {
	product := &models.Product{}
	in.Apply(product)

	if err := s.requireCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, categoryViolation(err, product.CategoryID)
	}
	return product, nil
}

// ReplaceProduct overwrites every writable field of a product.
func (s *CatalogService) ReplaceProduct(ctx context.Context, id int64, in *models.ProductCreate) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(product)
	return s.saveProduct(ctx, product)
}

// PatchProduct updates only the supplied fields of a product.
func (s *CatalogService) PatchProduct(ctx context.Context, id int64, in *models.ProductPatch) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(product)
	return s.saveProduct(ctx, product)
}

func (s *CatalogService) saveProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.requireCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, categoryViolation(err, product.CategoryID)
	}
	return product, nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id)
}

// requireCategory rejects a product write that points at a missing category.
func (s *CatalogService) requireCategory(ctx context.Context, categoryID int64) error {
	exists, err := s.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return unknownCategoryError(categoryID)
	}
	return nil
}

// categoryViolation turns a foreign key failure, raised when the category is
// deleted between the existence check and the write, into the same field
// error as a missing category.
func categoryViolation(err error, categoryID int64) error {
	if parsed := utils.ParseError(err); errors.Is(parsed, utils.ErrBadRequest) {
		return unknownCategoryError(categoryID)
	}
	return err
}

func unknownCategoryError(categoryID int64) error {
	return utils.NewValidationError("category", fmt.Sprintf(constants.MsgUnknownCategory, categoryID))
}
