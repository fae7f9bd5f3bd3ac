package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/database"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// CategoryRepository defines methods for interacting with catalog categories.
// Categories returned by reads carry their products.
type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// SQLCategoryRepository implements CategoryRepository over database/sql.
type SQLCategoryRepository struct {
	db *database.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *database.Pool) CategoryRepository {
	return &SQLCategoryRepository{
		db: db,
	}
}

const categoryColumns = `id, name, image, created_at`

func scanCategory(row rowScanner) (*models.Category, error) {
	category := &models.Category{Products: []models.Product{}}
	if err := row.Scan(&category.ID, &category.Name, &category.Image, &category.CreatedAt); err != nil {
		return nil, err
	}
	return category, nil
}

// List returns every category in id order with its products attached.
func (r *SQLCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	// Start query timer
	startTime := time.Now()

	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)

	// Log the query execution
	utils.LogDBQuery(query, nil, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer closeRows(rows)

	categories := []*models.Category{}
	byID := make(map[int64]*models.Category)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
		byID[category.ID] = category
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	if len(categories) == 0 {
		return categories, nil
	}

	// Attach products with a single query instead of one per category
	products, err := queryProducts(ctx, r.db, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if category, ok := byID[p.CategoryID]; ok {
			category.Products = append(category.Products, *p)
		}
	}

	return categories, nil
}

// GetByID retrieves a category and its products
func (r *SQLCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`)
	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))

	// Log the query execution
	utils.LogDBQuery(query, []any{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Category", id)
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}

	// Load the nested products
	products, err := queryProducts(ctx, r.db,
		r.db.Rebind(`SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY id`), id)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		category.Products = append(category.Products, *p)
	}

	return category, nil
}

// Create adds a new category
func (r *SQLCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	// Start query timer
	startTime := time.Now()
	category.CreatedAt = time.Now()

	query := `INSERT INTO categories (name, image, created_at) VALUES ($1, $2, $3)`
	id, err := insertReturningID(ctx, r.db, r.db, query, category.Name, category.Image, category.CreatedAt)

	// Log the query execution
	utils.LogDBQuery(query, []any{category.Name, category.Image}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	category.ID = id
	if category.Products == nil {
		category.Products = []models.Product{}
	}

	log.Info().Int64("category_id", id).Str("name", category.Name).Msg("Category created")
	return nil
}

// Update overwrites the stored name and image
func (r *SQLCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`UPDATE categories SET name = $1, image = $2 WHERE id = $3`)
	result, err := r.db.ExecContext(ctx, query, category.Name, category.Image, category.ID)

	// Log the query execution
	utils.LogDBQuery(query, []any{category.Name, category.Image, category.ID}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireAffected(result, "Category", category.ID)
}

// Delete removes a category together with its products in one transaction.
func (r *SQLCategoryRepository) Delete(ctx context.Context, id int64) error {
	// Start query timer
	startTime := time.Now()
	var removedProducts int64

	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		// Children first so the foreign key never points at a missing row
		result, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE category_id = $1`), id)
		if err != nil {
			return fmt.Errorf("failed to delete category products: %w", err)
		}
		if removedProducts, err = result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		// A missing category rolls back the product delete too
		result, err = tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM categories WHERE id = $1`), id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return requireAffected(result, "Category", id)
	})

	// Log the query execution
	utils.LogDBQuery("DELETE FROM products, categories", []any{id}, time.Since(startTime), err)

	if err != nil {
		return err
	}

	log.Info().
		Int64("category_id", id).
		Str("products", utils.Plural(removedProducts, "product")).
		Msg("Category deleted")
	return nil
}

// Exists reports whether a category with the given id exists
func (r *SQLCategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`SELECT COUNT(*) FROM categories WHERE id = $1`)
	var count int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&count)

	// Log the query execution
	utils.LogDBQuery(query, []any{id}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of categories
func (r *SQLCategoryRepository) Count(ctx context.Context) (int64, error) {
	return r.db.CountRows(ctx, constants.TableCategories)
}
