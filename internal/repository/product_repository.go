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

// ProductRepository defines methods for interacting with catalog products
type ProductRepository interface {
	List(ctx context.Context) ([]*models.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// SQLProductRepository implements ProductRepository over database/sql.
type SQLProductRepository struct {
	db *database.Pool
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *database.Pool) ProductRepository {
	return &SQLProductRepository{
		db: db,
	}
}

const productColumns = `id, category_id, name, image, price, description, created_at`

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(
		&product.ID,
		&product.CategoryID,
		&product.Name,
		&product.Image,
		&product.Price,
		&product.Description,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// queryProducts runs a product SELECT and scans every row.
func queryProducts(ctx context.Context, q database.Querier, query string, args ...any) ([]*models.Product, error) {
	// Start query timer
	startTime := time.Now()
	rows, err := q.QueryContext(ctx, query, args...)

	// Log the query execution
	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer closeRows(rows)

	products := []*models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

// List returns every product in id order
func (r *SQLProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	return queryProducts(ctx, r.db, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

// ListByCategory returns the products of one category in id order
func (r *SQLProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]*models.Product, error) {
	return queryProducts(ctx, r.db,
		r.db.Rebind(`SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY id`), categoryID)
}

// GetByID retrieves a product by ID
func (r *SQLProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = $1`)
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))

	// Log the query execution
	utils.LogDBQuery(query, []any{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Product", id)
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return product, nil
}

// Create adds a new product
func (r *SQLProductRepository) Create(ctx context.Context, product *models.Product) error {
	// Start query timer
	startTime := time.Now()
	product.CreatedAt = time.Now()

	query := `
        INSERT INTO products (category_id, name, image, price, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	args := []any{product.CategoryID, product.Name, product.Image, product.Price, product.Description, product.CreatedAt}

	id, err := insertReturningID(ctx, r.db, r.db, query, args...)

	// Log the query execution
	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = id

	log.Info().
		Int64("product_id", id).
		Int64("category_id", product.CategoryID).
		Str("price", product.Price.StringFixed(constants.PriceDecimalPlaces)).
		Msg("Product created")
	return nil
}

// Update overwrites every writable column of the product
func (r *SQLProductRepository) Update(ctx context.Context, product *models.Product) error {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`
        UPDATE products
        SET category_id = $1, name = $2, image = $3, price = $4, description = $5
        WHERE id = $6`)
	args := []any{product.CategoryID, product.Name, product.Image, product.Price, product.Description, product.ID}

	result, err := r.db.ExecContext(ctx, query, args...)

	// Log the query execution
	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireAffected(result, "Product", product.ID)
}

// Delete removes a product
func (r *SQLProductRepository) Delete(ctx context.Context, id int64) error {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`DELETE FROM products WHERE id = $1`)
	result, err := r.db.ExecContext(ctx, query, id)

	// Log the query execution
	utils.LogDBQuery(query, []any{id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if err := requireAffected(result, "Product", id); err != nil {
		return err
	}

	log.Info().Int64("product_id", id).Msg("Product deleted")
	return nil
}

// Count returns the number of products
func (r *SQLProductRepository) Count(ctx context.Context) (int64, error) {
	return r.db.CountRows(ctx, constants.TableProducts)
}
