package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/repository"
)

// Database states reported by the admin and health endpoints.
const (
	DatabaseStatusUp   = "up"
	DatabaseStatusDown = "down"
)

// HealthChecker is satisfied by *database.Pool.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// AdminService reports on the state of the store for staff users and health checks.
type AdminService struct {
	db           HealthChecker
	driver       string
	version      string
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(
	db HealthChecker,
	driver string,
	version string,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) *AdminService {
	return &AdminService{
		db:           db,
		driver:       driver,
		version:      version,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Overview counts the rows behind each model.
func (s *AdminService) Overview(ctx context.Context) (*models.AdminOverview, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	categories, err := s.categoryRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return &models.AdminOverview{
		Users:      users,
		Categories: categories,
		Products:   products,
		Database:   s.databaseStatus(ctx),
		Driver:     s.driver,
	}, nil
}

// Health reports whether the database answers. healthy is false when it does not.
func (s *AdminService) Health(ctx context.Context) (status *models.HealthStatus, healthy bool) {
	dbStatus := s.databaseStatus(ctx)
	status = &models.HealthStatus{
		Status:   "healthy",
		Database: dbStatus,
		Version:  s.version,
	}
	if dbStatus != DatabaseStatusUp {
		status.Status = "unhealthy"
		return status, false
	}
	return status, true
}

// Version returns the running application version.
func (s *AdminService) Version() string {
	return s.version
}

func (s *AdminService) databaseStatus(ctx context.Context) string {
	if s.db == nil {
		return DatabaseStatusDown
	}
	if err := s.db.HealthCheck(ctx); err != nil {
		log.Warn().Err(err).Msg("Database health check failed")
		return DatabaseStatusDown
	}
	return DatabaseStatusUp
}
