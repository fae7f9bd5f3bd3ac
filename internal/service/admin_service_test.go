package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/storefront/internal/models"
)

type stubHealth struct{ err error }

func (s stubHealth) HealthCheck(context.Context) error { return s.err }

func TestAdminOverview(t *testing.T) {
	users := NewMockUserRepository()
	activeUser(users, "admin", "admin@example.com", "pw")
	categories, products := NewMockCatalog()
	catalog := NewCatalogService(categories, products)
	cat, _ := catalog.CreateCategory(context.Background(), &models.CategoryCreate{Name: "Cups", Image: "c.png"})
	_, _ = catalog.CreateProduct(context.Background(), productInput(cat.ID))
	_, _ = catalog.CreateProduct(context.Background(), productInput(cat.ID))

	svc := NewAdminService(stubHealth{}, "postgres", "1.2.3", users, categories, products)
	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.AdminOverview{
		Users:      1,
		Categories: 1,
		Products:   2,
		Database:   DatabaseStatusUp,
		Driver:     "postgres",
	}, overview)

	users.err = errBoom
	_, err = svc.Overview(context.Background())
	assert.ErrorIs(t, err, errBoom)
}

func TestAdminHealth(t *testing.T) {
	categories, products := NewMockCatalog()

	healthy := NewAdminService(stubHealth{}, "mysql", "1.2.3", NewMockUserRepository(), categories, products)
	status, ok := healthy.Health(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, DatabaseStatusUp, status.Database)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, "1.2.3", healthy.Version())

	down := NewAdminService(stubHealth{err: errBoom}, "mysql", "1.2.3", NewMockUserRepository(), categories, products)
	status, ok = down.Health(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, DatabaseStatusDown, status.Database)

	none := NewAdminService(nil, "", "", NewMockUserRepository(), categories, products)
	_, ok = none.Health(context.Background())
	assert.False(t, ok)
}
