package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/storefront/internal/models"
)

// MockAuthService implements AuthServiceInterface with overridable functions.
type MockAuthService struct {
	ObtainTokensFunc func(ctx context.Context, req *models.TokenObtainRequest) (*models.TokenPair, error)
	RefreshFunc      func(ctx context.Context, req *models.TokenRefreshRequest) (*models.AccessToken, error)
}

func (m *MockAuthService) ObtainTokens(ctx context.Context, req *models.TokenObtainRequest) (*models.TokenPair, error) {
	if m.ObtainTokensFunc != nil {
		return m.ObtainTokensFunc(ctx, req)
	}
	return &models.TokenPair{Access: "access_token", Refresh: "refresh_token"}, nil
}

func (m *MockAuthService) Refresh(ctx context.Context, req *models.TokenRefreshRequest) (*models.AccessToken, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, req)
	}
	return &models.AccessToken{Access: "new_access_token"}, nil
}

// MockPasswordResetService implements PasswordResetServiceInterface.
type MockPasswordResetService struct {
	RequestResetFunc func(ctx context.Context, email string) error
	ConfirmResetFunc func(ctx context.Context, req *models.PasswordResetConfirm) error
}

func (m *MockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	if m.RequestResetFunc != nil {
		return m.RequestResetFunc(ctx, email)
	}
	return nil
}

func (m *MockPasswordResetService) ConfirmReset(ctx context.Context, req *models.PasswordResetConfirm) error {
	if m.ConfirmResetFunc != nil {
		return m.ConfirmResetFunc(ctx, req)
	}
	return nil
}

// MockCatalogService implements CatalogServiceInterface. Unset functions
// return zero values.
type MockCatalogService struct {
	ListCategoriesFunc       func(ctx context.Context) ([]*models.Category, error)
	GetCategoryFunc          func(ctx context.Context, id int64) (*models.Category, error)
	CreateCategoryFunc       func(ctx context.Context, in *models.CategoryCreate) (*models.Category, error)
	ReplaceCategoryFunc      func(ctx context.Context, id int64, in *models.CategoryCreate) (*models.Category, error)
	PatchCategoryFunc        func(ctx context.Context, id int64, in *models.CategoryPatch) (*models.Category, error)
	DeleteCategoryFunc       func(ctx context.Context, id int64) error
	ListCategoryProductsFunc func(ctx context.Context, categoryID int64) ([]*models.Product, error)
	ListProductsFunc         func(ctx context.Context) ([]*models.Product, error)
	GetProductFunc           func(ctx context.Context, id int64) (*models.Product, error)
	CreateProductFunc        func(ctx context.Context, in *models.ProductCreate) (*models.Product, error)
	ReplaceProductFunc       func(ctx context.Context, id int64, in *models.ProductCreate) (*models.Product, error)
	PatchProductFunc         func(ctx context.Context, id int64, in *models.ProductPatch) (*models.Product, error)
	DeleteProductFunc        func(ctx context.Context, id int64) error
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return []*models.Category{}, nil
}

func (m *MockCatalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	if m.GetCategoryFunc != nil {
		return m.GetCategoryFunc(ctx, id)
	}
	return &models.Category{ID: id, Products: []models.Product{}}, nil
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, in *models.CategoryCreate) (*models.Category, error) {
	if m.CreateCategoryFunc != nil {
		return m.CreateCategoryFunc(ctx, in)
	}
	return &models.Category{ID: 1, Name: in.Name, Image: in.Image, Products: []models.Product{}}, nil
}

func (m *MockCatalogService) ReplaceCategory(ctx context.Context, id int64, in *models.CategoryCreate) (*models.Category, error) {
	if m.ReplaceCategoryFunc != nil {
		return m.ReplaceCategoryFunc(ctx, id, in)
	}
	return &models.Category{ID: id, Name: in.Name, Image: in.Image, Products: []models.Product{}}, nil
}

func (m *MockCatalogService) PatchCategory(ctx context.Context, id int64, in *models.CategoryPatch) (*models.Category, error) {
	if m.PatchCategoryFunc != nil {
		return m.PatchCategoryFunc(ctx, id, in)
	}
	c := &models.Category{ID: id, Name: "Cups", Image: "c.png", Products: []models.Product{}}
	in.Apply(c)
	return c, nil
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if m.DeleteCategoryFunc != nil {
		return m.DeleteCategoryFunc(ctx, id)
	}
	return nil
}

func (m *MockCatalogService) ListCategoryProducts(ctx context.Context, categoryID int64) ([]*models.Product, error) {
	if m.ListCategoryProductsFunc != nil {
		return m.ListCategoryProductsFunc(ctx, categoryID)
	}
	return []*models.Product{}, nil
}

func (m *MockCatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx)
	}
	return []*models.Product{}, nil
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return &models.Product{ID: id}, nil
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, in *models.ProductCreate) (*models.Product, error) {
	if m.CreateProductFunc != nil {
		return m.CreateProductFunc(ctx, in)
	}
	p := &models.Product{ID: 1}
	in.Apply(p)
	return p, nil
}

func (m *MockCatalogService) ReplaceProduct(ctx context.Context, id int64, in *models.ProductCreate) (*models.Product, error) {
	if m.ReplaceProductFunc != nil {
		return m.ReplaceProductFunc(ctx, id, in)
	}
	p := &models.Product{ID: id}
	in.Apply(p)
	return p, nil
}

func (m *MockCatalogService) PatchProduct(ctx context.Context, id int64, in *models.ProductPatch) (*models.Product, error) {
	if m.PatchProductFunc != nil {
		return m.PatchProductFunc(ctx, id, in)
	}
	p := &models.Product{ID: id}
	in.Apply(p)
	return p, nil
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if m.DeleteProductFunc != nil {
		return m.DeleteProductFunc(ctx, id)
	}
	return nil
}

// MockAdminService implements AdminServiceInterface.
type MockAdminService struct {
	OverviewFunc func(ctx context.Context) (*models.AdminOverview, error)
	Healthy      bool
}

func (m *MockAdminService) Overview(ctx context.Context) (*models.AdminOverview, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx)
	}
	return &models.AdminOverview{Users: 1, Categories: 2, Products: 3, Database: "up", Driver: "postgres"}, nil
}

func (m *MockAdminService) Health(ctx context.Context) (*models.HealthStatus, bool) {
	status := &models.HealthStatus{Status: "healthy", Database: "up", Version: "1.0.0"}
	if !m.Healthy {
		status.Status = "unhealthy"
		status.Database = "down"
	}
	return status, m.Healthy
}

func (m *MockAdminService) Version() string {
	return "1.0.0"
}

// envelope mirrors utils.Response for decoding in tests.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rr.Body.String())
	}
	return env
}

// newRequest builds a request with an optional JSON body and chi URL params.
func newRequest(t *testing.T, method, target string, body any, params map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}
