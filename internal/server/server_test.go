package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/database"
	"github.com/yasinhessnawi1/storefront/internal/models"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()

	buildDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(buildDir, "index.html"), []byte("<html>shop</html>"), 0o644))

	return &config.AppConfig{
		App:      config.AppSettings{Environment: constants.EnvTesting, Name: "storefront", Version: "2.1.0"},
		Database: config.DatabaseSettings{Driver: constants.DriverPostgres},
		Server:   config.ServerSettings{Host: "127.0.0.1", Port: 0},
		JWT: config.JWTSettings{
			Secret:        "test-secret",
			Expiry:        constants.DefaultJWTExpiry,
			RefreshExpiry: constants.DefaultJWTRefreshExpiry,
			Issuer:        constants.DefaultJWTIssuer,
		},
		CORS:         config.CORSSettings{AllowedOrigins: []string{"http://localhost:3000"}, AllowCredentials: true},
		PasswordHash: config.HashSettings{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		PasswordReset: config.PasswordResetSettings{
			Secret:            "reset-secret",
			Timeout:           constants.DefaultPasswordResetTimeout,
			FrontendURL:       "http://localhost:3000",
			SendFailurePolicy: constants.SendFailurePolicyFail,
		},
		Email:     config.EmailSettings{Provider: constants.EmailProviderLog, FromAddress: "shop@example.com"},
		Frontend:  config.FrontendSettings{BuildDir: buildDir, IndexFile: "index.html"},
		RateLimit: config.RateLimitSettings{Enabled: true, ResetRequestsPerSecond: 0.001, ResetBurst: 2},
	}
}

func newTestServer(t *testing.T, cfg *config.AppConfig) (*Server, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s, err := New(cfg, &database.Pool{DB: db, Driver: cfg.Database.Driver})
	require.NoError(t, err)
	t.Cleanup(func() {
		s.security.Close()
		db.Close()
	})
	return s, mock
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(rr, req)
	return rr
}

func bearer(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, _, err := s.jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

var userColumns = []string{"id", "username", "email", "password_hash", "salt", "is_staff", "is_active", "last_login", "created_at", "updated_at"}

func userRows(users ...*models.User) *sqlmock.Rows {
	rows := sqlmock.NewRows(userColumns)
	for _, u := range users {
		rows.AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.Salt, u.IsStaff, u.IsActive, nil, time.Time{}, time.Time{})
	}
	return rows
}

// expectUserLookup queues the per-request reload of the token's account.
func expectUserLookup(mock sqlmock.Sqlmock, id int64, users ...*models.User) {
	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(id).WillReturnRows(userRows(users...))
}

func TestNewRejectsBadEmailConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Email.Provider = "pigeon"

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(cfg, &database.Pool{DB: db, Driver: constants.DriverPostgres})
	assert.Error(t, err)
}

func TestHealthAndVersion(t *testing.T) {
	s, mock := newTestServer(t, testConfig(t))

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	rr := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"up","version":"2.1.0"}`, rr.Body.String())

	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("connection refused"))
	rr = serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), `"unhealthy"`)

	rr = serve(s, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"version":"2.1.0"}`, rr.Body.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIRoot(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	req.Host = "shop.test"
	rr := serve(s, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"categories":"http://shop.test/api/categories/"`)
	assert.Contains(t, rr.Body.String(), `"products":"http://shop.test/api/products/"`)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
}

func TestAdminOverviewPermissions(t *testing.T) {
	s, mock := newTestServer(t, testConfig(t))

	rr := serve(s, httptest.NewRequest(http.MethodGet, "/admin/", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	alice := &models.User{ID: 7, Username: "alice", IsActive: true}
	expectUserLookup(mock, 7, alice)
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.Header.Set("Authorization", bearer(t, s, alice))
	assert.Equal(t, http.StatusForbidden, serve(s, req).Code)

	root := &models.User{ID: 1, Username: "root", IsStaff: true, IsActive: true}
	expectUserLookup(mock, 1, root)
	for _, n := range []int{3, 2, 5} {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
	}
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	req = httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.Header.Set("Authorization", bearer(t, s, root))
	rr = serve(s, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Data models.AdminOverview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, models.AdminOverview{Users: 3, Categories: 2, Products: 5, Database: "up", Driver: "postgres"}, body.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogWritePermissions(t *testing.T) {
	s, mock := newTestServer(t, testConfig(t))

	body := `{"name":"Cups","image":"cups.png"}`

	rr := serve(s, httptest.NewRequest(http.MethodPost, "/api/categories/", strings.NewReader(body)))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"forbidden"`)

	alice := &models.User{ID: 7, Username: "alice", IsActive: true}
	expectUserLookup(mock, 7, alice)
	req := httptest.NewRequest(http.MethodDelete, "/api/products/3/", nil)
	req.Header.Set("Authorization", bearer(t, s, alice))
	assert.Equal(t, http.StatusForbidden, serve(s, req).Code)

	// Only the caller lookup reached the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRightsFollowStoredAccount(t *testing.T) {
	s, mock := newTestServer(t, testConfig(t))

	// The token was issued while the account was active staff.
	token := bearer(t, s, &models.User{ID: 99, Username: "former", IsStaff: true, IsActive: true})
	body := `{"name":"Cups","image":"cups.png"}`

	tests := []struct {
		name   string
		stored []*models.User
		status int
		code   string
	}{
		{"demoted", []*models.User{{ID: 99, Username: "former", IsActive: true}}, http.StatusForbidden, "forbidden"},
		{"deactivated", []*models.User{{ID: 99, Username: "former", IsStaff: true}}, http.StatusUnauthorized, "unauthorized"},
		{"deleted", nil, http.StatusUnauthorized, "unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectUserLookup(mock, 99, tt.stored...)

			req := httptest.NewRequest(http.MethodPost, "/api/categories/", strings.NewReader(body))
			req.Header.Set("Authorization", token)
			rr := serve(s, req)

			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Body.String(), `"code":"`+tt.code+`"`)
		})
	}

	// No category was written
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidBearerToken(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := serve(s, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))

	for _, target := range []string{"/api/products/abc/", "/api/categories/1x/", "/api/categories/abc/products/"} {
		rr := serve(s, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code, target)
		assert.Contains(t, rr.Body.String(), `"code":"not_found"`, target)
	}
}

func TestUnmatchedPathsFallBackToClient(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))

	for _, target := range []string{"/", "/cart", "/reset-password/MQ/abc-123/"} {
		rr := serve(s, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rr.Code, target)
		assert.Equal(t, "<html>shop</html>", rr.Body.String(), target)
	}

	rr := serve(s, httptest.NewRequest(http.MethodHead, "/cart", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(s, httptest.NewRequest(http.MethodPost, "/cart", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = serve(s, httptest.NewRequest(http.MethodGet, "/api/token/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"method_not_allowed"`)
}

func TestPasswordResetIsRateLimited(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/password-reset/", strings.NewReader(`{"email":"nope"}`))
		req.RemoteAddr = "198.51.100.4:40000"
		return serve(s, req)
	}

	assert.Equal(t, http.StatusBadRequest, send().Code)
	assert.Equal(t, http.StatusBadRequest, send().Code)

	rr := send()
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	// Confirm has no limit of its own
	req := httptest.NewRequest(http.MethodPost, "/api/password-reset-confirm/", strings.NewReader(`{}`))
	req.RemoteAddr = "198.51.100.4:40000"
	assert.Equal(t, http.StatusBadRequest, serve(s, req).Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/products/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := serve(s, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set("Origin", "http://evil.test")
	rr = serve(s, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestPasswordResetResponseIsSameForKnownAndUnknownEmail(t *testing.T) {
	s, mock := newTestServer(t, testConfig(t))

	request := func(email string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/password-reset/", strings.NewReader(`{"email":"`+email+`"}`))
		return serve(s, req)
	}

	mock.ExpectQuery(`FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("nobody@example.com").
		WillReturnRows(userRows())
	unknown := request("nobody@example.com")

	mock.ExpectQuery(`FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("alice@example.com").
		WillReturnRows(userRows(&models.User{
			ID: 7, Username: "alice", Email: "alice@example.com",
			PasswordHash: "hash", Salt: "salt", IsActive: true,
		}))
	known := request("alice@example.com")

	require.Equal(t, http.StatusOK, unknown.Code, unknown.Body.String())
	assert.Equal(t, unknown.Code, known.Code)
	assert.Equal(t, unknown.Body.Bytes(), known.Body.Bytes())
	assert.JSONEq(t, `{"success":true,"message":"If this email exists, a reset link has been sent."}`, known.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
