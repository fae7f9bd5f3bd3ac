package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yasinhessnawi1/storefront/internal/middleware"
)

// MockRateLimiter implements middleware.RateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) IsRateLimited(clientID, category string) (bool, time.Duration) {
	args := m.Called(clientID, category)
	return args.Bool(0), args.Get(1).(time.Duration)
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name           string
		limited        bool
		wait           time.Duration
		wantStatus     int
		wantRetryAfter string
	}{
		{"within budget", false, 0, http.StatusOK, ""},
		{"over budget", true, 4200 * time.Millisecond, http.StatusTooManyRequests, "5"},
		{"sub-second wait rounds up", true, 10 * time.Millisecond, http.StatusTooManyRequests, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := new(MockRateLimiter)
			limiter.On("IsRateLimited", "203.0.113.9", "password_reset").Return(tt.limited, tt.wait)

			called := false
			handler := middleware.RateLimit(limiter, "password_reset")(okHandler(&called))

			req := httptest.NewRequest(http.MethodPost, "/api/password-reset/", nil)
			req.RemoteAddr = "203.0.113.9:51234"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, !tt.limited, called)
			assert.Equal(t, tt.wantRetryAfter, rr.Header().Get("Retry-After"))
			if tt.limited {
				assert.Contains(t, rr.Body.String(), `"code":"rate_limited"`)
			}
			limiter.AssertExpectations(t)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var logBuf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&logBuf)
	defer func() { log.Logger = original }()

	handler := middleware.RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/categories/", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Contains(t, logBuf.String(), `"status":418`)
	assert.Contains(t, logBuf.String(), `"path":"/api/categories/"`)
	assert.Contains(t, logBuf.String(), `"level":"warn"`)
}
