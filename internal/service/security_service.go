// Package service provides business logic implementations.
package service

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/utils/ratelimit"
)

// Default rate applied to categories without their own setting.
const (
	defaultRequestsPerSecond = 20
	defaultBurst             = 40
)

// SecurityService applies per-client request limits by endpoint category.
type SecurityService struct {
	rateLimiterStore *ratelimit.Store
	enabled          bool
}

// NewSecurityService creates a SecurityService from the rate limit settings.
// Call Close on shutdown to stop the limiter cleanup goroutine.
func NewSecurityService(cfg *config.RateLimitSettings) *SecurityService {
	store := ratelimit.NewStore(ratelimit.Rate{
		RequestsPerSecond: defaultRequestsPerSecond,
		Burst:             defaultBurst,
	}, constants.RateLimiterCleanupInterval, constants.RateLimiterIdleTTL)

	// Reset requests send mail, so they get the tightest limit.
	resetRate := ratelimit.Rate{
		RequestsPerSecond: cfg.ResetRequestsPerSecond,
		Burst:             cfg.ResetBurst,
	}
	if resetRate.RequestsPerSecond <= 0 {
		resetRate.RequestsPerSecond = constants.DefaultResetRequestsPerSecond
	}
	if resetRate.Burst <= 0 {
		resetRate.Burst = constants.DefaultResetBurst
	}
	store.SetRate(constants.RateLimitCategoryReset, resetRate)

	// Credential checks are slowed down to make guessing expensive.
	store.SetRate(constants.RateLimitCategoryAuth, ratelimit.Rate{
		RequestsPerSecond: constants.DefaultAuthRequestsPerSecond,
		Burst:             constants.DefaultAuthBurst,
	})

	log.Info().
		Bool("enabled", cfg.Enabled).
		Float64("reset_rps", resetRate.RequestsPerSecond).
		Int("reset_burst", resetRate.Burst).
		Msg("Rate limiting configured")

	return &SecurityService{
		rateLimiterStore: store,
		enabled:          cfg.Enabled,
	}
}

// IsRateLimited consumes one request for clientID in category. When the
// client is over its limit it returns true and how long to wait.
//
// Parameters:
//   - clientID: Identifier for the client (typically IP address)
//   - category: The endpoint category ("password_reset", "auth", ...)
func (s *SecurityService) IsRateLimited(clientID, category string) (bool, time.Duration) {
	if !s.enabled {
		return false, 0
	}

	limiter := s.rateLimiterStore.GetLimiter(clientID, category)
	if limiter.Allow() {
		return false, 0
	}
	return true, limiter.RetryAfter()
}

// Close stops background cleanup.
func (s *SecurityService) Close() {
	s.rateLimiterStore.Close()
}
