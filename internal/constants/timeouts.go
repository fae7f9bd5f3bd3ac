package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Database Timeouts
const (
	DBConnectionTimeout  = 30 * time.Second
	DBHealthCheckTimeout = 5 * time.Second
	DBConnMaxLifetime    = 1 * time.Hour
	DBConnMaxIdleTime    = 30 * time.Minute
)

// Authentication Timeouts
const (
	DefaultJWTExpiry        = 15 * time.Minute
	DefaultJWTRefreshExpiry = 7 * 24 * time.Hour // 7 days
)

// Password Reset
const (
	// DefaultPasswordResetTimeout matches the three day window reset links have always had.
	DefaultPasswordResetTimeout = 3 * 24 * time.Hour
)

// Rate Limiting
const (
	RateLimiterCleanupInterval = 5 * time.Minute
	RateLimiterIdleTTL         = 10 * time.Minute
)

// Static asset caching
const (
	StaticAssetMaxAge = 300 // in seconds
)
