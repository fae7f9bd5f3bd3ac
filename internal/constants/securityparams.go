package constants

// Context Key Names
const (
	CallerContextKey    = "caller"
	RequestIDContextKey = "request_id"
)

// Auth Token Types
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Password and account limits
const (
	MinPasswordLength       = 8
	MinUsernameLength       = 3
	MaxUsernameLength       = 150
	MaxSimilarity           = 0.7
	UnusablePasswordPrefix  = "!"
	ResetTokenTimestampBase = 36
)

// Catalog field limits
const (
	MaxPriceDigits     = 10
	PriceDecimalPlaces = 2
)

// Email providers
const (
	EmailProviderLog      = "log"
	EmailProviderSMTP     = "smtp"
	EmailProviderSendGrid = "sendgrid"
)

// Password reset send failure policies
const (
	SendFailurePolicyFail    = "fail"
	SendFailurePolicyConceal = "conceal"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMySQL    = "mysql"
)

// Rate limit categories
const (
	RateLimitCategoryReset = "password_reset"
	RateLimitCategoryAuth  = "auth"
)

// Default limits for the auth category
const (
	DefaultAuthRequestsPerSecond = 1.0
	DefaultAuthBurst             = 10
)
