// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// Changes to these values may significantly impact application behavior, performance,
// and security.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultFrontendURL is where reset links point when no frontend is configured.
	DefaultFrontendURL = "http://localhost:3000"

	// DefaultFrontendBuildDir is the directory holding the compiled client application.
	DefaultFrontendBuildDir = "./frontend/build"

	// DefaultFrontendIndex is the shell document served for client-side routes.
	DefaultFrontendIndex = "index.html"

	// DefaultEmailFromName is the display name on outgoing mail.
	DefaultEmailFromName = "Storefront"

	// DefaultEmailFromAddress is the sender address on outgoing mail.
	DefaultEmailFromAddress = "no-reply@localhost"

	// DefaultSMTPPort is the submission port used when SMTP is selected without a port.
	DefaultSMTPPort = 587

	// DefaultResetRequestsPerSecond is the sustained password-reset request rate per client.
	DefaultResetRequestsPerSecond = 0.2

	// DefaultResetBurst is the password-reset burst allowance per client.
	DefaultResetBurst = 5
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Request size limits.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes
)

// Default Password Hash Settings define the parameters for password hashing.
const (
	// DefaultPasswordHashMemory is the memory cost parameter for Argon2id hashing.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of iterations for Argon2id hashing.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the parallelism parameter for Argon2id hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the generated hash.
	DefaultPasswordHashKeyLength = 32

	// DevPasswordHashMemory is a reduced memory setting for development environments.
	DevPasswordHashMemory = 16 * 1024

	// DevPasswordHashIterations is a reduced iteration count for development environments.
	DevPasswordHashIterations = 1
)

// Auth Constants
const (
	// DefaultJWTIssuer is the issuer claim value for JWT tokens.
	DefaultJWTIssuer = "storefront-api"

	// BearerTokenPrefix is the prefix for Authorization header bearer tokens.
	BearerTokenPrefix = "Bearer "

	// DevelopmentSecret is the placeholder secret production refuses to start with.
	DevelopmentSecret = "change-me-in-production"
)
