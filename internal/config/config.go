package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yasinhessnawi1/storefront/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App           AppSettings           `yaml:"app"`
	Database      DatabaseSettings      `yaml:"database"`
	Server        ServerSettings        `yaml:"server"`
	JWT           JWTSettings           `yaml:"jwt"`
	Logging       LoggingSettings       `yaml:"logging"`
	CORS          CORSSettings          `yaml:"cors"`
	PasswordHash  HashSettings          `yaml:"password_hash"`
	PasswordReset PasswordResetSettings `yaml:"password_reset"`
	Email         EmailSettings         `yaml:"email"`
	Frontend      FrontendSettings      `yaml:"frontend"`
	RateLimit     RateLimitSettings     `yaml:"rate_limit"`
	Admin         AdminSettings         `yaml:"admin"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" env:"DB_NAME"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// JWTSettings contains JWT authentication settings
type JWTSettings struct {
	Secret        string        `yaml:"secret" env:"JWT_SECRET"`
	Expiry        time.Duration `yaml:"expiry" env:"JWT_EXPIRY"`
	RefreshExpiry time.Duration `yaml:"refresh_expiry" env:"JWT_REFRESH_EXPIRY"`
	Issuer        string        `yaml:"issuer" env:"JWT_ISSUER"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// HashSettings contains password hashing settings
type HashSettings struct {
	Memory      uint32 `yaml:"memory" env:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" env:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" env:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" env:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" env:"HASH_KEY_LENGTH"`
}

// PasswordResetSettings controls the reset token and the reset email flow.
type PasswordResetSettings struct {
	Secret            string        `yaml:"secret" env:"PASSWORD_RESET_SECRET"`
	Timeout           time.Duration `yaml:"timeout" env:"PASSWORD_RESET_TIMEOUT"`
	FrontendURL       string        `yaml:"frontend_url" env:"FRONTEND_URL"`
	SendFailurePolicy string        `yaml:"send_failure_policy" env:"PASSWORD_RESET_SEND_FAILURE_POLICY"`
}

// EmailSettings selects and configures the outgoing mail provider.
type EmailSettings struct {
	Provider       string `yaml:"provider" env:"EMAIL_PROVIDER"`
	FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	FromAddress    string `yaml:"from_address" env:"EMAIL_FROM_ADDRESS"`
	SMTPHost       string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort       int    `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUser       string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword   string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
}

// FrontendSettings points at the compiled single-page client.
type FrontendSettings struct {
	BuildDir  string `yaml:"build_dir" env:"FRONTEND_BUILD_DIR"`
	IndexFile string `yaml:"index_file" env:"FRONTEND_INDEX_FILE"`
}

// RateLimitSettings bounds how often a single client may hit the reset endpoints.
type RateLimitSettings struct {
	Enabled                bool    `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
	ResetRequestsPerSecond float64 `yaml:"reset_requests_per_second" env:"RATE_LIMIT_RESET_RPS"`
	ResetBurst             int     `yaml:"reset_burst" env:"RATE_LIMIT_RESET_BURST"`
}

// AdminSettings describes an optional superuser created by the seeder.
type AdminSettings struct {
	Username string `yaml:"username" env:"ADMIN_USERNAME"`
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

// ConnectionString returns the DSN for the configured driver.
func (dbs *DatabaseSettings) ConnectionString() string {
	if dbs.Driver == constants.DriverMySQL {
		// MariaDB/MySQL connection string format: username:password@tcp(host:port)/dbname
		// clientFoundRows makes RowsAffected count matched rows, so an update
		// that changes nothing is not mistaken for a missing row.
		password := dbs.Password
		if password != "" {
			password = ":" + password
		}

		return fmt.Sprintf(
			"%s%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
			dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
		)
	}

	sslParams := constants.PostgresSSLDisable
	if dbs.SSLMode != "" && dbs.SSLMode != "disable" {
		sslParams = fmt.Sprintf(constants.PostgresSSLFormat, dbs.SSLMode)
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s %s",
		dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name, sslParams,
	)
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// ResetLink builds the client-side URL a reset email points at.
func (prs *PasswordResetSettings) ResetLink(uid, token string) string {
	return strings.TrimRight(prs.FrontendURL, "/") + fmt.Sprintf(constants.ResetLinkPath, uid, token)
}

// ConcealSendFailures reports whether email delivery errors should be hidden from the caller.
func (prs *PasswordResetSettings) ConcealSendFailures() bool {
	return prs.SendFailurePolicy == constants.SendFailurePolicyConceal
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

var (
	// cfg holds the current application configuration
	cfg *AppConfig
)

// Load loads the configuration from a config file and environment variables
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// The file is optional; every setting can also come from the environment
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	// Fill in anything still missing
	setDefaults(config)

	// Refuse unsafe or inconsistent settings before anything connects
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Store the configuration globally
	cfg = config

	logConfig(config)

	return config, nil
}

// Get returns the current application configuration
func Get() *AppConfig {
	if cfg == nil {
		log.Fatal().Msg("configuration not loaded")
	}
	return cfg
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = "storefront"
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	if config.Database.Driver == "" {
		config.Database.Driver = constants.DriverPostgres
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		if config.Database.Driver == constants.DriverMySQL {
			config.Database.Port = 3306
		} else {
			config.Database.Port = 5432
		}
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	if config.JWT.Secret == "" {
		config.JWT.Secret = constants.DevelopmentSecret
	}
	if config.JWT.Expiry == 0 {
		config.JWT.Expiry = constants.DefaultJWTExpiry
	}
	if config.JWT.RefreshExpiry == 0 {
		config.JWT.RefreshExpiry = constants.DefaultJWTRefreshExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}

	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}

	// Lower hashing cost outside production keeps local runs and tests fast
	if config.PasswordHash.Memory == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Memory = constants.DefaultPasswordHashMemory
		} else {
			config.PasswordHash.Memory = constants.DevPasswordHashMemory
		}
	}
	if config.PasswordHash.Iterations == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Iterations = constants.DefaultPasswordHashIterations
		} else {
			config.PasswordHash.Iterations = constants.DevPasswordHashIterations
		}
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = constants.DefaultPasswordHashParallelism
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = constants.DefaultPasswordHashSaltLength
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = constants.DefaultPasswordHashKeyLength
	}

	if config.PasswordReset.Secret == "" {
		config.PasswordReset.Secret = config.JWT.Secret
	}
	if config.PasswordReset.Timeout == 0 {
		config.PasswordReset.Timeout = constants.DefaultPasswordResetTimeout
	}
	if config.PasswordReset.FrontendURL == "" {
		config.PasswordReset.FrontendURL = constants.DefaultFrontendURL
	}
	if config.PasswordReset.SendFailurePolicy == "" {
		config.PasswordReset.SendFailurePolicy = constants.SendFailurePolicyFail
	}

	if config.Email.Provider == "" {
		config.Email.Provider = constants.EmailProviderLog
	}
	if config.Email.FromName == "" {
		config.Email.FromName = constants.DefaultEmailFromName
	}
	if config.Email.FromAddress == "" {
		config.Email.FromAddress = constants.DefaultEmailFromAddress
	}
	if config.Email.SMTPPort == 0 {
		config.Email.SMTPPort = constants.DefaultSMTPPort
	}

	if config.Frontend.BuildDir == "" {
		config.Frontend.BuildDir = constants.DefaultFrontendBuildDir
	}
	if config.Frontend.IndexFile == "" {
		config.Frontend.IndexFile = constants.DefaultFrontendIndex
	}

	if config.RateLimit.ResetRequestsPerSecond == 0 {
		config.RateLimit.ResetRequestsPerSecond = constants.DefaultResetRequestsPerSecond
	}
	if config.RateLimit.ResetBurst == 0 {
		config.RateLimit.ResetBurst = constants.DefaultResetBurst
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	if config.App.IsProduction() {
		if config.JWT.Secret == "" || config.JWT.Secret == constants.DevelopmentSecret {
			return fmt.Errorf("JWT secret must be set in production")
		}
		if config.PasswordReset.Secret == constants.DevelopmentSecret {
			return fmt.Errorf("password reset secret must be set in production")
		}
	}

	switch config.Database.Driver {
	case constants.DriverPostgres, constants.DriverPgx, constants.DriverMySQL:
	default:
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}

	if config.Database.User == "" {
		return fmt.Errorf("database user must be set")
	}

	switch config.Email.Provider {
	case constants.EmailProviderLog:
	case constants.EmailProviderSMTP:
		if config.Email.SMTPHost == "" {
			return fmt.Errorf("smtp host must be set when the smtp email provider is selected")
		}
	case constants.EmailProviderSendGrid:
		if config.Email.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key must be set when the sendgrid email provider is selected")
		}
	default:
		return fmt.Errorf("unsupported email provider: %s", config.Email.Provider)
	}

	switch config.PasswordReset.SendFailurePolicy {
	case constants.SendFailurePolicyFail, constants.SendFailurePolicyConceal:
	default:
		return fmt.Errorf("invalid password reset send failure policy: %s", config.PasswordReset.SendFailurePolicy)
	}

	if u, err := url.Parse(config.PasswordReset.FrontendURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid frontend url: %s", config.PasswordReset.FrontendURL)
	}

	if config.RateLimit.ResetRequestsPerSecond < 0 || config.RateLimit.ResetBurst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}

	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("db_driver", config.Database.Driver).
		Str("db_host", config.Database.Host).
		Int("db_port", config.Database.Port).
		Str("db_name", config.Database.Name).
		Str("db_password", redact(config.Database.Password)).
		Str("jwt_secret", redact(config.JWT.Secret)).
		Str("email_provider", config.Email.Provider).
		Str("reset_send_failure_policy", config.PasswordReset.SendFailurePolicy).
		Str("log_level", config.Logging.Level).
		Msg("Configuration loaded")
}

func redact(value string) string {
	if value == "" {
		return ""
	}
	return constants.LogRedactedValue
}
