// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file names the tables and columns the repositories
// touch, so schema changes only need one edit.
package constants

// Table Names
const (
	// TableUsers holds user accounts.
	TableUsers = "users"

	// TableCategories holds catalog categories.
	TableCategories = "categories"

	// TableProducts holds catalog products, each owned by a category.
	TableProducts = "products"

	// TableMigrations tracks which migration files have been applied.
	TableMigrations = "schema_migrations"

	// TableSeeds tracks which seed routines have been applied.
	TableSeeds = "schema_seeds"
)

// Common Column Names
const (
	ColumnUsername     = "username"
	ColumnEmail        = "email"
	ColumnPasswordHash = "password_hash"
	ColumnSalt         = "salt"
	ColumnPrice        = "price"
)

// PostgreSQL SSL connection string parameters
const (
	PostgresSSLDisable = "sslmode=disable connect_timeout=15"
	PostgresSSLFormat  = "sslmode=%s connect_timeout=15"
)
