// Package migrations creates and tracks the storefront schema.
//
// Every migration is recorded in the schema_migrations table once it has run.
// A migration whose table already exists is recorded without executing, so the
// migrator is safe to run on every start and against databases that were
// created by hand.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/database"
)

// Migration represents a database migration.
// Each migration performs a specific schema change and is tracked
// to ensure it runs exactly once.
type Migration struct {
	// Name is a unique identifier for the migration
	Name string
	// Description is a human-readable explanation of what the migration does
	Description string
	// TableName is the table created by this migration, used for existence checks
	TableName string
	// Statements returns the DDL to execute, in order, for the given dialect.
	// MySQL does not accept several statements in one Exec, so each entry is one statement.
	Statements func(mysql bool) []string
}

// Migrator handles database migrations.
type Migrator struct {
	db *database.Pool
}

// NewMigrator creates a new migrator.
func NewMigrator(db *database.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

// Result summarises one RunMigrations call.
type Result struct {
	Applied  []string
	Recorded []string
	Skipped  int
}

// RunMigrations runs all pending database migrations.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - Result: which migrations ran and which were only recorded
//   - error: Any error encountered during migration, nil if successful
func (m *Migrator) RunMigrations(ctx context.Context) (Result, error) {
	log.Info().Str("driver", m.db.Driver).Msg("Running database migrations")
	startTime := time.Now()
	var result Result

	if err := m.createMigrationsTable(ctx); err != nil {
		return result, fmt.Errorf("failed to create migrations table: %w", err)
	}

	executed, err := m.getExecutedMigrations(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to get executed migrations: %w", err)
	}

	for _, migration := range GetMigrations() {
		if executed[migration.Name] {
			result.Skipped++
			continue
		}

		exists, err := m.tableExists(ctx, migration.TableName)
		if err != nil {
			return result, fmt.Errorf("failed to check if table %s exists: %w", migration.TableName, err)
		}

		if exists {
			log.Info().
				Str("migration", migration.Name).
				Str("table", migration.TableName).
				Msg("Table already exists, recording migration as completed")

			if err := m.recordMigration(ctx, m.db, migration); err != nil {
				return result, err
			}
			result.Recorded = append(result.Recorded, migration.Name)
			continue
		}

		log.Info().
			Str("migration", migration.Name).
			Str("table", migration.TableName).
			Msg("Running migration")

		if err := m.runMigration(ctx, migration); err != nil {
			return result, err
		}
		result.Applied = append(result.Applied, migration.Name)
	}

	log.Info().
		Int("migrations_run", len(result.Applied)).
		Int("migrations_recorded", len(result.Recorded)).
		Int("total_migrations", len(GetMigrations())).
		Dur("duration", time.Since(startTime)).
		Msg("Database migrations completed")

	return result, nil
}

// createMigrationsTable creates the tracking table if it doesn't exist.
func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + constants.TableMigrations + ` (
			name VARCHAR(255) PRIMARY KEY,
			description TEXT,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`
	_, err := m.db.ExecContext(ctx, query)
	return err
}

// getExecutedMigrations returns the names of migrations already recorded.
func (m *Migrator) getExecutedMigrations(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM ` + constants.TableMigrations
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	migrations := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		migrations[name] = true
	}

	return migrations, rows.Err()
}

// runMigration runs a migration and records it within one transaction.
// MySQL commits DDL implicitly, so there the record is the only part that can roll back.
func (m *Migrator) runMigration(ctx context.Context, migration Migration) error {
	return m.db.Transaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range migration.Statements(m.db.IsMySQL()) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %s failed: %w", migration.Name, err)
			}
		}

		return m.recordMigration(ctx, tx, migration)
	})
}

// recordMigration marks a migration as completed.
func (m *Migrator) recordMigration(ctx context.Context, q database.Querier, migration Migration) error {
	query := m.db.Rebind(`INSERT INTO ` + constants.TableMigrations + ` (name, description) VALUES ($1, $2)`)
	if _, err := q.ExecContext(ctx, query, migration.Name, migration.Description); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
	}
	return nil
}

// tableExists checks if a table exists in the current database or schema.
func (m *Migrator) tableExists(ctx context.Context, tableName string) (bool, error) {
	schema := "current_schema()"
	if m.db.IsMySQL() {
		schema = "DATABASE()"
	}

	query := m.db.Rebind(`SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = ` + schema + ` AND table_name = $1`)

	var count int
	if err := m.db.QueryRowContext(ctx, query, tableName).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMigrations returns all migrations in dependency order.
func GetMigrations() []Migration {
	return []Migration{
		createUsersTable(),
		createCategoriesTable(),
		createProductsTable(),
	}
}
