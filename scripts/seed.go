// Package scripts provides utility scripts for database and system management.
//
// Seeds populate data the application expects to find, such as the initial
// staff account. Like migrations, executed seeds are recorded so each one runs
// at most once.
package scripts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/database"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// seedAdminAccount is the tracking name of the admin seed.
const seedAdminAccount = "admin_account"

// Seeder handles database seeding.
type Seeder struct {
	db     *database.Pool
	admin  *config.AdminSettings
	hasher *auth.PasswordHasher
	now    func() time.Time
}

// NewSeeder creates a new seeder. admin may be nil or empty, in which case
// no admin account is created.
func NewSeeder(db *database.Pool, admin *config.AdminSettings, hasher *auth.PasswordHasher) *Seeder {
	if admin == nil {
		admin = &config.AdminSettings{}
	}
	return &Seeder{
		db:     db,
		admin:  admin,
		hasher: hasher,
		now:    time.Now,
	}
}

type seed struct {
	name    string
	enabled bool
	run     func(ctx context.Context, tx *sql.Tx) error
}

// SeedDatabase runs every enabled seed that has not been recorded yet.
// A disabled seed is not recorded, so enabling it later still runs it.
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	seeds := []seed{
		{seedAdminAccount, s.admin.Username != "" && s.admin.Password != "", s.seedAdmin},
	}

	for _, sd := range seeds {
		switch {
		case executedSeeds[sd.name]:
			log.Debug().Str("seed", sd.name).Msg("Seed already executed")
		case !sd.enabled:
			log.Debug().Str("seed", sd.name).Msg("Seed not configured, skipping")
		default:
			log.Info().Str("seed", sd.name).Msg("Running seed")
			if err := s.runSeed(ctx, sd.name, sd.run); err != nil {
				return err
			}
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the tracking table if it doesn't exist.
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + constants.TableSeeds + ` (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns the names of seeds already recorded.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM ` + constants.TableSeeds
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed runs a seed function and records it within one transaction.
func (s *Seeder) runSeed(ctx context.Context, name string, seedFunc func(ctx context.Context, tx *sql.Tx) error) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := seedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", name, err)
		}

		query := s.db.Rebind(`INSERT INTO ` + constants.TableSeeds + ` (name) VALUES ($1)`)
		if _, err := tx.ExecContext(ctx, query, name); err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})
}

// seedAdmin creates the configured staff account unless the username is
// already taken, in which case the existing account is left untouched.
func (s *Seeder) seedAdmin(ctx context.Context, tx *sql.Tx) error {
	var count int
	countQuery := s.db.Rebind(`SELECT COUNT(*) FROM users WHERE username = $1`)
	if err := tx.QueryRowContext(ctx, countQuery, s.admin.Username).Scan(&count); err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if count > 0 {
		log.Info().Str("username", s.admin.Username).Msg("Admin account already exists")
		return nil
	}

	passwordHash, salt, err := s.hasher.Hash(s.admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := s.now()
	query := s.db.Rebind(`
        INSERT INTO users (username, email, password_hash, salt, is_staff, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if _, err := tx.ExecContext(ctx, query, s.admin.Username, s.admin.Email, passwordHash, salt, true, true, now, now); err != nil {
		return fmt.Errorf("failed to insert admin account: %w", err)
	}

	log.Info().
		Str("username", s.admin.Username).
		Str("email", utils.MaskEmail(s.admin.Email)).
		Msg("Admin account seeded")
	return nil
}
