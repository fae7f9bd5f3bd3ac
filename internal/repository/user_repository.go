package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/database"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// UserRepository defines methods for interacting with user data
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListByEmail(ctx context.Context, email string) ([]*models.User, error)
	SetPassword(ctx context.Context, id int64, passwordHash, salt string) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// SQLUserRepository implements UserRepository over database/sql.
type SQLUserRepository struct {
	db *database.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Pool) UserRepository {
	return &SQLUserRepository{
		db: db,
	}
}

const userColumns = `id, username, email, password_hash, salt, is_staff, is_active, last_login, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Salt,
		&user.IsStaff,
		&user.IsActive,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return user, nil
}

// Create adds a new user to the database
func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) error {
	// Start query timer
	startTime := time.Now()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
        INSERT INTO users (username, email, password_hash, salt, is_staff, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	id, err := insertReturningID(ctx, r.db, r.db, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Salt,
		user.IsStaff,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]any{user.Username, user.Email, constants.LogRedactedValue, constants.LogRedactedValue, user.IsStaff, user.IsActive},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if utils.IsDuplicateError(utils.ParseError(err)) {
			return utils.NewDuplicateError("User", constants.ColumnUsername, user.Username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	log.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Bool("is_staff", user.IsStaff).
		Msg("User created")

	return nil
}

// GetByID retrieves a user by ID
func (r *SQLUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = $1`)
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))

	// Log the query execution
	utils.LogDBQuery(query, []any{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by exact username
func (r *SQLUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE username = $1`)
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))

	// Log the query execution
	utils.LogDBQuery(query, []any{username}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", fmt.Sprintf("username=%s", username))
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// ListByEmail returns every user whose email matches case-insensitively, in id order.
// No match is an empty slice, not an error.
func (r *SQLUserRepository) ListByEmail(ctx context.Context, email string) ([]*models.User, error) {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) ORDER BY id`)
	rows, err := r.db.QueryContext(ctx, query, email)

	// Log the query execution
	utils.LogDBQuery(query, []any{email}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list users by email: %w", err)
	}
	defer closeRows(rows)

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// SetPassword stores a new password hash and salt for the user
func (r *SQLUserRepository) SetPassword(ctx context.Context, id int64, passwordHash, salt string) error {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`UPDATE users SET password_hash = $1, salt = $2, updated_at = $3 WHERE id = $4`)
	result, err := r.db.ExecContext(ctx, query, passwordHash, salt, time.Now(), id)

	// Log the query execution
	utils.LogDBQuery(query, []any{constants.LogRedactedValue, constants.LogRedactedValue, "now", id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}

	if err := requireAffected(result, "User", id); err != nil {
		return err
	}

	log.Info().Int64("user_id", id).Msg("User password changed")
	return nil
}

// UpdateLastLogin records a successful sign-in
func (r *SQLUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`UPDATE users SET last_login = $1 WHERE id = $2`)
	result, err := r.db.ExecContext(ctx, query, at, id)

	// Log the query execution
	utils.LogDBQuery(query, []any{at, id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return requireAffected(result, "User", id)
}

// ExistsByUsername checks if a username is already taken
func (r *SQLUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	// Start query timer
	startTime := time.Now()

	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE username = $1`)
	var count int
	err := r.db.QueryRowContext(ctx, query, username).Scan(&count)

	// Log the query execution
	utils.LogDBQuery(query, []any{username}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of user accounts
func (r *SQLUserRepository) Count(ctx context.Context) (int64, error) {
	return r.db.CountRows(ctx, constants.TableUsers)
}
