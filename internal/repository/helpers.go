package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/database"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// insertReturningID runs an INSERT written with $N placeholders and returns the
// generated id, through RETURNING where the driver supports it and
// LastInsertId otherwise.
func insertReturningID(ctx context.Context, pool *database.Pool, q database.Querier, query string, args ...any) (int64, error) {
	// PostgreSQL hands the id back in the same round trip
	if pool.SupportsReturning() {
		var id int64
		if err := q.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	// MySQL/MariaDB report it on the result instead
	result, err := q.ExecContext(ctx, pool.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated id: %w", err)
	}
	return id, nil
}

// closeRows closes a result set and logs the error, if any.
func closeRows(rows interface{ Close() error }) {
	if err := rows.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close rows")
	}
}

// requireAffected turns an UPDATE or DELETE that touched no rows into a not-found error.
// On MySQL this depends on clientFoundRows in the DSN, otherwise an UPDATE
// that writes identical values reports zero rows.
func requireAffected(result sql.Result, resource string, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return utils.NewNotFoundError(resource, id)
	}
	return nil
}
