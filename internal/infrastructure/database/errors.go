package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sportmeet/internal/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// unavailable wraps a driver failure as a storage outage.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, op, err)
}

// queryError maps a driver error: no rows become notFound, connection-level
// failures become ErrUnavailable, the rest is wrapped with op.
func queryError(op string, err error, notFound error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows) && notFound != nil:
		return notFound
	case pgconn.SafeToRetry(err) || pgconn.Timeout(err):
		return unavailable(op, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
