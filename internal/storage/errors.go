package storage

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maxviazov/poster-api/internal/apperror"
)

// MapError turns a failed database round trip into a 503 status error with a
// message safe to show clients. The driver error stays reachable via errors.Is/As.
// Errors it doesn't recognize pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return unavailable(err, "Database did not answer in time")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsInvalidAuthorizationSpecification(pgErr.Code):
			return unavailable(err, "Database rejected the credentials")
		case pgerrcode.IsInsufficientResources(pgErr.Code):
			return unavailable(err, "Database is out of resources")
		case pgerrcode.IsOperatorIntervention(pgErr.Code):
			return unavailable(err, "Database is shutting down")
		case pgerrcode.IsConnectionException(pgErr.Code):
			return unavailable(err, "Database connection failed")
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return unavailable(err, "Database connection failed")
	}
	return err
}

func unavailable(err error, message string) error {
	return apperror.Wrap(http.StatusServiceUnavailable, err, message)
}
