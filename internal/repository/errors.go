package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrStoreUnavailable is returned once transient-failure retries are
// exhausted. Handlers should translate this into an HTTP 503 response.
var ErrStoreUnavailable = errors.New("store unavailable")

const (
	retryAttempts = 3
	retryBaseWait = 100 * time.Millisecond
)

// isTransient reports whether an error is worth retrying: connection-class
// failures only. Not-found and constraint violations are final.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// SQLSTATE class 08 = connection exception
		return strings.HasPrefix(pgErr.Code, "08")
	}
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.ErrUnexpectedEOF)
}

// withRetry runs fn up to retryAttempts times with doubling backoff. Only
// used outside transactions; retrying inside an aborted tx cannot help.
func withRetry(ctx context.Context, fn func() error) error {
	wait := retryBaseWait
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if err = fn(); !isTransient(err) {
			return err
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		wait *= 2
	}
	return ErrStoreUnavailable
}
