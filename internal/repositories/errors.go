package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/models"
)

// PostgreSQL SQLSTATE codes translated into the domain error taxonomy.
const (
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeInvalidTextRepr     = "22P02"
	codeNumericOutOfRange   = "22003"
	codeStringTooLong       = "22001"
)

const emailUniqueIndex = "ux_users_email"

// translateError maps driver errors to models errors, keeping the constraint name.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			if pgErr.ConstraintName == emailUniqueIndex {
				return fmt.Errorf("%w: %s", models.ErrDuplicateEmail, pgErr.ConstraintName)
			}
			return fmt.Errorf("%w: %s", models.ErrConstraintViolation, pgErr.ConstraintName)
		case codeCheckViolation, codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", models.ErrConstraintViolation, pgErr.ConstraintName)
		case codeNotNullViolation:
			return fmt.Errorf("%w: %s is required", models.ErrConstraintViolation, pgErr.ColumnName)
		case codeInvalidTextRepr, codeNumericOutOfRange, codeStringTooLong:
			return fmt.Errorf("%w: %s", models.ErrConstraintViolation, pgErr.Message)
		}
		return err
	}

	if isConnError(err) {
		return fmt.Errorf("%w: %v", models.ErrServiceUnavailable, err)
	}
	return err
}

// isConnError reports whether err means the database could not be reached.
func isConnError(err error) bool {
	if err == nil {
		return false
	}
	if isRetryable(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// isRetryable reports whether the statement provably never reached the server.
func isRetryable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || pgconn.SafeToRetry(err) {
		return true
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}

// retryOnce repeats fn a single time on a connectivity failure.
// Statements inside a transaction are never retried.
func retryOnce(ctx context.Context, inTx bool, fn func() error) error {
	err := fn()
	if err == nil || inTx || !isRetryable(err) || ctx.Err() != nil {
		return err
	}
	logger.Log.Warnw("retrying statement after connectivity error", "error", err)
	return fn()
}
