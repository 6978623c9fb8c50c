package repositories

import (
	"context"
	"database/sql/driver"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/books4all/internal/logger"
)

// TxGetter returns the transaction bound to ctx, or nil.
type TxGetter func(ctx context.Context) *sqlx.Tx

// store is embedded by every postgres repository.
type store struct {
	db       *sqlx.DB
	txGetter TxGetter
}

// executor picks the transaction from ctx when there is one.
func (s store) executor(ctx context.Context) (sqlx.ExtContext, bool) {
	if s.txGetter != nil {
		if tx := s.txGetter(ctx); tx != nil {
			return tx, true
		}
	}
	return s.db, false
}

func (s store) get(ctx context.Context, dest any, query string, args ...any) error {
	executor, inTx := s.executor(ctx)
	err := retryOnce(ctx, inTx, func() error {
		return sqlx.GetContext(ctx, executor, dest, query, args...)
	})
	logQuery(query, args, dest, err)
	return translateError(err)
}

func (s store) list(ctx context.Context, dest any, query string, args ...any) error {
	executor, inTx := s.executor(ctx)
	err := retryOnce(ctx, inTx, func() error {
		return sqlx.SelectContext(ctx, executor, dest, query, args...)
	})
	logQuery(query, args, dest, err)
	return translateError(err)
}

func (s store) exec(ctx context.Context, query string, args ...any) (int64, error) {
	executor, inTx := s.executor(ctx)
	var rowsAffected int64
	err := retryOnce(ctx, inTx, func() error {
		res, err := executor.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})
	logQuery(query, args, rowsAffected, err)
	return rowsAffected, translateError(err)
}

// logQuery logs the statement on a single line.
func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}

// redacted is a statement argument that never shows up in logs.
type redacted string

func (r redacted) Value() (driver.Value, error) { return string(r), nil }

func (r redacted) String() string { return "[REDACTED]" }

func (r redacted) MarshalJSON() ([]byte, error) { return []byte(`"[REDACTED]"`), nil }

func redactedPtr(s *string) any {
	if s == nil {
		return nil
	}
	return redacted(*s)
}
