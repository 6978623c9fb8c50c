package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/books4all/internal/logger"
)

// TxSetter binds a transaction to ctx.
type TxSetter func(ctx context.Context, tx *sqlx.Tx) context.Context

// TxRunner runs multi-statement operations in one transaction.
// When ctx already carries a transaction (e.g. from TxMiddleware) fn joins it.
type TxRunner struct {
	db       *sqlx.DB
	txGetter TxGetter
	txSetter TxSetter
}

func NewTxRunner(db *sqlx.DB, txGetter TxGetter, txSetter TxSetter) *TxRunner {
	return &TxRunner{db: db, txGetter: txGetter, txSetter: txSetter}
}

// WithTx calls fn inside a transaction and commits when fn returns nil.
func (r *TxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if r.txGetter != nil && r.txGetter(ctx) != nil {
		return fn(ctx)
	}

	var tx *sqlx.Tx
	err = retryOnce(ctx, false, func() error {
		var beginErr error
		tx, beginErr = r.db.BeginTxx(ctx, nil)
		return beginErr
	})
	if err != nil {
		logger.Log.Errorw("failed to begin transaction", "error", err)
		return translateError(err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Log.Errorw("failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	if err = fn(r.txSetter(ctx, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		logger.Log.Errorw("failed to commit transaction", "error", err)
		return fmt.Errorf("commit: %w", translateError(err))
	}
	return nil
}
