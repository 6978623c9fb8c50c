package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTxKey struct{}

func testTxGetter(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(testTxKey{}).(*sqlx.Tx)
	return tx
}

func testTxSetter(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, testTxKey{}, tx)
}

func TestTxRunner_WithTx(t *testing.T) {
	t.Run("commits", func(t *testing.T) {
		db, mock := newSQLMock(t)
		runner := NewTxRunner(db, testTxGetter, testTxSetter)

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := runner.WithTx(context.Background(), func(ctx context.Context) error {
			assert.NotNil(t, testTxGetter(ctx))
			return nil
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newSQLMock(t)
		runner := NewTxRunner(db, testTxGetter, testTxSetter)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := runner.WithTx(context.Background(), func(ctx context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("joins existing transaction", func(t *testing.T) {
		db, mock := newSQLMock(t)
		runner := NewTxRunner(db, testTxGetter, testTxSetter)

		mock.ExpectBegin()
		tx, err := db.Beginx()
		require.NoError(t, err)
		ctx := testTxSetter(context.Background(), tx)

		err = runner.WithTx(ctx, func(inner context.Context) error {
			assert.Same(t, tx, testTxGetter(inner))
			return nil
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		db, mock := newSQLMock(t)
		runner := NewTxRunner(db, testTxGetter, testTxSetter)

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = runner.WithTx(context.Background(), func(ctx context.Context) error { panic("boom") })
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
