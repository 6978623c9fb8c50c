package middlewares

import (
	"bytes"
	"context"
	"net/http"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/books4all/internal/logger"
)

// TxMiddleware wraps an HTTP handler with a database transaction. The response is held
// back until the transaction ends: a status of 400 or above rolls back, anything else
// commits, and a failed commit turns the response into a 500. Hooks registered with
// AfterCommit run after a successful commit, once the response is written.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			tx, err := db.BeginTxx(ctx, nil)
			if err != nil {
				logger.FromContext(ctx).Errorw("failed to begin transaction", "error", err)
				writeJSONError(w, http.StatusServiceUnavailable, "Service unavailable")
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					tx.Rollback()
					panic(rec)
				}
			}()

			hooks := &afterCommitHooks{}
			txCtx := context.WithValue(SetTxToContext(ctx, tx), afterCommitKey, hooks)

			bw := &bufferedWriter{header: w.Header(), status: http.StatusOK}
			next.ServeHTTP(bw, r.WithContext(txCtx))

			if bw.status >= http.StatusBadRequest {
				if err := tx.Rollback(); err != nil {
					logger.FromContext(ctx).Errorw("failed to rollback transaction", "error", err)
				}
				bw.flush(w)
				return
			}

			if err := tx.Commit(); err != nil {
				logger.FromContext(ctx).Errorw("failed to commit transaction", "error", err)
				w.Header().Del("Content-Length")
				writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			bw.flush(w)
			hooks.run(context.WithoutCancel(ctx))
		})
	}
}

// bufferedWriter holds status and body until the transaction outcome is known.
type bufferedWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (bw *bufferedWriter) Header() http.Header { return bw.header }

func (bw *bufferedWriter) WriteHeader(code int) {
	if bw.wroteHeader {
		return
	}
	bw.wroteHeader = true
	bw.status = code
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	bw.wroteHeader = true
	return bw.body.Write(b)
}

func (bw *bufferedWriter) flush(w http.ResponseWriter) {
	w.WriteHeader(bw.status)
	if bw.body.Len() > 0 {
		w.Write(bw.body.Bytes())
	}
}

// contextKey is an unexported type for keys in context
type contextKey struct{}

type afterCommitContextKey struct{}

var (
	txKey          = contextKey{}
	afterCommitKey = afterCommitContextKey{}
)

type afterCommitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

func (h *afterCommitHooks) add(fn func(ctx context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

func (h *afterCommitHooks) run(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
}

// AfterCommit defers fn until the request transaction commits; on rollback fn never runs.
// Outside TxMiddleware fn runs immediately.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if hooks, ok := ctx.Value(afterCommitKey).(*afterCommitHooks); ok {
		hooks.add(fn)
		return
	}
	fn(ctx)
}

// SetTxToContext stores a transaction in the context
func SetTxToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// GetTxFromContext retrieves the transaction from the context. Returns nil if not present.
func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey).(*sqlx.Tx)
	return tx
}
