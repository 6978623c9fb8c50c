package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/models"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=middlewares

// Tokener extracts the raw token from a request.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// Authenticator resolves a token to a principal.
type Authenticator interface {
	ValidateToken(ctx context.Context, token string) (*models.Principal, error)
}

type principalKey struct{}

// WithPrincipal stores the principal in ctx.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by AuthMiddleware, or nil.
func PrincipalFromContext(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(principalKey{}).(*models.Principal)
	return p
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// AuthMiddleware returns a middleware that resolves the bearer token (or session cookie)
// to a principal. A missing token and an invalid token both answer 401, distinguished by
// the WWW-Authenticate header.
func AuthMiddleware(tokener Tokener, auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				unauthorized(ctx, w, err)
				return
			}

			p, err := auth.ValidateToken(ctx, tokenString)
			if err != nil {
				if errors.Is(err, models.ErrServiceUnavailable) {
					logger.FromContext(ctx).Errorw("token check unavailable", "err", err)
					writeJSONError(w, http.StatusServiceUnavailable, "Service unavailable")
					return
				}
				unauthorized(ctx, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
		})
	}
}

func unauthorized(ctx context.Context, w http.ResponseWriter, err error) {
	logger.FromContext(ctx).Infow("authorization failed", "err", err)
	if errors.Is(err, models.ErrMissingCredential) {
		w.Header().Set("WWW-Authenticate", `Bearer`)
		writeJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
}

// RequireRole rejects principals holding none of roles. Admin passes every check.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				w.Header().Set("WWW-Authenticate", `Bearer`)
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !p.HasRole(roles...) {
				writeJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
