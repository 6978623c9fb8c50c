package middlewares

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sbilibin2017/books4all/internal/logger"
)

//go:generate mockgen -source=ratelimit.go -destination=ratelimit_mock.go -package=middlewares

// RateLimiter records a call under key and reports whether it is within limit.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

// RateLimitMiddleware limits calls per client address to limit per window. When the limiter
// is unreachable requests are let through.
func RateLimitMiddleware(limiter RateLimiter, name string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := name + ":" + clientIP(r)

			ok, retryAfter, err := limiter.Allow(ctx, key, limit, window)
			if err != nil {
				logger.FromContext(ctx).Warnw("rate limiter unavailable, allowing request", "key", key, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				secs := int(math.Ceil(retryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				logger.FromContext(ctx).Infow("rate limit exceeded", "key", key, "retry_after", secs)
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				writeJSONError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware rewrites
// RemoteAddr from X-Forwarded-For upstream of this one.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
