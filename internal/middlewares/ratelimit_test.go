package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name           string
		allowed        bool
		retryAfter     time.Duration
		err            error
		expectedStatus int
		expectedRetry  string
	}{
		{name: "allowed", allowed: true, expectedStatus: http.StatusOK},
		{name: "rejected", retryAfter: 90*time.Second + 200*time.Millisecond, expectedStatus: http.StatusTooManyRequests, expectedRetry: "91"},
		{name: "limiter down fails open", err: errors.New("redis down"), expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewMockRateLimiter(ctrl)
			limiter.EXPECT().Allow(gomock.Any(), "login:192.0.2.1", 5, 15*time.Minute).
				Return(tt.allowed, tt.retryAfter, tt.err)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := RateLimitMiddleware(limiter, "login", 5, 15*time.Minute)(next)

			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = "192.0.2.1:54321"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedRetry, rr.Header().Get("Retry-After"))
		})
	}
}
