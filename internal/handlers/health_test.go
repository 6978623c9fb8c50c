package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name         string
		checks       map[string]HealthCheck
		expectedCode int
		expected     HealthResponse
	}{
		{
			name:         "all healthy",
			checks:       map[string]HealthCheck{"database": ok, "redis": ok},
			expectedCode: http.StatusOK,
			expected: HealthResponse{Status: "healthy", Version: "1.0.0",
				Checks: map[string]string{"database": "ok", "redis": "ok"}},
		},
		{
			name:         "database down",
			checks:       map[string]HealthCheck{"database": down, "redis": ok},
			expectedCode: http.StatusServiceUnavailable,
			expected: HealthResponse{Status: "unhealthy", Version: "1.0.0",
				Checks: map[string]string{"database": "unavailable", "redis": "ok"}},
		},
		{
			name:         "no redis configured",
			checks:       map[string]HealthCheck{"database": ok},
			expectedCode: http.StatusOK,
			expected: HealthResponse{Status: "healthy", Version: "1.0.0",
				Checks: map[string]string{"database": "ok"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHealthHandler("1.0.0", tt.checks).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedCode, w.Code)
			var got HealthResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			assert.Equal(t, tt.expected, got)
		})
	}
}
