package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	principal := &models.Principal{UserID: uuid.New(), Email: "a@x.com", Role: models.RoleBuyer}

	tests := []struct {
		name             string
		mockSetup        func(tok *MockTokener, auth *MockAuthenticator)
		expectedStatus   int
		expectedAuthHdr  string
		expectNextCalled bool
	}{
		{
			name: "NoToken",
			mockSetup: func(tok *MockTokener, auth *MockAuthenticator) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", models.ErrMissingToken)
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedAuthHdr: `Bearer`,
		},
		{
			name: "MalformedHeader",
			mockSetup: func(tok *MockTokener, auth *MockAuthenticator) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", models.ErrInvalidToken)
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedAuthHdr: `Bearer error="invalid_token"`,
		},
		{
			name: "InvalidToken",
			mockSetup: func(tok *MockTokener, auth *MockAuthenticator) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				auth.EXPECT().ValidateToken(gomock.Any(), "sometoken").
					Return(nil, models.ErrInvalidToken)
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedAuthHdr: `Bearer error="invalid_token"`,
		},
		{
			name: "RevocationStoreDown",
			mockSetup: func(tok *MockTokener, auth *MockAuthenticator) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				auth.EXPECT().ValidateToken(gomock.Any(), "sometoken").
					Return(nil, errors.Join(models.ErrServiceUnavailable, errors.New("redis down")))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name: "ValidToken",
			mockSetup: func(tok *MockTokener, auth *MockAuthenticator) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				auth.EXPECT().ValidateToken(gomock.Any(), "validtoken").
					Return(principal, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockTokener(ctrl)
			mockAuth := NewMockAuthenticator(ctrl)
			tt.mockSetup(mockTokener, mockAuth)

			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, principal, PrincipalFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			handler := AuthMiddleware(mockTokener, mockAuth)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
			assert.Equal(t, tt.expectedAuthHdr, rr.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireRole(models.RoleSeller)(next)

	tests := []struct {
		name     string
		p        *models.Principal
		expected int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"buyer", &models.Principal{Role: models.RoleBuyer}, http.StatusForbidden},
		{"seller", &models.Principal{Role: models.RoleSeller}, http.StatusNoContent},
		{"admin", &models.Principal{Role: models.RoleAdmin}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.p != nil {
				req = req.WithContext(WithPrincipal(req.Context(), tt.p))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.expected, rr.Code)
		})
	}
}
