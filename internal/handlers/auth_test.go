package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/jwt"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signInResult(created bool) *models.SignInResult {
	return &models.SignInResult{
		UserID:      uuid.New(),
		Email:       "john@example.com",
		DisplayName: "John Doe",
		Role:        models.RoleBuyer,
		Created:     created,
		Tokens: models.TokenPair{
			AccessToken:  "ACCESS",
			RefreshToken: "REFRESH",
			TokenType:    "Bearer",
			ExpiresIn:    900,
		},
	}
}

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockRegisterer(ctrl)
	res := signInResult(true)

	tests := []struct {
		name         string
		inputBody    any
		mockSetup    func()
		expectedCode int
		expectedErr  string
	}{
		{
			name: "success",
			inputBody: RegisterRequest{
				Email:     "john@example.com",
				Password:  "secret123",
				FirstName: "John",
				LastName:  "Doe",
				Role:      models.RoleSeller,
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), models.RegisterInput{
						Email:     "john@example.com",
						Password:  "secret123",
						FirstName: "John",
						LastName:  "Doe",
						Role:      models.RoleSeller,
					}).
					Return(res, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "invalid JSON",
			inputBody:    "{invalid json}",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid request body",
		},
		{
			name:      "duplicate email",
			inputBody: RegisterRequest{Email: "john@example.com", Password: "secret123"},
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), gomock.Any()).
					Return(nil, models.ErrDuplicateEmail)
			},
			expectedCode: http.StatusConflict,
			expectedErr:  "Email already registered",
		},
		{
			name:      "short password",
			inputBody: RegisterRequest{Email: "john@example.com", Password: "short"},
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), gomock.Any()).
					Return(nil, models.NewValidationError("password must be at least 8 characters"))
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "constraint violation: password must be at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			w := httptest.NewRecorder()
			NewRegisterHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/auth/register", tt.inputBody, nil, nil))

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, decodeError(t, w))
				return
			}

			var got models.SignInResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, *res, got)

			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, jwt.SessionCookieName, cookies[0].Name)
			assert.Equal(t, "ACCESS", cookies[0].Value)
		})
	}
}

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockPasswordSignIner(ctrl)

	tests := []struct {
		name         string
		inputBody    any
		mockSetup    func()
		expectedCode int
		expectedErr  string
	}{
		{
			name:      "success",
			inputBody: LoginRequest{Email: "john@example.com", Password: "secret123"},
			mockSetup: func() {
				mockSvc.EXPECT().
					SignInPassword(gomock.Any(), "john@example.com", "secret123").
					Return(signInResult(false), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "invalid JSON",
			inputBody:    "{invalid json}",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid request body",
		},
		{
			name:      "wrong credentials",
			inputBody: LoginRequest{Email: "john@example.com", Password: "wrongpass"},
			mockSetup: func() {
				mockSvc.EXPECT().
					SignInPassword(gomock.Any(), "john@example.com", "wrongpass").
					Return(nil, models.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
			expectedErr:  "Invalid email or password",
		},
		{
			name:      "internal error",
			inputBody: LoginRequest{Email: "john@example.com", Password: "secret123"},
			mockSetup: func() {
				mockSvc.EXPECT().
					SignInPassword(gomock.Any(), "john@example.com", "secret123").
					Return(nil, errors.New("database error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			w := httptest.NewRecorder()
			NewLoginHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/auth/login", tt.inputBody, nil, nil))

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, decodeError(t, w))
				assert.Empty(t, w.Result().Cookies())
				return
			}
			var got models.SignInResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, "ACCESS", got.Tokens.AccessToken)
			assert.False(t, got.Created)
		})
	}
}

func TestRefreshHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockRefresher(ctrl)

	t.Run("success", func(t *testing.T) {
		pair := &models.TokenPair{AccessToken: "NEW", RefreshToken: "NEWREFRESH", TokenType: "Bearer", ExpiresIn: 900}
		mockSvc.EXPECT().Refresh(gomock.Any(), "OLD").Return(pair, nil)

		w := httptest.NewRecorder()
		NewRefreshHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: "OLD"}, nil, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got models.TokenPair
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, *pair, got)
	})

	t.Run("revoked", func(t *testing.T) {
		mockSvc.EXPECT().Refresh(gomock.Any(), "USED").Return(nil, models.ErrInvalidToken)

		w := httptest.NewRecorder()
		NewRefreshHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: "USED"}, nil, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid or expired token", decodeError(t, w))
	})
}

func TestLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLogouter(ctrl)
	mockTokener := NewMockRequestTokener(ctrl)

	t.Run("with refresh token", func(t *testing.T) {
		mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("ACCESS", nil)
		mockSvc.EXPECT().Logout(gomock.Any(), "ACCESS", "REFRESH").Return(nil)

		w := httptest.NewRecorder()
		NewLogoutHandler(mockSvc, mockTokener).ServeHTTP(w, newRequest(http.MethodPost, "/auth/logout", LogoutRequest{RefreshToken: "REFRESH"}, nil, nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, jwt.SessionCookieName, cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("without body", func(t *testing.T) {
		mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("ACCESS", nil)
		mockSvc.EXPECT().Logout(gomock.Any(), "ACCESS", "").Return(nil)

		w := httptest.NewRecorder()
		NewLogoutHandler(mockSvc, mockTokener).ServeHTTP(w, newRequest(http.MethodPost, "/auth/logout", nil, nil, nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("", models.ErrMissingToken)

		w := httptest.NewRecorder()
		NewLogoutHandler(mockSvc, mockTokener).ServeHTTP(w, newRequest(http.MethodPost, "/auth/logout", nil, nil, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authentication required", decodeError(t, w))
	})
}

func TestSyncUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserSyncer(ctrl)
	avatar := "https://cdn.example.com/a.png"

	t.Run("success", func(t *testing.T) {
		user := &models.UserDB{UserID: uuid.New(), Email: "jane@example.com", Role: models.RoleBuyer, IsActive: true}
		mockSvc.EXPECT().
			SyncUser(gomock.Any(), models.SyncUserInput{Email: "jane@example.com", Name: "Jane Roe", AvatarURL: &avatar}).
			Return(user, nil)

		w := httptest.NewRecorder()
		body := SyncUserRequest{Email: "jane@example.com", Name: "Jane Roe", AvatarURL: &avatar}
		NewSyncUserHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/auth/sync", body, nil, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got models.UserDB
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, user.UserID, got.UserID)
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("deleted account", func(t *testing.T) {
		mockSvc.EXPECT().SyncUser(gomock.Any(), gomock.Any()).Return(nil, models.ErrForbidden)

		w := httptest.NewRecorder()
		NewSyncUserHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/auth/sync", SyncUserRequest{Email: "gone@example.com"}, nil, nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
