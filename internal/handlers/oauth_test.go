package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthStartHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFlow := NewMockOAuthFlow(ctrl)

	t.Run("redirects with state cookie", func(t *testing.T) {
		var state string
		mockFlow.EXPECT().
			AuthURL("github", gomock.Any()).
			DoAndReturn(func(provider, s string) (string, error) {
				state = s
				return "https://github.com/login/oauth/authorize?state=" + s, nil
			})

		w := httptest.NewRecorder()
		NewOAuthStartHandler(mockFlow).ServeHTTP(w, newRequest(http.MethodGet, "/auth/oauth/github", nil, nil, map[string]string{"provider": "github"}))

		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "https://github.com/login/oauth/authorize?state="+state, w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, oauthStateCookie, cookies[0].Name)
		assert.Equal(t, state, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("unsupported provider", func(t *testing.T) {
		mockFlow.EXPECT().
			AuthURL("myspace", gomock.Any()).
			Return("", models.NewValidationError("unsupported oauth provider"))

		w := httptest.NewRecorder()
		NewOAuthStartHandler(mockFlow).ServeHTTP(w, newRequest(http.MethodGet, "/auth/oauth/myspace", nil, nil, map[string]string{"provider": "myspace"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestOAuthCallbackHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFlow := NewMockOAuthFlow(ctrl)
	mockSvc := NewMockOAuthSignIner(ctrl)
	params := map[string]string{"provider": "google"}

	callback := func(query, cookieState string) *http.Request {
		r := newRequest(http.MethodGet, "/auth/oauth/google/callback"+query, nil, nil, params)
		if cookieState != "" {
			r.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: cookieState})
		}
		return r
	}

	t.Run("success", func(t *testing.T) {
		assertion := &models.OAuthAssertion{
			Provider: models.OAuthGoogle,
			Subject:  "g123",
			Email:    "ann@example.com",
			Name:     "Ann Lee",
		}
		mockFlow.EXPECT().Exchange(gomock.Any(), "google", "CODE").Return(assertion, nil)
		mockSvc.EXPECT().SignInOAuth(gomock.Any(), *assertion).Return(signInResult(true), nil)

		w := httptest.NewRecorder()
		NewOAuthCallbackHandler(mockFlow, mockSvc).ServeHTTP(w, callback("?code=CODE&state=S1", "S1"))

		assert.Equal(t, http.StatusOK, w.Code)
		var got models.SignInResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.True(t, got.Created)
	})

	t.Run("state mismatch", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewOAuthCallbackHandler(mockFlow, mockSvc).ServeHTTP(w, callback("?code=CODE&state=S2", "S1"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing state cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewOAuthCallbackHandler(mockFlow, mockSvc).ServeHTTP(w, callback("?code=CODE&state=S1", ""))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("exchange rejected", func(t *testing.T) {
		mockFlow.EXPECT().Exchange(gomock.Any(), "google", "BAD").Return(nil, models.ErrInvalidCredentials)

		w := httptest.NewRecorder()
		NewOAuthCallbackHandler(mockFlow, mockSvc).ServeHTTP(w, callback("?code=BAD&state=S1", "S1"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
