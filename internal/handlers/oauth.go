package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/models"
)

//go:generate mockgen -source=oauth.go -destination=oauth_mock.go -package=handlers

// OAuthFlow runs the provider side of the authorization code flow.
type OAuthFlow interface {
	AuthURL(provider string, state string) (string, error)
	Exchange(ctx context.Context, provider string, code string) (*models.OAuthAssertion, error)
}

// OAuthSignIner resolves a provider assertion to a user.
type OAuthSignIner interface {
	SignInOAuth(ctx context.Context, a models.OAuthAssertion) (*models.SignInResult, error)
}

const oauthStateCookie = "oauth_state"

// NewOAuthStartHandler redirects to the provider consent page.
// @Summary Start OAuth sign-in
// @Tags auth
// @Param provider path string true "google, github or facebook"
// @Success 307
// @Failure 400 {object} handlers.ErrorResponse "Unsupported provider"
// @Router /auth/oauth/{provider} [get]
func NewOAuthStartHandler(flow OAuthFlow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.NewString()
		url, err := flow.AuthURL(chi.URLParam(r, "provider"), state)
		if err != nil {
			writeError(w, r, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			MaxAge:   600,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
	}
}

// NewOAuthCallbackHandler completes the provider flow and signs the user in.
// @Summary OAuth callback
// @Tags auth
// @Produce json
// @Param provider path string true "google, github or facebook"
// @Param code query string true "Authorization code"
// @Param state query string true "State"
// @Success 200 {object} models.SignInResult
// @Failure 401 {object} handlers.ErrorResponse "State mismatch or rejected code"
// @Router /auth/oauth/{provider}/callback [get]
func NewOAuthCallbackHandler(flow OAuthFlow, svc OAuthSignIner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		provider := chi.URLParam(r, "provider")

		cookie, err := r.Cookie(oauthStateCookie)
		state := r.URL.Query().Get("state")
		if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
			logger.FromContext(ctx).Infow("oauth state mismatch", "provider", provider)
			writeError(w, r, models.ErrInvalidCredentials)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

		assertion, err := flow.Exchange(ctx, provider, r.URL.Query().Get("code"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		res, err := svc.SignInOAuth(ctx, *assertion)
		if err != nil {
			writeError(w, r, err)
			return
		}

		setSessionCookie(w, r, res.Tokens)
		writeJSON(w, http.StatusOK, res)
	}
}
