package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/books4all/internal/models"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=handlers

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.SignInResult, error)
}

// PasswordSignIner authenticates by email and password.
type PasswordSignIner interface {
	SignInPassword(ctx context.Context, email string, password string) (*models.SignInResult, error)
}

// Refresher rotates a refresh token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

// Logouter revokes session tokens.
type Logouter interface {
	Logout(ctx context.Context, accessToken string, refreshToken string) error
}

// RequestTokener extracts the raw access token from a request.
type RequestTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// UserSyncer is the sync-on-login upsert.
type UserSyncer interface {
	SyncUser(ctx context.Context, in models.SyncUserInput) (*models.UserDB, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password, 8 to 72 characters
	// required: true
	// default: secret123
	Password string `json:"password"`

	// First name
	FirstName string `json:"first_name,omitempty"`

	// Last name
	LastName string `json:"last_name,omitempty"`

	// buyer (default) or seller
	Role models.Role `json:"role,omitempty"`
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token
// swagger:model RefreshRequest
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest optionally carries the refresh token to revoke with the session
// swagger:model LogoutRequest
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// SyncUserRequest is the body of the sync-on-login upsert
// swagger:model SyncUserRequest
type SyncUserRequest struct {
	Email     string  `json:"email"`
	Name      string  `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// NewRegisterHandler returns an HTTP handler for password registration.
// @Summary Register user
// @Description Creates a buyer or seller account and signs it in
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "Register Request"
// @Success 201 {object} models.SignInResult "User registered"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 409 {object} handlers.ErrorResponse "Email already registered"
// @Failure 429 {object} handlers.ErrorResponse "Too many requests"
// @Router /auth/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := svc.Register(r.Context(), models.RegisterInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      req.Role,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		setSessionCookie(w, r, res.Tokens)
		writeJSON(w, http.StatusCreated, res)
	}
}

// NewLoginHandler returns an HTTP handler for password sign-in.
// @Summary User login
// @Description Authenticate user and return a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login Request"
// @Success 200 {object} models.SignInResult "Signed in"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Invalid email or password"
// @Failure 429 {object} handlers.ErrorResponse "Too many requests"
// @Router /auth/login [post]
func NewLoginHandler(svc PasswordSignIner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := svc.SignInPassword(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		setSessionCookie(w, r, res.Tokens)
		writeJSON(w, http.StatusOK, res)
	}
}

// NewRefreshHandler returns an HTTP handler exchanging a refresh token for a new pair.
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param refreshRequest body handlers.RefreshRequest true "Refresh Request"
// @Success 200 {object} models.TokenPair
// @Failure 401 {object} handlers.ErrorResponse "Invalid or expired token"
// @Router /auth/refresh [post]
func NewRefreshHandler(svc Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		pair, err := svc.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			writeError(w, r, err)
			return
		}

		setSessionCookie(w, r, *pair)
		writeJSON(w, http.StatusOK, pair)
	}
}

// NewLogoutHandler returns an HTTP handler revoking the current session.
// @Summary Logout
// @Tags auth
// @Accept json
// @Param logoutRequest body handlers.LogoutRequest false "Logout Request"
// @Success 204
// @Failure 401 {object} handlers.ErrorResponse "Invalid or expired token"
// @Router /auth/logout [post]
// @Security BearerAuth
func NewLogoutHandler(svc Logouter, tokener RequestTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := tokener.GetTokenFromRequest(ctx, r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req LogoutRequest
		if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.Logout(ctx, token, req.RefreshToken); err != nil {
			writeError(w, r, err)
			return
		}

		clearSessionCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// NewSyncUserHandler returns an HTTP handler for the idempotent sync-on-login upsert.
// @Summary Sync user
// @Description Creates the user on first sight or refreshes name and avatar; role and flags are kept
// @Tags auth
// @Accept json
// @Produce json
// @Param syncUserRequest body handlers.SyncUserRequest true "Sync Request"
// @Success 200 {object} models.UserDB
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 403 {object} handlers.ErrorResponse "Account deleted"
// @Router /auth/sync [post]
// @Security BearerAuth
func NewSyncUserHandler(svc UserSyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SyncUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := svc.SyncUser(r.Context(), models.SyncUserInput{
			Email:     req.Email,
			Name:      req.Name,
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
