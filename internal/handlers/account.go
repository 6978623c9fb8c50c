package handlers

import (
	"context"
	"net/http"
)

//go:generate mockgen -source=account.go -destination=account_mock.go -package=handlers

// EmailVerifier consumes email verification tokens.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, token string) error
}

// PasswordResetter runs the password reset flow.
type PasswordResetter interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, newPassword string) error
}

// TokenRequest carries a single-use token
// swagger:model TokenRequest
type TokenRequest struct {
	Token string `json:"token"`
}

// PasswordResetRequest asks for a reset token to be mailed
// swagger:model PasswordResetRequest
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest sets a new password
// swagger:model PasswordResetConfirmRequest
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// NewVerifyEmailHandler returns an HTTP handler consuming an email verification token.
// @Summary Verify email
// @Tags auth
// @Accept json
// @Param tokenRequest body handlers.TokenRequest true "Verification token"
// @Success 204
// @Failure 401 {object} handlers.ErrorResponse "Invalid or expired token"
// @Router /auth/verify-email [post]
func NewVerifyEmailHandler(svc EmailVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := svc.VerifyEmail(r.Context(), req.Token); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// NewPasswordResetHandler returns an HTTP handler requesting a password reset.
// The answer is the same whether or not the email is registered.
// @Summary Request password reset
// @Tags auth
// @Accept json
// @Param passwordResetRequest body handlers.PasswordResetRequest true "Email"
// @Success 202
// @Failure 429 {object} handlers.ErrorResponse "Too many requests"
// @Router /auth/password-reset [post]
func NewPasswordResetHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

// NewPasswordResetConfirmHandler returns an HTTP handler setting a new password.
// @Summary Confirm password reset
// @Tags auth
// @Accept json
// @Param passwordResetConfirmRequest body handlers.PasswordResetConfirmRequest true "Token and new password"
// @Success 204
// @Failure 400 {object} handlers.ErrorResponse "Password too short"
// @Failure 401 {object} handlers.ErrorResponse "Invalid or expired token"
// @Router /auth/password-reset/confirm [post]
func NewPasswordResetConfirmHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetConfirmRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
