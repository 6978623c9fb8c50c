package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/middlewares"
	"github.com/sbilibin2017/books4all/internal/models"
)

//go:generate mockgen -source=users.go -destination=users_mock.go -package=handlers

// ProfileManager serves the signed-in user's own account.
type ProfileManager interface {
	GetProfile(ctx context.Context, p *models.Principal) (*models.UserDB, error)
	UpdateProfile(ctx context.Context, p *models.Principal, upd models.ProfileUpdate) (*models.UserDB, error)
	DeleteAccount(ctx context.Context, p *models.Principal) error
}

// UserPurger hard-deletes users.
type UserPurger interface {
	Purge(ctx context.Context, actor *models.Principal, userID uuid.UUID) error
}

// UpdateProfileRequest carries optional profile changes
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// NewGetProfileHandler returns the signed-in user.
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} models.UserDB
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /users/me [get]
// @Security BearerAuth
func NewGetProfileHandler(svc ProfileManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.GetProfile(r.Context(), principal(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// NewUpdateProfileHandler updates name and avatar of the signed-in user.
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param updateProfileRequest body handlers.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} models.UserDB
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Router /users/me [patch]
// @Security BearerAuth
func NewUpdateProfileHandler(svc ProfileManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateProfileRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		user, err := svc.UpdateProfile(r.Context(), principal(r), models.ProfileUpdate{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// NewDeleteAccountHandler soft-deletes the signed-in user and everything they own.
// The caller's access token is revoked once the deletion commits.
// @Summary Delete own account
// @Tags users
// @Success 204
// @Router /users/me [delete]
// @Security BearerAuth
func NewDeleteAccountHandler(svc ProfileManager, sessions Logouter, tokener RequestTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := svc.DeleteAccount(ctx, principal(r)); err != nil {
			writeError(w, r, err)
			return
		}

		if token, err := tokener.GetTokenFromRequest(ctx, r); err == nil {
			middlewares.AfterCommit(ctx, func(ctx context.Context) {
				if err := sessions.Logout(ctx, token, ""); err != nil {
					logger.FromContext(ctx).Warnw("failed to revoke token of deleted account", "err", err)
				}
			})
		}

		clearSessionCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// NewPurgeUserHandler destroys a user row.
// @Summary Purge user (admin)
// @Tags admin
// @Param id path string true "User ID"
// @Success 204
// @Failure 403 {object} handlers.ErrorResponse "Forbidden"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Router /admin/users/{id} [delete]
// @Security BearerAuth
func NewPurgeUserHandler(svc UserPurger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		if err := svc.Purge(r.Context(), principal(r), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
