package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/models"
)

//go:generate mockgen -source=users.go -destination=users_mock.go -package=services

// ProfileWriter defines profile and account lifecycle writes.
type ProfileWriter interface {
	UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.UserDB, error)
	SoftDeleteCascade(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
}

// Transactor runs fn in a database transaction carried by the context.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserService manages the profile of the signed-in user and account removal.
type UserService struct {
	reader UserReader
	writer ProfileWriter
	tx     Transactor
	events EventPublisher
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserReader, writer ProfileWriter, tx Transactor, events EventPublisher) *UserService {
	return &UserService{reader: reader, writer: writer, tx: tx, events: events}
}

// GetProfile returns the user behind the principal.
func (svc *UserService) GetProfile(ctx context.Context, p *models.Principal) (*models.UserDB, error) {
	if p == nil {
		return nil, models.ErrMissingToken
	}
	return svc.reader.GetByID(ctx, p.UserID)
}

// UpdateProfile changes name and avatar. Nil fields are left as they are.
func (svc *UserService) UpdateProfile(ctx context.Context, p *models.Principal, upd models.ProfileUpdate) (*models.UserDB, error) {
	if p == nil {
		return nil, models.ErrMissingToken
	}
	upd.FirstName = trimmed(upd.FirstName)
	upd.LastName = trimmed(upd.LastName)
	if upd.FirstName != nil && len(*upd.FirstName) > 100 || upd.LastName != nil && len(*upd.LastName) > 100 {
		return nil, models.NewValidationError("names must be at most 100 characters")
	}
	if upd.AvatarURL != nil && *upd.AvatarURL != "" {
		u, err := url.Parse(*upd.AvatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, models.NewValidationError("avatar_url must be an http(s) URL")
		}
	}

	user, err := svc.writer.UpdateProfile(ctx, p.UserID, upd)
	if err != nil {
		logger.Log.Errorw("failed to update profile", "user_id", p.UserID, "err", err)
		return nil, err
	}
	return user, nil
}

// DeleteAccount soft-deletes the user together with their books, orders, messages and reviews.
func (svc *UserService) DeleteAccount(ctx context.Context, p *models.Principal) error {
	if p == nil {
		return models.ErrMissingToken
	}
	err := svc.tx.WithTx(ctx, func(ctx context.Context) error {
		return svc.writer.SoftDeleteCascade(ctx, p.UserID)
	})
	if err != nil {
		logger.Log.Errorw("failed to delete account", "user_id", p.UserID, "err", err)
		return err
	}

	svc.publish(ctx, p.UserID, "soft")
	return nil
}

// Purge destroys a user row. Books, orders, messages and reviews go with it through
// foreign keys; order items bought from the user keep their snapshot.
func (svc *UserService) Purge(ctx context.Context, actor *models.Principal, userID uuid.UUID) error {
	if actor == nil || actor.Role != models.RoleAdmin {
		return models.ErrForbidden
	}
	if err := svc.writer.HardDelete(ctx, userID); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			logger.Log.Errorw("failed to purge user", "user_id", userID, "err", err)
		}
		return err
	}

	logger.Log.Infow("user purged", "user_id", userID, "by", actor.UserID)
	svc.publish(ctx, userID, "hard")
	return nil
}

func (svc *UserService) publish(ctx context.Context, userID uuid.UUID, mode string) {
	if svc.events != nil {
		svc.events.Publish(ctx, models.EventUserDeleted, userID, map[string]string{"mode": mode})
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
