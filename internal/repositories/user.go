package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/books4all/internal/models"
)

const userColumns = `id, email, password_hash, role, email_verified, is_active, first_name, last_name,
	avatar_url, oauth_provider, oauth_provider_id, created_at, updated_at, deleted_at`

// UserReadRepository reads active (not soft-deleted) users.
type UserReadRepository struct {
	store
}

func NewUserReadRepository(db *sqlx.DB, txGetter TxGetter) *UserReadRepository {
	return &UserReadRepository{store{db: db, txGetter: txGetter}}
}

// GetByID returns models.ErrNotFound for unknown or soft-deleted users.
func (r *UserReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`

	var user models.UserDB
	if err := r.get(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail compares emails case-insensitively.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) AND deleted_at IS NULL`

	var user models.UserDB
	if err := r.get(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserReadRepository) GetByOAuth(ctx context.Context, provider models.OAuthProvider, subject string) (*models.UserDB, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE oauth_provider = $1 AND oauth_provider_id = $2 AND deleted_at IS NULL
	`

	var user models.UserDB
	if err := r.get(ctx, &user, query, provider, subject); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserWriteRepository handles user writes.
type UserWriteRepository struct {
	store
}

func NewUserWriteRepository(db *sqlx.DB, txGetter TxGetter) *UserWriteRepository {
	return &UserWriteRepository{store{db: db, txGetter: txGetter}}
}

// Create inserts a user. A taken email yields models.ErrDuplicateEmail.
func (r *UserWriteRepository) Create(ctx context.Context, u *models.UserDB) (*models.UserDB, error) {
	query := `
		INSERT INTO users (email, password_hash, role, email_verified, is_active,
			first_name, last_name, avatar_url, oauth_provider, oauth_provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	var created models.UserDB
	err := r.get(ctx, &created, query,
		models.NormalizeEmail(u.Email), redactedPtr(u.PasswordHash), u.Role, u.EmailVerified, u.IsActive,
		u.FirstName, u.LastName, u.AvatarURL, u.OAuthProvider, u.OAuthProviderID,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

type upsertedUser struct {
	models.UserDB
	Inserted bool `db:"inserted"`
}

// Upsert creates the user or refreshes the profile fields of the existing one keyed by
// lower(email). Role, flags and credentials of an existing row are never touched.
// The boolean result reports whether a row was inserted.
func (r *UserWriteRepository) Upsert(ctx context.Context, email string, firstName, lastName, avatarURL *string) (*models.UserDB, bool, error) {
	query := `
		INSERT INTO users (email, first_name, last_name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ((lower(email))) DO UPDATE
		SET first_name = COALESCE(EXCLUDED.first_name, users.first_name),
		    last_name = COALESCE(EXCLUDED.last_name, users.last_name),
		    avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url),
		    updated_at = NOW()
		WHERE users.deleted_at IS NULL
		RETURNING ` + userColumns + `, (xmax = 0) AS inserted`

	email = models.NormalizeEmail(email)

	var row upsertedUser
	err := r.get(ctx, &row, query, email, firstName, lastName, avatarURL)
	if errors.Is(err, models.ErrDuplicateEmail) {
		user, err := r.updateProfileByEmail(ctx, email, firstName, lastName, avatarURL)
		return user, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return &row.UserDB, row.Inserted, nil
}

func (r *UserWriteRepository) updateProfileByEmail(ctx context.Context, email string, firstName, lastName, avatarURL *string) (*models.UserDB, error) {
	query := `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    avatar_url = COALESCE($4, avatar_url),
		    updated_at = NOW()
		WHERE lower(email) = lower($1) AND deleted_at IS NULL
		RETURNING ` + userColumns

	var user models.UserDB
	if err := r.get(ctx, &user, query, email, firstName, lastName, avatarURL); err != nil {
		return nil, err
	}
	return &user, nil
}

// LinkOAuth attaches a provider identity to an existing account and marks its email verified.
func (r *UserWriteRepository) LinkOAuth(ctx context.Context, id uuid.UUID, provider models.OAuthProvider, subject string, avatarURL *string) (*models.UserDB, error) {
	query := `
		UPDATE users
		SET oauth_provider = $2,
		    oauth_provider_id = $3,
		    avatar_url = COALESCE(avatar_url, $4),
		    email_verified = TRUE,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + userColumns

	var user models.UserDB
	if err := r.get(ctx, &user, query, id, provider, subject, avatarURL); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserWriteRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE users SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	n, err := r.exec(ctx, query, id, redacted(passwordHash))
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserWriteRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users SET email_verified = TRUE, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	n, err := r.exec(ctx, query, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateProfile changes only the fields set in upd.
func (r *UserWriteRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.UserDB, error) {
	query := `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    avatar_url = COALESCE($4, avatar_url),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + userColumns

	var user models.UserDB
	if err := r.get(ctx, &user, query, id, upd.FirstName, upd.LastName, upd.AvatarURL); err != nil {
		return nil, err
	}
	return &user, nil
}

// SoftDeleteCascade marks the user and everything they own as deleted.
// It must run inside a transaction.
func (r *UserWriteRepository) SoftDeleteCascade(ctx context.Context, id uuid.UUID) error {
	n, err := r.exec(ctx, `
		UPDATE users SET deleted_at = NOW(), is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}

	cascade := []string{
		`UPDATE books SET deleted_at = NOW(), updated_at = NOW() WHERE seller_id = $1 AND deleted_at IS NULL`,
		`UPDATE orders SET deleted_at = NOW(), updated_at = NOW() WHERE buyer_id = $1 AND deleted_at IS NULL`,
		`UPDATE messages SET deleted_at = NOW(), updated_at = NOW()
		 WHERE (sender_id = $1 OR recipient_id = $1) AND deleted_at IS NULL`,
		`UPDATE reviews SET deleted_at = NOW(), updated_at = NOW() WHERE user_id = $1 AND deleted_at IS NULL`,
	}
	for _, query := range cascade {
		if _, err := r.exec(ctx, query, id); err != nil {
			return err
		}
	}
	return nil
}

// HardDelete removes the row; foreign keys cascade to owned rows and null out
// order_items.book_id of other buyers' orders.
func (r *UserWriteRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	n, err := r.exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
