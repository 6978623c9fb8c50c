package models

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the marketplace role of a user.
type Role string

// Supported roles
const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// OAuthProvider identifies an external identity provider.
type OAuthProvider string

// Supported OAuth providers
const (
	OAuthGoogle   OAuthProvider = "google"
	OAuthFacebook OAuthProvider = "facebook"
	OAuthGitHub   OAuthProvider = "github"
)

// ParseOAuthProvider accepts provider names in any case ("GOOGLE", "google").
func ParseOAuthProvider(s string) (OAuthProvider, bool) {
	p := OAuthProvider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case OAuthGoogle, OAuthFacebook, OAuthGitHub:
		return p, true
	}
	return "", false
}

// UserDB represents a user record in the database
type UserDB struct {
	UserID          uuid.UUID      `json:"id" db:"id"`                                   // Primary key
	Email           string         `json:"email" db:"email"`                             // Stored lower-cased
	PasswordHash    *string        `json:"-" db:"password_hash"`                         // NULL for OAuth-only accounts
	Role            Role           `json:"role" db:"role"`                               // buyer, seller or admin
	EmailVerified   bool           `json:"email_verified" db:"email_verified"`           // Set by OAuth sign-in or verification link
	IsActive        bool           `json:"is_active" db:"is_active"`                     // Disabled accounts cannot sign in
	FirstName       *string        `json:"first_name,omitempty" db:"first_name"`         // Optional
	LastName        *string        `json:"last_name,omitempty" db:"last_name"`           // Optional
	AvatarURL       *string        `json:"avatar_url,omitempty" db:"avatar_url"`         // Optional
	OAuthProvider   *OAuthProvider `json:"oauth_provider,omitempty" db:"oauth_provider"` // Set together with OAuthProviderID
	OAuthProviderID *string        `json:"-" db:"oauth_provider_id"`                     // Provider subject
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`                   // Creation timestamp
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`                   // Last update timestamp
	DeletedAt       *time.Time     `json:"deleted_at,omitempty" db:"deleted_at"`         // Soft-delete marker
}

// DisplayName joins first and last name, falling back to the email.
func (u *UserDB) DisplayName() string {
	var parts []string
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	if len(parts) == 0 {
		return u.Email
	}
	return strings.Join(parts, " ")
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

// HasRole reports whether the principal holds one of roles. Admin passes every check.
func (p *Principal) HasRole(roles ...Role) bool {
	if p == nil {
		return false
	}
	if p.Role == RoleAdmin {
		return true
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// OAuthAssertion is a verified identity statement from an external provider.
type OAuthAssertion struct {
	Provider  OAuthProvider
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

// NormalizeEmail trims and lower-cases an address. Emails are compared case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address syntax.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return NewValidationError("invalid email %q", email)
	}
	return nil
}

// SplitName splits a display name into first and last name.
func SplitName(name string) (first, last *string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return nil, nil
	}
	f := fields[0]
	first = &f
	if len(fields) > 1 {
		l := strings.Join(fields[1:], " ")
		last = &l
	}
	return first, last
}

// RegisterInput is the validated payload for password registration.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Validate normalizes the input and checks it.
func (in *RegisterInput) Validate() error {
	in.Email = NormalizeEmail(in.Email)
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	if len(in.Password) < MinPasswordLength {
		return NewValidationError("password must be at least %d characters", MinPasswordLength)
	}
	if len(in.Password) > 72 {
		return NewValidationError("password must be at most 72 bytes")
	}
	if in.Role == "" {
		in.Role = RoleBuyer
	}
	if in.Role != RoleBuyer && in.Role != RoleSeller {
		return NewValidationError("role must be buyer or seller")
	}
	return nil
}

// SyncUserInput is the payload of the idempotent sync-on-login upsert.
type SyncUserInput struct {
	Email     string
	Name      string
	AvatarURL *string
}

// ProfileUpdate carries optional profile changes.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	AvatarURL *string
}
