package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/models"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=services

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByOAuth(ctx context.Context, provider models.OAuthProvider, subject string) (*models.UserDB, error)
}

// UserWriter defines identity write operations for users.
type UserWriter interface {
	Create(ctx context.Context, u *models.UserDB) (*models.UserDB, error)
	Upsert(ctx context.Context, email string, firstName *string, lastName *string, avatarURL *string) (*models.UserDB, bool, error)
	LinkOAuth(ctx context.Context, id uuid.UUID, provider models.OAuthProvider, subject string, avatarURL *string) (*models.UserDB, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Generate(ctx context.Context, p *models.Principal, typ models.TokenType) (string, *models.Claims, error)
	GetClaims(ctx context.Context, token string, typ models.TokenType) (*models.Claims, error)
	ExpiresIn() int64
}

// TokenRevoker tracks revoked token ids until expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService resolves principals from passwords, OAuth assertions and tokens.
type AuthService struct {
	reader  UserReader
	writer  UserWriter
	tokens  TokenIssuer
	revoker TokenRevoker
	events  EventPublisher
	cost    int
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

// NewAuthService creates a new AuthService instance. revoker and events may be nil.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	tokens TokenIssuer,
	revoker TokenRevoker,
	events EventPublisher,
	opts ...AuthOption,
) *AuthService {
	svc := &AuthService{
		reader:  reader,
		writer:  writer,
		tokens:  tokens,
		revoker: revoker,
		events:  events,
		cost:    bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Register creates a password account and signs it in.
func (svc *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.SignInResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), svc.cost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}
	hashStr := string(hash)

	user, err := svc.writer.Create(ctx, &models.UserDB{
		Email:        in.Email,
		PasswordHash: &hashStr,
		Role:         in.Role,
		IsActive:     true,
		FirstName:    optional(in.FirstName),
		LastName:     optional(in.LastName),
	})
	if err != nil {
		if !errors.Is(err, models.ErrDuplicateEmail) {
			logger.Log.Errorw("failed to save user", "err", err)
		}
		return nil, err
	}

	svc.publish(ctx, models.EventUserRegistered, user.UserID, map[string]string{
		"email": user.Email,
		"role":  string(user.Role),
	})
	svc.sendVerification(ctx, user)

	return svc.issue(ctx, user, true)
}

// SignInPassword authenticates by email and password. Unknown email, OAuth-only accounts,
// disabled accounts and wrong passwords are indistinguishable to the caller.
func (svc *AuthService) SignInPassword(ctx context.Context, email, password string) (*models.SignInResult, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, models.ErrMissingCredential
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			logger.Log.Infow("sign-in for unknown email", "email", email)
			return nil, models.ErrInvalidCredentials
		}
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}

	if user.PasswordHash == nil || !user.IsActive {
		logger.Log.Infow("password sign-in refused", "user_id", user.UserID, "active", user.IsActive)
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Infow("invalid credentials", "user_id", user.UserID)
		return nil, models.ErrInvalidCredentials
	}

	return svc.issue(ctx, user, false)
}

// SignInOAuth resolves a provider assertion to a user, creating or linking the account.
// Repeated sign-ins with the same assertion return the same user.
func (svc *AuthService) SignInOAuth(ctx context.Context, a models.OAuthAssertion) (*models.SignInResult, error) {
	provider, ok := models.ParseOAuthProvider(string(a.Provider))
	if !ok {
		return nil, models.NewValidationError("unsupported provider %q", a.Provider)
	}
	if a.Subject == "" {
		return nil, models.ErrMissingCredential
	}
	email := models.NormalizeEmail(a.Email)
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	avatar := optional(a.AvatarURL)

	user, err := svc.reader.GetByOAuth(ctx, provider, a.Subject)
	switch {
	case err == nil:
		return svc.issueActive(ctx, user, false)
	case !errors.Is(err, models.ErrNotFound):
		logger.Log.Errorw("failed to get user by oauth identity", "provider", provider, "err", err)
		return nil, err
	}

	user, err = svc.reader.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return svc.linkAndIssue(ctx, user, provider, a.Subject, avatar)
	case !errors.Is(err, models.ErrNotFound):
		logger.Log.Errorw("failed to get user by email", "err", err)
		return nil, err
	}

	first, last := models.SplitName(a.Name)
	subject := a.Subject
	user, err = svc.writer.Create(ctx, &models.UserDB{
		Email:           email,
		Role:            models.RoleBuyer,
		EmailVerified:   true,
		IsActive:        true,
		FirstName:       first,
		LastName:        last,
		AvatarURL:       avatar,
		OAuthProvider:   &provider,
		OAuthProviderID: &subject,
	})
	if errors.Is(err, models.ErrDuplicateEmail) {
		// Lost a race with a concurrent sign-in for the same email.
		user, err = svc.reader.GetByEmail(ctx, email)
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		if err != nil {
			return nil, err
		}
		return svc.linkAndIssue(ctx, user, provider, subject, avatar)
	}
	if err != nil {
		logger.Log.Errorw("failed to create oauth user", "provider", provider, "err", err)
		return nil, err
	}

	svc.publish(ctx, models.EventUserRegistered, user.UserID, map[string]string{
		"email":    user.Email,
		"role":     string(user.Role),
		"provider": string(provider),
	})
	return svc.issue(ctx, user, true)
}

func (svc *AuthService) linkAndIssue(ctx context.Context, user *models.UserDB, provider models.OAuthProvider, subject string, avatar *string) (*models.SignInResult, error) {
	if user.OAuthProvider != nil {
		// Already linked to a provider; the verified email still identifies the account.
		return svc.issueActive(ctx, user, false)
	}
	linked, err := svc.writer.LinkOAuth(ctx, user.UserID, provider, subject, avatar)
	if err != nil {
		logger.Log.Errorw("failed to link oauth identity", "user_id", user.UserID, "provider", provider, "err", err)
		return nil, err
	}
	return svc.issueActive(ctx, linked, false)
}

func (svc *AuthService) issueActive(ctx context.Context, user *models.UserDB, created bool) (*models.SignInResult, error) {
	if !user.IsActive {
		return nil, models.ErrInvalidCredentials
	}
	return svc.issue(ctx, user, created)
}

// ValidateToken verifies an access token and returns the principal of the stored user.
// Role and email come from the user row, so deleted, disabled or demoted accounts
// take effect before the token expires.
func (svc *AuthService) ValidateToken(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := svc.tokens.GetClaims(ctx, token, models.TokenAccess)
	if err != nil {
		return nil, err
	}
	if err := svc.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	user, err := svc.reader.GetByID(ctx, claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", models.ErrInvalidToken)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account disabled", models.ErrInvalidToken)
	}
	return principalOf(user), nil
}

// Refresh exchanges a refresh token for a new pair and revokes the old refresh token.
func (svc *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := svc.tokens.GetClaims(ctx, refreshToken, models.TokenRefresh)
	if err != nil {
		return nil, err
	}
	if err := svc.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	user, err := svc.reader.GetByID(ctx, claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", models.ErrInvalidToken)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account disabled", models.ErrInvalidToken)
	}

	if err := svc.revoke(ctx, claims); err != nil {
		return nil, err
	}

	res, err := svc.issue(ctx, user, false)
	if err != nil {
		return nil, err
	}
	return &res.Tokens, nil
}

// Logout revokes the given tokens until they expire. An empty refresh token is ignored.
func (svc *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	access, err := svc.tokens.GetClaims(ctx, accessToken, models.TokenAccess)
	if err != nil {
		return err
	}
	if err := svc.revoke(ctx, access); err != nil {
		return err
	}

	if refreshToken == "" {
		return nil
	}
	refresh, err := svc.tokens.GetClaims(ctx, refreshToken, models.TokenRefresh)
	if err != nil {
		logger.Log.Infow("ignoring invalid refresh token on logout", "err", err)
		return nil
	}
	if refresh.UserID != access.UserID {
		return fmt.Errorf("%w: refresh token belongs to another user", models.ErrInvalidToken)
	}
	return svc.revoke(ctx, refresh)
}

// SyncUser is the idempotent sync-on-login upsert keyed by case-insensitive email.
// Profile fields are refreshed; role, flags and credentials of an existing user are kept.
func (svc *AuthService) SyncUser(ctx context.Context, in models.SyncUserInput) (*models.UserDB, error) {
	email := models.NormalizeEmail(in.Email)
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	first, last := models.SplitName(in.Name)

	user, created, err := svc.writer.Upsert(ctx, email, first, last, in.AvatarURL)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: account is deleted", models.ErrForbidden)
	}
	if err != nil {
		logger.Log.Errorw("failed to sync user", "email", email, "err", err)
		return nil, err
	}

	if created {
		svc.publish(ctx, models.EventUserRegistered, user.UserID, map[string]string{
			"email": user.Email,
			"role":  string(user.Role),
		})
	}
	return user, nil
}

// VerifyEmail consumes an email verification token.
func (svc *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := svc.tokens.GetClaims(ctx, token, models.TokenEmailVerification)
	if err != nil {
		return err
	}
	if err := svc.writer.MarkEmailVerified(ctx, claims.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: user no longer exists", models.ErrInvalidToken)
		}
		return err
	}
	return nil
}

// RequestPasswordReset publishes a reset token for the account. Unknown emails succeed silently.
func (svc *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)
	if email == "" {
		return models.ErrMissingCredential
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		logger.Log.Infow("password reset for unknown email", "email", email)
		return nil
	}
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	token, _, err := svc.tokens.Generate(ctx, principalOf(user), models.TokenPasswordReset)
	if err != nil {
		logger.Log.Errorw("failed to generate password reset token", "err", err)
		return err
	}
	svc.publish(ctx, models.EventPasswordResetSent, user.UserID, map[string]string{
		"email": user.Email,
		"token": token,
	})
	return nil
}

// ResetPassword sets a new password using a single-use reset token.
func (svc *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < models.MinPasswordLength || len(newPassword) > 72 {
		return models.NewValidationError("password must be between %d and 72 characters", models.MinPasswordLength)
	}

	claims, err := svc.tokens.GetClaims(ctx, token, models.TokenPasswordReset)
	if err != nil {
		return err
	}
	if err := svc.checkRevoked(ctx, claims); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), svc.cost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}
	if err := svc.writer.UpdatePassword(ctx, claims.UserID, string(hash)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: user no longer exists", models.ErrInvalidToken)
		}
		return err
	}
	return svc.revoke(ctx, claims)
}

func (svc *AuthService) sendVerification(ctx context.Context, user *models.UserDB) {
	token, _, err := svc.tokens.Generate(ctx, principalOf(user), models.TokenEmailVerification)
	if err != nil {
		logger.Log.Errorw("failed to generate verification token", "user_id", user.UserID, "err", err)
		return
	}
	svc.publish(ctx, models.EventEmailVerificationSent, user.UserID, map[string]string{
		"email": user.Email,
		"token": token,
	})
}

// issue signs an access/refresh pair for the user.
func (svc *AuthService) issue(ctx context.Context, user *models.UserDB, created bool) (*models.SignInResult, error) {
	p := principalOf(user)

	access, _, err := svc.tokens.Generate(ctx, p, models.TokenAccess)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return nil, err
	}
	refresh, _, err := svc.tokens.Generate(ctx, p, models.TokenRefresh)
	if err != nil {
		logger.Log.Errorw("failed to generate refresh JWT", "err", err)
		return nil, err
	}

	return &models.SignInResult{
		UserID:      user.UserID,
		Email:       user.Email,
		DisplayName: user.DisplayName(),
		Role:        user.Role,
		Created:     created,
		Tokens: models.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    "bearer",
			ExpiresIn:    svc.tokens.ExpiresIn(),
		},
	}, nil
}

func (svc *AuthService) checkRevoked(ctx context.Context, claims *models.Claims) error {
	if svc.revoker == nil || claims.ID == "" {
		return nil
	}
	revoked, err := svc.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Log.Errorw("failed to check token revocation", "err", err)
		return fmt.Errorf("%w: %v", models.ErrServiceUnavailable, err)
	}
	if revoked {
		return fmt.Errorf("%w: token revoked", models.ErrInvalidToken)
	}
	return nil
}

func (svc *AuthService) revoke(ctx context.Context, claims *models.Claims) error {
	if svc.revoker == nil || claims.ID == "" {
		return nil
	}
	if err := svc.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		logger.Log.Errorw("failed to revoke token", "err", err)
		return fmt.Errorf("%w: %v", models.ErrServiceUnavailable, err)
	}
	return nil
}

func (svc *AuthService) publish(ctx context.Context, eventType string, userID uuid.UUID, data map[string]string) {
	if svc.events != nil {
		svc.events.Publish(ctx, eventType, userID, data)
	}
}

func principalOf(u *models.UserDB) *models.Principal {
	return &models.Principal{UserID: u.UserID, Email: u.Email, Role: u.Role}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
