package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/models"
)

// SessionCookieName is the HTTP-only cookie carrying the access token.
const SessionCookieName = "session_token"

const defaultIssuer = "books4all"

// Lifetimes of single-purpose tokens.
const (
	EmailVerificationExp = 24 * time.Hour
	PasswordResetExp     = time.Hour
)

// JWT provides methods to generate and validate signed session tokens.
// The secret is fixed at construction and shared by every sign-in path.
type JWT struct {
	SecretKey  string        // Secret key for signing tokens
	Exp        time.Duration // Access token expiration duration
	RefreshExp time.Duration // Refresh token expiration duration
	Issuer     string        // iss claim
}

// Option configures a JWT.
type Option func(*JWT)

// WithSecretKey sets the signing secret.
func WithSecretKey(secret string) Option {
	return func(j *JWT) { j.SecretKey = secret }
}

// WithExpiration sets the access token lifetime.
func WithExpiration(exp time.Duration) Option {
	return func(j *JWT) { j.Exp = exp }
}

// WithRefreshExpiration sets the refresh token lifetime.
func WithRefreshExpiration(exp time.Duration) Option {
	return func(j *JWT) { j.RefreshExp = exp }
}

// New creates a new JWT instance
func New(opts ...Option) *JWT {
	j := &JWT{
		Exp:        15 * time.Minute,
		RefreshExp: 7 * 24 * time.Hour,
		Issuer:     defaultIssuer,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

type claims struct {
	Email string           `json:"email"`
	Role  models.Role      `json:"role,omitempty"`
	Type  models.TokenType `json:"type"`
	jwt.RegisteredClaims
}

func (j *JWT) ttl(typ models.TokenType) time.Duration {
	switch typ {
	case models.TokenRefresh:
		return j.RefreshExp
	case models.TokenEmailVerification:
		return EmailVerificationExp
	case models.TokenPasswordReset:
		return PasswordResetExp
	default:
		return j.Exp
	}
}

// Generate creates a signed token of the given type for the principal.
func (j *JWT) Generate(ctx context.Context, p *models.Principal, typ models.TokenType) (string, *models.Claims, error) {
	if j.SecretKey == "" {
		return "", nil, errors.New("jwt secret key is not configured")
	}
	now := time.Now()
	c := claims{
		Email: p.Email,
		Role:  p.Role,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			Issuer:    j.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl(typ))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString([]byte(j.SecretKey))
	if err != nil {
		return "", nil, err
	}
	return signed, toModel(&c), nil
}

// GetClaims parses the token, checks signature, expiry and type, and returns its claims.
func (j *JWT) GetClaims(ctx context.Context, tokenString string, typ models.TokenType) (*models.Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, models.ErrMissingToken
	}

	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(j.Issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}
	if c.Type != typ {
		return nil, fmt.Errorf("%w: unexpected token type %q", models.ErrInvalidToken, c.Type)
	}

	out := toModel(&c)
	if out.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid subject", models.ErrInvalidToken)
	}
	return out, nil
}

// ExpiresIn returns the access token lifetime in seconds.
func (j *JWT) ExpiresIn() int64 {
	return int64(j.Exp / time.Second)
}

// GetTokenFromRequest extracts the token string from the Authorization header,
// falling back to the session cookie.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
		return "", models.ErrMissingToken
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", fmt.Errorf("%w: invalid authorization header format", models.ErrInvalidToken)
	}

	return parts[1], nil
}

func toModel(c *claims) *models.Claims {
	userID, _ := uuid.Parse(c.Subject)
	out := &models.Claims{
		UserID: userID,
		Email:  c.Email,
		Role:   c.Role,
		Type:   c.Type,
		ID:     c.ID,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
