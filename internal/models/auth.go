package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenType distinguishes what a signed token may be used for.
type TokenType string

// Token types
const (
	TokenAccess            TokenType = "access"
	TokenRefresh           TokenType = "refresh"
	TokenEmailVerification TokenType = "email_verification"
	TokenPasswordReset     TokenType = "password_reset"
)

// TokenPair is issued after every successful sign-in.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SignInResult is what a sign-in path returns. It never carries the password hash.
type SignInResult struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"name"`
	Role        Role      `json:"role"`
	Created     bool      `json:"created"`
	Tokens      TokenPair `json:"tokens"`
}

// Claims is the decoded content of a verified token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	Role      Role
	Type      TokenType
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal converts the claims into a request principal.
func (c *Claims) Principal() *Principal {
	return &Principal{UserID: c.UserID, Email: c.Email, Role: c.Role}
}
