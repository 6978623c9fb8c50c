package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength bounds message content.
const MaxMessageLength = 5000

// MessageDB represents a buyer/seller message row in the database
type MessageDB struct {
	MessageID   uuid.UUID  `json:"id" db:"id"`
	SenderID    uuid.UUID  `json:"sender_id" db:"sender_id"`
	RecipientID uuid.UUID  `json:"recipient_id" db:"recipient_id"`
	BookID      *uuid.UUID `json:"book_id,omitempty" db:"book_id"`
	Content     string     `json:"content" db:"content"`
	ReadAt      *time.Time `json:"read_at,omitempty" db:"read_at"` // NULL means unread
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// MessageInput is the validated payload for sending a message.
type MessageInput struct {
	RecipientID uuid.UUID
	BookID      *uuid.UUID
	Content     string
}

// Validate trims content and checks bounds.
func (in *MessageInput) Validate() error {
	in.Content = strings.TrimSpace(in.Content)
	if in.RecipientID == uuid.Nil {
		return NewValidationError("recipient_id is required")
	}
	if in.Content == "" {
		return NewValidationError("content is required")
	}
	if len(in.Content) > MaxMessageLength {
		return NewValidationError("content must be at most %d characters", MaxMessageLength)
	}
	return nil
}
