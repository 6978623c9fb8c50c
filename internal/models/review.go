package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds, mirrored by the ck_review_rating_range check constraint.
const (
	MinRating = 1
	MaxRating = 5
)

// ReviewDB represents a review row in the database
type ReviewDB struct {
	ReviewID           uuid.UUID  `json:"id" db:"id"`
	BookID             uuid.UUID  `json:"book_id" db:"book_id"`
	UserID             uuid.UUID  `json:"user_id" db:"user_id"`
	Rating             int        `json:"rating" db:"rating"`
	Comment            *string    `json:"comment,omitempty" db:"comment"`
	IsVerifiedPurchase bool       `json:"is_verified_purchase" db:"is_verified_purchase"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// ReviewInput is the payload for reviewing a book.
type ReviewInput struct {
	BookID  uuid.UUID
	Rating  int
	Comment *string
}

// Validate checks the rating range.
func (in *ReviewInput) Validate() error {
	if in.BookID == uuid.Nil {
		return NewValidationError("book_id is required")
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		return NewValidationError("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

// RatingSummary aggregates reviews of one book.
type RatingSummary struct {
	BookID  uuid.UUID `json:"book_id" db:"book_id"`
	Count   int       `json:"count" db:"count"`
	Average float64   `json:"average" db:"average"`
}
