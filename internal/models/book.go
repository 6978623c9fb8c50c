package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// BookCondition describes the physical state of a listed copy.
type BookCondition string

// Supported book conditions
const (
	ConditionNew        BookCondition = "new"
	ConditionLikeNew    BookCondition = "like_new"
	ConditionGood       BookCondition = "good"
	ConditionAcceptable BookCondition = "acceptable"
)

// Valid reports whether c is a known condition.
func (c BookCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionAcceptable:
		return true
	}
	return false
}

// BookStatus is the listing lifecycle state.
type BookStatus string

// Supported book statuses
const (
	BookDraft    BookStatus = "draft"
	BookActive   BookStatus = "active"
	BookSold     BookStatus = "sold"
	BookArchived BookStatus = "archived"
)

// Valid reports whether s is a known status.
func (s BookStatus) Valid() bool {
	switch s {
	case BookDraft, BookActive, BookSold, BookArchived:
		return true
	}
	return false
}

// BookDB represents a book listing row in the database
type BookDB struct {
	BookID      uuid.UUID       `json:"id" db:"id"`
	SellerID    uuid.UUID       `json:"seller_id" db:"seller_id"`
	ISBN        *string         `json:"isbn,omitempty" db:"isbn"`
	Title       string          `json:"title" db:"title"`
	Author      string          `json:"author" db:"author"`
	Description *string         `json:"description,omitempty" db:"description"`
	Condition   BookCondition   `json:"condition" db:"condition"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Images      pq.StringArray  `json:"images" db:"images"`
	Status      BookStatus      `json:"status" db:"status"`
	Category    *string         `json:"category,omitempty" db:"category"`
	Publisher   *string         `json:"publisher,omitempty" db:"publisher"`
	Year        *int            `json:"publication_year,omitempty" db:"publication_year"`
	Language    string          `json:"language" db:"language"`
	PageCount   *int            `json:"page_count,omitempty" db:"page_count"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
}

// BookInput is the validated payload for creating or replacing a listing.
type BookInput struct {
	ISBN        *string
	Title       string
	Author      string
	Description *string
	Condition   BookCondition
	Price       decimal.Decimal
	Quantity    int
	Images      []string
	Status      BookStatus
	Category    *string
	Publisher   *string
	Year        *int
	Language    string
	PageCount   *int
}

// DefaultLanguage is used when a listing does not name one.
const DefaultLanguage = "English"

// Validate normalizes the input and checks it. Only draft and active are accepted on create.
func (in *BookInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	if in.Title == "" || len(in.Title) > 500 {
		return NewValidationError("title is required and must be at most 500 characters")
	}
	if in.Author == "" || len(in.Author) > 255 {
		return NewValidationError("author is required and must be at most 255 characters")
	}
	if !in.Condition.Valid() {
		return NewValidationError("invalid condition %q", in.Condition)
	}
	if in.Price.IsNegative() {
		return NewValidationError("price must not be negative")
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return NewValidationError("price must have at most two fraction digits")
	}
	if in.Quantity < 0 {
		return NewValidationError("quantity must not be negative")
	}
	if in.Status == "" {
		in.Status = BookDraft
	}
	if in.Status != BookDraft && in.Status != BookActive {
		return NewValidationError("new listings must be draft or active")
	}
	if in.Language == "" {
		in.Language = DefaultLanguage
	}
	if in.Year != nil && (*in.Year < 0 || *in.Year > time.Now().Year()+1) {
		return NewValidationError("invalid publication year %d", *in.Year)
	}
	if in.PageCount != nil && *in.PageCount <= 0 {
		return NewValidationError("page count must be positive")
	}
	if in.Images == nil {
		in.Images = []string{}
	}
	return nil
}

// BookFilter narrows a listing query. Zero values mean "any".
type BookFilter struct {
	Category *string
	Status   *BookStatus
	SellerID *uuid.UUID
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	PerPage  int
}

// Pagination bounds
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Normalize clamps pagination to sane bounds.
func (f *BookFilter) Normalize() {
	f.Page, f.PerPage = NormalizePage(f.Page, f.PerPage)
}

// NormalizePage clamps page (1-based) and per-page values.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Offset returns the row offset for the current page.
func (f *BookFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}
