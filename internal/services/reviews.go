package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/models"
)

//go:generate mockgen -source=reviews.go -destination=reviews_mock.go -package=services

// ReviewReader defines read-only operations for reviews.
type ReviewReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReviewDB, error)
	ListByBook(ctx context.Context, bookID uuid.UUID, page int, perPage int) ([]models.ReviewDB, error)
	Summary(ctx context.Context, bookID uuid.UUID) (*models.RatingSummary, error)
}

// ReviewWriter defines review writes.
type ReviewWriter interface {
	Create(ctx context.Context, userID uuid.UUID, in models.ReviewInput, verified bool) (*models.ReviewDB, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// PurchaseChecker tells whether a user bought a book.
type PurchaseChecker interface {
	HasPurchased(ctx context.Context, userID uuid.UUID, bookID uuid.UUID) (bool, error)
}

// ReviewService manages book reviews.
type ReviewService struct {
	reader    ReviewReader
	writer    ReviewWriter
	books     BookReader
	purchases PurchaseChecker
}

func NewReviewService(reader ReviewReader, writer ReviewWriter, books BookReader, purchases PurchaseChecker) *ReviewService {
	return &ReviewService{reader: reader, writer: writer, books: books, purchases: purchases}
}

// Create reviews a book. The review is marked a verified purchase when p holds a paid,
// shipped or delivered order for it.
func (svc *ReviewService) Create(ctx context.Context, p *models.Principal, in models.ReviewInput) (*models.ReviewDB, error) {
	if p == nil {
		return nil, models.ErrMissingToken
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	book, err := svc.books.GetByID(ctx, in.BookID)
	if err != nil {
		return nil, err
	}
	if book.SellerID == p.UserID {
		return nil, models.NewValidationError("sellers cannot review their own books")
	}

	verified, err := svc.purchases.HasPurchased(ctx, p.UserID, in.BookID)
	if err != nil {
		return nil, err
	}

	review, err := svc.writer.Create(ctx, p.UserID, in, verified)
	if err != nil {
		logger.Log.Infow("review rejected", "user_id", p.UserID, "book_id", in.BookID, "err", err)
		return nil, err
	}
	return review, nil
}

// ListByBook returns reviews of a book, newest first.
func (svc *ReviewService) ListByBook(ctx context.Context, bookID uuid.UUID, page, perPage int) ([]models.ReviewDB, error) {
	page, perPage = models.NormalizePage(page, perPage)
	return svc.reader.ListByBook(ctx, bookID, page, perPage)
}

// Summary returns the review count and average rating of a book.
func (svc *ReviewService) Summary(ctx context.Context, bookID uuid.UUID) (*models.RatingSummary, error) {
	return svc.reader.Summary(ctx, bookID)
}

// Delete soft-deletes a review written by p. Admins may delete any review.
func (svc *ReviewService) Delete(ctx context.Context, p *models.Principal, id uuid.UUID) error {
	if p == nil {
		return models.ErrMissingToken
	}
	review, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != p.UserID && p.Role != models.RoleAdmin {
		return models.ErrForbidden
	}
	return svc.writer.SoftDelete(ctx, id)
}
