package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/books4all/internal/models"
)

const reviewColumns = `id, book_id, user_id, rating, comment, is_verified_purchase, created_at, updated_at, deleted_at`

// ReviewReadRepository reads book reviews.
type ReviewReadRepository struct {
	store
}

func NewReviewReadRepository(db *sqlx.DB, txGetter TxGetter) *ReviewReadRepository {
	return &ReviewReadRepository{store{db: db, txGetter: txGetter}}
}

func (r *ReviewReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ReviewDB, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1 AND deleted_at IS NULL`

	var review models.ReviewDB
	if err := r.get(ctx, &review, query, id); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewReadRepository) ListByBook(ctx context.Context, bookID uuid.UUID, page, perPage int) ([]models.ReviewDB, error) {
	page, perPage = models.NormalizePage(page, perPage)
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE book_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	reviews := []models.ReviewDB{}
	if err := r.list(ctx, &reviews, query, bookID, perPage, (page-1)*perPage); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Summary aggregates the visible reviews of a book. A book without reviews has count 0.
func (r *ReviewReadRepository) Summary(ctx context.Context, bookID uuid.UUID) (*models.RatingSummary, error) {
	query := `
		SELECT $1::uuid AS book_id, COUNT(*) AS count, COALESCE(AVG(rating), 0)::float8 AS average
		FROM reviews
		WHERE book_id = $1 AND deleted_at IS NULL
	`
	var summary models.RatingSummary
	if err := r.get(ctx, &summary, query, bookID); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ReviewWriteRepository handles review writes.
type ReviewWriteRepository struct {
	store
}

func NewReviewWriteRepository(db *sqlx.DB, txGetter TxGetter) *ReviewWriteRepository {
	return &ReviewWriteRepository{store{db: db, txGetter: txGetter}}
}

// Create inserts a review. A second review of the same book by the same user violates
// uq_review_book_user and yields models.ErrConstraintViolation.
func (r *ReviewWriteRepository) Create(ctx context.Context, userID uuid.UUID, in models.ReviewInput, verified bool) (*models.ReviewDB, error) {
	query := `
		INSERT INTO reviews (book_id, user_id, rating, comment, is_verified_purchase)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reviewColumns

	var review models.ReviewDB
	if err := r.get(ctx, &review, query, in.BookID, userID, in.Rating, in.Comment, verified); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewWriteRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	n, err := r.exec(ctx, `UPDATE reviews SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
