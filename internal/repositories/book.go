package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sbilibin2017/books4all/internal/models"
)

const bookColumns = `id, seller_id, isbn, title, author, description, condition, price, quantity, images,
	status, category, publisher, publication_year, language, page_count, created_at, updated_at, deleted_at`

// BookReadRepository reads book listings.
type BookReadRepository struct {
	store
}

func NewBookReadRepository(db *sqlx.DB, txGetter TxGetter) *BookReadRepository {
	return &BookReadRepository{store{db: db, txGetter: txGetter}}
}

func (r *BookReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BookDB, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 AND deleted_at IS NULL`

	var book models.BookDB
	if err := r.get(ctx, &book, query, id); err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns one page of books matching f (newest first) and the total match count.
func (r *BookReadRepository) List(ctx context.Context, f models.BookFilter) ([]models.BookDB, int, error) {
	f.Normalize()

	conds := []string{"deleted_at IS NULL"}
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != nil {
		add("category = $%d", *f.Category)
	}
	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.SellerID != nil {
		add("seller_id = $%d", *f.SellerID)
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.get(ctx, &total, `SELECT COUNT(*) FROM books WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM books WHERE %s ORDER BY created_at DESC, id LIMIT %d OFFSET %d`,
		bookColumns, where, f.PerPage, f.Offset())

	books := []models.BookDB{}
	if err := r.list(ctx, &books, query, args...); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// BookWriteRepository handles listing writes and stock changes.
type BookWriteRepository struct {
	store
}

func NewBookWriteRepository(db *sqlx.DB, txGetter TxGetter) *BookWriteRepository {
	return &BookWriteRepository{store{db: db, txGetter: txGetter}}
}

func (r *BookWriteRepository) Create(ctx context.Context, sellerID uuid.UUID, in models.BookInput) (*models.BookDB, error) {
	query := `
		INSERT INTO books (seller_id, isbn, title, author, description, condition, price, quantity, images,
			status, category, publisher, publication_year, language, page_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + bookColumns

	var book models.BookDB
	err := r.get(ctx, &book, query,
		sellerID, in.ISBN, in.Title, in.Author, in.Description, in.Condition, in.Price, in.Quantity,
		pq.StringArray(in.Images), in.Status, in.Category, in.Publisher, in.Year, in.Language, in.PageCount,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Update replaces the editable fields. Status is changed only through SetStatus and stock updates.
func (r *BookWriteRepository) Update(ctx context.Context, id uuid.UUID, in models.BookInput) (*models.BookDB, error) {
	query := `
		UPDATE books
		SET isbn = $2, title = $3, author = $4, description = $5, condition = $6, price = $7,
		    quantity = $8, images = $9, category = $10, publisher = $11, publication_year = $12,
		    language = $13, page_count = $14, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + bookColumns

	var book models.BookDB
	err := r.get(ctx, &book, query,
		id, in.ISBN, in.Title, in.Author, in.Description, in.Condition, in.Price, in.Quantity,
		pq.StringArray(in.Images), in.Category, in.Publisher, in.Year, in.Language, in.PageCount,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// SetStatus moves the book to status when its current status is one of from.
// models.ErrInvalidTransition is returned otherwise.
func (r *BookWriteRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.BookStatus, from []models.BookStatus) (*models.BookDB, error) {
	query := `
		UPDATE books SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND status::text = ANY($3)
		RETURNING ` + bookColumns

	allowed := make(pq.StringArray, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	var book models.BookDB
	err := r.get(ctx, &book, query, id, status, allowed)
	if errors.Is(err, models.ErrNotFound) {
		var exists bool
		if err := r.get(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1 AND deleted_at IS NULL)`, id); err != nil {
			return nil, err
		}
		if !exists {
			return nil, models.ErrNotFound
		}
		return nil, models.ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *BookWriteRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	n, err := r.exec(ctx, `UPDATE books SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// LockForPurchase selects the books FOR UPDATE in id order. It must run inside a transaction.
func (r *BookWriteRepository) LockForPurchase(ctx context.Context, ids []uuid.UUID) ([]models.BookDB, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = ANY($1::uuid[]) AND deleted_at IS NULL
		ORDER BY id
		FOR UPDATE
	`

	books := []models.BookDB{}
	if err := r.list(ctx, &books, query, uuidArray(ids)); err != nil {
		return nil, err
	}
	return books, nil
}

// DecrementStock takes qty copies off the shelf and marks the book sold at zero.
func (r *BookWriteRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	query := `
		UPDATE books
		SET quantity = quantity - $2,
		    status = CASE WHEN quantity - $2 = 0 THEN 'sold'::book_status ELSE status END,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND status = 'active' AND quantity >= $2
	`
	n, err := r.exec(ctx, query, id, qty)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NewValidationError("book %s is not available in quantity %d", id, qty)
	}
	return nil
}

// Restock returns qty copies; a sold-out book becomes active again. Deleted books are skipped.
func (r *BookWriteRepository) Restock(ctx context.Context, id uuid.UUID, qty int) error {
	query := `
		UPDATE books
		SET quantity = quantity + $2,
		    status = CASE WHEN status = 'sold' THEN 'active'::book_status ELSE status END,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.exec(ctx, query, id, qty)
	return err
}

func uuidArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
