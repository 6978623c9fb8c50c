package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/models"
)

//go:generate mockgen -source=books.go -destination=books_mock.go -package=services

// BookReader defines read-only operations for listings.
type BookReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.BookDB, error)
	List(ctx context.Context, f models.BookFilter) ([]models.BookDB, int, error)
}

// BookWriter defines listing writes.
type BookWriter interface {
	Create(ctx context.Context, sellerID uuid.UUID, in models.BookInput) (*models.BookDB, error)
	Update(ctx context.Context, id uuid.UUID, in models.BookInput) (*models.BookDB, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.BookStatus, from []models.BookStatus) (*models.BookDB, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// BookService manages seller listings.
type BookService struct {
	reader BookReader
	writer BookWriter
}

// NewBookService creates a new BookService instance.
func NewBookService(reader BookReader, writer BookWriter) *BookService {
	return &BookService{reader: reader, writer: writer}
}

// BookPage is one page of listings.
type BookPage struct {
	Items   []models.BookDB `json:"items"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// Create lists a new book for the seller.
func (svc *BookService) Create(ctx context.Context, p *models.Principal, in models.BookInput) (*models.BookDB, error) {
	if !p.HasRole(models.RoleSeller) {
		return nil, models.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	book, err := svc.writer.Create(ctx, p.UserID, in)
	if err != nil {
		logger.Log.Errorw("failed to create book", "seller_id", p.UserID, "err", err)
		return nil, err
	}
	return book, nil
}

// Get returns one listing.
func (svc *BookService) Get(ctx context.Context, id uuid.UUID) (*models.BookDB, error) {
	return svc.reader.GetByID(ctx, id)
}

// List returns listings matching the filter, newest first.
func (svc *BookService) List(ctx context.Context, f models.BookFilter) (*BookPage, error) {
	f.Normalize()
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, models.NewValidationError("min_price must not exceed max_price")
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, models.NewValidationError("invalid status %q", *f.Status)
	}

	books, total, err := svc.reader.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &BookPage{Items: books, Total: total, Page: f.Page, PerPage: f.PerPage}, nil
}

// Update replaces the editable fields of a listing owned by p.
func (svc *BookService) Update(ctx context.Context, p *models.Principal, id uuid.UUID, in models.BookInput) (*models.BookDB, error) {
	if _, err := svc.owned(ctx, p, id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return svc.writer.Update(ctx, id, in)
}

// Publish makes a draft or archived listing visible.
func (svc *BookService) Publish(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.BookDB, error) {
	book, err := svc.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if book.Quantity == 0 {
		return nil, models.NewValidationError("cannot publish a listing with no copies")
	}
	return svc.writer.SetStatus(ctx, id, models.BookActive, []models.BookStatus{models.BookDraft, models.BookArchived})
}

// Archive hides a listing without deleting it.
func (svc *BookService) Archive(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.BookDB, error) {
	if _, err := svc.owned(ctx, p, id); err != nil {
		return nil, err
	}
	return svc.writer.SetStatus(ctx, id, models.BookArchived, []models.BookStatus{models.BookDraft, models.BookActive, models.BookSold})
}

// Delete soft-deletes a listing. Order items referencing it keep their snapshot.
func (svc *BookService) Delete(ctx context.Context, p *models.Principal, id uuid.UUID) error {
	if _, err := svc.owned(ctx, p, id); err != nil {
		return err
	}
	return svc.writer.SoftDelete(ctx, id)
}

// owned loads the book and checks that p is its seller or an admin.
func (svc *BookService) owned(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.BookDB, error) {
	if p == nil {
		return nil, models.ErrMissingToken
	}
	book, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.SellerID != p.UserID && p.Role != models.RoleAdmin {
		return nil, models.ErrForbidden
	}
	return book, nil
}
