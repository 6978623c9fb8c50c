package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/sbilibin2017/books4all/internal/services"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=books.go -destination=books_mock.go -package=handlers

// BookManager defines the listing operations used by the book handlers.
type BookManager interface {
	Create(ctx context.Context, p *models.Principal, in models.BookInput) (*models.BookDB, error)
	Get(ctx context.Context, id uuid.UUID) (*models.BookDB, error)
	List(ctx context.Context, f models.BookFilter) (*services.BookPage, error)
	Update(ctx context.Context, p *models.Principal, id uuid.UUID, in models.BookInput) (*models.BookDB, error)
	Publish(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.BookDB, error)
	Archive(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.BookDB, error)
	Delete(ctx context.Context, p *models.Principal, id uuid.UUID) error
}

// BookRequest represents the JSON body for creating or replacing a listing
// swagger:model BookRequest
type BookRequest struct {
	ISBN        *string              `json:"isbn,omitempty"`
	Title       string               `json:"title"`
	Author      string               `json:"author"`
	Description *string              `json:"description,omitempty"`
	Condition   models.BookCondition `json:"condition"`
	// Price with at most two fraction digits
	// default: 12.50
	Price     decimal.Decimal   `json:"price" swaggertype:"string"`
	Quantity  int               `json:"quantity"`
	Images    []string          `json:"images,omitempty"`
	Status    models.BookStatus `json:"status,omitempty"`
	Category  *string           `json:"category,omitempty"`
	Publisher *string           `json:"publisher,omitempty"`
	Year      *int              `json:"publication_year,omitempty"`
	Language  string            `json:"language,omitempty"`
	PageCount *int              `json:"page_count,omitempty"`
}

func (req BookRequest) input() models.BookInput {
	return models.BookInput{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Condition:   req.Condition,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Images:      req.Images,
		Status:      req.Status,
		Category:    req.Category,
		Publisher:   req.Publisher,
		Year:        req.Year,
		Language:    req.Language,
		PageCount:   req.PageCount,
	}
}

// NewCreateBookHandler lists a new book.
// @Summary Create listing
// @Tags books
// @Accept json
// @Produce json
// @Param bookRequest body handlers.BookRequest true "Listing"
// @Success 201 {object} models.BookDB
// @Failure 400 {object} handlers.ErrorResponse "Invalid listing"
// @Failure 403 {object} handlers.ErrorResponse "Sellers only"
// @Router /books [post]
// @Security BearerAuth
func NewCreateBookHandler(svc BookManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		book, err := svc.Create(r.Context(), principal(r), req.input())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, book)
	}
}

// NewGetBookHandler returns one listing.
// @Summary Get listing
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} models.BookDB
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Router /books/{id} [get]
func NewGetBookHandler(svc BookManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		book, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	}
}

// NewListBooksHandler returns listings, newest first.
// @Summary List listings
// @Tags books
// @Produce json
// @Param category query string false "Category"
// @Param status query string false "draft, active, sold or archived"
// @Param seller_id query string false "Seller ID"
// @Param min_price query string false "Minimum price"
// @Param max_price query string false "Maximum price"
// @Param page query int false "Page, from 1"
// @Param per_page query int false "Page size, at most 100"
// @Success 200 {object} services.BookPage
// @Failure 400 {object} handlers.ErrorResponse "Invalid filter"
// @Router /books [get]
func NewListBooksHandler(svc BookManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := models.BookFilter{}
		f.Page, f.PerPage = pagination(r)

		if v := q.Get("category"); v != "" {
			f.Category = &v
		}
		if v := q.Get("status"); v != "" {
			s := models.BookStatus(v)
			f.Status = &s
		}
		if v := q.Get("seller_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid seller_id"})
				return
			}
			f.SellerID = &id
		}
		for name, dst := range map[string]**decimal.Decimal{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
			v := q.Get(name)
			if v == "" {
				continue
			}
			d, err := decimal.NewFromString(v)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
				return
			}
			*dst = &d
		}

		page, err := svc.List(r.Context(), f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

// NewUpdateBookHandler replaces the editable fields of a listing.
// @Summary Update listing
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param bookRequest body handlers.BookRequest true "Listing"
// @Success 200 {object} models.BookDB
// @Failure 403 {object} handlers.ErrorResponse "Not the owner"
// @Router /books/{id} [patch]
// @Security BearerAuth
func NewUpdateBookHandler(svc BookManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req BookRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		book, err := svc.Update(r.Context(), principal(r), id, req.input())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	}
}

// NewBookStatusHandler publishes or archives a listing; action is "publish" or "archive".
// @Summary Publish or archive listing
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Param action path string true "publish or archive"
// @Success 200 {object} models.BookDB
// @Failure 409 {object} handlers.ErrorResponse "Invalid status transition"
// @Router /books/{id}/{action} [post]
// @Security BearerAuth
func NewBookStatusHandler(svc BookManager, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var (
			book *models.BookDB
			err  error
		)
		switch action {
		case "publish":
			book, err = svc.Publish(r.Context(), principal(r), id)
		case "archive":
			book, err = svc.Archive(r.Context(), principal(r), id)
		default:
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
			return
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	}
}

// NewDeleteBookHandler soft-deletes a listing.
// @Summary Delete listing
// @Tags books
// @Param id path string true "Book ID"
// @Success 204
// @Router /books/{id} [delete]
// @Security BearerAuth
func NewDeleteBookHandler(svc BookManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), principal(r), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
