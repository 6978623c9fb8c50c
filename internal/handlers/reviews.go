package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/models"
)

//go:generate mockgen -source=reviews.go -destination=reviews_mock.go -package=handlers

// ReviewManager defines the review operations used by the review handlers.
type ReviewManager interface {
	Create(ctx context.Context, p *models.Principal, in models.ReviewInput) (*models.ReviewDB, error)
	ListByBook(ctx context.Context, bookID uuid.UUID, page int, perPage int) ([]models.ReviewDB, error)
	Summary(ctx context.Context, bookID uuid.UUID) (*models.RatingSummary, error)
	Delete(ctx context.Context, p *models.Principal, id uuid.UUID) error
}

// ReviewRequest represents the JSON body for reviewing a book
// swagger:model ReviewRequest
type ReviewRequest struct {
	// Rating from 1 to 5
	// default: 5
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

// ReviewListResponse holds a page of reviews with the book's rating summary
// swagger:model ReviewListResponse
type ReviewListResponse struct {
	Summary *models.RatingSummary `json:"summary"`
	Items   []models.ReviewDB     `json:"items"`
}

// NewCreateReviewHandler reviews a book.
// @Summary Review book
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param reviewRequest body handlers.ReviewRequest true "Review"
// @Success 201 {object} models.ReviewDB
// @Failure 400 {object} handlers.ErrorResponse "Rating out of range or already reviewed"
// @Router /books/{id}/reviews [post]
// @Security BearerAuth
func NewCreateReviewHandler(svc ReviewManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req ReviewRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		review, err := svc.Create(r.Context(), principal(r), models.ReviewInput{
			BookID:  bookID,
			Rating:  req.Rating,
			Comment: req.Comment,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, review)
	}
}

// NewListReviewsHandler returns reviews of a book with the rating summary.
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Param id path string true "Book ID"
// @Param page query int false "Page, from 1"
// @Param per_page query int false "Page size, at most 100"
// @Success 200 {object} handlers.ReviewListResponse
// @Router /books/{id}/reviews [get]
func NewListReviewsHandler(svc ReviewManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		page, perPage := pagination(r)

		summary, err := svc.Summary(r.Context(), bookID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		items, err := svc.ListByBook(r.Context(), bookID, page, perPage)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ReviewListResponse{Summary: summary, Items: items})
	}
}

// NewDeleteReviewHandler soft-deletes a review.
// @Summary Delete review
// @Tags reviews
// @Param id path string true "Review ID"
// @Success 204
// @Router /reviews/{id} [delete]
// @Security BearerAuth
func NewDeleteReviewHandler(svc ReviewManager) http.HandlerFunc {
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
