package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockReviewManager(ctrl)
	p := buyer()
	bookID := uuid.New()
	params := map[string]string{"id": bookID.String()}
	comment := "Great copy"

	t.Run("verified purchase", func(t *testing.T) {
		mockSvc.EXPECT().
			Create(gomock.Any(), p, models.ReviewInput{BookID: bookID, Rating: 5, Comment: &comment}).
			Return(&models.ReviewDB{ReviewID: uuid.New(), BookID: bookID, UserID: p.UserID, Rating: 5, IsVerifiedPurchase: true}, nil)

		w := httptest.NewRecorder()
		NewCreateReviewHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/books/"+bookID.String()+"/reviews", ReviewRequest{Rating: 5, Comment: &comment}, p, params))

		assert.Equal(t, http.StatusCreated, w.Code)
		var got models.ReviewDB
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.True(t, got.IsVerifiedPurchase)
	})

	t.Run("rating out of range", func(t *testing.T) {
		mockSvc.EXPECT().
			Create(gomock.Any(), p, gomock.Any()).
			Return(nil, models.NewValidationError("rating must be between 1 and 5"))

		w := httptest.NewRecorder()
		NewCreateReviewHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/books/"+bookID.String()+"/reviews", ReviewRequest{Rating: 6}, p, params))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "constraint violation: rating must be between 1 and 5", decodeError(t, w))
	})
}

func TestListReviewsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockReviewManager(ctrl)
	bookID := uuid.New()
	params := map[string]string{"id": bookID.String()}

	t.Run("summary and page", func(t *testing.T) {
		summary := &models.RatingSummary{BookID: bookID, Count: 2, Average: 4.5}
		reviews := []models.ReviewDB{
			{ReviewID: uuid.New(), BookID: bookID, Rating: 5},
			{ReviewID: uuid.New(), BookID: bookID, Rating: 4},
		}
		mockSvc.EXPECT().Summary(gomock.Any(), bookID).Return(summary, nil)
		mockSvc.EXPECT().ListByBook(gomock.Any(), bookID, 1, models.DefaultPerPage).Return(reviews, nil)

		w := httptest.NewRecorder()
		NewListReviewsHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodGet, "/books/"+bookID.String()+"/reviews", nil, nil, params))

		assert.Equal(t, http.StatusOK, w.Code)
		var got ReviewListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, summary, got.Summary)
		assert.Len(t, got.Items, 2)
	})

	t.Run("unknown book", func(t *testing.T) {
		mockSvc.EXPECT().Summary(gomock.Any(), bookID).Return(nil, models.ErrNotFound)

		w := httptest.NewRecorder()
		NewListReviewsHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodGet, "/books/"+bookID.String()+"/reviews", nil, nil, params))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteReviewHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockReviewManager(ctrl)
	p := buyer()
	id := uuid.New()
	params := map[string]string{"id": id.String()}

	t.Run("author", func(t *testing.T) {
		mockSvc.EXPECT().Delete(gomock.Any(), p, id).Return(nil)

		w := httptest.NewRecorder()
		NewDeleteReviewHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodDelete, "/reviews/"+id.String(), nil, p, params))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("someone else", func(t *testing.T) {
		mockSvc.EXPECT().Delete(gomock.Any(), p, id).Return(models.ErrForbidden)

		w := httptest.NewRecorder()
		NewDeleteReviewHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodDelete, "/reviews/"+id.String(), nil, p, params))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
