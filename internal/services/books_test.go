package services_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/sbilibin2017/books4all/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookInput() models.BookInput {
	return models.BookInput{
		Title:     "Dune",
		Author:    "Frank Herbert",
		Condition: models.ConditionGood,
		Price:     decimal.RequireFromString("12.50"),
		Quantity:  2,
	}
}

func TestBookService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	writer := services.NewMockBookWriter(ctrl)
	svc := services.NewBookService(services.NewMockBookReader(ctrl), writer)

	tests := []struct {
		name    string
		p       *models.Principal
		mutate  func(*models.BookInput)
		wantErr error
	}{
		{name: "seller", p: &models.Principal{UserID: uuid.New(), Role: models.RoleSeller}},
		{name: "admin", p: &models.Principal{UserID: uuid.New(), Role: models.RoleAdmin}},
		{name: "buyer forbidden", p: &models.Principal{UserID: uuid.New(), Role: models.RoleBuyer}, wantErr: models.ErrForbidden},
		{name: "anonymous forbidden", wantErr: models.ErrForbidden},
		{
			name:    "negative price",
			p:       &models.Principal{UserID: uuid.New(), Role: models.RoleSeller},
			mutate:  func(in *models.BookInput) { in.Price = decimal.RequireFromString("-0.01") },
			wantErr: models.ErrConstraintViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newBookInput()
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			if tt.wantErr == nil {
				writer.EXPECT().Create(ctx, tt.p.UserID, gomock.Any()).DoAndReturn(
					func(_ context.Context, sellerID uuid.UUID, in models.BookInput) (*models.BookDB, error) {
						assert.Equal(t, models.BookDraft, in.Status)
						return &models.BookDB{BookID: uuid.New(), SellerID: sellerID, Title: in.Title, Status: in.Status}, nil
					})
			}

			book, err := svc.Create(ctx, tt.p, in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.p.UserID, book.SellerID)
		})
	}
}

func TestBookService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	reader := services.NewMockBookReader(ctrl)
	svc := services.NewBookService(reader, services.NewMockBookWriter(ctrl))

	reader.EXPECT().List(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, f models.BookFilter) ([]models.BookDB, int, error) {
			assert.Equal(t, 1, f.Page)
			assert.Equal(t, models.MaxPerPage, f.PerPage)
			return []models.BookDB{{Title: "Dune"}}, 1, nil
		})
	page, err := svc.List(ctx, models.BookFilter{PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Len(t, page.Items, 1)

	lo, hi := decimal.NewFromInt(10), decimal.NewFromInt(5)
	_, err = svc.List(ctx, models.BookFilter{MinPrice: &lo, MaxPrice: &hi})
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
}

func TestBookService_Ownership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	reader := services.NewMockBookReader(ctrl)
	writer := services.NewMockBookWriter(ctrl)
	svc := services.NewBookService(reader, writer)

	seller := &models.Principal{UserID: uuid.New(), Role: models.RoleSeller}
	other := &models.Principal{UserID: uuid.New(), Role: models.RoleSeller}
	book := &models.BookDB{BookID: uuid.New(), SellerID: seller.UserID, Quantity: 1, Status: models.BookDraft}

	reader.EXPECT().GetByID(ctx, book.BookID).Return(book, nil).AnyTimes()

	_, err := svc.Update(ctx, other, book.BookID, newBookInput())
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, other, book.BookID), models.ErrForbidden)

	writer.EXPECT().SetStatus(ctx, book.BookID, models.BookActive, []models.BookStatus{models.BookDraft, models.BookArchived}).
		Return(&models.BookDB{BookID: book.BookID, Status: models.BookActive}, nil)
	published, err := svc.Publish(ctx, seller, book.BookID)
	require.NoError(t, err)
	assert.Equal(t, models.BookActive, published.Status)

	writer.EXPECT().SetStatus(ctx, book.BookID, models.BookArchived, gomock.Any()).Return(nil, models.ErrInvalidTransition)
	_, err = svc.Archive(ctx, seller, book.BookID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	writer.EXPECT().SoftDelete(ctx, book.BookID).Return(nil)
	require.NoError(t, svc.Delete(ctx, &models.Principal{UserID: uuid.New(), Role: models.RoleAdmin}, book.BookID))
}

func TestBookService_PublishWithoutStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	reader := services.NewMockBookReader(ctrl)
	svc := services.NewBookService(reader, services.NewMockBookWriter(ctrl))
	seller := &models.Principal{UserID: uuid.New(), Role: models.RoleSeller}
	book := &models.BookDB{BookID: uuid.New(), SellerID: seller.UserID}

	reader.EXPECT().GetByID(ctx, book.BookID).Return(book, nil)
	_, err := svc.Publish(ctx, seller, book.BookID)
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
}
