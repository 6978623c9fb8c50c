package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/sbilibin2017/books4all/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockOrderManager(ctrl)
	p := buyer()
	bookA, bookB := uuid.New(), uuid.New()
	address := "1 Main St"

	t.Run("success", func(t *testing.T) {
		mockSvc.EXPECT().
			Create(gomock.Any(), p, models.OrderInput{
				Items: []models.OrderLine{
					{BookID: bookA, Quantity: 2},
					{BookID: bookB, Quantity: 1},
				},
				ShippingAddress: &address,
			}).
			Return(&models.OrderDB{
				OrderID:     uuid.New(),
				BuyerID:     p.UserID,
				Status:      models.OrderPending,
				TotalAmount: decimal.RequireFromString("35.00"),
				Items:       []models.OrderItemDB{},
			}, nil)

		body := CreateOrderRequest{
			Items: []OrderLineRequest{
				{BookID: bookA, Quantity: 2},
				{BookID: bookB, Quantity: 1},
			},
			ShippingAddress: &address,
		}
		w := httptest.NewRecorder()
		NewCreateOrderHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/orders", body, p, nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		var got models.OrderDB
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, models.OrderPending, got.Status)
		assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(35)))
	})

	t.Run("insufficient stock", func(t *testing.T) {
		mockSvc.EXPECT().
			Create(gomock.Any(), p, gomock.Any()).
			Return(nil, models.NewValidationError("insufficient stock for book %s", bookA))

		body := CreateOrderRequest{Items: []OrderLineRequest{{BookID: bookA, Quantity: 99}}}
		w := httptest.NewRecorder()
		NewCreateOrderHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/orders", body, p, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown book", func(t *testing.T) {
		mockSvc.EXPECT().Create(gomock.Any(), p, gomock.Any()).Return(nil, models.ErrNotFound)

		body := CreateOrderRequest{Items: []OrderLineRequest{{BookID: uuid.New(), Quantity: 1}}}
		w := httptest.NewRecorder()
		NewCreateOrderHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/orders", body, p, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockOrderManager(ctrl)
	p := buyer()
	id := uuid.New()
	params := map[string]string{"id": id.String()}

	t.Run("visible", func(t *testing.T) {
		mockSvc.EXPECT().Get(gomock.Any(), p, id).Return(&models.OrderDB{OrderID: id, BuyerID: p.UserID}, nil)

		w := httptest.NewRecorder()
		NewGetOrderHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodGet, "/orders/"+id.String(), nil, p, params))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("stranger", func(t *testing.T) {
		mockSvc.EXPECT().Get(gomock.Any(), p, id).Return(nil, models.ErrForbidden)

		w := httptest.NewRecorder()
		NewGetOrderHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodGet, "/orders/"+id.String(), nil, p, params))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestListOrdersHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockOrderManager(ctrl)
	p := buyer()

	mockSvc.EXPECT().
		List(gomock.Any(), p, 1, models.DefaultPerPage).
		Return(&services.OrderPage{Items: []models.OrderDB{}, Total: 0, Page: 1, PerPage: models.DefaultPerPage}, nil)

	w := httptest.NewRecorder()
	NewListOrdersHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodGet, "/orders", nil, p, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var got services.OrderPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.DefaultPerPage, got.PerPage)
}

func TestOrderActionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockOrderManager(ctrl)
	p := buyer()
	id := uuid.New()
	order := func(s models.OrderStatus) *models.OrderDB {
		return &models.OrderDB{OrderID: id, BuyerID: p.UserID, Status: s}
	}

	tests := []struct {
		name           string
		action         string
		body           any
		mockSetup      func()
		expectedCode   int
		expectedStatus models.OrderStatus
	}{
		{
			name:   "pay",
			action: "pay",
			body:   OrderActionRequest{Reference: "cs_123"},
			mockSetup: func() {
				mockSvc.EXPECT().StartPayment(gomock.Any(), p, id, "cs_123").Return(order(models.OrderPaymentProcessing), nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: models.OrderPaymentProcessing,
		},
		{
			name:   "confirm",
			action: "confirm",
			body:   OrderActionRequest{Reference: "pi_456"},
			mockSetup: func() {
				mockSvc.EXPECT().ConfirmPayment(gomock.Any(), p, id, "pi_456").Return(order(models.OrderPaid), nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: models.OrderPaid,
		},
		{
			name:   "ship",
			action: "ship",
			mockSetup: func() {
				mockSvc.EXPECT().Ship(gomock.Any(), p, id).Return(order(models.OrderShipped), nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: models.OrderShipped,
		},
		{
			name:   "deliver",
			action: "deliver",
			mockSetup: func() {
				mockSvc.EXPECT().Deliver(gomock.Any(), p, id).Return(order(models.OrderDelivered), nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: models.OrderDelivered,
		},
		{
			name:   "cancel",
			action: "cancel",
			mockSetup: func() {
				mockSvc.EXPECT().Cancel(gomock.Any(), p, id).Return(order(models.OrderCancelled), nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: models.OrderCancelled,
		},
		{
			name:   "refund",
			action: "refund",
			mockSetup: func() {
				mockSvc.EXPECT().Refund(gomock.Any(), p, id).Return(order(models.OrderRefunded), nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: models.OrderRefunded,
		},
		{
			name:   "cancel delivered order",
			action: "cancel",
			mockSetup: func() {
				mockSvc.EXPECT().Cancel(gomock.Any(), p, id).Return(nil, models.ErrInvalidTransition)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "unknown action",
			action:       "teleport",
			mockSetup:    func() {},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "invalid body",
			action:       "pay",
			body:         "{oops",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			params := map[string]string{"id": id.String(), "action": tt.action}
			w := httptest.NewRecorder()
			NewOrderActionHandler(mockSvc).ServeHTTP(w, newRequest(http.MethodPost, "/orders/"+id.String()+"/"+tt.action, tt.body, p, params))

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedStatus != "" {
				var got models.OrderDB
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, tt.expectedStatus, got.Status)
			}
		})
	}
}
