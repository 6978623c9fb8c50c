package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderPaymentProcessing, true},
		{OrderPaymentProcessing, OrderPaid, true},
		{OrderPaid, OrderShipped, true},
		{OrderShipped, OrderDelivered, true},
		{OrderPending, OrderCancelled, true},
		{OrderPaid, OrderCancelled, true},
		{OrderPaid, OrderRefunded, true},
		{OrderShipped, OrderRefunded, true},
		{OrderPending, OrderPaid, false},
		{OrderPending, OrderRefunded, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderRefunded, OrderPaid, false},
		{OrderShipped, OrderCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestOrderInput_Validate(t *testing.T) {
	bookA, bookB := uuid.New(), uuid.New()

	t.Run("merges duplicate lines", func(t *testing.T) {
		in := OrderInput{Items: []OrderLine{
			{BookID: bookA, Quantity: 1},
			{BookID: bookB, Quantity: 2},
			{BookID: bookA, Quantity: 3},
		}}
		require.NoError(t, in.Validate())
		assert.Equal(t, []OrderLine{{BookID: bookA, Quantity: 4}, {BookID: bookB, Quantity: 2}}, in.Items)
	})

	t.Run("empty", func(t *testing.T) {
		in := OrderInput{}
		assert.ErrorIs(t, in.Validate(), ErrConstraintViolation)
	})

	t.Run("non positive quantity", func(t *testing.T) {
		in := OrderInput{Items: []OrderLine{{BookID: bookA, Quantity: 0}}}
		assert.ErrorIs(t, in.Validate(), ErrConstraintViolation)
	})
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItemDB{PriceAtPurchase: decimal.RequireFromString("19.99"), Quantity: 3}
	assert.Equal(t, "59.97", item.Subtotal().StringFixed(2))
}

func TestInvalidTransitionIsConstraintViolation(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidTransition, ErrConstraintViolation)
	assert.ErrorIs(t, ErrMissingToken, ErrMissingCredential)
}
