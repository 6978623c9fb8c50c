package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the state of an order.
type OrderStatus string

// Supported order statuses
const (
	OrderPending           OrderStatus = "pending"
	OrderPaymentProcessing OrderStatus = "payment_processing"
	OrderPaid              OrderStatus = "paid"
	OrderShipped           OrderStatus = "shipped"
	OrderDelivered         OrderStatus = "delivered"
	OrderCancelled         OrderStatus = "cancelled"
	OrderRefunded          OrderStatus = "refunded"
)

// orderTransitions maps a target status to the statuses it may be entered from.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPaymentProcessing: {OrderPending},
	OrderPaid:              {OrderPaymentProcessing},
	OrderShipped:           {OrderPaid},
	OrderDelivered:         {OrderShipped},
	OrderCancelled:         {OrderPending, OrderPaymentProcessing, OrderPaid},
	OrderRefunded:          {OrderPaid, OrderShipped},
}

// AllowedFrom returns the statuses an order must be in to move to target.
func AllowedFrom(target OrderStatus) []OrderStatus {
	return orderTransitions[target]
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range orderTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// IsPurchased reports whether the order counts as a completed purchase.
func (s OrderStatus) IsPurchased() bool {
	return s == OrderPaid || s == OrderShipped || s == OrderDelivered
}

// Restocks reports whether entering s returns items to inventory.
func (s OrderStatus) Restocks() bool {
	return s == OrderCancelled || s == OrderRefunded
}

// OrderDB represents an order row in the database
type OrderDB struct {
	OrderID          uuid.UUID       `json:"id" db:"id"`
	BuyerID          uuid.UUID       `json:"buyer_id" db:"buyer_id"`
	TotalAmount      decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status           OrderStatus     `json:"status" db:"status"`
	PaymentID        *string         `json:"payment_id,omitempty" db:"payment_id"`                 // Processor payment reference, unique
	PaymentSessionID *string         `json:"payment_session_id,omitempty" db:"payment_session_id"` // Processor checkout session, unique
	ShippingAddress  *string         `json:"shipping_address,omitempty" db:"shipping_address"`
	Notes            *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt        *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`

	Items []OrderItemDB `json:"items" db:"-"`
}

// OrderItemDB represents an order line item. BookID becomes NULL when the book row is destroyed;
// the title/author snapshot and price stay frozen.
type OrderItemDB struct {
	ItemID          uuid.UUID       `json:"id" db:"id"`
	OrderID         uuid.UUID       `json:"order_id" db:"order_id"`
	BookID          *uuid.UUID      `json:"book_id" db:"book_id"`
	Quantity        int             `json:"quantity" db:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" db:"price_at_purchase"`
	BookTitle       string          `json:"book_title" db:"book_title"`
	BookAuthor      string          `json:"book_author" db:"book_author"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// Subtotal is price_at_purchase * quantity.
func (i OrderItemDB) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderLine is one requested book and quantity.
type OrderLine struct {
	BookID   uuid.UUID
	Quantity int
}

// OrderInput is the validated payload for placing an order.
type OrderInput struct {
	Items           []OrderLine
	ShippingAddress *string
	Notes           *string
}

// Validate merges duplicate lines and checks quantities.
func (in *OrderInput) Validate() error {
	if len(in.Items) == 0 {
		return NewValidationError("order must contain at least one item")
	}
	merged := make([]OrderLine, 0, len(in.Items))
	index := make(map[uuid.UUID]int, len(in.Items))
	for _, line := range in.Items {
		if line.BookID == uuid.Nil {
			return NewValidationError("book_id is required")
		}
		if line.Quantity <= 0 {
			return NewValidationError("quantity must be positive")
		}
		if i, ok := index[line.BookID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.BookID] = len(merged)
		merged = append(merged, line)
	}
	in.Items = merged
	if in.ShippingAddress != nil {
		addr := strings.TrimSpace(*in.ShippingAddress)
		in.ShippingAddress = &addr
	}
	return nil
}

// PaymentRefs are processor references recorded alongside a status change.
type PaymentRefs struct {
	SessionID *string
	PaymentID *string
}
