package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=orders.go -destination=orders_mock.go -package=services

// OrderReader defines read-only operations for orders.
type OrderReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.OrderDB, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, page int, perPage int) ([]models.OrderDB, int, error)
	IsSellerOf(ctx context.Context, orderID uuid.UUID, sellerID uuid.UUID) (bool, error)
}

// OrderWriter defines order writes.
type OrderWriter interface {
	Create(ctx context.Context, order *models.OrderDB) (*models.OrderDB, error)
	Transition(ctx context.Context, id uuid.UUID, target models.OrderStatus, refs models.PaymentRefs) (*models.OrderDB, error)
}

// StockWriter reserves and returns book inventory.
type StockWriter interface {
	LockForPurchase(ctx context.Context, ids []uuid.UUID) ([]models.BookDB, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	Restock(ctx context.Context, id uuid.UUID, qty int) error
}

// OrderService places orders and drives them through the status machine.
type OrderService struct {
	reader OrderReader
	writer OrderWriter
	stock  StockWriter
	tx     Transactor
	events EventPublisher
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(reader OrderReader, writer OrderWriter, stock StockWriter, tx Transactor, events EventPublisher) *OrderService {
	return &OrderService{reader: reader, writer: writer, stock: stock, tx: tx, events: events}
}

// OrderPage is one page of a buyer's orders.
type OrderPage struct {
	Items   []models.OrderDB `json:"items"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// Create places an order for the buyer. Books are locked, checked and decremented and the
// order with its price snapshot is written in a single transaction.
func (svc *OrderService) Create(ctx context.Context, buyer *models.Principal, in models.OrderInput) (*models.OrderDB, error) {
	if buyer == nil {
		return nil, models.ErrMissingToken
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(in.Items))
	for i, line := range in.Items {
		ids[i] = line.BookID
	}

	var created *models.OrderDB
	err := svc.tx.WithTx(ctx, func(ctx context.Context) error {
		books, err := svc.stock.LockForPurchase(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]models.BookDB, len(books))
		for _, b := range books {
			byID[b.BookID] = b
		}

		order := &models.OrderDB{
			BuyerID:         buyer.UserID,
			TotalAmount:     decimal.Zero,
			ShippingAddress: in.ShippingAddress,
			Notes:           in.Notes,
			Items:           make([]models.OrderItemDB, 0, len(in.Items)),
		}
		for _, line := range in.Items {
			book, ok := byID[line.BookID]
			if !ok {
				return fmt.Errorf("%w: book %s", models.ErrNotFound, line.BookID)
			}
			if book.SellerID == buyer.UserID {
				return models.NewValidationError("cannot buy your own book %s", book.BookID)
			}
			if book.Status != models.BookActive {
				return models.NewValidationError("book %s is not for sale", book.BookID)
			}
			if book.Quantity < line.Quantity {
				return models.NewValidationError("only %d copies of book %s left", book.Quantity, book.BookID)
			}
			if err := svc.stock.DecrementStock(ctx, book.BookID, line.Quantity); err != nil {
				return err
			}

			bookID := book.BookID
			item := models.OrderItemDB{
				BookID:          &bookID,
				Quantity:        line.Quantity,
				PriceAtPurchase: book.Price,
				BookTitle:       book.Title,
				BookAuthor:      book.Author,
			}
			order.TotalAmount = order.TotalAmount.Add(item.Subtotal())
			order.Items = append(order.Items, item)
		}

		created, err = svc.writer.Create(ctx, order)
		return err
	})
	if err != nil {
		logger.Log.Infow("order rejected", "buyer_id", buyer.UserID, "err", err)
		return nil, err
	}

	svc.publish(ctx, models.EventOrderCreated, created)
	return created, nil
}

// Get returns an order visible to p: its buyer, a seller of one of its books, or an admin.
func (svc *OrderService) Get(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.OrderDB, error) {
	order, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := svc.authorize(ctx, p, order, true); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns the buyer's orders, newest first.
func (svc *OrderService) List(ctx context.Context, p *models.Principal, page, perPage int) (*OrderPage, error) {
	if p == nil {
		return nil, models.ErrMissingToken
	}
	page, perPage = models.NormalizePage(page, perPage)
	orders, total, err := svc.reader.ListByBuyer(ctx, p.UserID, page, perPage)
	if err != nil {
		return nil, err
	}
	return &OrderPage{Items: orders, Total: total, Page: page, PerPage: perPage}, nil
}

// StartPayment records the checkout session and moves pending -> payment_processing.
func (svc *OrderService) StartPayment(ctx context.Context, p *models.Principal, id uuid.UUID, sessionRef string) (*models.OrderDB, error) {
	if sessionRef == "" {
		return nil, models.NewValidationError("payment session reference is required")
	}
	if err := svc.check(ctx, p, id, false); err != nil {
		return nil, err
	}
	return svc.transition(ctx, id, models.OrderPaymentProcessing, models.PaymentRefs{SessionID: &sessionRef})
}

// ConfirmPayment records the processor payment and moves payment_processing -> paid.
// Confirming an already paid order with the same reference is a no-op. Admin only: the
// payment processor callback authenticates as an admin principal.
func (svc *OrderService) ConfirmPayment(ctx context.Context, p *models.Principal, id uuid.UUID, paymentRef string) (*models.OrderDB, error) {
	if p == nil || p.Role != models.RoleAdmin {
		return nil, models.ErrForbidden
	}
	if paymentRef == "" {
		return nil, models.NewValidationError("payment reference is required")
	}

	order, err := svc.transition(ctx, id, models.OrderPaid, models.PaymentRefs{PaymentID: &paymentRef})
	if errors.Is(err, models.ErrInvalidTransition) {
		current, getErr := svc.reader.GetByID(ctx, id)
		if getErr == nil && current.Status == models.OrderPaid && current.PaymentID != nil && *current.PaymentID == paymentRef {
			return current, nil
		}
	}
	return order, err
}

// Ship moves paid -> shipped. Only a seller of the order or an admin may ship.
func (svc *OrderService) Ship(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.OrderDB, error) {
	if err := svc.checkSeller(ctx, p, id); err != nil {
		return nil, err
	}
	return svc.transition(ctx, id, models.OrderShipped, models.PaymentRefs{})
}

// Deliver moves shipped -> delivered.
func (svc *OrderService) Deliver(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.OrderDB, error) {
	if err := svc.check(ctx, p, id, true); err != nil {
		return nil, err
	}
	return svc.transition(ctx, id, models.OrderDelivered, models.PaymentRefs{})
}

// Cancel cancels an unshipped order on behalf of its buyer and restocks the books.
func (svc *OrderService) Cancel(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.OrderDB, error) {
	if err := svc.check(ctx, p, id, false); err != nil {
		return nil, err
	}
	return svc.closeAndRestock(ctx, id, models.OrderCancelled)
}

// Refund refunds a paid or shipped order and restocks the books.
func (svc *OrderService) Refund(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.OrderDB, error) {
	if err := svc.checkSeller(ctx, p, id); err != nil {
		return nil, err
	}
	return svc.closeAndRestock(ctx, id, models.OrderRefunded)
}

func (svc *OrderService) closeAndRestock(ctx context.Context, id uuid.UUID, target models.OrderStatus) (*models.OrderDB, error) {
	var order *models.OrderDB
	err := svc.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := svc.reader.GetByID(ctx, id)
		if err != nil {
			return err
		}
		order, err = svc.writer.Transition(ctx, id, target, models.PaymentRefs{})
		if err != nil {
			return err
		}
		for _, item := range current.Items {
			if item.BookID == nil {
				continue
			}
			if err := svc.stock.Restock(ctx, *item.BookID, item.Quantity); err != nil {
				return err
			}
		}
		order.Items = current.Items
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.publish(ctx, models.EventOrderStatusChanged, order)
	return order, nil
}

func (svc *OrderService) transition(ctx context.Context, id uuid.UUID, target models.OrderStatus, refs models.PaymentRefs) (*models.OrderDB, error) {
	order, err := svc.writer.Transition(ctx, id, target, refs)
	if err != nil {
		if !errors.Is(err, models.ErrInvalidTransition) && !errors.Is(err, models.ErrNotFound) {
			logger.Log.Errorw("failed to change order status", "order_id", id, "target", target, "err", err)
		}
		return nil, err
	}
	svc.publish(ctx, models.EventOrderStatusChanged, order)
	return order, nil
}

// check loads the order and authorizes p as buyer, or as seller when allowSeller is set.
func (svc *OrderService) check(ctx context.Context, p *models.Principal, id uuid.UUID, allowSeller bool) error {
	order, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return svc.authorize(ctx, p, order, allowSeller)
}

func (svc *OrderService) checkSeller(ctx context.Context, p *models.Principal, id uuid.UUID) error {
	if p == nil {
		return models.ErrMissingToken
	}
	if p.Role == models.RoleAdmin {
		return nil
	}
	ok, err := svc.reader.IsSellerOf(ctx, id, p.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrForbidden
	}
	return nil
}

func (svc *OrderService) authorize(ctx context.Context, p *models.Principal, order *models.OrderDB, allowSeller bool) error {
	if p == nil {
		return models.ErrMissingToken
	}
	if p.Role == models.RoleAdmin || order.BuyerID == p.UserID {
		return nil
	}
	if !allowSeller {
		return models.ErrForbidden
	}
	ok, err := svc.reader.IsSellerOf(ctx, order.OrderID, p.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrForbidden
	}
	return nil
}

func (svc *OrderService) publish(ctx context.Context, eventType string, order *models.OrderDB) {
	if svc.events == nil {
		return
	}
	svc.events.Publish(ctx, eventType, order.BuyerID, map[string]string{
		"order_id": order.OrderID.String(),
		"status":   string(order.Status),
		"total":    order.TotalAmount.StringFixed(2),
	})
}
