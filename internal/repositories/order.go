package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sbilibin2017/books4all/internal/models"
)

const orderColumns = `id, buyer_id, total_amount, status, payment_id, payment_session_id, shipping_address,
	notes, created_at, updated_at, deleted_at`

const orderItemColumns = `id, order_id, book_id, quantity, price_at_purchase, book_title, book_author, created_at`

// OrderReadRepository reads orders together with their items.
type OrderReadRepository struct {
	store
}

func NewOrderReadRepository(db *sqlx.DB, txGetter TxGetter) *OrderReadRepository {
	return &OrderReadRepository{store{db: db, txGetter: txGetter}}
}

func (r *OrderReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderDB, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND deleted_at IS NULL`

	var order models.OrderDB
	if err := r.get(ctx, &order, query, id); err != nil {
		return nil, err
	}
	orders := []models.OrderDB{order}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListByBuyer returns one page of the buyer's orders, newest first, and the total count.
func (r *OrderReadRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, page, perPage int) ([]models.OrderDB, int, error) {
	page, perPage = models.NormalizePage(page, perPage)

	var total int
	if err := r.get(ctx, &total, `SELECT COUNT(*) FROM orders WHERE buyer_id = $1 AND deleted_at IS NULL`, buyerID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE buyer_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	orders := []models.OrderDB{}
	if err := r.list(ctx, &orders, query, buyerID, perPage, (page-1)*perPage); err != nil {
		return nil, 0, err
	}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderReadRepository) loadItems(ctx context.Context, orders []models.OrderDB) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].OrderID
		index[orders[i].OrderID] = i
		orders[i].Items = []models.OrderItemDB{}
	}

	query := `
		SELECT ` + orderItemColumns + `
		FROM order_items
		WHERE order_id = ANY($1::uuid[]) AND deleted_at IS NULL
		ORDER BY created_at, id
	`
	var items []models.OrderItemDB
	if err := r.list(ctx, &items, query, uuidArray(ids)); err != nil {
		return err
	}
	for _, item := range items {
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return nil
}

// IsSellerOf reports whether sellerID listed one of the books in the order.
func (r *OrderReadRepository) IsSellerOf(ctx context.Context, orderID, sellerID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM order_items oi
			JOIN books b ON b.id = oi.book_id
			WHERE oi.order_id = $1 AND b.seller_id = $2
		)
	`
	var ok bool
	err := r.get(ctx, &ok, query, orderID, sellerID)
	return ok, err
}

// HasPurchased reports whether the user holds a paid, shipped or delivered order for the book.
func (r *OrderReadRepository) HasPurchased(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.buyer_id = $1 AND oi.book_id = $2 AND o.deleted_at IS NULL
			  AND o.status IN ('paid', 'shipped', 'delivered')
		)
	`
	var ok bool
	err := r.get(ctx, &ok, query, userID, bookID)
	return ok, err
}

// OrderWriteRepository creates orders and moves them through the status machine.
type OrderWriteRepository struct {
	store
}

func NewOrderWriteRepository(db *sqlx.DB, txGetter TxGetter) *OrderWriteRepository {
	return &OrderWriteRepository{store{db: db, txGetter: txGetter}}
}

// Create inserts the order and its items. It must run inside a transaction.
func (r *OrderWriteRepository) Create(ctx context.Context, order *models.OrderDB) (*models.OrderDB, error) {
	query := `
		INSERT INTO orders (buyer_id, total_amount, status, shipping_address, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + orderColumns

	var created models.OrderDB
	err := r.get(ctx, &created, query, order.BuyerID, order.TotalAmount, models.OrderPending, order.ShippingAddress, order.Notes)
	if err != nil {
		return nil, err
	}

	itemQuery := `
		INSERT INTO order_items (order_id, book_id, quantity, price_at_purchase, book_title, book_author)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + orderItemColumns

	created.Items = make([]models.OrderItemDB, 0, len(order.Items))
	for _, item := range order.Items {
		var saved models.OrderItemDB
		err := r.get(ctx, &saved, itemQuery,
			created.OrderID, item.BookID, item.Quantity, item.PriceAtPurchase, item.BookTitle, item.BookAuthor)
		if err != nil {
			return nil, err
		}
		created.Items = append(created.Items, saved)
	}
	return &created, nil
}

// Transition moves the order to target in one guarded statement. When the order exists but
// is not in a status target may be entered from, models.ErrInvalidTransition is returned.
func (r *OrderWriteRepository) Transition(ctx context.Context, id uuid.UUID, target models.OrderStatus, refs models.PaymentRefs) (*models.OrderDB, error) {
	query := `
		UPDATE orders
		SET status = $2,
		    payment_session_id = COALESCE($4, payment_session_id),
		    payment_id = COALESCE($5, payment_id),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND status::text = ANY($3)
		RETURNING ` + orderColumns

	from := models.AllowedFrom(target)
	allowed := make(pq.StringArray, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	var order models.OrderDB
	err := r.get(ctx, &order, query, id, target, allowed, refs.SessionID, refs.PaymentID)
	if errors.Is(err, models.ErrNotFound) {
		var exists bool
		if err := r.get(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1 AND deleted_at IS NULL)`, id); err != nil {
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
	return &order, nil
}
