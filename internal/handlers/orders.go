package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/sbilibin2017/books4all/internal/services"
)

//go:generate mockgen -source=orders.go -destination=orders_mock.go -package=handlers

// OrderManager defines the order operations used by the order handlers.
type OrderManager interface {
	Create(ctx context.Context, buyer *models.Principal, in models.OrderInput) (*models.OrderDB, error)
	Get(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.OrderDB, error)
	List(ctx context.Context, p *models.Principal, page int, perPage int) (*services.OrderPage, error)
	StartPayment(ctx context.Context, p *models.Principal, id uuid.UUID, sessionRef string) (*models.OrderDB, error)
	ConfirmPayment(ctx context.Context, p *models.Principal, id uuid.UUID, paymentRef string) (*models.OrderDB, error)
	Ship(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.OrderDB, error)
	Deliver(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.OrderDB, error)
	Cancel(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.OrderDB, error)
	Refund(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.OrderDB, error)
}

// OrderLineRequest is one requested book
// swagger:model OrderLineRequest
type OrderLineRequest struct {
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
}

// CreateOrderRequest represents the JSON body for placing an order
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Items           []OrderLineRequest `json:"items"`
	ShippingAddress *string            `json:"shipping_address,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
}

// OrderActionRequest carries the processor reference for payment actions
// swagger:model OrderActionRequest
type OrderActionRequest struct {
	// Checkout session id for "pay", payment id for "confirm"
	Reference string `json:"reference,omitempty"`
}

// NewCreateOrderHandler places an order.
// @Summary Place order
// @Tags orders
// @Accept json
// @Produce json
// @Param createOrderRequest body handlers.CreateOrderRequest true "Order"
// @Success 201 {object} models.OrderDB
// @Failure 400 {object} handlers.ErrorResponse "Book unavailable or invalid order"
// @Failure 404 {object} handlers.ErrorResponse "Book not found"
// @Router /orders [post]
// @Security BearerAuth
func NewCreateOrderHandler(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateOrderRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		in := models.OrderInput{ShippingAddress: req.ShippingAddress, Notes: req.Notes}
		for _, line := range req.Items {
			in.Items = append(in.Items, models.OrderLine{BookID: line.BookID, Quantity: line.Quantity})
		}

		order, err := svc.Create(r.Context(), principal(r), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, order)
	}
}

// NewGetOrderHandler returns an order visible to the caller.
// @Summary Get order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.OrderDB
// @Failure 403 {object} handlers.ErrorResponse "Forbidden"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Router /orders/{id} [get]
// @Security BearerAuth
func NewGetOrderHandler(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		order, err := svc.Get(r.Context(), principal(r), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

// NewListOrdersHandler returns the caller's orders.
// @Summary List own orders
// @Tags orders
// @Produce json
// @Param page query int false "Page, from 1"
// @Param per_page query int false "Page size, at most 100"
// @Success 200 {object} services.OrderPage
// @Router /orders [get]
// @Security BearerAuth
func NewListOrdersHandler(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, perPage := pagination(r)
		orders, err := svc.List(r.Context(), principal(r), page, perPage)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

// NewOrderActionHandler moves an order through its status machine.
// @Summary Order status action
// @Description pay: pending -> payment_processing; confirm (admin): payment_processing -> paid;
// @Description ship: paid -> shipped; deliver: shipped -> delivered; cancel; refund.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param action path string true "pay, confirm, ship, deliver, cancel or refund"
// @Param orderActionRequest body handlers.OrderActionRequest false "Processor reference"
// @Success 200 {object} models.OrderDB
// @Failure 409 {object} handlers.ErrorResponse "Invalid status transition"
// @Router /orders/{id}/{action} [post]
// @Security BearerAuth
func NewOrderActionHandler(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var req OrderActionRequest
		if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
			return
		}

		ctx, p := r.Context(), principal(r)
		var (
			order *models.OrderDB
			err   error
		)
		switch chi.URLParam(r, "action") {
		case "pay":
			order, err = svc.StartPayment(ctx, p, id, req.Reference)
		case "confirm":
			order, err = svc.ConfirmPayment(ctx, p, id, req.Reference)
		case "ship":
			order, err = svc.Ship(ctx, p, id)
		case "deliver":
			order, err = svc.Deliver(ctx, p, id)
		case "cancel":
			order, err = svc.Cancel(ctx, p, id)
		case "refund":
			order, err = svc.Refund(ctx, p, id)
		default:
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
			return
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}
