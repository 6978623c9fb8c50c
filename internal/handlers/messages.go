package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/sbilibin2017/books4all/internal/services"
)

//go:generate mockgen -source=messages.go -destination=messages_mock.go -package=handlers

// MessageManager defines the messaging operations used by the message handlers.
type MessageManager interface {
	Send(ctx context.Context, p *models.Principal, in models.MessageInput) (*models.MessageDB, error)
	Conversation(ctx context.Context, p *models.Principal, other uuid.UUID, page int, perPage int) ([]models.MessageDB, error)
	Inbox(ctx context.Context, p *models.Principal, unreadOnly bool, page int, perPage int) (*services.MessagePage, error)
	UnreadCount(ctx context.Context, p *models.Principal) (int, error)
	MarkRead(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.MessageDB, error)
	Delete(ctx context.Context, p *models.Principal, id uuid.UUID) error
}

// SendMessageRequest represents the JSON body for sending a message
// swagger:model SendMessageRequest
type SendMessageRequest struct {
	RecipientID uuid.UUID  `json:"recipient_id"`
	BookID      *uuid.UUID `json:"book_id,omitempty"`
	Content     string     `json:"content"`
}

// UnreadCountResponse holds the number of unread messages
// swagger:model UnreadCountResponse
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

// NewSendMessageHandler sends a message.
// @Summary Send message
// @Tags messages
// @Accept json
// @Produce json
// @Param sendMessageRequest body handlers.SendMessageRequest true "Message"
// @Success 201 {object} models.MessageDB
// @Failure 400 {object} handlers.ErrorResponse "Invalid message"
// @Failure 404 {object} handlers.ErrorResponse "Recipient not found"
// @Router /messages [post]
// @Security BearerAuth
func NewSendMessageHandler(svc MessageManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendMessageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		msg, err := svc.Send(r.Context(), principal(r), models.MessageInput{
			RecipientID: req.RecipientID,
			BookID:      req.BookID,
			Content:     req.Content,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// NewListMessagesHandler returns the inbox, or the conversation with ?with=<user id>.
// @Summary List messages
// @Tags messages
// @Produce json
// @Param with query string false "Other participant; returns the conversation oldest first"
// @Param unread query bool false "Unread only"
// @Param page query int false "Page, from 1"
// @Param per_page query int false "Page size, at most 100"
// @Success 200 {object} services.MessagePage
// @Router /messages [get]
// @Security BearerAuth
func NewListMessagesHandler(svc MessageManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, p := r.Context(), principal(r)
		page, perPage := pagination(r)
		q := r.URL.Query()

		if with := q.Get("with"); with != "" {
			other, err := uuid.Parse(with)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid with"})
				return
			}
			msgs, err := svc.Conversation(ctx, p, other, page, perPage)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, services.MessagePage{Items: msgs, Total: len(msgs), Page: page, PerPage: perPage})
			return
		}

		inbox, err := svc.Inbox(ctx, p, q.Get("unread") == "true", page, perPage)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, inbox)
	}
}

// NewUnreadCountHandler returns the number of unread messages.
// @Summary Unread message count
// @Tags messages
// @Produce json
// @Success 200 {object} handlers.UnreadCountResponse
// @Router /messages/unread [get]
// @Security BearerAuth
func NewUnreadCountHandler(svc MessageManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.UnreadCount(r.Context(), principal(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, UnreadCountResponse{Unread: n})
	}
}

// NewMarkReadHandler marks a received message read.
// @Summary Mark message read
// @Tags messages
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} models.MessageDB
// @Failure 403 {object} handlers.ErrorResponse "Not the recipient"
// @Router /messages/{id}/read [post]
// @Security BearerAuth
func NewMarkReadHandler(svc MessageManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		msg, err := svc.MarkRead(r.Context(), principal(r), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	}
}

// NewDeleteMessageHandler soft-deletes a message.
// @Summary Delete message
// @Tags messages
// @Param id path string true "Message ID"
// @Success 204
// @Router /messages/{id} [delete]
// @Security BearerAuth
func NewDeleteMessageHandler(svc MessageManager) http.HandlerFunc {
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
