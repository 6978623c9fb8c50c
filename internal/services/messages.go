package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/models"
)

//go:generate mockgen -source=messages.go -destination=messages_mock.go -package=services

// MessageReader defines read-only operations for messages.
type MessageReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.MessageDB, error)
	Conversation(ctx context.Context, a uuid.UUID, b uuid.UUID, page int, perPage int) ([]models.MessageDB, error)
	Inbox(ctx context.Context, userID uuid.UUID, unreadOnly bool, page int, perPage int) ([]models.MessageDB, int, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

// MessageWriter defines message writes.
type MessageWriter interface {
	Create(ctx context.Context, senderID uuid.UUID, in models.MessageInput) (*models.MessageDB, error)
	MarkRead(ctx context.Context, id uuid.UUID, recipientID uuid.UUID) (*models.MessageDB, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// MessageService carries buyer/seller conversations.
type MessageService struct {
	reader MessageReader
	writer MessageWriter
	users  UserReader
	events EventPublisher
}

// NewMessageService creates a new MessageService instance.
func NewMessageService(reader MessageReader, writer MessageWriter, users UserReader, events EventPublisher) *MessageService {
	return &MessageService{reader: reader, writer: writer, users: users, events: events}
}

// MessagePage is one page of an inbox.
type MessagePage struct {
	Items   []models.MessageDB `json:"items"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

// Send delivers a message from p to an existing recipient other than p.
func (svc *MessageService) Send(ctx context.Context, p *models.Principal, in models.MessageInput) (*models.MessageDB, error) {
	if p == nil {
		return nil, models.ErrMissingToken
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.RecipientID == p.UserID {
		return nil, models.NewValidationError("cannot send a message to yourself")
	}
	if _, err := svc.users.GetByID(ctx, in.RecipientID); err != nil {
		return nil, err
	}

	msg, err := svc.writer.Create(ctx, p.UserID, in)
	if err != nil {
		logger.Log.Errorw("failed to send message", "sender_id", p.UserID, "err", err)
		return nil, err
	}

	if svc.events != nil {
		svc.events.Publish(ctx, models.EventMessageSent, in.RecipientID, map[string]string{
			"message_id": msg.MessageID.String(),
			"sender_id":  p.UserID.String(),
		})
	}
	return msg, nil
}

// Conversation returns messages exchanged between p and other, oldest first.
func (svc *MessageService) Conversation(ctx context.Context, p *models.Principal, other uuid.UUID, page, perPage int) ([]models.MessageDB, error) {
	if p == nil {
		return nil, models.ErrMissingToken
	}
	page, perPage = models.NormalizePage(page, perPage)
	return svc.reader.Conversation(ctx, p.UserID, other, page, perPage)
}

// Inbox returns messages received by p, newest first.
func (svc *MessageService) Inbox(ctx context.Context, p *models.Principal, unreadOnly bool, page, perPage int) (*MessagePage, error) {
	if p == nil {
		return nil, models.ErrMissingToken
	}
	page, perPage = models.NormalizePage(page, perPage)
	items, total, err := svc.reader.Inbox(ctx, p.UserID, unreadOnly, page, perPage)
	if err != nil {
		return nil, err
	}
	return &MessagePage{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

// UnreadCount returns the number of unread messages of p.
func (svc *MessageService) UnreadCount(ctx context.Context, p *models.Principal) (int, error) {
	if p == nil {
		return 0, models.ErrMissingToken
	}
	return svc.reader.UnreadCount(ctx, p.UserID)
}

// MarkRead marks a message read. Only its recipient may do so; the first read time is kept.
func (svc *MessageService) MarkRead(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.MessageDB, error) {
	msg, err := svc.participant(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if msg.RecipientID != p.UserID {
		return nil, models.ErrForbidden
	}
	return svc.writer.MarkRead(ctx, id, p.UserID)
}

// Delete soft-deletes a message on behalf of either participant.
func (svc *MessageService) Delete(ctx context.Context, p *models.Principal, id uuid.UUID) error {
	if _, err := svc.participant(ctx, p, id); err != nil {
		return err
	}
	return svc.writer.SoftDelete(ctx, id)
}

func (svc *MessageService) participant(ctx context.Context, p *models.Principal, id uuid.UUID) (*models.MessageDB, error) {
	if p == nil {
		return nil, models.ErrMissingToken
	}
	msg, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != p.UserID && msg.RecipientID != p.UserID {
		// Hide messages of other users.
		return nil, models.ErrNotFound
	}
	return msg, nil
}
