package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/books4all/internal/models"
)

const messageColumns = `id, sender_id, recipient_id, book_id, content, read_at, created_at, updated_at, deleted_at`

// MessageReadRepository reads buyer/seller messages.
type MessageReadRepository struct {
	store
}

func NewMessageReadRepository(db *sqlx.DB, txGetter TxGetter) *MessageReadRepository {
	return &MessageReadRepository{store{db: db, txGetter: txGetter}}
}

func (r *MessageReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MessageDB, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1 AND deleted_at IS NULL`

	var msg models.MessageDB
	if err := r.get(ctx, &msg, query, id); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Conversation returns messages exchanged between a and b in either direction, oldest first.
func (r *MessageReadRepository) Conversation(ctx context.Context, a, b uuid.UUID, page, perPage int) ([]models.MessageDB, error) {
	page, perPage = models.NormalizePage(page, perPage)
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE deleted_at IS NULL
		  AND ((sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1))
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
	`
	msgs := []models.MessageDB{}
	if err := r.list(ctx, &msgs, query, a, b, perPage, (page-1)*perPage); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Inbox returns messages received by userID, newest first, and the total count.
func (r *MessageReadRepository) Inbox(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, perPage int) ([]models.MessageDB, int, error) {
	page, perPage = models.NormalizePage(page, perPage)
	where := `recipient_id = $1 AND deleted_at IS NULL AND ($2 = FALSE OR read_at IS NULL)`

	var total int
	if err := r.get(ctx, &total, `SELECT COUNT(*) FROM messages WHERE `+where, userID, unreadOnly); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE ` + where + `
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`
	msgs := []models.MessageDB{}
	if err := r.list(ctx, &msgs, query, userID, unreadOnly, perPage, (page-1)*perPage); err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (r *MessageReadRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND read_at IS NULL AND deleted_at IS NULL`
	var n int
	err := r.get(ctx, &n, query, userID)
	return n, err
}

// MessageWriteRepository handles message writes.
type MessageWriteRepository struct {
	store
}

func NewMessageWriteRepository(db *sqlx.DB, txGetter TxGetter) *MessageWriteRepository {
	return &MessageWriteRepository{store{db: db, txGetter: txGetter}}
}

func (r *MessageWriteRepository) Create(ctx context.Context, senderID uuid.UUID, in models.MessageInput) (*models.MessageDB, error) {
	query := `
		INSERT INTO messages (sender_id, recipient_id, book_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + messageColumns

	var msg models.MessageDB
	if err := r.get(ctx, &msg, query, senderID, in.RecipientID, in.BookID, in.Content); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead stamps read_at once; later calls keep the first timestamp.
func (r *MessageWriteRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) (*models.MessageDB, error) {
	query := `
		UPDATE messages
		SET read_at = COALESCE(read_at, NOW()), updated_at = NOW()
		WHERE id = $1 AND recipient_id = $2 AND deleted_at IS NULL
		RETURNING ` + messageColumns

	var msg models.MessageDB
	if err := r.get(ctx, &msg, query, id, recipientID); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *MessageWriteRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	n, err := r.exec(ctx, `UPDATE messages SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
