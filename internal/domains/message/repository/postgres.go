package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"gigmarket-backend/internal/domains/message/model"
)

// MessageRepository is the persistence contract for order conversations
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	ListByOrder(ctx context.Context, orderID uuid.UUID, page, limit int) ([]*model.Message, int, error)

	// MarkRead stamps every unread message addressed to the recipient in
	// the conversation. Returns how many were stamped.
	MarkRead(ctx context.Context, orderID, recipientID uuid.UUID, readAt time.Time) (int, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
}

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &postgresMessageRepository{pool: pool}
}

func (r *postgresMessageRepository) Create(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (id, order_id, sender_id, recipient_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		message.ID, message.OrderID, message.SenderID, message.RecipientID, message.Body, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *postgresMessageRepository) ListByOrder(ctx context.Context, orderID uuid.UUID, page, limit int) ([]*model.Message, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE order_id = $1`, orderID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := `
		SELECT id, order_id, sender_id, recipient_id, body, read_at, created_at
		FROM messages
		WHERE order_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, orderID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		m := &model.Message{}
		if err := rows.Scan(&m.ID, &m.OrderID, &m.SenderID, &m.RecipientID, &m.Body, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}

func (r *postgresMessageRepository) MarkRead(ctx context.Context, orderID, recipientID uuid.UUID, readAt time.Time) (int, error) {
	query := `
		UPDATE messages SET read_at = $3
		WHERE order_id = $1 AND recipient_id = $2 AND read_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, orderID, recipientID, readAt)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *postgresMessageRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND read_at IS NULL`, recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
