package repository

import (
	"context"
	"fmt"

	"github.com/estradax/learnway/internal/model"
	"github.com/estradax/learnway/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	*base.Repository
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{Repository: base.NewRepository(pool)}
}

// Create appends a message to a request's conversation.
func (r *MessageRepository) Create(ctx context.Context, msg *model.ConversationMessage) error {
	query := `
		INSERT INTO conversation_messages (request_id, sender_id, content, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		msg.RequestID,
		msg.SenderID,
		msg.Content,
		msg.Type,
	).Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		return fmt.Errorf("create conversation message: %w", err)
	}

	return nil
}

// ListByRequest returns the request's messages oldest first.
func (r *MessageRepository) ListByRequest(ctx context.Context, requestID int64) ([]*model.ConversationMessage, error) {
	query := `
		SELECT id, request_id, sender_id, content, type, created_at
		FROM conversation_messages
		WHERE request_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list conversation messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.ConversationMessage
	for rows.Next() {
		var msg model.ConversationMessage
		err := rows.Scan(
			&msg.ID,
			&msg.RequestID,
			&msg.SenderID,
			&msg.Content,
			&msg.Type,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan conversation message: %w", err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversation messages: %w", err)
	}

	return messages, nil
}
