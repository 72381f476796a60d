package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
)

var _ output.ChatRepository = (*ChatRepository)(nil)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

func (r *ChatRepository) Create(ctx context.Context, m *entities.ChatMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_messages (id, event_id, user_id, message, sent_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.EventID, m.UserID, m.Message, m.SentAt,
	)
	if pgCode(err) == foreignKeyViolation {
		return domain.ErrEventNotFound
	}
	if err != nil {
		return queryError("insert chat message", err, nil)
	}
	return nil
}

func (r *ChatRepository) FindByEventID(ctx context.Context, eventID string, since time.Time) ([]entities.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.event_id, m.user_id, u.name, u.photo_url, m.message, m.sent_at
		FROM chat_messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.event_id = $1 AND ($2::timestamptz IS NULL OR m.sent_at > $2)
		ORDER BY m.sent_at, m.id`, eventID, timeToTimestamptz(since))
	if err != nil {
		return nil, queryError("list chat messages", err, nil)
	}
	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.ChatMessage, error) {
		var m entities.ChatMessage
		err := row.Scan(&m.ID, &m.EventID, &m.UserID, &m.UserName, &m.UserPhotoURL, &m.Message, &m.SentAt)
		return m, err
	})
	if err != nil {
		return nil, queryError("list chat messages", err, nil)
	}
	return messages, nil
}
