package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"rockettalk/internal/model"
	"rockettalk/pkg/metrics"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message.
func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", "messages", time.Since(start)) }()

	query := `
        INSERT INTO messages (id, sender, recipient, subject, body, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.db.Exec(ctx, query, m.ID, m.From, m.To, m.Subject, m.Body, m.SentAt)
	return err
}

// FindByID returns a single message by id.
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*model.Message, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("select", "messages", time.Since(start)) }()

	query := `
        SELECT id, sender, recipient, subject, body, sent_at
        FROM messages
        WHERE id = $1
    `
	var m model.Message
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.From, &m.To, &m.Subject, &m.Body, &m.SentAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListSent returns messages sent by the user, most recent first.
func (r *MessageRepository) ListSent(ctx context.Context, username string) ([]model.Message, error) {
	query := `
        SELECT id, sender, recipient, subject, body, sent_at
        FROM messages
        WHERE sender = $1
        ORDER BY sent_at DESC
    `
	return r.list(ctx, query, username)
}

// ListReceived returns messages received by the user, most recent first.
func (r *MessageRepository) ListReceived(ctx context.Context, username string) ([]model.Message, error) {
	query := `
        SELECT id, sender, recipient, subject, body, sent_at
        FROM messages
        WHERE recipient = $1
        ORDER BY sent_at DESC
    `
	return r.list(ctx, query, username)
}

func (r *MessageRepository) list(ctx context.Context, query, username string) ([]model.Message, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("select", "messages", time.Since(start)) }()

	rows, err := r.db.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.From, &m.To, &m.Subject, &m.Body, &m.SentAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Delete removes one message and reports whether it existed.
func (r *MessageRepository) Delete(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("delete", "messages", time.Since(start)) }()

	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAll removes every message.
func (r *MessageRepository) DeleteAll(ctx context.Context) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("delete", "messages", time.Since(start)) }()

	_, err := r.db.Exec(ctx, `DELETE FROM messages`)
	return err
}
