package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"rockettalk/internal/model"
	"rockettalk/pkg/metrics"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification row.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", "notifications", time.Since(start)) }()

	query := `
        INSERT INTO notifications (username, message_id, content, is_read, created_at)
        VALUES ($1, $2, $3, FALSE, NOW())
        RETURNING id
    `
	return r.db.QueryRow(ctx, query, n.Username, n.MessageID, n.Content).Scan(&n.ID)
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, username string) (int, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("select", "notifications", time.Since(start)) }()

	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE username = $1 AND NOT is_read`,
		username,
	).Scan(&n)
	return n, err
}

// MarkRead marks every notification for a user as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, username string) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("update", "notifications", time.Since(start)) }()

	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE username = $1`,
		username,
	)
	return err
}
