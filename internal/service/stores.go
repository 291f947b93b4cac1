package service

import (
	"context"
	"errors"

	"rockettalk/internal/model"
)

// ErrNotFound is returned by in-memory stores when a row is missing. The
// Postgres repositories surface pgx.ErrNoRows instead; callers treat both
// the same way.
var ErrNotFound = errors.New("not found")

// MessageStore is the persistence surface the message service needs. It is
// satisfied by repository.MessageRepository.
type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	FindByID(ctx context.Context, id string) (*model.Message, error)
	ListSent(ctx context.Context, username string) ([]model.Message, error)
	ListReceived(ctx context.Context, username string) ([]model.Message, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) error
}

// UserStore is satisfied by repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsernames(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// NotificationStore is satisfied by repository.NotificationRepository.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	CountUnread(ctx context.Context, username string) (int, error)
	MarkRead(ctx context.Context, username string) error
}

// EventPublisher is satisfied by mq.Publisher.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}
