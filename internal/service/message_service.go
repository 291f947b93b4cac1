package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rockettalk/internal/model"
	"rockettalk/pkg/metrics"
	"rockettalk/pkg/mq"
)

type MessageService struct {
	messages  MessageStore
	publisher EventPublisher
}

func NewMessageService(messages MessageStore, publisher EventPublisher) *MessageService {
	return &MessageService{
		messages:  messages,
		publisher: publisher,
	}
}

// Send stores a new message and publishes a `message.sent` event.
func (s *MessageService) Send(ctx context.Context, from, to, subject, body string) (*model.Message, error) {
	m := &model.Message{
		ID:      uuid.NewString(),
		From:    from,
		To:      to,
		Subject: subject,
		Body:    body,
		SentAt:  time.Now(),
	}

	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	payload := mq.MessageSentPayload{
		MessageID: m.ID,
		From:      m.From,
		To:        m.To,
		Subject:   m.Subject,
		SentAt:    m.SentAt,
	}
	if err := s.publisher.Publish(mq.RoutingKeyMessageSent, payload); err != nil {
		return nil, err
	}

	metrics.MessagesSent.Inc()
	return m, nil
}

// Get loads a single message by id.
func (s *MessageService) Get(ctx context.Context, id string) (*model.Message, error) {
	return s.messages.FindByID(ctx, id)
}

// ListSent returns messages sent by the user, most recent first.
func (s *MessageService) ListSent(ctx context.Context, username string) ([]model.Message, error) {
	return s.messages.ListSent(ctx, username)
}

// ListReceived returns messages received by the user, most recent first.
func (s *MessageService) ListReceived(ctx context.Context, username string) ([]model.Message, error) {
	return s.messages.ListReceived(ctx, username)
}

// Delete removes one message and reports whether it existed.
func (s *MessageService) Delete(ctx context.Context, id string) (bool, error) {
	existed, err := s.messages.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if existed {
		metrics.MessagesDeleted.WithLabelValues("single").Inc()
	}
	return existed, nil
}

// Shred removes every message in the system.
func (s *MessageService) Shred(ctx context.Context) error {
	if err := s.messages.DeleteAll(ctx); err != nil {
		return err
	}
	metrics.MessagesDeleted.WithLabelValues("shred").Inc()
	return nil
}
