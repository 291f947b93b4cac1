package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"rockettalk/internal/model"
	"rockettalk/internal/service"
	"rockettalk/pkg/logger"
	"rockettalk/pkg/metrics"
	"rockettalk/pkg/mq"
)

// MessageSentHandler turns `message.sent` events into notification rows for
// the recipient.
type MessageSentHandler struct {
	notifications service.NotificationStore
	logger        *zap.Logger
}

func NewMessageSentHandler(notifications service.NotificationStore, log *zap.Logger) *MessageSentHandler {
	return &MessageSentHandler{
		notifications: notifications,
		logger:        log,
	}
}

func (h *MessageSentHandler) Handle(ctx context.Context, data json.RawMessage) error {
	var payload mq.MessageSentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		// A malformed payload never gets better on retry, drop it.
		h.logger.Error("Dropping malformed message.sent event", zap.Error(err))
		metrics.NotificationsStored.WithLabelValues("failed").Inc()
		return nil
	}

	n := &model.Notification{
		Username:  payload.To,
		MessageID: payload.MessageID,
		Content:   fmt.Sprintf("New message from %s: %s", payload.From, payload.Subject),
	}

	if err := h.notifications.Create(ctx, n); err != nil {
		metrics.NotificationsStored.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to store notification: %w", err)
	}

	metrics.NotificationsStored.WithLabelValues("success").Inc()
	logger.WithTrace(ctx, h.logger).Info("Notification stored",
		zap.String("message_id", payload.MessageID),
		zap.String("recipient", payload.To),
	)
	return nil
}
