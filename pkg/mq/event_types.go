package mq

import "time"

// Routing keys published on the events exchange.
const (
	RoutingKeyMessageSent = "message.sent"
)

// MessageSentPayload is published whenever a user sends a message.
type MessageSentPayload struct {
	MessageID string    `json:"message_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	SentAt    time.Time `json:"sent_at"`
}
