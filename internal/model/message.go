package model

import "time"

// TimeFormat is the display format for message timestamps.
const TimeFormat = "2006-01-02 15:04:05"

// Message is one piece of mail between two roster characters.
type Message struct {
	ID      string
	From    string
	To      string
	Subject string
	Body    string
	SentAt  time.Time
}

// SentAtDisplay renders the timestamp the way the templates show it.
func (m Message) SentAtDisplay() string {
	return m.SentAt.Format(TimeFormat)
}
