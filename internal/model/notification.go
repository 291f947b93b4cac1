package model

import "time"

type Notification struct {
	ID        int
	Username  string
	MessageID string
	Content   string
	IsRead    bool
	CreatedAt time.Time
}
