package model

import "time"

// User is a roster character. Usernames are stored lowercase.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
