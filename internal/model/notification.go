package model

import "time"

// Notification is a message delivered to a single user's feed.
// Feeds are ordered newest first.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// SentReminder records that a reminder notification was delivered for a
// (user, event) pair. Rows are never deleted; the pair acts as a
// permanent dedup key across scanner runs.
type SentReminder struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	EventID string    `json:"event_id"`
	SentOn  time.Time `json:"sent_on"`
}
