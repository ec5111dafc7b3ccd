package domain

import "time"

// Notification is an entry of the authenticated user's inbox.
type Notification struct {
	ID         string    `json:"id"`
	Repository string    `json:"repository"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	Reason     string    `json:"reason"`
	Unread     bool      `json:"unread"`
	URL        string    `json:"url,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
