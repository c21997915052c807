package policies

import "time"

// ViewEvent is published after a policy page has been served.
type ViewEvent struct {
	Policy    Field     `json:"policy"`
	Handle    string    `json:"handle"`
	Language  string    `json:"language,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ViewedAt  time.Time `json:"viewed_at"`
}
