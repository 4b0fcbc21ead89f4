package notify

import "time"

// Event statuses.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusFailed    = "failed"
)

// Event is the payload sent to downstream sinks after a publish attempt.
type Event struct {
	ArticleTitle string    `json:"article_title"`
	Topic        string    `json:"topic"`
	Status       string    `json:"status"`
	EntryID      int64     `json:"entry_id,omitempty"`
	EntryURL     string    `json:"entry_url,omitempty"`
	Error        string    `json:"error,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event for the given article and status.
func NewEvent(title, topic, status string) Event {
	return Event{
		ArticleTitle: title,
		Topic:        topic,
		Status:       status,
		OccurredAt:   time.Now().UTC(),
	}
}
