package models

// WebhookSubscription is one externally registered endpoint for a board.
// Active is flipped off automatically when ConsecutiveFailures reaches the
// dispatcher's threshold; only a manual edit turns it back on (and clears
// the counter).
type WebhookSubscription struct {
	ID                  string   `json:"id"`
	BoardID             string   `json:"board_id"`
	URL                 string   `json:"url"`
	Secret              string   `json:"secret"`
	Events              []string `json:"events"` // JSON array in DB
	Active              bool     `json:"active"`
	ConsecutiveFailures int      `json:"consecutive_failures"`
	LastTriggeredAt     int64    `json:"last_triggered_at,omitempty"`
	CreatedBy           string   `json:"created_by"`
	CreatedAt           int64    `json:"created_at"`
	UpdatedAt           int64    `json:"updated_at"`
}

// SubscribesTo reports whether the subscription's event set contains name.
func (s *WebhookSubscription) SubscribesTo(name string) bool {
	for _, e := range s.Events {
		if e == name {
			return true
		}
	}
	return false
}

// WebhookEnvelope is the canonical outbound POST body. Timestamp is ISO8601.
// The HMAC signature is computed over the exact serialized form of this
// struct, so field order must stay stable.
type WebhookEnvelope struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}
