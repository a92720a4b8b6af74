package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"boardly/internal/platform/models"
)

type WebhookRepository struct {
	db *sql.DB
}

func NewWebhookRepository(db *sql.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

const webhookColumns = `id, board_id, url, secret, events, active, consecutive_failures, last_triggered_at, created_by, created_at, updated_at`

func (r *WebhookRepository) Create(sub *models.WebhookSubscription) error {
	sub.ID = "wh_" + uuid.New().String()
	now := time.Now().Unix()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	sub.Active = true
	sub.ConsecutiveFailures = 0

	eventsJSON, err := json.Marshal(sub.Events)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO webhook_subscriptions (id, board_id, url, secret, events, active, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?)`,
		sub.ID, sub.BoardID, sub.URL, sub.Secret, string(eventsJSON), sub.CreatedBy, sub.CreatedAt, sub.UpdatedAt,
	)
	return err
}

func (r *WebhookRepository) GetByID(id string) (*models.WebhookSubscription, error) {
	row := r.db.QueryRow(`SELECT `+webhookColumns+` FROM webhook_subscriptions WHERE id = ?`, id)
	return scanWebhook(row)
}

func (r *WebhookRepository) ListByBoard(boardID string) ([]*models.WebhookSubscription, error) {
	rows, err := r.db.Query(
		`SELECT `+webhookColumns+` FROM webhook_subscriptions WHERE board_id = ? ORDER BY created_at DESC`,
		boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWebhooks(rows)
}

// ListActiveForEvent returns the board's active subscriptions whose event
// set contains eventName. Events are stored as a JSON array, so membership
// is filtered in the application like the rest of the event plumbing.
func (r *WebhookRepository) ListActiveForEvent(boardID, eventName string) ([]*models.WebhookSubscription, error) {
	rows, err := r.db.Query(
		`SELECT `+webhookColumns+` FROM webhook_subscriptions WHERE board_id = ? AND active = 1`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs, err := collectWebhooks(rows)
	if err != nil {
		return nil, err
	}

	var matched []*models.WebhookSubscription
	for _, s := range subs {
		if s.SubscribesTo(eventName) {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

// Update applies a manual edit. Per the subscription lifecycle, any manual
// edit clears the failure counter, which is also the only way to re-arm a
// tripped subscription.
func (r *WebhookRepository) Update(sub *models.WebhookSubscription) error {
	eventsJSON, err := json.Marshal(sub.Events)
	if err != nil {
		return err
	}
	sub.UpdatedAt = time.Now().Unix()
	sub.ConsecutiveFailures = 0

	_, err = r.db.Exec(
		`UPDATE webhook_subscriptions
		 SET url = ?, events = ?, active = ?, consecutive_failures = 0, updated_at = ?
		 WHERE id = ?`,
		sub.URL, string(eventsJSON), sub.Active, sub.UpdatedAt, sub.ID,
	)
	return err
}

func (r *WebhookRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM webhook_subscriptions WHERE id = ?`, id)
	return err
}

// MarkDelivered records a successful delivery: counter back to zero,
// last_triggered_at stamped.
func (r *WebhookRepository) MarkDelivered(id string, timestamp int64) error {
	_, err := r.db.Exec(
		`UPDATE webhook_subscriptions SET consecutive_failures = 0, last_triggered_at = ? WHERE id = ?`,
		timestamp, id)
	return err
}

// MarkFailed increments the failure counter and trips the breaker in a
// single statement, so concurrent dispatches cannot lose a trip between a
// read and a write.
func (r *WebhookRepository) MarkFailed(id string, threshold int) error {
	_, err := r.db.Exec(
		`UPDATE webhook_subscriptions
		 SET consecutive_failures = consecutive_failures + 1,
		     active = CASE WHEN consecutive_failures + 1 >= ? THEN 0 ELSE active END,
		     updated_at = ?
		 WHERE id = ?`,
		threshold, time.Now().Unix(), id)
	return err
}

func scanWebhook(row rowScanner) (*models.WebhookSubscription, error) {
	var s models.WebhookSubscription
	var eventsStr string
	var lastTriggeredAt sql.NullInt64

	err := row.Scan(&s.ID, &s.BoardID, &s.URL, &s.Secret, &eventsStr, &s.Active,
		&s.ConsecutiveFailures, &lastTriggeredAt, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lastTriggeredAt.Valid {
		s.LastTriggeredAt = lastTriggeredAt.Int64
	}
	if err := json.Unmarshal([]byte(eventsStr), &s.Events); err != nil {
		s.Events = nil
	}
	return &s, nil
}

func collectWebhooks(rows *sql.Rows) ([]*models.WebhookSubscription, error) {
	var subs []*models.WebhookSubscription
	for rows.Next() {
		s, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
