// Package webhooks delivers mutation events to externally registered HTTP
// endpoints. Delivery is at-least-once over time: there is no retry within
// a dispatch, the next matching mutation is the retry. Per-endpoint health
// is tracked with a consecutive-failure counter that trips the endpoint
// inactive at a threshold; only a manual edit re-arms it.
package webhooks

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"boardly/internal/platform/models"
	"boardly/internal/platform/repositories"
)

const (
	HeaderSignature = "X-Boardly-Signature"
	HeaderEvent     = "X-Boardly-Event"

	// DefaultFailureThreshold is the consecutive-failure count at which a
	// subscription is automatically deactivated.
	DefaultFailureThreshold = 5
)

type Dispatcher struct {
	repo             *repositories.WebhookRepository
	client           *http.Client
	failureThreshold int
}

type Option func(*Dispatcher)

// WithClient replaces the HTTP client, mainly for tests and custom
// timeouts.
func WithClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.client = c }
}

// WithFailureThreshold overrides the circuit-breaker trip point.
func WithFailureThreshold(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.failureThreshold = n
		}
	}
}

func NewDispatcher(repo *repositories.WebhookRepository, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		repo:             repo,
		client:           &http.Client{Timeout: 10 * time.Second},
		failureThreshold: DefaultFailureThreshold,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch signs and POSTs the event to every active subscription on the
// board that subscribes to eventName. Deliveries run concurrently with full
// isolation: one endpoint's failure never prevents delivery attempts to, or
// status updates of, the others. Dispatch returns after all deliveries have
// settled and never reports an error to its caller.
func (d *Dispatcher) Dispatch(boardID, eventName string, payload interface{}) {
	subs, err := d.repo.ListActiveForEvent(boardID, eventName)
	if err != nil {
		log.Warn().Err(err).Str("board_id", boardID).Str("event", eventName).
			Msg("webhooks: subscription lookup failed, event dropped")
		return
	}
	if len(subs) == 0 {
		return
	}

	envelope := models.WebhookEnvelope{
		Event:     eventName,
		Data:      payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		log.Error().Err(err).Str("event", eventName).
			Msg("webhooks: envelope not serializable, event dropped")
		return
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *models.WebhookSubscription) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Str("webhook_id", sub.ID).
						Msg("webhooks: delivery panicked")
				}
			}()
			d.deliver(sub, eventName, body)
		}(sub)
	}
	wg.Wait()
}

func (d *Dispatcher) deliver(sub *models.WebhookSubscription, eventName string, body []byte) {
	req, err := http.NewRequest(http.MethodPost, sub.URL, bytes.NewReader(body))
	if err != nil {
		d.recordFailure(sub, eventName, err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderSignature, Sign(sub.Secret, body))
	req.Header.Set(HeaderEvent, eventName)

	resp, err := d.client.Do(req)
	if err != nil {
		d.recordFailure(sub, eventName, err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.recordFailure(sub, eventName, resp.Status)
		return
	}

	if err := d.repo.MarkDelivered(sub.ID, time.Now().Unix()); err != nil {
		log.Warn().Err(err).Str("webhook_id", sub.ID).
			Msg("webhooks: failed to record successful delivery")
	}
}

// recordFailure bumps the endpoint's consecutive-failure counter; the
// repository trips active=false atomically when the threshold is reached.
func (d *Dispatcher) recordFailure(sub *models.WebhookSubscription, eventName, reason string) {
	log.Warn().
		Str("webhook_id", sub.ID).
		Str("url", sub.URL).
		Str("event", eventName).
		Str("reason", reason).
		Msg("webhooks: delivery failed")

	if err := d.repo.MarkFailed(sub.ID, d.failureThreshold); err != nil {
		log.Warn().Err(err).Str("webhook_id", sub.ID).
			Msg("webhooks: failed to record delivery failure")
	}
}
