// Package realtime pushes change events to connected clients over Redis
// pub/sub. Delivery is best-effort with no buffering or replay; a client
// that is offline at publish time reconciles with a full fetch on
// reconnect.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Topic helpers. Board events (including list and task mutations) share the
// owning board's topic; chat and meeting subsystems reuse the same
// publisher with their own topics.
func BoardTopic(boardID string) string   { return "board-" + boardID }
func ConversationTopic(id string) string { return "conversation-" + id }
func MeetingTopic(id string) string      { return "meeting-" + id }

type frame struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Connect dials Redis from a URL and verifies the connection.
func Connect(redisURL string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewPublisher(client), nil
}

// Publish sends one event frame to a topic. Errors are logged, never
// returned: the publisher gives no delivery guarantee and must not fail a
// mutation. Ordering within one topic follows call order.
func (p *Publisher) Publish(topic, eventName string, payload interface{}) {
	body, err := json.Marshal(frame{Event: eventName, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Str("event", eventName).
			Msg("realtime: payload not serializable, frame dropped")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.client.Publish(ctx, topic, body).Err(); err != nil {
		log.Warn().Err(err).Str("topic", topic).Str("event", eventName).
			Msg("realtime: publish failed, frame dropped")
	}
}

func (p *Publisher) Close() error {
	return p.client.Close()
}
