// Package pipeline fans an accepted mutation out to the realtime channel,
// the activity ledger, and registered webhooks. The three branches are
// independent and commutative: they run concurrently, each behind its own
// failure boundary, and none of them can fail the mutation that already
// committed.
package pipeline

import (
	"sync"

	"github.com/rs/zerolog/log"

	"boardly/internal/engine/realtime"
	"boardly/internal/platform/models"
)

// ChannelPublisher pushes a frame to a realtime topic, best-effort.
type ChannelPublisher interface {
	Publish(topic, eventName string, payload interface{})
}

// Ledger appends an activity record, returning nil on any failure.
type Ledger interface {
	Record(event models.MutationEvent, actingUserID, description string) *models.ActivityRecord
}

// WebhookDispatcher delivers the event to subscribed endpoints, never
// erring toward its caller.
type WebhookDispatcher interface {
	Dispatch(boardID, eventName string, payload interface{})
}

type Orchestrator struct {
	publisher  ChannelPublisher
	ledger     Ledger
	dispatcher WebhookDispatcher
}

func NewOrchestrator(publisher ChannelPublisher, ledger Ledger, dispatcher WebhookDispatcher) *Orchestrator {
	return &Orchestrator{
		publisher:  publisher,
		ledger:     ledger,
		dispatcher: dispatcher,
	}
}

// AfterMutation runs the three fan-out branches for one committed mutation
// and returns once all have settled, so total latency is bounded by the
// slowest branch rather than their sum. It never returns an error and never
// panics outward; callers that must not wait invoke it in a goroutine.
// The orchestrator holds no state and performs no retries.
func (o *Orchestrator) AfterMutation(event models.MutationEvent, actingUserID, description string) {
	var wg sync.WaitGroup
	wg.Add(3)

	go o.branch(&wg, "realtime", event, func() {
		o.publisher.Publish(realtime.BoardTopic(event.BoardID), event.Name, event.Payload)
	})
	go o.branch(&wg, "activity", event, func() {
		o.ledger.Record(event, actingUserID, description)
	})
	go o.branch(&wg, "webhooks", event, func() {
		o.dispatcher.Dispatch(event.BoardID, event.Name, event.Payload)
	})

	wg.Wait()
}

func (o *Orchestrator) branch(wg *sync.WaitGroup, name string, event models.MutationEvent, fn func()) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("branch", name).
				Str("event", event.Name).
				Str("board_id", event.BoardID).
				Msg("pipeline: fan-out branch panicked")
		}
	}()
	fn()
}
