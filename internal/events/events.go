// Package events announces committed budget changes to downstream consumers
// such as the reporting service.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Event types.
const (
	BudgetCreated   = "budget.created"
	BudgetUpdated   = "budget.updated"
	BudgetDeleted   = "budget.deleted"
	BudgetFinalized = "budget.finalized"
)

// BudgetEvent is a lightweight notification; consumers re-read the store for
// the full state of the month.
type BudgetEvent struct {
	Type       string    `json:"type"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id,omitempty"`
	Month      string    `json:"month"`
	Actor      string    `json:"actor,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewBudgetEvent creates an event stamped with the current time.
func NewBudgetEvent(eventType, resource, resourceID, month string) BudgetEvent {
	return BudgetEvent{
		Type:       eventType,
		Resource:   resource,
		ResourceID: resourceID,
		Month:      month,
		Timestamp:  time.Now().UTC(),
	}
}

// RoutingKey is "<resource>.<type suffix>", e.g. "overall_budget.created".
func (e BudgetEvent) RoutingKey() string {
	return e.Resource + "." + e.Type[strings.LastIndexByte(e.Type, '.')+1:]
}

// ToJSON encodes the event.
func (e BudgetEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher sends budget events after the corresponding transaction committed.
type Publisher interface {
	Publish(ctx context.Context, event BudgetEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BudgetEvent) error { return nil }
func (NopPublisher) Close() error                               { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []BudgetEvent
	Err    error
}

func (r *Recorder) Publish(_ context.Context, event BudgetEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []BudgetEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]BudgetEvent, len(r.events))
	copy(out, r.events)
	return out
}

type actorKey struct{}

// WithActor attaches the requesting actor to ctx so events can name it.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor, or "".
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
