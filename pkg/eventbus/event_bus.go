// Package eventbus carries graph lifecycle events (validated, planned, saved, deleted) between
// flowgraph processes.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dukex/flowgraph/pkg/events"
)

var ErrUnknownEventType = errors.New("unknown event type")

// Event is anything the bus can route by type.
type Event interface {
	GetType() events.EventType
}

// EventPublisher publishes events keyed by workflow id, so one workflow's events stay ordered on
// partitioned transports.
type EventPublisher interface {
	Publish(ctx context.Context, workflowID string, event Event) error
}

// EventSubscriber routes incoming events to one handler per event type. Registering a second
// handler for a type replaces the first.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventHandler receives the decoded event as a pointer to its concrete type.
type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}

var eventFactories = map[events.EventType]func() any{
	events.GraphValidatedEvent:       func() any { return &events.GraphValidated{} },
	events.GraphPlannedEvent:         func() any { return &events.GraphPlanned{} },
	events.WorkflowGraphSavedEvent:   func() any { return &events.WorkflowGraphSaved{} },
	events.WorkflowGraphDeletedEvent: func() any { return &events.WorkflowGraphDeleted{} },
}

// DecodeEvent turns a payload back into the concrete event for eventType.
func DecodeEvent(eventType events.EventType, payload []byte) (any, error) {
	factory, ok := eventFactories[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}

	event := factory()

	err := json.Unmarshal(payload, event)
	if err != nil {
		return nil, fmt.Errorf("decode %s event: %w", eventType, err)
	}

	return event, nil
}
