// Package activity records an append-only feed of what happened in the
// system. Events are logged asynchronously so request handling never waits
// on the feed.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types recorded by the expense lifecycle.
const (
	TypeExpenseCreated   = "expense_created"
	TypeExpenseCompleted = "expense_completed"
	TypeExpenseDeleted   = "expense_deleted"
	TypeSharePaid        = "share_paid"
	TypeGroupCreated     = "group_created"
	TypeMemberJoined     = "member_joined"
)

// Event is one entry in the activity feed
type Event struct {
	ID        uuid.UUID         `json:"id,omitempty"`
	Type      string            `json:"event_type,omitempty"`
	Data      any               `json:"event_data,omitempty"`
	Metadata  map[string]string `json:"event_metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type EventOption func(*Event)

func WithType(eventType string) EventOption {
	return func(e *Event) {
		e.Type = eventType
	}
}

func WithData(data any) EventOption {
	return func(e *Event) {
		e.Data = data
	}
}

// WithActor tags the event with the user who triggered it
func WithActor(userID string) EventOption {
	return func(e *Event) {
		e.Metadata["actor_id"] = userID
	}
}

func WithMetadata(metadata map[string]string) EventOption {
	return func(e *Event) {
		for k, v := range metadata {
			e.Metadata[k] = v
		}
	}
}

func NewEvent(opts ...EventOption) Event {
	e := Event{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Metadata:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Logger persists events somewhere durable
type Logger interface {
	Save(ctx context.Context, e Event) error
	GetByType(ctx context.Context, eventType string) ([]Event, error)
}
