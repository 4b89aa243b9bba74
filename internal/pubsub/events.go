// Package pubsub fans state-change notifications out to the TUI: the view
// session publishes snapshots after every mutation and the logger publishes
// entries, both through a generic broker whose events double as tea.Msg
// values in the update loop.
package pubsub

import "time"

// EventType classifies a published event.
type EventType string

const (
	// CreatedEvent announces new content, e.g. a log entry.
	CreatedEvent EventType = "created"
	// UpdatedEvent announces a changed view state; the payload is the
	// snapshot after the mutation.
	UpdatedEvent EventType = "updated"
	// ErrorEvent announces a failed operation; the payload carries the
	// state including the error.
	ErrorEvent EventType = "error"
)

// Event is a published notification with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}
