package events

import "time"

// Kind discriminates dialogue event types so subscribers can switch on it
// without type-asserting every concrete event.
type Kind string

// Event is implemented by everything the orchestrator emits, from state
// changes to playback and usage updates.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and emission time shared by all events. Embed it
// and the event is stamped at construction.
type Base struct {
	kind      Kind
	timestamp time.Time
}

// NewBase stamps a new event base with the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

// Kind returns the event discriminator.
func (b Base) Kind() Kind {
	return b.kind
}

// Timestamp returns when the event was emitted.
func (b Base) Timestamp() time.Time {
	return b.timestamp
}
