// Package adapter defines the terminal-event notification boundary.
//
// Adapters publish stream terminal events to downstream systems: when a
// stream flushes, errors, or is destroyed, the caller snapshots it into
// an event and hands it to an adapter. Streams know nothing about
// adapters; the caller owns adapter lifecycle.
package adapter

import (
	"context"
	"time"

	"github.com/justapithecus/sluice/fault"
	"github.com/justapithecus/sluice/stream"
)

// StreamClosedEvent is the payload published when a stream reaches a
// terminal state.
type StreamClosedEvent struct {
	EventType       string `json:"event_type"` // always "stream_closed"
	StreamID        string `json:"stream_id"`
	ContentType     string `json:"content_type"`
	ContentEncoding string `json:"content_encoding"`
	Outcome         string `json:"outcome"` // flushed, errored, destroyed
	FaultCode       string `json:"fault_code,omitempty"`
	Observed        int64  `json:"observed"`
	ContentLength   *int64 `json:"content_length,omitempty"`
	DurationMS      int64  `json:"duration_ms"`
	Timestamp       string `json:"timestamp"` // ISO 8601
}

// NewStreamClosedEvent snapshots a terminal stream into an event payload.
// Calling it on a still-open stream yields an event with Outcome "open";
// publishing such an event is a caller bug, not an adapter concern.
func NewStreamClosedEvent(s *stream.Stream) *StreamClosedEvent {
	d := s.Descriptor()
	ev := &StreamClosedEvent{
		EventType:       "stream_closed",
		StreamID:        s.ID(),
		ContentType:     d.ContentType,
		ContentEncoding: d.ContentEncoding,
		Outcome:         s.State().String(),
		Observed:        s.Observed(),
		ContentLength:   d.ContentLength,
		DurationMS:      s.Age().Milliseconds(),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
	if f := fault.From(s.Err()); f != nil {
		ev.FaultCode = string(f.Code)
	}
	return ev
}

// Adapter publishes stream terminal events to a downstream system.
type Adapter interface {
	// Publish sends a terminal event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *StreamClosedEvent) error

	// Close releases adapter resources.
	Close() error
}
