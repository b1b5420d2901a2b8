// Package stream implements the bounded, self-describing byte stream at
// the core of sluice.
//
// A Stream wraps a chunk source behind io.Reader: every Read is one chunk
// arrival, counted against the byte ceiling and reported to the inactivity
// watchdog. Chunks are processed strictly in arrival order; size
// accounting and state transitions are never reordered relative to them.
//
// Lifecycle: Open until either end-of-input within bounds (Flushed) or a
// terminal fault (Errored: ceiling breach, watchdog fire, source failure).
// Destroy moves any state to Destroyed and is idempotent. Terminal
// transitions are observable through Done and Err; there is no retry of
// any kind — a caller wanting retry semantics builds a new stream from the
// original source.
package stream

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/justapithecus/sluice/fault"
	"github.com/justapithecus/sluice/log"
	"github.com/justapithecus/sluice/media"
	"github.com/justapithecus/sluice/metrics"
	"github.com/justapithecus/sluice/watchdog"
)

// State is a stream lifecycle state.
type State int

const (
	// Open accepts chunks.
	Open State = iota
	// Flushed means end-of-input arrived within bounds.
	Flushed
	// Errored means a terminal fault occurred.
	Errored
	// Destroyed means the stream was explicitly torn down.
	Destroyed
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Flushed:
		return "flushed"
	case Errored:
		return "errored"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var streamSeq atomic.Int64

func nextStreamID() string {
	return fmt.Sprintf("stream-%d", streamSeq.Add(1))
}

// Stream is a bounded, self-describing byte stream. It exclusively owns
// one watchdog timer for its entire lifetime.
type Stream struct {
	id        string
	ct        media.ContentType
	enc       media.Encoding
	limit     int64
	logger    *log.Logger
	collector *metrics.Collector

	source io.Reader
	dog    *watchdog.Timer
	opened time.Time

	mu         sync.Mutex
	state      State
	declared   *int64
	observed   int64
	flt        *fault.Fault
	collecting bool
	doneClosed bool
	done       chan struct{}
}

// ID returns the stream's identity used in logs and adapter events.
func (s *Stream) ID() string { return s.id }

// ContentType returns the parsed content type.
func (s *Stream) ContentType() media.ContentType { return s.ct }

// Encoding returns the transfer encoding.
func (s *Stream) Encoding() media.Encoding { return s.enc }

// Limit returns the byte ceiling. Unbounded means no ceiling.
func (s *Stream) Limit() int64 { return s.limit }

// IsCompressed reports whether the stream's encoding is a compression.
func (s *Stream) IsCompressed() bool { return s.enc.IsCompressed() }

// IsDeserializable reports whether Object can collect this stream.
func (s *Stream) IsDeserializable() bool { return s.ct.IsDeserializable() }

// IsObjectStream reports whether the content type denotes a record stream.
func (s *Stream) IsObjectStream() bool { return s.ct.IsObjectStream() }

// State returns the current lifecycle state.
func (s *Stream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Observed returns the running total of bytes processed.
func (s *Stream) Observed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observed
}

// Age returns the elapsed time since the stream was constructed. It keeps
// growing after a terminal transition; callers snapshot it at the moment
// of interest.
func (s *Stream) Age() time.Duration {
	return time.Since(s.opened)
}

// DeclaredLength returns the declared length if known. After a flush the
// declared length is backfilled from the observed size.
func (s *Stream) DeclaredLength() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.declared == nil {
		return 0, false
	}
	return *s.declared, true
}

// Descriptor returns the content metadata triple. The returned value is
// reusable as constructor input for an equivalent stream.
func (s *Stream) Descriptor() media.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := media.Descriptor{
		ContentType:     s.ct.Raw,
		ContentEncoding: string(s.enc),
	}
	if s.declared != nil {
		n := *s.declared
		d.ContentLength = &n
	}
	return d
}

// Done is closed when the stream reaches a terminal state (Flushed,
// Errored, or Destroyed). Faults are then available through Err.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Err returns the terminal fault, or nil after a clean flush.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flt == nil {
		return nil
	}
	return s.flt
}

// Read delivers the next chunk from the source. Each chunk is counted
// against the byte ceiling and touches the watchdog; a ceiling breach
// surfaces as a too_large fault and the breaching chunk is not delivered.
// End-of-input within bounds flushes the stream, backfilling the declared
// length from the observed size.
func (s *Stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	switch s.state {
	case Flushed:
		s.mu.Unlock()
		return 0, io.EOF
	case Errored:
		f := s.flt
		s.mu.Unlock()
		return 0, f
	case Destroyed:
		f := s.flt
		s.mu.Unlock()
		if f != nil {
			return 0, f
		}
		return 0, io.ErrClosedPipe
	}
	s.mu.Unlock()

	n, err := s.source.Read(p)
	if n > 0 {
		if f := s.accountChunk(n); f != nil {
			return 0, f
		}
	}
	if err == nil {
		return n, nil
	}
	if err == io.EOF {
		s.flush()
		return n, io.EOF
	}
	f := fault.From(err)
	s.fail(f)
	// A terminal fault may have landed first (watchdog fire closing the
	// source mid-read); that fault is authoritative.
	s.mu.Lock()
	if s.flt != nil {
		f = s.flt
	}
	s.mu.Unlock()
	return 0, f
}

// accountChunk records one chunk arrival. Returns the terminal fault when
// the ceiling is breached.
func (s *Stream) accountChunk(n int) *fault.Fault {
	s.mu.Lock()
	if s.state != Open {
		f := s.flt
		s.mu.Unlock()
		if f != nil {
			return f
		}
		return fault.New(fault.CodeUnexpected, "chunk after terminal state")
	}
	s.observed += int64(n)
	observed := s.observed
	s.mu.Unlock()

	_ = s.dog.Touch()
	s.collector.ChunkObserved(n)

	if s.limit != Unbounded && observed > s.limit {
		f := fault.WithMeta(fault.CodeTooLarge, "payload exceeds byte ceiling", s.faultMeta())
		s.fail(f)
		return f
	}
	return nil
}

// flush transitions Open → Flushed after clean end-of-input.
func (s *Stream) flush() {
	s.mu.Lock()
	if s.state != Open {
		s.mu.Unlock()
		return
	}
	s.state = Flushed
	if s.declared == nil {
		n := s.observed
		s.declared = &n
	}
	observed := s.observed
	s.closeDoneLocked()
	s.mu.Unlock()

	s.dog.Stop()
	s.closeSource()
	s.collector.StreamFlushed(observed)
	s.logger.Debug("stream flushed", map[string]any{"observed": observed})
}

// fail transitions Open → Errored with a terminal fault. The first
// terminal fault wins; later ones are ignored.
func (s *Stream) fail(f *fault.Fault) {
	s.mu.Lock()
	if s.state != Open {
		s.mu.Unlock()
		return
	}
	s.state = Errored
	s.flt = f
	s.closeDoneLocked()
	s.mu.Unlock()

	s.dog.Stop()
	s.closeSource()
	s.collector.StreamErrored(f.Code)
	s.logger.Warn("stream errored", f.Descriptor())
}

// Destroy tears the stream down from any state. Idempotent: calling it
// twice, or after natural completion, neither panics nor fires a second
// fault, and the watchdog is never double-released. A non-fault cause is
// wrapped as an unexpected fault; a cause is ignored when a terminal
// fault was already recorded.
func (s *Stream) Destroy(cause error) {
	s.mu.Lock()
	if s.state == Destroyed {
		s.mu.Unlock()
		return
	}
	if cause != nil && s.flt == nil {
		s.flt = fault.From(cause)
	}
	s.state = Destroyed
	s.closeDoneLocked()
	s.mu.Unlock()

	s.dog.Stop()
	s.closeSource()
	s.collector.StreamDestroyed()
	s.logger.Debug("stream destroyed", nil)
}

// closeDoneLocked closes the terminal channel exactly once. Caller holds
// s.mu.
func (s *Stream) closeDoneLocked() {
	if !s.doneClosed {
		s.doneClosed = true
		close(s.done)
	}
}

// closeSource releases the underlying source if it is closable. Closing
// also unblocks any in-flight Read on the source.
func (s *Stream) closeSource() {
	if c, ok := s.source.(io.Closer); ok {
		_ = c.Close()
	}
}

// onIdle is the watchdog callback: no activity within the idle window.
func (s *Stream) onIdle(elapsed time.Duration) {
	meta := s.faultMeta()
	meta["elapsed_ms"] = elapsed.Milliseconds()
	s.fail(fault.WithMeta(fault.CodeTimedOut, "no data within idle window", meta))
}

// faultMeta snapshots the metadata carried by terminal faults.
func (s *Stream) faultMeta() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta := map[string]any{
		"content_type":     s.ct.Raw,
		"content_encoding": string(s.enc),
		"observed":         s.observed,
	}
	if s.limit != Unbounded {
		meta["limit"] = s.limit
	}
	if s.declared != nil {
		meta["content_length"] = *s.declared
	}
	return meta
}
