package stream

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/justapithecus/sluice/codec"
	"github.com/justapithecus/sluice/fault"
	"github.com/justapithecus/sluice/log"
	"github.com/justapithecus/sluice/media"
	"github.com/justapithecus/sluice/metrics"
	"github.com/justapithecus/sluice/watchdog"
)

// Unbounded disables the byte ceiling. Used when chaining streams whose
// upstream already enforces bounds.
const Unbounded int64 = math.MaxInt64

// NoTimeout disables stall detection.
const NoTimeout time.Duration = -1

// Options configures stream construction. Zero values select defaults:
// octet-stream/identity metadata, a content-type-dependent limit
// (64 KiB for deserializable types, 10 MiB otherwise), a 30 s timeout
// with 1 s checks. Use Unbounded and NoTimeout for explicit opt-outs.
type Options struct {
	// ContentType is the raw MIME type, parameters allowed.
	ContentType string
	// ContentEncoding is the transfer encoding name.
	ContentEncoding string
	// Length is the declared payload length, if known. Must be positive
	// and no greater than the limit.
	Length *int64
	// Limit is the byte ceiling. Zero selects the content-type default;
	// Unbounded disables it.
	Limit int64
	// Timeout is the idle window before the stream is declared stalled.
	// Zero selects the default; NoTimeout disables stall detection.
	Timeout time.Duration
	// Interval is the watchdog check granularity. Zero selects the
	// default, clamped to the timeout.
	Interval time.Duration
	// Logger receives lifecycle events. Nil discards them.
	Logger *log.Logger
	// Collector receives lifecycle metrics. Nil disables collection.
	Collector *metrics.Collector
}

// OptionsFromDescriptor builds Options from a content descriptor, closing
// the round trip: a stream built from another stream's descriptor has
// equivalent content semantics.
func OptionsFromDescriptor(d media.Descriptor) Options {
	opts := Options{
		ContentType:     d.ContentType,
		ContentEncoding: d.ContentEncoding,
	}
	if d.ContentLength != nil {
		n := *d.ContentLength
		opts.Length = &n
	}
	return opts
}

// New constructs a bounded stream over source. Configuration is validated
// synchronously: an invalid content type or encoding, a non-positive
// declared length, a negative limit, or an interval exceeding the timeout
// fail fast before any data flows. A declared length exceeding the limit
// does not fail construction; the stream reports a too_large fault on the
// next tick instead, so callers can attach observers first.
func New(source io.Reader, opts Options) (*Stream, error) {
	contentType := opts.ContentType
	if contentType == "" {
		contentType = media.TypeOctetStream
	}
	ct, err := media.ParseContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}
	enc, err := media.ParseEncoding(opts.ContentEncoding)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}

	if opts.Length != nil && *opts.Length <= 0 {
		return nil, fmt.Errorf("stream: declared length must be positive, got %d", *opts.Length)
	}
	limit := opts.Limit
	switch {
	case limit == 0:
		limit = ct.DefaultLimit()
	case limit < 0:
		return nil, fmt.Errorf("stream: limit must be positive, got %d", limit)
	}

	timeout := opts.Timeout
	switch {
	case timeout == NoTimeout:
		timeout = 0
	case timeout == 0:
		timeout = media.DefaultTimeout
	case timeout < 0:
		return nil, fmt.Errorf("stream: negative timeout %v", timeout)
	}
	interval := opts.Interval
	if interval == 0 {
		interval = min(media.DefaultInterval, timeout)
	}
	if timeout > 0 && interval > timeout {
		return nil, fmt.Errorf("stream: interval %v exceeds timeout %v", interval, timeout)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}

	s := &Stream{
		id:        nextStreamID(),
		ct:        ct,
		enc:       enc,
		limit:     limit,
		logger:    logger,
		collector: opts.Collector,
		source:    source,
		opened:    time.Now(),
		state:     Open,
		done:      make(chan struct{}),
	}
	if opts.Length != nil {
		n := *opts.Length
		s.declared = &n
	}

	dog, err := watchdog.New(timeout, interval, s.onIdle)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}
	s.dog = dog

	s.collector.StreamOpened()

	if s.declared != nil && limit != Unbounded && *s.declared > limit {
		// Deferred so the caller can attach fault observers before the
		// transition lands. No data event is ever emitted.
		f := fault.WithMeta(fault.CodeTooLarge, "declared length exceeds byte ceiling", s.faultMeta())
		go s.fail(f)
	}
	return s, nil
}

// FromBuffer constructs a stream over an in-memory payload. The declared
// length defaults to the buffer size.
func FromBuffer(data []byte, opts Options) (*Stream, error) {
	if opts.Length == nil {
		n := int64(len(data))
		if n > 0 {
			opts.Length = &n
		}
	}
	return New(bytes.NewReader(data), opts)
}

// FromObject serializes a structured value and streams the result. The
// content type defaults to application/json and must be deserializable.
func FromObject(v any, opts Options) (*Stream, error) {
	if opts.ContentType == "" {
		opts.ContentType = media.TypeJSON
	}
	ct, err := media.ParseContentType(opts.ContentType)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}
	if !ct.IsDeserializable() {
		return nil, fmt.Errorf("stream: content type %q cannot serialize objects", opts.ContentType)
	}
	data, err := codec.Marshal(ct.Essence, v)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}
	return FromBuffer(data, opts)
}

// FromFile streams a file. The content type is inferred from the file
// extension when not supplied, falling back to application/octet-stream.
func FromFile(path string, opts Options) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stream: open %s: %w", path, err)
	}
	if opts.ContentType == "" {
		opts.ContentType = InferContentType(path)
	}
	s, err := New(f, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

// FromFileWithLength streams a file with the declared length and the byte
// ceiling both set to the file's current size — no slack: a file that
// grows past its stat'd size breaches the ceiling.
func FromFileWithLength(path string, opts Options) (*Stream, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stream: stat %s: %w", path, err)
	}
	size := info.Size()
	opts.Length = &size
	opts.Limit = size
	return FromFile(path, opts)
}

// FromReader constructs a stream over an arbitrary reader. When the
// source is itself a bounded stream, the new instance's limit and timeout
// are disabled: the upstream already enforces bounds on the original
// source, and double-counting them would fault chained pipelines early.
func FromReader(r io.Reader, opts Options) (*Stream, error) {
	if upstream, ok := r.(*Stream); ok {
		opts.Limit = Unbounded
		opts.Timeout = NoTimeout
		if opts.ContentType == "" {
			opts.ContentType = upstream.ct.Raw
		}
		if opts.ContentEncoding == "" {
			opts.ContentEncoding = string(upstream.enc)
		}
	}
	return New(r, opts)
}

// InferContentType maps a file extension to a validated content type,
// defaulting to octet-stream for unknown or unsupported families. It is
// the same inference FromFile applies; callers that pick limits by
// content type before construction use it to stay consistent.
func InferContentType(path string) string {
	byExt := mime.TypeByExtension(filepath.Ext(path))
	if byExt == "" {
		return media.TypeOctetStream
	}
	if _, err := media.ParseContentType(byExt); err != nil {
		return media.TypeOctetStream
	}
	return byExt
}
