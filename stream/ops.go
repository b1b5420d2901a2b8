package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/justapithecus/sluice/codec"
	"github.com/justapithecus/sluice/fault"
	"github.com/justapithecus/sluice/media"
	"github.com/justapithecus/sluice/transcode"
)

// Transcode converts the stream to the target transfer encoding. A target
// equal to the current encoding returns the identical instance — no new
// stream, no new watchdog. Otherwise the chain is decompress-current,
// compress-target, wrapped in a new stream whose limit and timeout are
// disabled: this stream keeps enforcing bounds on the original source, and
// the wrapper must not count them twice.
func (s *Stream) Transcode(target media.Encoding) (*Stream, error) {
	if _, err := media.ParseEncoding(string(target)); err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}
	if target == s.enc {
		return s, nil
	}

	recoded, err := transcode.Recode(s.enc, target, s)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}
	return New(recoded, Options{
		ContentType:     s.ct.Raw,
		ContentEncoding: string(target),
		Limit:           Unbounded,
		Timeout:         NoTimeout,
		Logger:          s.logger,
		Collector:       s.collector,
	})
}

// Bytes collects the whole stream into one buffer. With autoDecompress,
// a compressed stream is decompressed first. The call fails with the
// stream's terminal fault if one occurred before end-of-input; any other
// consumption error is wrapped as an unexpected fault. Cancelling ctx
// destroys the stream and propagates into the in-flight collection.
// A second collection started while one is in flight fails with a
// multiple_sources fault.
func (s *Stream) Bytes(ctx context.Context, autoDecompress bool) ([]byte, error) {
	if err := s.beginCollect(); err != nil {
		return nil, err
	}
	defer s.endCollect()

	var src io.Reader = s
	if autoDecompress && s.enc.IsCompressed() {
		decoded, err := transcode.Decompress(s.enc, s)
		if err != nil {
			return nil, fault.From(err)
		}
		defer func() { _ = decoded.Close() }()
		src = decoded
	}

	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(src)
		ch <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		s.Destroy(ctx.Err())
		return nil, fault.From(ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fault.From(r.err)
		}
		return r.data, nil
	case <-s.done:
		// Terminal fault while the collector is blocked on the source:
		// surface the fault without waiting for the reader to unblock.
		if err := s.Err(); err != nil {
			return nil, err
		}
		// Flushed: the collector finishes momentarily.
		select {
		case <-ctx.Done():
			s.Destroy(ctx.Err())
			return nil, fault.From(ctx.Err())
		case r := <-ch:
			if r.err != nil {
				return nil, fault.From(r.err)
			}
			return r.data, nil
		}
	}
}

// Object collects the stream and deserializes it against its content
// type. Only deserializable content types are accepted; the check happens
// before any data is consumed, so the codec's unsupported-type path is
// unreachable from here.
func (s *Stream) Object(ctx context.Context) (any, error) {
	if !s.ct.IsDeserializable() {
		return nil, fmt.Errorf("stream: content type %q is not deserializable", s.ct.Raw)
	}
	data, err := s.Bytes(ctx, true)
	if err != nil {
		return nil, err
	}
	return codec.Unmarshal(s.ct.Essence, data)
}

// beginCollect marks a collection in flight, rejecting concurrent ones.
func (s *Stream) beginCollect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collecting {
		return fault.New(fault.CodeMultipleSources, "stream is already being collected")
	}
	s.collecting = true
	return nil
}

func (s *Stream) endCollect() {
	s.mu.Lock()
	s.collecting = false
	s.mu.Unlock()
}
