// Package view defines the payload types shared by the CLI's render and
// TUI layers. TUI views consume the same payloads as non-TUI rendering;
// there is no TUI-exclusive data.
package view

import (
	"errors"

	"github.com/justapithecus/sluice/fault"
	"github.com/justapithecus/sluice/metrics"
	"github.com/justapithecus/sluice/stream"
)

// StreamReport describes one stream after consumption: its content
// metadata, final state, and terminal fault if any.
type StreamReport struct {
	Path            string `json:"path,omitempty"`
	StreamID        string `json:"stream_id"`
	ContentType     string `json:"content_type"`
	ContentEncoding string `json:"content_encoding"`
	ContentLength   *int64 `json:"content_length,omitempty"`
	Observed        int64  `json:"observed"`
	State           string `json:"state"`
	FaultCode       string `json:"fault_code,omitempty"`
	FaultMessage    string `json:"fault_message,omitempty"`
	Deserializable  bool   `json:"deserializable"`
	Compressed      bool   `json:"compressed"`
}

// ReportFromStream snapshots a stream into a report. Meaningful once the
// stream is terminal; calling earlier reports state "open" with the
// bytes observed so far.
func ReportFromStream(path string, s *stream.Stream) *StreamReport {
	d := s.Descriptor()
	r := &StreamReport{
		Path:            path,
		StreamID:        s.ID(),
		ContentType:     d.ContentType,
		ContentEncoding: d.ContentEncoding,
		ContentLength:   d.ContentLength,
		Observed:        s.Observed(),
		State:           s.State().String(),
		Deserializable:  s.IsDeserializable(),
		Compressed:      s.IsCompressed(),
	}
	if err := s.Err(); err != nil {
		var f *fault.Fault
		if errors.As(err, &f) {
			r.FaultCode = string(f.Code)
			r.FaultMessage = f.Message
		} else {
			r.FaultMessage = err.Error()
		}
	}
	return r
}

// StatsReport aggregates outcomes and payload sizes over a batch of
// streams.
type StatsReport struct {
	Opened     int64            `json:"opened"`
	Flushed    int64            `json:"flushed"`
	Errored    int64            `json:"errored"`
	Destroyed  int64            `json:"destroyed"`
	FaultCodes map[string]int64 `json:"fault_codes,omitempty"`
	TotalBytes int64            `json:"total_bytes"`
	MinBytes   int64            `json:"min_bytes"`
	MaxBytes   int64            `json:"max_bytes"`
	MeanBytes  float64          `json:"mean_bytes"`

	Streams []*StreamReport `json:"streams,omitempty"`
}

// StatsFromSnapshot flattens a metrics snapshot into a report. Errored
// counts are summed across fault codes, with the per-code breakdown
// preserved in FaultCodes.
func StatsFromSnapshot(snap metrics.Snapshot) *StatsReport {
	r := &StatsReport{
		Opened:    snap.Outcomes[metrics.LabelOpened],
		Flushed:   snap.Outcomes[metrics.LabelFlushed],
		Destroyed: snap.Outcomes[metrics.LabelDestroyed],
	}
	for label, n := range snap.Outcomes {
		if code, ok := metrics.ErroredCode(label); ok {
			if r.FaultCodes == nil {
				r.FaultCodes = make(map[string]int64)
			}
			r.FaultCodes[code] += n
			r.Errored += n
		}
	}
	if snap.Payload.Count > 0 {
		r.TotalBytes = int64(snap.Payload.Sum)
		r.MinBytes = int64(snap.Payload.Min)
		r.MaxBytes = int64(snap.Payload.Max)
		r.MeanBytes = snap.Payload.Sum / float64(snap.Payload.Count)
	}
	return r
}
