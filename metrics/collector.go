package metrics

import (
	"strings"
	"time"

	"github.com/justapithecus/sluice/fault"
)

// Outcome labels recorded by the Collector.
const (
	LabelOpened    = "streams_opened"
	LabelFlushed   = "streams_flushed"
	LabelDestroyed = "streams_destroyed"

	labelErroredPrefix = "streams_errored_"
)

// payloadBuckets are the upper bounds for the payload size histogram,
// in bytes. Chosen around the default limits (64 KiB / 10 MiB).
var payloadBuckets = []float64{
	1 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20, 10 << 20, 100 << 20,
}

// Collector aggregates stream lifecycle metrics: outcome counts, payload
// size distribution, and chunk throughput candles. One Collector may be
// shared across many streams; all recording methods are nil-receiver safe
// so instrumentation can be unconditional.
type Collector struct {
	outcomes   *Counter
	payload    *Histogram
	throughput *Candlestick
}

// NewCollector creates a collector with default payload buckets and
// one-second throughput candles retaining a five-minute history.
func NewCollector() *Collector {
	payload, err := NewHistogram(payloadBuckets...)
	if err != nil {
		panic(err) // static buckets, cannot fail
	}
	throughput, err := NewCandlestick(time.Second, 300)
	if err != nil {
		panic(err)
	}
	return &Collector{
		outcomes:   NewCounter(),
		payload:    payload,
		throughput: throughput,
	}
}

// StreamOpened records a stream construction.
func (c *Collector) StreamOpened() {
	if c == nil {
		return
	}
	c.outcomes.Inc(LabelOpened)
}

// StreamFlushed records a clean end-of-input with the final observed size.
func (c *Collector) StreamFlushed(observed int64) {
	if c == nil {
		return
	}
	c.outcomes.Inc(LabelFlushed)
	c.payload.Observe(float64(observed))
}

// StreamErrored records a terminal fault by code.
func (c *Collector) StreamErrored(code fault.Code) {
	if c == nil {
		return
	}
	c.outcomes.Inc(labelErroredPrefix + string(code))
}

// StreamDestroyed records an explicit teardown.
func (c *Collector) StreamDestroyed() {
	if c == nil {
		return
	}
	c.outcomes.Inc(LabelDestroyed)
}

// ChunkObserved records the size of one processed chunk into the
// throughput candles.
func (c *Collector) ChunkObserved(n int) {
	if c == nil {
		return
	}
	c.throughput.Observe(float64(n))
}

// ErroredCode extracts the fault code from an errored-outcome label.
// Returns false for every other label.
func ErroredCode(label string) (string, bool) {
	code, ok := strings.CutPrefix(label, labelErroredPrefix)
	if !ok || code == "" {
		return "", false
	}
	return code, true
}

// Snapshot is an immutable point-in-time view of all collected metrics.
type Snapshot struct {
	Outcomes   map[string]int64
	Payload    HistogramSnapshot
	Throughput []Candle
}

// Snapshot returns an immutable view. The Collector can continue to be
// mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		Outcomes:   c.outcomes.Snapshot(),
		Payload:    c.payload.Snapshot(),
		Throughput: c.throughput.History(),
	}
}
