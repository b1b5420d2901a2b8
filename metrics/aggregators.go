// Package metrics provides in-process metric aggregators for stream
// observability: labeled event counters, a fixed-bound histogram, and an
// interval candlestick. Aggregators are mutex-guarded, nil-receiver safe
// on the recording path, and expose immutable snapshots.
package metrics

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/justapithecus/sluice/ring"
)

// Counter accumulates event counts by label.
type Counter struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int64)}
}

// Inc increments the count for label by one.
func (c *Counter) Inc(label string) {
	c.Add(label, 1)
}

// Add increments the count for label by n.
func (c *Counter) Add(label string, n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.counts[label] += n
	c.mu.Unlock()
}

// Snapshot returns a copy of all counts.
func (c *Counter) Snapshot() map[string]int64 {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// HistogramSnapshot is an immutable view of a histogram.
type HistogramSnapshot struct {
	// Bounds are the upper bucket bounds; Counts has one extra terminal
	// bucket for observations above the last bound.
	Bounds []float64
	Counts []int64
	Count  int64
	Sum    float64
	Min    float64
	Max    float64
}

// Histogram accumulates observations into fixed buckets.
type Histogram struct {
	mu     sync.Mutex
	bounds []float64
	counts []int64
	count  int64
	sum    float64
	min    float64
	max    float64
}

// NewHistogram creates a histogram with the given upper bucket bounds,
// which must be strictly increasing.
func NewHistogram(bounds ...float64) (*Histogram, error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("metrics: histogram needs at least one bound")
	}
	if !sort.Float64sAreSorted(bounds) {
		return nil, fmt.Errorf("metrics: histogram bounds must be sorted: %v", bounds)
	}
	return &Histogram{
		bounds: append([]float64(nil), bounds...),
		counts: make([]int64, len(bounds)+1),
	}, nil
}

// Observe records a value.
func (h *Histogram) Observe(v float64) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := sort.SearchFloat64s(h.bounds, v)
	h.counts[idx]++
	h.count++
	h.sum += v
	if h.count == 1 || v < h.min {
		h.min = v
	}
	if h.count == 1 || v > h.max {
		h.max = v
	}
}

// Snapshot returns an immutable view.
func (h *Histogram) Snapshot() HistogramSnapshot {
	if h == nil {
		return HistogramSnapshot{}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return HistogramSnapshot{
		Bounds: append([]float64(nil), h.bounds...),
		Counts: append([]int64(nil), h.counts...),
		Count:  h.count,
		Sum:    h.sum,
		Min:    h.min,
		Max:    h.max,
	}
}

// Candle is one closed (or in-progress) aggregation interval.
type Candle struct {
	Start   time.Time
	Open    float64
	High    float64
	Low     float64
	Close   float64
	Samples int64
}

// Candlestick aggregates observations into per-interval
// open/high/low/close candles, retaining a bounded history of closed
// intervals (oldest candles are overwritten once retention is exceeded).
type Candlestick struct {
	mu       sync.Mutex
	interval time.Duration
	current  Candle
	open     bool
	history  *ring.Queue[Candle]
}

// NewCandlestick creates a candlestick aggregator that closes a candle
// every interval and retains the most recent retain closed candles.
func NewCandlestick(interval time.Duration, retain int) (*Candlestick, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("metrics: candlestick interval must be positive, got %v", interval)
	}
	history, err := ring.New[Candle](retain, ring.Overwrite)
	if err != nil {
		return nil, err
	}
	return &Candlestick{interval: interval, history: history}, nil
}

// Observe records a value at the current time.
func (c *Candlestick) Observe(v float64) {
	if c == nil {
		return
	}
	c.observeAt(time.Now(), v)
}

func (c *Candlestick) observeAt(now time.Time, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open && now.Sub(c.current.Start) >= c.interval {
		_ = c.history.Push(c.current)
		c.open = false
	}
	if !c.open {
		c.current = Candle{Start: now, Open: v, High: v, Low: v, Close: v, Samples: 1}
		c.open = true
		return
	}
	if v > c.current.High {
		c.current.High = v
	}
	if v < c.current.Low {
		c.current.Low = v
	}
	c.current.Close = v
	c.current.Samples++
}

// History returns the closed candles, oldest first.
func (c *Candlestick) History() []Candle {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Snapshot()
}

// Current returns the in-progress candle, if any observation has landed in
// the current interval.
func (c *Candlestick) Current() (Candle, bool) {
	if c == nil {
		return Candle{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.open
}
