// Package watchdog implements an inactivity timer for stall detection.
//
// The timer is clock-polling-averse: Touch only flips an activity flag and
// never reads the clock. A tick at the check interval advances the
// last-activity checkpoint when the flag is set, and a deadline check
// scheduled timeout past the checkpoint decides whether to fire. The
// worst-case detection latency is therefore timeout + interval; callers
// needing a tighter bound choose a smaller interval, trading CPU overhead
// for responsiveness.
//
// A timer fires at most once and is terminal after firing.
package watchdog

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrStopped is returned by Touch after the timer has been stopped or has
// fired. It signals a lifecycle misuse by the caller.
var ErrStopped = errors.New("watchdog: touch after stop")

// Timer detects the absence of activity over a configured idle window.
type Timer struct {
	mu         sync.Mutex
	timeout    time.Duration
	onIdle     func(elapsed time.Duration)
	active     bool
	checkpoint time.Time
	stopped    bool

	noop bool
	done chan struct{}
}

// New creates and starts a timer that invokes onIdle once no activity has
// been observed for timeout. interval is the check granularity and must not
// exceed timeout; zero interval disables amortization and checks only at
// the deadline. A zero timeout disables stall detection entirely: the
// returned timer is a no-op pass-through.
func New(timeout, interval time.Duration, onIdle func(elapsed time.Duration)) (*Timer, error) {
	if timeout < 0 {
		return nil, fmt.Errorf("watchdog: negative timeout %v", timeout)
	}
	if interval < 0 {
		return nil, fmt.Errorf("watchdog: negative interval %v", interval)
	}
	if timeout == 0 {
		return &Timer{noop: true}, nil
	}
	if interval > timeout {
		return nil, fmt.Errorf("watchdog: interval %v exceeds timeout %v", interval, timeout)
	}
	if interval == 0 {
		interval = timeout
	}

	t := &Timer{
		timeout:    timeout,
		onIdle:     onIdle,
		checkpoint: time.Now(),
		done:       make(chan struct{}),
	}
	go t.run(interval)
	return t, nil
}

// Touch records that activity occurred. It does not read the clock.
// Returns ErrStopped if the timer has been stopped or has fired.
func (t *Timer) Touch() error {
	if t.noop {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return ErrStopped
	}
	t.active = true
	return nil
}

// Stop cancels all pending checks. Idempotent: a second call is a no-op,
// as is stopping a timer that already fired.
func (t *Timer) Stop() {
	if t.noop {
		return
	}
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.mu.Unlock()
	close(t.done)
}

// Alive reports whether the timer is still running checks.
func (t *Timer) Alive() bool {
	if t.noop {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

// run owns the tick and deadline schedule. It exits when the timer is
// stopped or after firing.
func (t *Timer) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(t.timeout)
	defer deadline.Stop()

	for {
		select {
		case <-t.done:
			return

		case <-ticker.C:
			t.mu.Lock()
			t.absorbActivityLocked()
			t.mu.Unlock()

		case <-deadline.C:
			t.mu.Lock()
			// Activity may have arrived since the last tick; absorb it
			// before judging so a live stream is never declared stalled.
			t.absorbActivityLocked()
			elapsed := time.Since(t.checkpoint)
			if elapsed < t.timeout {
				deadline.Reset(t.timeout - elapsed)
				t.mu.Unlock()
				continue
			}
			if t.stopped {
				t.mu.Unlock()
				return
			}
			t.stopped = true
			t.mu.Unlock()
			close(t.done)
			if t.onIdle != nil {
				t.onIdle(elapsed)
			}
			return
		}
	}
}

// absorbActivityLocked advances the checkpoint if activity was recorded
// since the previous check. Caller holds t.mu.
func (t *Timer) absorbActivityLocked() {
	if t.active {
		t.checkpoint = time.Now()
		t.active = false
	}
}
