// Package fault defines the typed fault family for stream failures.
//
// Faults form a closed set of variants, each tagged with a stable Code.
// Callers classify with Is/errors.As rather than string matching, and the
// original error is preserved in the chain when a fault wraps one.
package fault

import (
	"errors"
	"fmt"
)

// Code identifies a fault variant.
type Code string

// Fault codes. These are stable identifiers: they appear in descriptors,
// log output, and adapter events, so changing them is a breaking change.
const (
	// CodeTooLarge indicates the payload exceeded the stream's byte ceiling,
	// either declared up front or observed mid-stream.
	CodeTooLarge Code = "too_large"

	// CodeTimedOut indicates the inactivity watchdog fired: no data arrived
	// within the configured idle window.
	CodeTimedOut Code = "timed_out"

	// CodeUnexpected wraps any non-fault error encountered during
	// consumption or destruction.
	CodeUnexpected Code = "unexpected"

	// CodeMultipleSources indicates a stream was consumed from more than
	// one place concurrently.
	CodeMultipleSources Code = "multiple_sources"
)

// Fault is a typed stream failure. Instances are immutable after creation;
// the Meta map must not be mutated by callers.
type Fault struct {
	// Code classifies the fault.
	Code Code
	// Message is a human-readable description.
	Message string
	// Meta carries structured context (descriptor fields, sizes, durations).
	Meta map[string]any
	// Cause is the underlying error, if any.
	Cause error
}

func (f *Fault) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Code, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (f *Fault) Unwrap() error {
	return f.Cause
}

// Descriptor returns a structured representation of the fault, suitable
// for logging and adapter event payloads.
func (f *Fault) Descriptor() map[string]any {
	d := map[string]any{
		"code":    string(f.Code),
		"message": f.Message,
	}
	for k, v := range f.Meta {
		d[k] = v
	}
	if f.Cause != nil {
		d["cause"] = f.Cause.Error()
	}
	return d
}

// New creates a fault with the given code and message.
func New(code Code, message string) *Fault {
	return &Fault{Code: code, Message: message}
}

// WithMeta creates a fault carrying structured context.
func WithMeta(code Code, message string, meta map[string]any) *Fault {
	return &Fault{Code: code, Message: message, Meta: meta}
}

// Wrap creates a fault chaining an underlying error.
func Wrap(code Code, message string, cause error) *Fault {
	return &Fault{Code: code, Message: message, Cause: cause}
}

// From coerces err into a *Fault. Errors that already are (or wrap) a
// Fault are returned as-is; anything else is wrapped as CodeUnexpected
// with the original preserved as the cause. Returns nil for nil.
func From(err error) *Fault {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return Wrap(CodeUnexpected, "unexpected stream error", err)
}

// Is reports whether err is (or wraps) a fault with the given code.
func Is(err error, code Code) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code == code
	}
	return false
}
