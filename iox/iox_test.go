package iox

import (
	"errors"
	"testing"
)

// closeRecorder counts Close calls and always fails, standing in for a
// payload sink whose close error nobody can act on.
type closeRecorder struct{ closes int }

func (c *closeRecorder) Close() error {
	c.closes++
	return errors.New("sink gone")
}

func TestDiscardClose(t *testing.T) {
	sink := &closeRecorder{}
	DiscardClose(sink)
	if sink.closes != 1 {
		t.Fatalf("closes = %d, want 1", sink.closes)
	}
}

func TestCloseFunc_DefersUntilInvoked(t *testing.T) {
	sink := &closeRecorder{}
	cleanup := CloseFunc(sink)
	if sink.closes != 0 {
		t.Fatal("sink closed before the cleanup ran")
	}
	cleanup()
	cleanup()
	if sink.closes != 2 {
		t.Fatalf("closes = %d, want one per invocation", sink.closes)
	}
}

func TestDiscardErr(t *testing.T) {
	flushed := false
	DiscardErr(func() error {
		flushed = true
		return errors.New("flush failed")
	})
	if !flushed {
		t.Fatal("fn was not called")
	}
}
