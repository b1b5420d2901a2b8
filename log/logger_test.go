package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerCarriesStreamContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("st-123", "application/json").WithOutput(&buf)

	logger.Info("chunk processed", map[string]any{"observed": 42})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["stream_id"] != "st-123" {
		t.Errorf("stream_id = %v", entry["stream_id"])
	}
	if entry["content_type"] != "application/json" {
		t.Errorf("content_type = %v", entry["content_type"])
	}
	if entry["message"] != "chunk processed" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestSugaredLogger(t *testing.T) {
	var buf bytes.Buffer
	sugar := NewLogger("st-9", "").WithOutput(&buf).Sugar()

	sugar.Infof("observed %d bytes", 7)
	if !strings.Contains(buf.String(), "observed 7 bytes") {
		t.Errorf("sugared output missing formatted message: %q", buf.String())
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	logger := Nop()
	logger.Debug("ignored", nil)
	logger.Error("ignored", map[string]any{"k": "v"}) // must not panic
}
