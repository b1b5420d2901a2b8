package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/justapithecus/sluice/cli/view"
)

func flushedReport() view.StreamReport {
	n := int64(42)
	return view.StreamReport{
		Path:            "payload.json",
		StreamID:        "stream-1",
		ContentType:     "application/json",
		ContentEncoding: "identity",
		ContentLength:   &n,
		Observed:        42,
		State:           "flushed",
		Deserializable:  true,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"json", "json", FormatJSON, false},
		{"json uppercase", "JSON", FormatJSON, false},
		{"table", "table", FormatTable, false},
		{"yaml", "yaml", FormatYAML, false},
		{"empty selects default", "", "", false},
		{"xml unsupported", "xml", "", true},
		{"csv unsupported", "csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat_InvalidErrorMessage(t *testing.T) {
	_, err := ParseFormat("xml")
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), "json, table, or yaml") {
		t.Errorf("error message should mention valid formats, got: %v", err)
	}
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	if err := r.Render(flushedReport()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	for _, want := range []string{`"stream_id"`, `"stream-1"`, `"state"`, `"flushed"`} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON output missing %s: %s", want, got)
		}
	}
	if strings.Contains(got, "fault_code") {
		t.Errorf("empty fault code must be omitted: %s", got)
	}
}

func TestRenderer_YAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatYAML, false, &buf)

	if err := r.Render(flushedReport()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "content_type:") || !strings.Contains(got, "application/json") {
		t.Errorf("YAML output missing content metadata: %s", got)
	}
}

func TestRenderer_Table_Struct(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	report := flushedReport()
	report.State = "errored"
	report.FaultCode = "too_large"
	if err := r.Render(report); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "state:") || !strings.Contains(got, "errored") {
		t.Errorf("Table output missing state field: %s", got)
	}
	if !strings.Contains(got, "fault_code:") || !strings.Contains(got, "too_large") {
		t.Errorf("Table output missing fault field: %s", got)
	}
}

func TestRenderer_Table_Slice(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	first := flushedReport()
	second := flushedReport()
	second.Path = "payload.msgpack"
	second.StreamID = "stream-2"

	if err := r.Render([]view.StreamReport{first, second}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "path") || !strings.Contains(got, "stream_id") {
		t.Errorf("Table output missing headers: %s", got)
	}
	if !strings.Contains(got, "payload.json") || !strings.Contains(got, "payload.msgpack") {
		t.Errorf("Table output missing rows: %s", got)
	}
}

func TestRenderer_Table_EmptySlice(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	if err := r.Render([]view.StreamReport{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := buf.String(); !strings.Contains(got, "(no results)") {
		t.Errorf("empty slice should show '(no results)', got: %s", got)
	}
}

func TestRenderer_NoColor_DoesNotAffectJSON(t *testing.T) {
	var bufColor, bufNoColor bytes.Buffer

	rColor := NewRendererWithWriter(FormatJSON, false, &bufColor)
	rNoColor := NewRendererWithWriter(FormatJSON, true, &bufNoColor)

	if err := rColor.Render(flushedReport()); err != nil {
		t.Fatalf("Render with color failed: %v", err)
	}
	if err := rNoColor.Render(flushedReport()); err != nil {
		t.Fatalf("Render without color failed: %v", err)
	}

	if bufColor.String() != bufNoColor.String() {
		t.Errorf("--no-color should not affect JSON output")
	}
}
