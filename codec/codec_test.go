package codec

import (
	"errors"
	"net/url"
	"reflect"
	"testing"

	"github.com/justapithecus/sluice/media"
)

func TestJSONRoundTrip(t *testing.T) {
	value := map[string]any{
		"name":  "payload",
		"count": float64(3),
		"tags":  []any{"a", "b"},
	}
	data, err := Marshal(media.TypeJSON, value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(media.TypeJSON, data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, value) {
		t.Errorf("round trip = %#v, want %#v", got, value)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	value := map[string]any{
		"name": "payload",
		"ok":   true,
	}
	data, err := Marshal(media.TypeMsgpack, value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(media.TypeMsgpack, data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("Unmarshal returned %T, want map", got)
	}
	if m["name"] != "payload" || m["ok"] != true {
		t.Errorf("round trip = %#v", m)
	}
}

func TestFormRoundTrip(t *testing.T) {
	value := url.Values{"a": {"1"}, "b": {"x", "y"}}
	data, err := Marshal(media.TypeForm, value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(media.TypeForm, data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, value) {
		t.Errorf("round trip = %#v, want %#v", got, value)
	}
}

func TestFormMarshalInputs(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"url.Values", url.Values{"k": {"v"}}, false},
		{"map of slices", map[string][]string{"k": {"v"}}, false},
		{"flat map", map[string]string{"k": "v"}, false},
		{"struct", struct{ K string }{"v"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(media.TypeForm, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Marshal(form, %T) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestUnsupportedContentType(t *testing.T) {
	if _, err := Marshal("application/xml", "x"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Marshal(xml) error = %v, want ErrUnsupported", err)
	}
	if _, err := Unmarshal("text/plain", []byte("x")); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Unmarshal(text/plain) error = %v, want ErrUnsupported", err)
	}
}
