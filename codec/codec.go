// Package codec serializes structured values against a content type.
//
// Dispatch covers exactly three formats: JSON, msgpack, and URL-encoded
// form data. An unsupported content type is a programming error, not a
// runtime condition: the stream API pre-validates against the same set, so
// that path is unreachable through it.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justapithecus/sluice/media"
)

// ErrUnsupported indicates a content type outside the serializable set.
// Use errors.Is for typed assertions.
var ErrUnsupported = errors.New("unsupported content type")

// Marshal converts a structured value to bytes for the given content type
// essence. For form encoding the value must be a url.Values,
// map[string][]string, or map[string]string.
func Marshal(contentType string, v any) ([]byte, error) {
	switch contentType {
	case media.TypeJSON:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("codec: marshal json: %w", err)
		}
		return data, nil
	case media.TypeMsgpack:
		data, err := msgpack.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("codec: marshal msgpack: %w", err)
		}
		return data, nil
	case media.TypeForm:
		values, err := asValues(v)
		if err != nil {
			return nil, err
		}
		return []byte(values.Encode()), nil
	default:
		return nil, fmt.Errorf("codec: %w: %q", ErrUnsupported, contentType)
	}
}

// Unmarshal parses bytes against the given content type essence. JSON and
// msgpack yield generic structured values (maps, slices, scalars); form
// data yields url.Values.
func Unmarshal(contentType string, data []byte) (any, error) {
	switch contentType {
	case media.TypeJSON:
		var out any
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("codec: unmarshal json: %w", err)
		}
		return out, nil
	case media.TypeMsgpack:
		var out any
		if err := msgpack.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("codec: unmarshal msgpack: %w", err)
		}
		return out, nil
	case media.TypeForm:
		values, err := url.ParseQuery(string(data))
		if err != nil {
			return nil, fmt.Errorf("codec: parse form: %w", err)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("codec: %w: %q", ErrUnsupported, contentType)
	}
}

// asValues coerces supported form inputs into url.Values.
func asValues(v any) (url.Values, error) {
	switch m := v.(type) {
	case url.Values:
		return m, nil
	case map[string][]string:
		return url.Values(m), nil
	case map[string]string:
		values := make(url.Values, len(m))
		for k, val := range m {
			values.Set(k, val)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("codec: cannot form-encode %T", v)
	}
}
