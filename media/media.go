// Package media models the content metadata carried by every stream:
// MIME content types, transfer encodings, and the classification rules
// that pick default byte ceilings.
package media

import (
	"fmt"
	"strings"
	"time"
)

// Default bounding parameters.
//
// Rationale for the split limit: deserializable payloads are fully
// materialized in memory to parse, so their ceiling must be conservative.
// Opaque/binary payloads are expected to be streamed incrementally and get
// a larger ceiling. Both are overridable per stream.
const (
	// DefaultDeserializableLimit caps content types that are parsed whole.
	DefaultDeserializableLimit int64 = 64 * 1024 // 64 KiB

	// DefaultStreamLimit caps everything else.
	DefaultStreamLimit int64 = 10 * 1024 * 1024 // 10 MiB

	// DefaultTimeout is the idle window before a stream is declared stalled.
	DefaultTimeout = 30 * time.Second

	// DefaultInterval is the watchdog check granularity.
	DefaultInterval = 1 * time.Second
)

// Encoding is a transfer encoding name.
type Encoding string

// Supported transfer encodings.
const (
	EncodingIdentity Encoding = "identity"
	EncodingGzip     Encoding = "gzip"
	EncodingDeflate  Encoding = "deflate"
)

// ParseEncoding validates an encoding name. Empty means identity.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case "", EncodingIdentity:
		return EncodingIdentity, nil
	case EncodingGzip:
		return EncodingGzip, nil
	case EncodingDeflate:
		return EncodingDeflate, nil
	default:
		return "", fmt.Errorf("invalid content encoding: %q", s)
	}
}

// IsCompressed reports whether the encoding denotes compressed bytes.
func (e Encoding) IsCompressed() bool {
	return e == EncodingGzip || e == EncodingDeflate
}

// topLevelTypes are the MIME type families accepted by ParseContentType.
var topLevelTypes = map[string]bool{
	"application": true,
	"audio":       true,
	"image":       true,
	"multipart":   true,
	"text":        true,
	"video":       true,
}

// Deserializable content types: payloads parsed whole into structured
// values. The codec package dispatches over the same set.
const (
	TypeJSON    = "application/json"
	TypeMsgpack = "application/msgpack"
	TypeForm    = "application/x-www-form-urlencoded"
)

// Object-stream content types: sequences of structured records, recognized
// but never auto-deserialized as a whole.
const (
	TypeNDJSON      = "application/x-ndjson"
	TypeEventStream = "text/event-stream"
)

// TypeOctetStream is the default content type for opaque byte sources.
const TypeOctetStream = "application/octet-stream"

// ContentType is a parsed, validated MIME type. Immutable after parsing.
type ContentType struct {
	// Raw is the value as supplied, parameters included.
	Raw string
	// Essence is the lowercased type/subtype with parameters stripped.
	Essence string
	// Family is the top-level type (e.g. "application").
	Family string
}

// ParseContentType validates a MIME type of the form "type/subtype" with
// type in the accepted family set. Optional parameters after ";" are
// preserved in Raw but ignored for classification.
func ParseContentType(s string) (ContentType, error) {
	essence := s
	if i := strings.IndexByte(s, ';'); i >= 0 {
		essence = s[:i]
	}
	essence = strings.ToLower(strings.TrimSpace(essence))

	family, subtype, ok := strings.Cut(essence, "/")
	if !ok || subtype == "" || strings.ContainsAny(subtype, " /") {
		return ContentType{}, fmt.Errorf("invalid content type: %q", s)
	}
	if !topLevelTypes[family] {
		return ContentType{}, fmt.Errorf("invalid content type: %q (unknown top-level type %q)", s, family)
	}
	return ContentType{Raw: s, Essence: essence, Family: family}, nil
}

// IsDeserializable reports whether the payload can be parsed whole into a
// structured value.
func (c ContentType) IsDeserializable() bool {
	switch c.Essence {
	case TypeJSON, TypeMsgpack, TypeForm:
		return true
	}
	return false
}

// IsObjectStream reports whether the payload is a record stream
// (newline-delimited JSON or server-sent events).
func (c ContentType) IsObjectStream() bool {
	return c.Essence == TypeNDJSON || c.Essence == TypeEventStream
}

// HasFamily reports whether the content type's top-level type matches.
func (c ContentType) HasFamily(family string) bool {
	return c.Family == family
}

// DefaultLimit returns the default byte ceiling for this content type.
func (c ContentType) DefaultLimit() int64 {
	if c.IsDeserializable() {
		return DefaultDeserializableLimit
	}
	return DefaultStreamLimit
}
