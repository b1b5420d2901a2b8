package media

// Descriptor is the content metadata triple describing a stream. It is the
// boundary shape: streams produce it, and it can be fed back into stream
// construction to build an equivalent stream (round-trip contract).
//
// Descriptor is a value snapshot; mutating it never affects a live stream.
type Descriptor struct {
	// ContentType is the raw content type, parameters included.
	ContentType string `json:"content_type" yaml:"content_type"`
	// ContentEncoding is the transfer encoding.
	ContentEncoding string `json:"content_encoding" yaml:"content_encoding"`
	// ContentLength is the declared length in bytes, if known.
	ContentLength *int64 `json:"content_length,omitempty" yaml:"content_length,omitempty"`
}

// WithLength returns a copy of the descriptor with the length set.
func (d Descriptor) WithLength(n int64) Descriptor {
	d.ContentLength = &n
	return d
}

// Fields returns the descriptor as structured log/fault metadata.
func (d Descriptor) Fields() map[string]any {
	m := map[string]any{
		"content_type":     d.ContentType,
		"content_encoding": d.ContentEncoding,
	}
	if d.ContentLength != nil {
		m["content_length"] = *d.ContentLength
	}
	return m
}
