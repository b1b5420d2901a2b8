package config

import (
	"fmt"
	"time"

	"github.com/justapithecus/sluice/media"
	"github.com/justapithecus/sluice/stream"
)

// Config represents a sluice.yaml configuration file.
// All values are optional and act as defaults for sluice command flags.
// CLI flags always override config values.
type Config struct {
	Stream  StreamConfig  `yaml:"stream"`
	Remote  RemoteConfig  `yaml:"remote"`
	Adapter AdapterConfig `yaml:"adapter"`
}

// StreamConfig holds stream bounding defaults from the config file.
type StreamConfig struct {
	// Limit is the byte ceiling for opaque payloads. Zero keeps the
	// built-in default.
	Limit int64 `yaml:"limit"`
	// DeserializableLimit is the byte ceiling for payloads that will be
	// collected into memory (json, msgpack, form).
	DeserializableLimit int64 `yaml:"deserializable_limit"`
	// Timeout is the idle window before a stream is declared stalled.
	Timeout Duration `yaml:"timeout"`
	// Interval is the stall check granularity.
	Interval Duration `yaml:"interval"`
}

// RemoteConfig holds S3 object storage defaults from the config file.
type RemoteConfig struct {
	Bucket      string `yaml:"bucket"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// AdapterConfig holds terminal-event adapter defaults from the config file.
type AdapterConfig struct {
	Type    string            `yaml:"type"` // webhook or redis
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// StreamOptions converts the config's stream section into constructor
// options for a payload with the given content metadata. The
// deserializable limit applies only to content types the codec layer can
// collect; other known types get the opaque limit. Callers must resolve
// the content type first (flag, extension inference, response header):
// an empty or unparseable content type leaves the limit unset so the
// constructor's content-type-aware default applies once the type is
// known, rather than mislabeling the payload opaque here.
func (c *Config) StreamOptions(contentType, encoding string) stream.Options {
	opts := stream.Options{
		ContentType:     contentType,
		ContentEncoding: encoding,
		Timeout:         c.Stream.Timeout.Duration,
		Interval:        c.Stream.Interval.Duration,
	}
	ct, err := media.ParseContentType(contentType)
	if err != nil {
		return opts
	}
	if ct.IsDeserializable() {
		if c.Stream.DeserializableLimit > 0 {
			opts.Limit = c.Stream.DeserializableLimit
		}
	} else if c.Stream.Limit > 0 {
		opts.Limit = c.Stream.Limit
	}
	return opts
}
