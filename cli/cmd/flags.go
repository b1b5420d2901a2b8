// Package cmd provides CLI commands for the sluice binary.
package cmd

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/sluice/cli/config"
	"github.com/justapithecus/sluice/stream"
)

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for select read-only commands (inspect, stats).
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (inspect, stats only)",
	}

	// ConfigFlag points at a sluice.yaml defaults file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to sluice.yaml config file",
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can provide explicit error messages
// instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// TUIReadOnlyFlags returns flags for commands that support TUI mode.
// This is an alias for ReadOnlyFlags, kept for documentation clarity.
func TUIReadOnlyFlags() []cli.Flag {
	return ReadOnlyFlags()
}

// StreamFlags returns the flags shared by commands that build bounded
// streams over payloads.
func StreamFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		&cli.StringFlag{
			Name:  "content-type",
			Usage: "Payload content type (default: inferred from extension)",
		},
		&cli.StringFlag{
			Name:  "content-encoding",
			Usage: "Payload transfer encoding: identity, gzip, deflate",
		},
		&cli.Int64Flag{
			Name:  "limit",
			Usage: "Byte ceiling (default: 64 KiB deserializable, 10 MiB otherwise)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Idle window before the stream is declared stalled (default 30s)",
		},
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "Stall check granularity (default 1s)",
		},
	}
}

// loadConfig loads the --config file, or returns empty defaults when the
// flag is unset.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		return &config.Config{}, nil
	}
	return config.Load(path)
}

// buildOptions resolves stream options from config-file defaults and
// flags. Flags win over the config file; both fall through to the
// constructor defaults when unset. The content type is resolved before
// config limits are mapped: without the flag, local paths get the same
// extension inference the file factory applies, so a .json payload takes
// the deserializable limit rather than the opaque one. Remote URIs stay
// unresolved here; their type comes from the response, so config limits
// do not apply and the constructor default is used instead.
func buildOptions(c *cli.Context, cfg *config.Config, path string) stream.Options {
	contentType := c.String("content-type")
	if contentType == "" && path != "" && !strings.HasPrefix(path, "s3://") {
		contentType = stream.InferContentType(path)
	}
	opts := cfg.StreamOptions(contentType, c.String("content-encoding"))
	if limit := c.Int64("limit"); limit != 0 {
		opts.Limit = limit
	}
	if timeout := c.Duration("timeout"); timeout != 0 {
		opts.Timeout = timeout
	}
	if interval := c.Duration("interval"); interval != 0 {
		opts.Interval = interval
	}
	return opts
}
