package cmd

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/sluice/cli/render"
)

// DecodeCommand returns the decode command.
// Decode collects a payload and deserializes it against its content
// type, rendering the resulting object. Compressed payloads are
// decompressed before deserialization.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Collect a payload and deserialize it into an object",
		ArgsUsage: "<file>",
		Flags:     append(ReadOnlyFlags(), StreamFlags()...),
		Action:    decodeAction,
	}
}

func decodeAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("file required", 1)
	}
	path := c.Args().First()

	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for decode", 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	s, err := openSource(c, cfg, path)
	if err != nil {
		return err
	}

	obj, err := s.Object(context.Background())
	if err != nil {
		return err
	}
	return r.Render(obj)
}
