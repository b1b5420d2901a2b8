package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/sluice/cli/render"
	"github.com/justapithecus/sluice/cli/view"
)

// InspectCommand returns the inspect command.
// Inspect consumes a payload through a bounded stream and reports its
// descriptor, classification, final state, and terminal fault if any.
// The payload bytes are discarded; only accounting survives.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Consume a payload through a bounded stream and report on it",
		ArgsUsage: "<file>",
		Flags:     append(TUIReadOnlyFlags(), StreamFlags()...),
		Action:    inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("file required", 1)
	}
	path := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	notifier, err := buildAdapter(cfg)
	if err != nil {
		return err
	}
	if notifier != nil {
		defer func() { _ = notifier.Close() }()
	}

	s, err := openSource(c, cfg, path)
	if err != nil {
		return err
	}

	// Drain the stream; faults land in the report instead of aborting.
	_, _ = s.Bytes(context.Background(), false)

	if err := notifyTerminal(notifier, s); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: adapter publish failed: %v\n", err)
	}

	report := view.ReportFromStream(path, s)

	if c.Bool("tui") {
		return r.RenderTUI("inspect_stream", report)
	}
	if err := r.Render(report); err != nil {
		return err
	}
	if s.Err() != nil {
		return cli.Exit("", 1)
	}
	return nil
}
