package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/sluice/cli/render"
	"github.com/justapithecus/sluice/cli/view"
	"github.com/justapithecus/sluice/metrics"
)

// StatsCommand returns the stats command.
// Stats consumes each payload through a bounded stream sharing one
// metrics collector, then reports the aggregated outcome counts, payload
// size distribution, and per-code fault breakdown.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Consume payloads and show aggregated stream statistics",
		ArgsUsage: "<file>...",
		Flags: append(TUIReadOnlyFlags(), append(StreamFlags(),
			&cli.BoolFlag{
				Name:  "per-stream",
				Usage: "Include a per-stream report in the output",
			},
		)...),
		Action: statsAction,
	}
}

func statsAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("at least one file required", 1)
	}

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

	collector := metrics.NewCollector()
	var reports []*view.StreamReport

	for _, path := range c.Args().Slice() {
		s, err := openCollected(c, cfg, path, collector)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		// Faults are aggregated, not fatal: a too_large payload is a
		// data point here.
		_, _ = s.Bytes(context.Background(), false)

		if err := notifyTerminal(notifier, s); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "warning: adapter publish failed: %v\n", err)
		}
		reports = append(reports, view.ReportFromStream(path, s))
	}

	report := view.StatsFromSnapshot(collector.Snapshot())
	if c.Bool("per-stream") {
		report.Streams = reports
	}

	if c.Bool("tui") {
		return r.RenderTUI("stats_streams", report)
	}
	return r.Render(report)
}
