package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/sluice/cli/render"
	"github.com/justapithecus/sluice/iox"
	"github.com/justapithecus/sluice/media"
)

// TranscodeReport summarizes a completed re-encode.
type TranscodeReport struct {
	Input        string `json:"input"`
	Output       string `json:"output"`
	From         string `json:"from"`
	To           string `json:"to"`
	BytesRead    int64  `json:"bytes_read"`
	BytesWritten int64  `json:"bytes_written"`
}

// TranscodeCommand returns the transcode command.
// Transcode re-encodes a payload between transfer encodings while the
// source stream keeps enforcing its bounds. Writing to stdout emits the
// raw re-encoded bytes; writing to a file renders a summary report.
func TranscodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "transcode",
		Usage: "Re-encode a payload between transfer encodings",
		Flags: append(StreamFlags(),
			FormatFlag,
			NoColorFlag,
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file (default: stdout, raw bytes)",
			},
			&cli.StringFlag{
				Name:     "to",
				Usage:    "Target encoding: identity, gzip, deflate",
				Required: true,
			},
		),
		Action: transcodeAction,
	}
}

func transcodeAction(c *cli.Context) error {
	target, err := media.ParseEncoding(c.String("to"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	src, err := openSource(c, cfg, c.String("input"))
	if err != nil {
		return err
	}
	defer src.Destroy(nil)

	recoded, err := src.Transcode(target)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	outName := "-"
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer iox.DiscardClose(f)
		out = f
		outName = path
	}

	written, err := io.Copy(out, recoded)
	if err != nil {
		// The source stream's fault is more precise than the copy error.
		if ferr := src.Err(); ferr != nil {
			return ferr
		}
		return err
	}

	if outName == "-" {
		return nil
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(TranscodeReport{
		Input:        c.String("input"),
		Output:       outName,
		From:         string(src.Encoding()),
		To:           string(target),
		BytesRead:    src.Observed(),
		BytesWritten: written,
	})
}
