package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/sluice/cli/config"
	"github.com/justapithecus/sluice/metrics"
	"github.com/justapithecus/sluice/remote"
	"github.com/justapithecus/sluice/stream"
)

// openSource builds a bounded stream over a local file or, for s3:// URIs,
// a remote object. Remote fetches take region, endpoint, and path-style
// settings from the config file's remote section; the URI itself names
// the bucket and key.
func openSource(c *cli.Context, cfg *config.Config, path string) (*stream.Stream, error) {
	return open(cfg, path, buildOptions(c, cfg, path))
}

// openCollected is openSource with a shared metrics collector attached,
// for commands that aggregate across streams.
func openCollected(c *cli.Context, cfg *config.Config, path string, collector *metrics.Collector) (*stream.Stream, error) {
	opts := buildOptions(c, cfg, path)
	opts.Collector = collector
	return open(cfg, path, opts)
}

func open(cfg *config.Config, path string, opts stream.Options) (*stream.Stream, error) {
	if !strings.HasPrefix(path, "s3://") {
		return stream.FromFile(path, opts)
	}

	bucket, key, err := splitS3URI(path)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	client, err := remote.NewS3Client(ctx, remote.S3Config{
		Bucket:       bucket,
		Region:       cfg.Remote.Region,
		Endpoint:     cfg.Remote.Endpoint,
		UsePathStyle: cfg.Remote.S3PathStyle,
	})
	if err != nil {
		return nil, err
	}

	fetcher, err := remote.NewFetcher(client, bucket)
	if err != nil {
		return nil, err
	}
	return fetcher.Open(ctx, key, opts)
}

// splitS3URI splits s3://bucket/key into its parts.
func splitS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q: want s3://bucket/key", uri)
	}
	return bucket, key, nil
}
