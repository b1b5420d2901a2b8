// Package remote builds bounded streams over remote object storage.
//
// The only backend is S3 (and S3-compatible providers). A fetched object
// becomes a stream seeded with the response's content type, encoding, and
// length, so the byte ceiling and descriptor reflect what the server
// declared rather than library defaults.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/justapithecus/sluice/media"
	"github.com/justapithecus/sluice/stream"
)

// S3Config holds configuration for the S3 backend.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// ObjectGetter is the slice of the S3 API the fetcher needs. The real
// *s3.Client satisfies it; tests substitute a stub.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client creates an S3 client from the default AWS credential chain
// (env vars, shared config, IAM role) with optional region, endpoint, and
// path-style overrides.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsConfig, s3Opts...), nil
}

// Fetcher opens S3 objects as bounded streams.
type Fetcher struct {
	client ObjectGetter
	bucket string
}

// NewFetcher creates a fetcher for one bucket.
func NewFetcher(client ObjectGetter, bucket string) (*Fetcher, error) {
	if bucket == "" {
		return nil, errors.New("S3 bucket is required")
	}
	return &Fetcher{client: client, bucket: bucket}, nil
}

// Open fetches key and wraps the object body in a bounded stream. The
// response's content type, encoding, and length seed any options the
// caller left unset; a content type outside the accepted families falls
// back to application/octet-stream.
func (f *Fetcher) Open(ctx context.Context, key string, opts stream.Options) (*stream.Stream, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &f.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("remote: get s3://%s/%s: %w", f.bucket, key, err)
	}

	if opts.ContentType == "" && out.ContentType != nil {
		if _, perr := media.ParseContentType(*out.ContentType); perr == nil {
			opts.ContentType = *out.ContentType
		}
	}
	if opts.ContentEncoding == "" && out.ContentEncoding != nil {
		if _, perr := media.ParseEncoding(*out.ContentEncoding); perr == nil {
			opts.ContentEncoding = *out.ContentEncoding
		}
	}
	if opts.Length == nil && out.ContentLength != nil && *out.ContentLength > 0 {
		n := *out.ContentLength
		opts.Length = &n
	}

	s, err := stream.New(out.Body, opts)
	if err != nil {
		_ = out.Body.Close()
		return nil, err
	}
	return s, nil
}
