package remote

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/justapithecus/sluice/media"
	"github.com/justapithecus/sluice/stream"
)

// stubGetter serves canned objects without touching the network.
type stubGetter struct {
	body        []byte
	contentType string
	encoding    string
	err         error

	gotBucket string
	gotKey    string
}

func (g *stubGetter) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.gotBucket = *params.Bucket
	g.gotKey = *params.Key
	length := int64(len(g.body))
	out := &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(g.body)),
		ContentLength: &length,
	}
	if g.contentType != "" {
		out.ContentType = &g.contentType
	}
	if g.encoding != "" {
		out.ContentEncoding = &g.encoding
	}
	return out, nil
}

func TestOpenSeedsMetadataFromResponse(t *testing.T) {
	getter := &stubGetter{
		body:        []byte(`{"k":"v"}`),
		contentType: "application/json; charset=utf-8",
	}
	f, err := NewFetcher(getter, "payloads")
	if err != nil {
		t.Fatal(err)
	}

	s, err := f.Open(context.Background(), "obj.json", stream.Options{Timeout: stream.NoTimeout})
	if err != nil {
		t.Fatal(err)
	}
	if getter.gotBucket != "payloads" || getter.gotKey != "obj.json" {
		t.Errorf("request = %s/%s", getter.gotBucket, getter.gotKey)
	}
	if s.ContentType().Essence != media.TypeJSON {
		t.Errorf("content type = %q, want json", s.ContentType().Essence)
	}
	if n, ok := s.DeclaredLength(); !ok || n != int64(len(getter.body)) {
		t.Errorf("declared = %d, %v", n, ok)
	}

	data, err := s.Bytes(context.Background(), false)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(data, getter.body) {
		t.Error("collected bytes differ from object body")
	}
}

func TestOpenIgnoresUnparseableResponseMetadata(t *testing.T) {
	getter := &stubGetter{body: []byte("blob"), contentType: "weird/thing", encoding: "br"}
	f, err := NewFetcher(getter, "payloads")
	if err != nil {
		t.Fatal(err)
	}

	s, err := f.Open(context.Background(), "obj", stream.Options{Timeout: stream.NoTimeout})
	if err != nil {
		t.Fatal(err)
	}
	if s.ContentType().Essence != media.TypeOctetStream {
		t.Errorf("content type = %q, want octet-stream fallback", s.ContentType().Essence)
	}
	if s.Encoding() != media.EncodingIdentity {
		t.Errorf("encoding = %q, want identity fallback", s.Encoding())
	}
}

func TestOpenCallerOptionsWin(t *testing.T) {
	getter := &stubGetter{body: []byte("blob"), contentType: "text/plain"}
	f, err := NewFetcher(getter, "payloads")
	if err != nil {
		t.Fatal(err)
	}

	s, err := f.Open(context.Background(), "obj", stream.Options{
		ContentType: media.TypeJSON,
		Timeout:     stream.NoTimeout,
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.ContentType().Essence != media.TypeJSON {
		t.Errorf("content type = %q, caller option must win", s.ContentType().Essence)
	}
}

func TestOpenPropagatesGetError(t *testing.T) {
	getter := &stubGetter{err: errors.New("NoSuchKey")}
	f, err := NewFetcher(getter, "payloads")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Open(context.Background(), "missing", stream.Options{}); err == nil {
		t.Error("Open should propagate the storage error")
	}
}

func TestNewFetcherRequiresBucket(t *testing.T) {
	if _, err := NewFetcher(&stubGetter{}, ""); err == nil {
		t.Error("empty bucket should be rejected")
	}
}

func TestS3ConfigValidate(t *testing.T) {
	cfg := &S3Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("missing bucket should fail validation")
	}
	cfg.Bucket = "b"
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
