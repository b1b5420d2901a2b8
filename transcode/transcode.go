// Package transcode converts byte sources between transfer encodings.
//
// It owns no codec logic: gzip and deflate are delegated to compression
// primitives, and identity passes bytes through untouched. Converting
// between two non-identity encodings is always decompress-then-compress;
// no direct shortcut between compressed formats is assumed to exist.
package transcode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/justapithecus/sluice/media"
)

// Decompress wraps source in a decompression transform for the given
// encoding. Identity returns the source unchanged (wrapped in a no-op
// closer if needed).
func Decompress(enc media.Encoding, source io.Reader) (io.ReadCloser, error) {
	switch enc {
	case media.EncodingIdentity:
		return asReadCloser(source), nil
	case media.EncodingGzip:
		r, err := gzip.NewReader(source)
		if err != nil {
			return nil, fmt.Errorf("transcode: gzip reader: %w", err)
		}
		return r, nil
	case media.EncodingDeflate:
		r, err := zlib.NewReader(source)
		if err != nil {
			return nil, fmt.Errorf("transcode: deflate reader: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("transcode: unsupported encoding %q", enc)
	}
}

// Compress wraps source in a compression transform for the given encoding.
// Identity returns the source unchanged. The compressed bytes become
// available incrementally as the source is drained.
func Compress(enc media.Encoding, source io.Reader) (io.ReadCloser, error) {
	switch enc {
	case media.EncodingIdentity:
		return asReadCloser(source), nil
	case media.EncodingGzip:
		return pipeThrough(source, func(w io.Writer) io.WriteCloser {
			return gzip.NewWriter(w)
		}), nil
	case media.EncodingDeflate:
		return pipeThrough(source, func(w io.Writer) io.WriteCloser {
			return zlib.NewWriter(w)
		}), nil
	default:
		return nil, fmt.Errorf("transcode: unsupported encoding %q", enc)
	}
}

// Recode converts source from one encoding to another. Same-encoding calls
// pass through; otherwise the chain is always compress(to, decompress(from)).
func Recode(from, to media.Encoding, source io.Reader) (io.ReadCloser, error) {
	if from == to {
		return asReadCloser(source), nil
	}
	decoded, err := Decompress(from, source)
	if err != nil {
		return nil, err
	}
	encoded, err := Compress(to, decoded)
	if err != nil {
		_ = decoded.Close()
		return nil, err
	}
	return &chainCloser{ReadCloser: encoded, inner: decoded}, nil
}

// CompressBytes compresses a collected buffer.
func CompressBytes(enc media.Encoding, data []byte) ([]byte, error) {
	r, err := Compress(enc, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

// DecompressBytes decompresses a collected buffer.
func DecompressBytes(enc media.Encoding, data []byte) ([]byte, error) {
	r, err := Decompress(enc, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

// pipeThrough drains source through a compression writer, exposing the
// transformed bytes as a reader. The copy goroutine exits when the source
// is exhausted or the returned reader is closed.
func pipeThrough(source io.Reader, newWriter func(io.Writer) io.WriteCloser) io.ReadCloser {
	pr, pw := io.Pipe()
	cw := newWriter(pw)
	go func() {
		_, err := io.Copy(cw, source)
		if cerr := cw.Close(); err == nil {
			err = cerr
		}
		_ = pw.CloseWithError(err)
	}()
	return pr
}

// chainCloser closes both stages of a recode chain.
type chainCloser struct {
	io.ReadCloser
	inner io.Closer
}

func (c *chainCloser) Close() error {
	err := c.ReadCloser.Close()
	if ierr := c.inner.Close(); err == nil {
		err = ierr
	}
	return err
}

// asReadCloser wraps r in a no-op closer unless it already closes.
func asReadCloser(r io.Reader) io.ReadCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}
