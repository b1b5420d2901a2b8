// Package iox holds the small cleanup helpers shared by the stream
// pipelines, adapters, and CLI commands. Payload sinks and transport
// clients are closed in defer or t.Cleanup position where a close error
// has no caller left to act on it; these helpers make that discard
// explicit instead of scattering `_ =` assignments.
package iox

import "io"

// DiscardClose closes c and discards the error. For defer position on
// response bodies, output files, and decompression readers:
//
//	defer iox.DiscardClose(resp.Body)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc returns a cleanup function that closes c, shaped for
// t.Cleanup registration on adapters and clients:
//
//	t.Cleanup(iox.CloseFunc(adapter))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}

// DiscardErr calls fn and discards the returned error. For non-Close
// teardown such as flushing a compressor whose output is already
// abandoned:
//
//	defer iox.DiscardErr(zw.Flush)
func DiscardErr(fn func() error) { _ = fn() }
