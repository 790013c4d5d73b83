// Package ptcloud writes 3D point clouds to self-describing, chunked binary files.
//
// A file holds one or more scans. Each scan stores its points as a columnar block
// stream of fixed-size packets, followed by a metadata tree describing the point
// layout, the scan pose and the extents of every field.
//
// # Core Features
//
//   - Fixed-capacity staging with block writes, so memory use does not grow with the scan
//   - Per-field column encodings (Raw, Gorilla, BitPack)
//   - Optional compression (None, Zstd, S2, LZ4)
//   - Bounds, intensity and time limits accumulated while writing and committed once
//   - Byte-identical output regardless of the staging buffer size
//
// # Basic Usage
//
//	stats, err := ptcloud.WriteFile("scan.ptc", slices.Values(points),
//	    writer.WithCompression(format.CompressionZstd),
//	    writer.WithOffset(512000, 4100000, 0),
//	)
//
// For incremental writes, create a session with NewWriter:
//
//	w, _ := ptcloud.NewWriter(writer.WithBufferSize(10000))
//	if err := w.Open("scan.ptc"); err != nil {
//	    return err
//	}
//	for p := range source {
//	    if err := w.WritePoint(p); err != nil {
//	        _ = w.Abort()
//	        return err
//	    }
//	}
//	return w.Close()
//
// # Package Structure
//
// This package provides top-level wrappers around the writer package. The document
// package exposes the underlying metadata tree and block writer for custom layouts.
package ptcloud

import (
	"iter"
	"slices"

	"github.com/arloliu/ptcloud/writer"
)

// Point is a single 3D sample.
type Point = writer.Point

// NewWriter creates an unopened writer session.
//
// Parameters:
//   - opts: Writer options, see the writer package
//
// Returns:
//   - *writer.Writer: The session
//   - error: Option validation errors
func NewWriter(opts ...writer.Option) (*writer.Writer, error) {
	return writer.New(opts...)
}

// WriteFile writes every point of seq to a new file at path.
//
// The file is complete when WriteFile returns nil. On error nothing is left at path.
//
// Parameters:
//   - path: Output file path
//   - seq: Points in stream order
//   - opts: Writer options
//
// Returns:
//   - writer.Stats: Session statistics
//   - error: Open, write or close errors
func WriteFile(path string, seq iter.Seq[Point], opts ...writer.Option) (stats writer.Stats, err error) {
	w, err := writer.New(opts...)
	if err != nil {
		return writer.Stats{}, err
	}
	if err := w.Open(path); err != nil {
		return writer.Stats{}, err
	}
	defer func() {
		if err != nil {
			_ = w.Abort()
			return
		}
		err = w.Close()
		stats = w.Stats()
	}()

	for p := range seq {
		if err := w.WritePoint(p); err != nil {
			return writer.Stats{}, err
		}
	}

	return writer.Stats{}, nil
}

// WritePoints writes points to a new file at path.
func WritePoints(path string, points []Point, opts ...writer.Option) (writer.Stats, error) {
	return WriteFile(path, slices.Values(points), opts...)
}
