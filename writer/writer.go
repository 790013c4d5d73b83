// Package writer implements the point-cloud writer session.
//
// A Writer stages points in fixed-capacity FieldBuffers, hands full buffers to the
// document block writer and tracks the extents of every numeric field while doing
// so. The extents, the pose and the color limits are committed to the scan metadata
// exactly once, in Close, after the last block was written.
//
//	w, err := writer.New(writer.WithCompression(format.CompressionZstd))
//	if err != nil {
//	    return err
//	}
//	if err := w.Open("scan.ptc"); err != nil {
//	    return err
//	}
//	for _, p := range points {
//	    if err := w.WritePoint(p); err != nil {
//	        _ = w.Abort()
//	        return err
//	    }
//	}
//	return w.Close()
package writer

import (
	"fmt"

	"github.com/arloliu/ptcloud/compress"
	"github.com/arloliu/ptcloud/document"
	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/internal/logger"
	"github.com/arloliu/ptcloud/internal/options"
)

// State is the lifecycle state of a Writer.
type State uint8

const (
	StateUnopened State = iota
	StateOpen
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpen:
		return "open"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stats summarizes a session.
type Stats struct {
	// Points is the number of points accepted by WritePoint.
	Points uint64
	// Flushes is the number of block writes, including the final one in Close.
	Flushes int
	// FlushedRecords is the number of records handed to the block writer.
	FlushedRecords uint64
	// Packets is the number of packets in the file, known after Close.
	Packets uint32
	// Bytes is the file size, known after Close.
	Bytes int64
	// Ranges holds the accumulated extents.
	Ranges Ranges
	// Compression holds the payload sizes per field, known after Close.
	Compression map[string]compress.CompressionStats
}

// Writer is a single-use session writing one scan to one file.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	cfg   *config
	log   logger.Logger
	state State
	path  string
	err   error // sticky failure

	file    *document.ImageFile
	scan    *document.StructureNode
	block   *document.BlockWriter
	buffers *FieldBuffers
	ranges  Ranges
	stats   Stats

	// writeBlock writes n staged records; it is block.Write outside of tests.
	writeBlock func(n int) error
	// bind opens the block writer of the points vector.
	bind func(points *document.CompressedVectorNode, sources []document.SourceBuffer) (*document.BlockWriter, error)
}

// New creates an unopened Writer.
//
// Returns:
//   - *Writer: The session
//   - error: ErrInvalidBufferSize or ErrInvalidOption for rejected options
func New(opts ...Option) (*Writer, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Writer{
		cfg:    cfg,
		log:    cfg.logger,
		ranges: NewRanges(),
		bind:   (*document.CompressedVectorNode).Writer,
	}, nil
}

// State returns the lifecycle state.
func (w *Writer) State() State { return w.state }

// Path returns the path given to Open.
func (w *Writer) Path() string { return w.path }

// Stats returns a snapshot of the session counters.
func (w *Writer) Stats() Stats {
	s := w.stats
	s.Ranges = w.ranges

	return s
}

// Open creates the file at path, declares the scan and binds the block writer.
//
// On failure the session stays unopened, nothing is left on disk and Open may be
// retried.
//
// Returns:
//   - error: ErrWriterAlreadyOpen unless the session is unopened, document or filesystem errors
func (w *Writer) Open(path string) error {
	if w.state != StateUnopened {
		return fmt.Errorf("%w: state %s", errs.ErrWriterAlreadyOpen, w.state)
	}

	f, err := document.Create(path,
		document.WithEndian(w.cfg.engine),
		document.WithPacketRecords(w.cfg.packetRecords),
		document.WithSync(w.cfg.sync),
		document.WithLogger(w.log),
	)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	success := false
	defer func() {
		if !success {
			_ = f.Abort()
		}
	}()

	if err := writeIdentification(f); err != nil {
		return fmt.Errorf("open %s: identification: %w", path, err)
	}
	scan, points, err := declareScan(f, w.cfg)
	if err != nil {
		return fmt.Errorf("open %s: scan: %w", path, err)
	}
	buffers, err := NewFieldBuffers(w.cfg.bufferSize)
	if err != nil {
		return err
	}
	block, err := w.bind(points, buffers.SourceBuffers())
	if err != nil {
		return fmt.Errorf("open %s: block writer: %w", path, err)
	}
	success = true

	w.path = path
	w.file = f
	w.scan = scan
	w.block = block
	w.buffers = buffers
	w.writeBlock = block.Write
	w.ranges = NewRanges()
	w.stats = Stats{}
	w.state = StateOpen
	w.log.Info("writer opened", "path", path, "buffer_size", w.cfg.bufferSize,
		"compression", w.cfg.compression.String(), "time_encoding", w.cfg.timeEncoding.String())

	return nil
}

// WritePoint stages p, updates the ranges and writes a block when the buffers are full.
//
// It does nothing and returns nil unless the session is open. After a failed block
// write the session is failed and every call returns the same ErrFlushFailed error.
func (w *Writer) WritePoint(p Point) error {
	switch w.state {
	case StateOpen:
	case StateFailed:
		return w.err
	default:
		return nil
	}

	if err := w.buffers.Append(p); err != nil {
		return err
	}
	w.ranges.Update(p)
	w.stats.Points++

	if w.buffers.Full() {
		if err := w.flush(); err != nil {
			return w.fail(err)
		}
	}

	return nil
}

// flush hands the staged records to the block writer.
func (w *Writer) flush() error {
	n := w.buffers.Len()
	if n == 0 {
		return nil
	}

	if err := w.writeBlock(n); err != nil {
		return err
	}
	w.stats.Flushes++
	w.stats.FlushedRecords += uint64(n) //nolint:gosec // positive
	w.buffers.Reset()
	w.log.Debug("buffer flushed", "records", n, "total", w.stats.FlushedRecords)

	return nil
}

func (w *Writer) fail(err error) error {
	w.err = fmt.Errorf("%w: %w", errs.ErrFlushFailed, err)
	w.state = StateFailed
	w.log.Error("block write failed", "path", w.path, "error", err)

	return w.err
}

// Close writes the partial buffer, finalizes the block stream, attaches the scan
// summary and closes the document.
//
// It does nothing and returns nil unless the session is open or failed. A failed
// session is aborted: the incomplete file is removed and the flush error returned.
// Any close-time error is returned as well; the file is removed and the session ends
// closed either way.
func (w *Writer) Close() error {
	switch w.state {
	case StateOpen:
	case StateFailed:
		_ = w.Abort()
		return w.err
	default:
		return nil
	}

	if err := w.flush(); err != nil {
		_ = w.Abort()
		return fmt.Errorf("%w: %w", errs.ErrFlushFailed, err)
	}
	if err := w.block.Close(); err != nil {
		_ = w.Abort()
		return fmt.Errorf("close block stream: %w", err)
	}
	if err := attachSummary(w.file, w.scan, w.cfg, w.ranges); err != nil {
		_ = w.Abort()
		return fmt.Errorf("attach scan summary: %w", err)
	}

	w.stats.Packets = w.block.Packets()
	w.stats.Compression = w.block.CompressionStats()
	err := w.file.Close()
	w.stats.Bytes = w.file.Size()
	w.release()
	if err != nil {
		return fmt.Errorf("close %s: %w", w.path, err)
	}

	w.log.Info("writer closed", "path", w.path, "points", w.stats.Points,
		"flushes", w.stats.Flushes, "packets", w.stats.Packets, "bytes", w.stats.Bytes)

	return nil
}

// Abort discards the session: the output file is removed and nothing is committed.
//
// It does nothing and returns nil unless the session is open or failed. The session
// ends closed.
//
// Returns:
//   - error: The filesystem error from removing the file, if any
func (w *Writer) Abort() error {
	if w.state != StateOpen && w.state != StateFailed {
		return nil
	}

	err := w.file.Abort()
	if err != nil {
		w.log.Warn("abort failed", "path", w.path, "error", err)
	} else {
		w.log.Warn("writer aborted, output removed", "path", w.path, "points", w.stats.Points)
	}
	w.release()

	if err != nil {
		return fmt.Errorf("abort %s: %w", w.path, err)
	}

	return nil
}

func (w *Writer) release() {
	w.state = StateClosed
	w.file = nil
	w.scan = nil
	w.block = nil
	w.buffers = nil
	w.writeBlock = nil
}
