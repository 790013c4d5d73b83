package document

import (
	"fmt"
	"math"

	"github.com/arloliu/ptcloud/compress"
	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/format"
	"github.com/arloliu/ptcloud/internal/hash"
	"github.com/arloliu/ptcloud/internal/pool"
	"github.com/arloliu/ptcloud/section"
)

// BlockWriter appends records from bound SourceBuffers to a compressed vector.
//
// Records accumulate in per-field encoders and are emitted as a packet every
// PacketRecords records, so the packet layout depends only on the record sequence and
// never on how it was split across Write calls.
type BlockWriter struct {
	cv       *CompressedVectorNode
	columns  []*column
	capacity int

	pending  int    // records in the current packet
	records  uint64 // records written in total
	packets  uint32
	length   uint64
	closed   bool
	err      error // sticky write failure
	payloads [][]byte
}

func newBlockWriter(cv *CompressedVectorNode, bound []SourceBuffer, capacity int) *BlockWriter {
	engine := cv.file.cfg.engine
	columns := make([]*column, len(bound))
	for i := range bound {
		columns[i] = newColumn(&cv.fields[i], bound[i], engine)
	}

	return &BlockWriter{
		cv:       cv,
		columns:  columns,
		capacity: capacity,
		payloads: make([][]byte, len(columns)),
	}
}

// Capacity returns the number of records the bound buffers hold.
func (bw *BlockWriter) Capacity() int { return bw.capacity }

// RecordCount returns the number of records accepted so far.
func (bw *BlockWriter) RecordCount() uint64 { return bw.records }

// Packets returns the number of packets written so far.
func (bw *BlockWriter) Packets() uint32 { return bw.packets }

// IsOpen reports whether the writer accepts records.
func (bw *BlockWriter) IsOpen() bool { return !bw.closed }

// CompressionStats returns the payload sizes per field, keyed by field name.
func (bw *BlockWriter) CompressionStats() map[string]compress.CompressionStats {
	out := make(map[string]compress.CompressionStats, len(bw.columns))
	for _, c := range bw.columns {
		out[c.spec.name] = c.stats
	}

	return out
}

// Write appends the first n records of every bound buffer.
//
// Integer values are checked against their prototype bounds, and float64 values bound
// to single precision fields against the float32 range, before anything is
// encoded, so a rejected call leaves the stream unchanged. A failed packet write makes
// the writer unusable and every later call returns the same error.
//
// Parameters:
//   - n: Number of records to take from each buffer, 0 <= n <= Capacity()
//
// Returns:
//   - error: ErrBadRecordCount, ErrValueOutOfBounds, ErrWriterClosed or an I/O error
func (bw *BlockWriter) Write(n int) error {
	if bw.closed {
		return errs.ErrWriterClosed
	}
	if bw.err != nil {
		return bw.err
	}
	if n < 0 || n > bw.capacity {
		return fmt.Errorf("%w: %d not in [0, %d]", errs.ErrBadRecordCount, n, bw.capacity)
	}
	if n == 0 {
		return nil
	}
	if err := bw.validate(n); err != nil {
		return err
	}

	packetRecords := bw.cv.file.cfg.packetRecords
	for from := 0; from < n; {
		to := min(n, from+packetRecords-bw.pending)
		for _, c := range bw.columns {
			c.encode(from, to)
		}
		bw.pending += to - from
		bw.records += uint64(to - from) //nolint:gosec // positive
		from = to

		if bw.pending == packetRecords {
			if err := bw.emit(); err != nil {
				bw.err = err
				return err
			}
		}
	}

	return nil
}

// validate checks integers against their bounds and single precision floats against
// the float32 range. NaN and infinities pass unchanged.
func (bw *BlockWriter) validate(n int) error {
	for _, c := range bw.columns {
		switch {
		case c.spec.kind == format.KindInteger:
			for i := range n {
				v := c.src.integer(i)
				if v < c.spec.minimum || v > c.spec.maximum {
					return fmt.Errorf("%w: %s[%d] = %d not in [%d, %d]",
						errs.ErrValueOutOfBounds, c.spec.name, i, v, c.spec.minimum, c.spec.maximum)
				}
			}
		case c.spec.precision == format.PrecisionSingle && c.src.f32 == nil:
			for i := range n {
				if v := c.src.float(i); math.Abs(v) > math.MaxFloat32 && !math.IsInf(v, 0) {
					return fmt.Errorf("%w: %s[%d] = %g exceeds single precision",
						errs.ErrValueOutOfBounds, c.spec.name, i, v)
				}
			}
		}
	}

	return nil
}

// emit writes the pending records as one packet.
func (bw *BlockWriter) emit() error {
	f := bw.cv.file
	header := section.PacketHeader{
		RecordCount: uint32(bw.pending), //nolint:gosec // bounded by packet records
		FieldSizes:  make([]uint32, len(bw.columns)),
	}

	digest := hash.NewDigest()
	for i, c := range bw.columns {
		payload, err := c.payload()
		if err != nil {
			return fmt.Errorf("compress %s: %w", c.spec.name, err)
		}
		bw.payloads[i] = payload
		header.FieldSizes[i] = uint32(len(payload)) //nolint:gosec // column payloads stay far below 4GiB
		header.PayloadLength += header.FieldSizes[i]
		digest.Write(payload)
	}
	header.Checksum = digest.Sum64()

	buf := pool.GetPacketBuffer()
	defer pool.PutPacketBuffer(buf)

	buf.B = header.AppendTo(buf.B, f.cfg.engine)
	for _, p := range bw.payloads {
		_, _ = buf.Write(p)
	}

	if err := f.writeData(buf.Bytes()); err != nil {
		return err
	}

	f.log.Debug("packet written", "records", bw.pending, "bytes", buf.Len(), "packet", bw.packets)

	bw.packets++
	bw.length += uint64(buf.Len()) //nolint:gosec // positive
	bw.pending = 0
	for i, c := range bw.columns {
		c.reset()
		bw.payloads[i] = nil
	}

	return nil
}

// Close emits the final partial packet, records the stream extent on the compressed
// vector and reopens the tree for mutation. Calling Close again returns nil.
//
// Returns:
//   - error: The sticky write error or an I/O error from the final packet
func (bw *BlockWriter) Close() error {
	if bw.closed {
		return nil
	}

	err := bw.err
	if err == nil && bw.pending > 0 {
		err = bw.emit()
	}
	bw.release()

	if err != nil {
		return err
	}

	bw.cv.recordCount = bw.records
	bw.cv.packets = bw.packets
	bw.cv.length = bw.length
	bw.cv.file.log.Debug("block writer closed", "records", bw.records, "packets", bw.packets, "bytes", bw.length)

	return nil
}

// release returns encoder buffers and detaches the writer from its file.
func (bw *BlockWriter) release() {
	if bw.closed {
		return
	}

	for _, c := range bw.columns {
		c.finish()
	}
	bw.closed = true
	if bw.cv.file.writer == bw {
		bw.cv.file.writer = nil
	}
}
