package encoding

import (
	"encoding/binary"

	"github.com/arloliu/ptcloud/internal/pool"
)

// bitWriter appends bits most significant first to a pooled buffer.
type bitWriter struct {
	buf   *pool.ByteBuffer
	acc   uint64 // pending bits, right aligned
	nbits int    // number of pending bits in acc
}

func lowMask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << n) - 1
}

// writeBits writes the low n bits of v, n in [0, 64].
func (w *bitWriter) writeBits(v uint64, n int) {
	for n > 0 {
		take := min(n, 64-w.nbits)
		chunk := (v >> (n - take)) & lowMask(take)
		if take == 64 {
			w.acc = chunk
		} else {
			w.acc = w.acc<<take | chunk
		}
		w.nbits += take
		n -= take

		if w.nbits == 64 {
			w.buf.B = binary.BigEndian.AppendUint64(w.buf.B, w.acc)
			w.acc = 0
			w.nbits = 0
		}
	}
}

func (w *bitWriter) writeBit(bit bool) {
	if bit {
		w.writeBits(1, 1)
		return
	}
	w.writeBits(0, 1)
}

// flush writes the pending bits, zero padded to a byte boundary.
func (w *bitWriter) flush() {
	if w.nbits == 0 {
		return
	}

	aligned := w.acc << (64 - w.nbits)
	for i := range (w.nbits + 7) / 8 {
		w.buf.B = append(w.buf.B, byte(aligned>>(56-8*i)))
	}
	w.acc = 0
	w.nbits = 0
}

func (w *bitWriter) reset() {
	w.buf.Reset()
	w.acc = 0
	w.nbits = 0
}

// bitReader reads bits most significant first.
type bitReader struct {
	data []byte
	pos  int // bit position
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

// readBits reads n bits, n in [0, 64]. It returns false if data is exhausted.
func (r *bitReader) readBits(n int) (uint64, bool) {
	if r.pos+n > len(r.data)*8 {
		return 0, false
	}

	var v uint64
	for n > 0 {
		avail := 8 - r.pos&7
		take := min(avail, n)
		b := uint64(r.data[r.pos>>3]>>(avail-take)) & lowMask(take)
		v = v<<take | b
		r.pos += take
		n -= take
	}

	return v, true
}

func (r *bitReader) readBit() (bool, bool) {
	v, ok := r.readBits(1)
	return v == 1, ok
}

// skip advances the reader by n bits.
func (r *bitReader) skip(n int) bool {
	if r.pos+n > len(r.data)*8 {
		return false
	}
	r.pos += n

	return true
}
