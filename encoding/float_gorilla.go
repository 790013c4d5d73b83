package encoding

import (
	"iter"
	"math"
	"math/bits"

	"github.com/arloliu/ptcloud/internal/pool"
)

// Float64GorillaEncoder compresses float64 values with the Gorilla XOR scheme.
//
// The first value is stored as 64 raw bits. Every following value is XORed with its
// predecessor and stored as:
//
//	0                                  value unchanged
//	1 0 <meaningful bits>              XOR fits the previous leading/trailing window
//	1 1 <5b leading> <6b size-1> <bits> new window
//
// GPS timestamps of consecutive points differ only in their low mantissa bits, so a
// column usually shrinks to 15-25 bits per point.
//
// See https://www.vldb.org/pvldb/vol8/p1816-teller.pdf for the algorithm.
type Float64GorillaEncoder struct {
	w            bitWriter
	prev         uint64
	prevLeading  int
	prevTrailing int
	prevSize     int // 0 until the first window is written
	count        int
	flushed      bool
}

var _ ColumnarEncoder[float64] = (*Float64GorillaEncoder)(nil)

// NewFloat64GorillaEncoder creates a Gorilla encoder holding a pooled column buffer.
func NewFloat64GorillaEncoder() *Float64GorillaEncoder {
	return &Float64GorillaEncoder{
		w: bitWriter{buf: pool.GetColumnBuffer()},
	}
}

// Write encodes a single value.
//
// Panics if Finish() has been called or if Bytes() was called since the last Reset.
func (e *Float64GorillaEncoder) Write(v float64) {
	if e.w.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if e.flushed {
		panic("encoder flushed - call Reset() before writing after Bytes()")
	}

	e.count++
	valBits := math.Float64bits(v)

	if e.count == 1 {
		e.prev = valBits
		e.w.writeBits(valBits, 64)

		return
	}

	e.writeXOR(valBits)
}

// WriteSlice encodes values in order.
func (e *Float64GorillaEncoder) WriteSlice(values []float64) {
	for _, v := range values {
		e.Write(v)
	}
}

func (e *Float64GorillaEncoder) writeXOR(valBits uint64) {
	xor := valBits ^ e.prev
	e.prev = valBits

	if xor == 0 {
		e.w.writeBit(false)
		return
	}
	e.w.writeBit(true)

	leading := bits.LeadingZeros64(xor)
	trailing := bits.TrailingZeros64(xor)

	// leading zeros are stored in 5 bits
	if leading > 31 {
		leading = 31
	}

	if e.prevSize > 0 && leading >= e.prevLeading && trailing >= e.prevTrailing {
		e.w.writeBit(false)
		e.w.writeBits(xor>>e.prevTrailing, e.prevSize)

		return
	}

	size := 64 - leading - trailing
	e.w.writeBit(true)
	e.w.writeBits(uint64(leading), 5) //nolint:gosec // leading is 0-31
	e.w.writeBits(uint64(size-1), 6)  //nolint:gosec // size is 1-64
	e.w.writeBits(xor>>trailing, size)

	e.prevLeading = leading
	e.prevTrailing = trailing
	e.prevSize = size
}

// Bytes flushes the pending bits and returns the encoded column.
func (e *Float64GorillaEncoder) Bytes() []byte {
	if e.w.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	if !e.flushed {
		e.w.flush()
		e.flushed = true
	}

	return e.w.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *Float64GorillaEncoder) Len() int {
	return e.count
}

// Size returns the number of bytes in the buffer. Pending bits are not counted until
// Bytes is called.
func (e *Float64GorillaEncoder) Size() int {
	if e.w.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.w.buf.Len()
}

// Reset discards the encoded values and the XOR state.
func (e *Float64GorillaEncoder) Reset() {
	if e.w.buf != nil {
		e.w.reset()
	}
	e.prev = 0
	e.prevLeading = 0
	e.prevTrailing = 0
	e.prevSize = 0
	e.count = 0
	e.flushed = false
}

// Finish returns the buffer to the pool.
func (e *Float64GorillaEncoder) Finish() {
	if e.w.buf == nil {
		return
	}

	pool.PutColumnBuffer(e.w.buf)
	e.w.buf = nil
}

// Float64GorillaDecoder decodes columns written by Float64GorillaEncoder.
type Float64GorillaDecoder struct{}

var _ ColumnarDecoder[float64] = Float64GorillaDecoder{}

// NewFloat64GorillaDecoder creates a Gorilla decoder.
func NewFloat64GorillaDecoder() Float64GorillaDecoder {
	return Float64GorillaDecoder{}
}

type gorillaState struct {
	r        *bitReader
	prev     uint64
	leading  int
	trailing int
	size     int
}

// next decodes one value after the first.
func (s *gorillaState) next() (uint64, bool) {
	changed, ok := s.r.readBit()
	if !ok {
		return 0, false
	}
	if !changed {
		return s.prev, true
	}

	newWindow, ok := s.r.readBit()
	if !ok {
		return 0, false
	}
	if newWindow {
		leading, ok := s.r.readBits(5)
		if !ok {
			return 0, false
		}
		size, ok := s.r.readBits(6)
		if !ok {
			return 0, false
		}
		s.leading = int(leading)
		s.size = int(size) + 1
		s.trailing = 64 - s.leading - s.size
	} else if s.size == 0 {
		return 0, false
	}

	meaningful, ok := s.r.readBits(s.size)
	if !ok {
		return 0, false
	}
	s.prev ^= meaningful << s.trailing

	return s.prev, true
}

// All yields up to count values.
func (d Float64GorillaDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if count <= 0 {
			return
		}

		s := gorillaState{r: newBitReader(data)}
		first, ok := s.r.readBits(64)
		if !ok {
			return
		}
		s.prev = first
		if !yield(math.Float64frombits(first)) {
			return
		}

		for range count - 1 {
			v, ok := s.next()
			if !ok || !yield(math.Float64frombits(v)) {
				return
			}
		}
	}
}

// At returns the value at index. The stream is sequential, so this is O(index).
func (d Float64GorillaDecoder) At(data []byte, index int, count int) (float64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	i := 0
	for v := range d.All(data, count) {
		if i == index {
			return v, true
		}
		i++
	}

	return 0, false
}
