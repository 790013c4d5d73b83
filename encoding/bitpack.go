package encoding

import (
	"iter"
	"math/bits"

	"github.com/arloliu/ptcloud/internal/pool"
)

// BitWidth returns the number of bits needed for values in [minimum, maximum].
// It is 0 when the range holds a single value.
func BitWidth(minimum, maximum int64) int {
	return bits.Len64(uint64(maximum - minimum)) //nolint:gosec // maximum >= minimum
}

// BitPackEncoder stores bounded integers as value-minimum in BitWidth bits each.
//
// The encoder does not check bounds; values outside [minimum, maximum] are truncated
// to the low bits. Callers validate before writing.
type BitPackEncoder struct {
	w       bitWriter
	minimum int64
	width   int
	count   int
	flushed bool
}

var _ ColumnarEncoder[int64] = (*BitPackEncoder)(nil)

// NewBitPackEncoder creates an encoder for integers in [minimum, maximum].
//
// Parameters:
//   - minimum: Smallest representable value
//   - maximum: Largest representable value, must be >= minimum
//
// Returns:
//   - *BitPackEncoder: A new encoder holding a pooled column buffer
func NewBitPackEncoder(minimum, maximum int64) *BitPackEncoder {
	return &BitPackEncoder{
		w:       bitWriter{buf: pool.GetColumnBuffer()},
		minimum: minimum,
		width:   BitWidth(minimum, maximum),
	}
}

// Width returns the number of bits per value.
func (e *BitPackEncoder) Width() int {
	return e.width
}

// Write encodes a single value.
//
// Panics if Finish() has been called or if Bytes() was called since the last Reset.
func (e *BitPackEncoder) Write(v int64) {
	if e.w.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if e.flushed {
		panic("encoder flushed - call Reset() before writing after Bytes()")
	}

	e.count++
	e.w.writeBits(uint64(v-e.minimum), e.width) //nolint:gosec // offset from minimum
}

// WriteSlice encodes values in order.
func (e *BitPackEncoder) WriteSlice(values []int64) {
	for _, v := range values {
		e.Write(v)
	}
}

// Bytes flushes the pending bits and returns the encoded column.
func (e *BitPackEncoder) Bytes() []byte {
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
func (e *BitPackEncoder) Len() int {
	return e.count
}

// Size returns the number of bytes in the buffer.
func (e *BitPackEncoder) Size() int {
	if e.w.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.w.buf.Len()
}

// Reset discards the encoded values.
func (e *BitPackEncoder) Reset() {
	if e.w.buf != nil {
		e.w.reset()
	}
	e.count = 0
	e.flushed = false
}

// Finish returns the buffer to the pool.
func (e *BitPackEncoder) Finish() {
	if e.w.buf == nil {
		return
	}

	pool.PutColumnBuffer(e.w.buf)
	e.w.buf = nil
}

// BitPackDecoder decodes columns written by BitPackEncoder with the same bounds.
type BitPackDecoder struct {
	minimum int64
	width   int
}

var _ ColumnarDecoder[int64] = BitPackDecoder{}

// NewBitPackDecoder creates a decoder for integers in [minimum, maximum].
func NewBitPackDecoder(minimum, maximum int64) BitPackDecoder {
	return BitPackDecoder{minimum: minimum, width: BitWidth(minimum, maximum)}
}

// All yields up to count values.
func (d BitPackDecoder) All(data []byte, count int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		r := newBitReader(data)
		for range count {
			v, ok := r.readBits(d.width)
			if !ok || !yield(d.minimum+int64(v)) { //nolint:gosec // width < 64
				return
			}
		}
	}
}

// At returns the value at index without decoding its predecessors.
func (d BitPackDecoder) At(data []byte, index int, count int) (int64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	r := newBitReader(data)
	if !r.skip(index * d.width) {
		return 0, false
	}
	v, ok := r.readBits(d.width)
	if !ok {
		return 0, false
	}

	return d.minimum + int64(v), true //nolint:gosec // width < 64
}
