package encoding

import (
	"iter"
	"math"

	"github.com/arloliu/ptcloud/endian"
	"github.com/arloliu/ptcloud/internal/pool"
)

// Float32RawEncoder stores float32 values in their IEEE 754 form, 4 bytes each.
type Float32RawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[float32] = (*Float32RawEncoder)(nil)

// NewFloat32RawEncoder creates a single precision raw encoder writing with engine.
//
// Parameters:
//   - engine: Byte order of the file
//
// Returns:
//   - *Float32RawEncoder: A new encoder holding a pooled column buffer
func NewFloat32RawEncoder(engine endian.EndianEngine) *Float32RawEncoder {
	return &Float32RawEncoder{
		engine: engine,
		buf:    pool.GetColumnBuffer(),
	}
}

// Write encodes a single value.
//
// Panics if Finish() has been called.
func (e *Float32RawEncoder) Write(v float32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.B = e.engine.AppendUint32(e.buf.B, math.Float32bits(v))
}

// WriteSlice encodes values in order, growing the buffer once.
func (e *Float32RawEncoder) WriteSlice(values []float32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return
	}

	start := e.buf.Len()
	e.buf.ExtendOrGrow(len(values) * 4)
	b := e.buf.B[start:]
	for i, v := range values {
		e.engine.PutUint32(b[i*4:], math.Float32bits(v))
	}
	e.count += len(values)
}

// Bytes returns the encoded column.
func (e *Float32RawEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *Float32RawEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *Float32RawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset discards the encoded values.
func (e *Float32RawEncoder) Reset() {
	e.count = 0
	if e.buf != nil {
		e.buf.Reset()
	}
}

// Finish returns the buffer to the pool.
func (e *Float32RawEncoder) Finish() {
	if e.buf == nil {
		return
	}

	pool.PutColumnBuffer(e.buf)
	e.buf = nil
	e.count = 0
}

// Float32RawDecoder decodes columns written by Float32RawEncoder.
type Float32RawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[float32] = Float32RawDecoder{}

// NewFloat32RawDecoder creates a decoder reading with engine.
func NewFloat32RawDecoder(engine endian.EndianEngine) Float32RawDecoder {
	return Float32RawDecoder{engine: engine}
}

// All yields up to count values.
func (d Float32RawDecoder) All(data []byte, count int) iter.Seq[float32] {
	return func(yield func(float32) bool) {
		n := min(count, len(data)/4)
		for i := range n {
			if !yield(math.Float32frombits(d.engine.Uint32(data[i*4:]))) {
				return
			}
		}
	}
}

// At returns the value at index.
func (d Float32RawDecoder) At(data []byte, index int, count int) (float32, bool) {
	if index < 0 || index >= count || (index+1)*4 > len(data) {
		return 0, false
	}

	return math.Float32frombits(d.engine.Uint32(data[index*4:])), true
}

// Float64RawEncoder stores float64 values in their IEEE 754 form, 8 bytes each.
type Float64RawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[float64] = (*Float64RawEncoder)(nil)

// NewFloat64RawEncoder creates a double precision raw encoder writing with engine.
func NewFloat64RawEncoder(engine endian.EndianEngine) *Float64RawEncoder {
	return &Float64RawEncoder{
		engine: engine,
		buf:    pool.GetColumnBuffer(),
	}
}

// Write encodes a single value.
func (e *Float64RawEncoder) Write(v float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(v))
}

// WriteSlice encodes values in order, growing the buffer once.
func (e *Float64RawEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return
	}

	start := e.buf.Len()
	e.buf.ExtendOrGrow(len(values) * 8)
	b := e.buf.B[start:]
	for i, v := range values {
		e.engine.PutUint64(b[i*8:], math.Float64bits(v))
	}
	e.count += len(values)
}

// Bytes returns the encoded column.
func (e *Float64RawEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *Float64RawEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *Float64RawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset discards the encoded values.
func (e *Float64RawEncoder) Reset() {
	e.count = 0
	if e.buf != nil {
		e.buf.Reset()
	}
}

// Finish returns the buffer to the pool.
func (e *Float64RawEncoder) Finish() {
	if e.buf == nil {
		return
	}

	pool.PutColumnBuffer(e.buf)
	e.buf = nil
	e.count = 0
}

// Float64RawDecoder decodes columns written by Float64RawEncoder.
type Float64RawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[float64] = Float64RawDecoder{}

// NewFloat64RawDecoder creates a decoder reading with engine.
func NewFloat64RawDecoder(engine endian.EndianEngine) Float64RawDecoder {
	return Float64RawDecoder{engine: engine}
}

// All yields up to count values.
func (d Float64RawDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		n := min(count, len(data)/8)
		for i := range n {
			if !yield(math.Float64frombits(d.engine.Uint64(data[i*8:]))) {
				return
			}
		}
	}
}

// At returns the value at index.
func (d Float64RawDecoder) At(data []byte, index int, count int) (float64, bool) {
	if index < 0 || index >= count || (index+1)*8 > len(data) {
		return 0, false
	}

	return math.Float64frombits(d.engine.Uint64(data[index*8:])), true
}
