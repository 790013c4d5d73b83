package encoding

import "iter"

// ColumnarEncoder encodes one column of a packet.
type ColumnarEncoder[T comparable] interface {
	// Bytes returns the encoded column.
	//
	// The returned slice aliases the internal buffer and is valid until the next call to
	// Write, WriteSlice, Reset or Finish. Bit-oriented encoders pad the final byte, so no
	// value may be written after Bytes until Reset is called.
	Bytes() []byte

	// Len returns the number of values encoded since the last Reset.
	Len() int

	// Size returns the number of bytes written to the internal buffer.
	Size() int

	// Reset discards the encoded data and keeps the buffer for the next packet.
	Reset()

	// Finish returns the buffer to its pool. The encoder is unusable afterwards and any
	// subsequent Write, WriteSlice, Bytes or Size call panics.
	//
	//	enc := NewFloat32RawEncoder(engine)
	//	defer enc.Finish()
	Finish()

	// Write encodes a single value.
	Write(v T)

	// WriteSlice encodes values in order.
	WriteSlice(values []T)
}

// ColumnarDecoder decodes a column produced by the matching encoder.
type ColumnarDecoder[T comparable] interface {
	// All yields the count values stored in data.
	//
	// If data is truncated the iterator stops early, so callers that need exactly
	// count values must count what they receive.
	All(data []byte, count int) iter.Seq[T]

	// At returns the value at index, or false when index is outside [0, count) or the
	// data is too short.
	At(data []byte, index int, count int) (T, bool)
}
