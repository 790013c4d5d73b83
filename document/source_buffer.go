package document

import "github.com/arloliu/ptcloud/format"

// SourceBuffer binds a caller-owned slice to a prototype field by name.
//
// The block writer reads the slice in place, so the caller refills it between
// BlockWriter.Write calls without any copy.
type SourceBuffer struct {
	name string
	f64  []float64
	f32  []float32
	u8   []uint8
	i64  []int64
}

// NewFloat64Buffer binds data to the float field called name.
func NewFloat64Buffer(name string, data []float64) SourceBuffer {
	return SourceBuffer{name: name, f64: data}
}

// NewFloat32Buffer binds data to the float field called name.
func NewFloat32Buffer(name string, data []float32) SourceBuffer {
	return SourceBuffer{name: name, f32: data}
}

// NewUint8Buffer binds data to the integer field called name.
func NewUint8Buffer(name string, data []uint8) SourceBuffer {
	return SourceBuffer{name: name, u8: data}
}

// NewInt64Buffer binds data to the integer field called name.
func NewInt64Buffer(name string, data []int64) SourceBuffer {
	return SourceBuffer{name: name, i64: data}
}

// Name returns the bound field name.
func (b SourceBuffer) Name() string { return b.name }

// Kind returns the kind of field the buffer can feed.
func (b SourceBuffer) Kind() format.FieldKind {
	if b.f64 != nil || b.f32 != nil {
		return format.KindFloat
	}

	return format.KindInteger
}

// Cap returns the number of records the buffer holds.
func (b SourceBuffer) Cap() int {
	switch {
	case b.f64 != nil:
		return len(b.f64)
	case b.f32 != nil:
		return len(b.f32)
	case b.u8 != nil:
		return len(b.u8)
	default:
		return len(b.i64)
	}
}

func (b SourceBuffer) float(i int) float64 {
	if b.f64 != nil {
		return b.f64[i]
	}

	return float64(b.f32[i])
}

func (b SourceBuffer) integer(i int) int64 {
	if b.u8 != nil {
		return int64(b.u8[i])
	}

	return b.i64[i]
}
