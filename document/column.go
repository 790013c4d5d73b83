package document

import (
	"github.com/arloliu/ptcloud/compress"
	"github.com/arloliu/ptcloud/encoding"
	"github.com/arloliu/ptcloud/endian"
	"github.com/arloliu/ptcloud/format"
)

// column encodes one bound buffer into the current packet.
type column struct {
	spec  *fieldSpec
	src   SourceBuffer
	codec compress.Codec
	stats compress.CompressionStats

	f32 encoding.ColumnarEncoder[float32]
	f64 encoding.ColumnarEncoder[float64]
	i64 encoding.ColumnarEncoder[int64]
}

func newColumn(spec *fieldSpec, src SourceBuffer, engine endian.EndianEngine) *column {
	// codecs were validated when the compressed vector was created
	codec, _ := compress.CreateCodec(spec.compression, spec.name)

	c := &column{
		spec:  spec,
		src:   src,
		codec: codec,
		stats: compress.CompressionStats{Algorithm: spec.compression},
	}

	switch {
	case spec.encoding == format.TypeBitPack:
		c.i64 = encoding.NewBitPackEncoder(spec.minimum, spec.maximum)
	case spec.encoding == format.TypeGorilla:
		c.f64 = encoding.NewFloat64GorillaEncoder()
	case spec.precision == format.PrecisionSingle:
		c.f32 = encoding.NewFloat32RawEncoder(engine)
	default:
		c.f64 = encoding.NewFloat64RawEncoder(engine)
	}

	return c
}

// encode appends records [from, to) of the source buffer.
func (c *column) encode(from, to int) {
	switch {
	case c.i64 != nil:
		for i := from; i < to; i++ {
			c.i64.Write(c.src.integer(i))
		}
	case c.f32 != nil:
		if c.src.f32 != nil {
			c.f32.WriteSlice(c.src.f32[from:to])
			return
		}
		for i := from; i < to; i++ {
			c.f32.Write(float32(c.src.f64[i]))
		}
	default:
		if c.src.f64 != nil {
			c.f64.WriteSlice(c.src.f64[from:to])
			return
		}
		for i := from; i < to; i++ {
			c.f64.Write(float64(c.src.f32[i]))
		}
	}
}

// payload returns the encoded and compressed column of the current packet.
func (c *column) payload() ([]byte, error) {
	var encoded []byte
	switch {
	case c.i64 != nil:
		encoded = c.i64.Bytes()
	case c.f32 != nil:
		encoded = c.f32.Bytes()
	default:
		encoded = c.f64.Bytes()
	}

	out, err := c.codec.Compress(encoded)
	if err != nil {
		return nil, err
	}
	c.stats.Add(len(encoded), len(out))

	return out, nil
}

func (c *column) reset() {
	switch {
	case c.i64 != nil:
		c.i64.Reset()
	case c.f32 != nil:
		c.f32.Reset()
	default:
		c.f64.Reset()
	}
}

func (c *column) finish() {
	switch {
	case c.i64 != nil:
		c.i64.Finish()
	case c.f32 != nil:
		c.f32.Finish()
	default:
		c.f64.Finish()
	}
}
