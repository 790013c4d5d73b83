package document

import (
	"fmt"
	"strings"

	"github.com/arloliu/ptcloud/compress"
	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/format"
	"github.com/arloliu/ptcloud/internal/hash"
)

// Codec selects the encoding and compression of prototype fields.
//
// A Codec with no Fields applies to every field not named by another Codec. A zero
// Encoding picks the default for the field: Raw for floats, BitPack for integers.
type Codec struct {
	Fields      []string
	Encoding    format.EncodingType
	Compression format.CompressionType
}

// fieldSpec is the resolved description of one prototype field.
type fieldSpec struct {
	name        string
	kind        format.FieldKind
	precision   format.Precision
	minimum     int64
	maximum     int64
	encoding    format.EncodingType
	compression format.CompressionType
}

// CompressedVectorNode is a block stream of records shaped by a prototype structure.
type CompressedVectorNode struct {
	nodeBase
	prototype *StructureNode
	fields    []fieldSpec

	writerCreated bool
	recordCount   uint64
	packets       uint32
	fileOffset    uint64
	length        uint64
}

var _ Node = (*CompressedVectorNode)(nil)

// NewCompressedVectorNode creates a detached compressed vector with the given prototype.
//
// Every prototype child must be an IntegerNode or a FloatNode. The prototype is
// attached to the new node and cannot be reused.
//
// Parameters:
//   - f: Owning image file
//   - prototype: Record layout, fields in column order
//   - codecs: Optional per-field codecs; fields not covered use Raw/BitPack with no compression
//
// Returns:
//   - *CompressedVectorNode: The new node
//   - error: ErrBadPrototype for unusable prototypes or codecs
func NewCompressedVectorNode(f *ImageFile, prototype *StructureNode, codecs ...Codec) (*CompressedVectorNode, error) {
	if prototype == nil || prototype.Len() == 0 {
		return nil, fmt.Errorf("%w: empty prototype", errs.ErrBadPrototype)
	}

	fields := make([]fieldSpec, 0, prototype.Len())
	for _, name := range prototype.names {
		spec := fieldSpec{name: name}
		switch n := prototype.children[name].(type) {
		case *IntegerNode:
			spec.kind = format.KindInteger
			spec.minimum = n.minimum
			spec.maximum = n.maximum
		case *FloatNode:
			spec.kind = format.KindFloat
			spec.precision = n.precision
		default:
			return nil, fmt.Errorf("%w: field %s is a %s node", errs.ErrBadPrototype, name, prototype.children[name].Type())
		}
		fields = append(fields, spec)
	}

	if err := resolveCodecs(fields, codecs); err != nil {
		return nil, err
	}

	cv := &CompressedVectorNode{
		nodeBase:  nodeBase{file: f},
		prototype: prototype,
		fields:    fields,
	}
	if err := adopt(cv, prototype); err != nil {
		return nil, fmt.Errorf("prototype: %w", err)
	}

	return cv, nil
}

func resolveCodecs(fields []fieldSpec, codecs []Codec) error {
	index := make(map[string]int, len(fields))
	for i := range fields {
		index[fields[i].name] = i
	}

	var fallback *Codec
	assigned := make([]bool, len(fields))
	for ci := range codecs {
		c := &codecs[ci]
		if len(c.Fields) == 0 {
			if fallback != nil {
				return fmt.Errorf("%w: more than one default codec", errs.ErrBadPrototype)
			}
			fallback = c

			continue
		}
		for _, name := range c.Fields {
			i, ok := index[name]
			if !ok {
				return fmt.Errorf("%w: codec names unknown field %s", errs.ErrBadPrototype, name)
			}
			if assigned[i] {
				return fmt.Errorf("%w: field %s has two codecs", errs.ErrBadPrototype, name)
			}
			if err := applyCodec(&fields[i], *c); err != nil {
				return err
			}
			assigned[i] = true
		}
	}

	for i := range fields {
		if assigned[i] {
			continue
		}
		c := Codec{Compression: format.CompressionNone}
		if fallback != nil {
			c = *fallback
		}
		if err := applyCodec(&fields[i], c); err != nil {
			return err
		}
	}

	return nil
}

func applyCodec(f *fieldSpec, c Codec) error {
	enc := c.Encoding
	if enc == 0 {
		enc = format.TypeRaw
		if f.kind == format.KindInteger {
			enc = format.TypeBitPack
		}
	}

	valid := false
	switch enc {
	case format.TypeRaw:
		valid = f.kind == format.KindFloat
	case format.TypeGorilla:
		valid = f.kind == format.KindFloat && f.precision == format.PrecisionDouble
	case format.TypeBitPack:
		valid = f.kind == format.KindInteger
	}
	if !valid {
		return fmt.Errorf("%w: %s encoding does not fit field %s", errs.ErrBadPrototype, enc, f.name)
	}

	comp := c.Compression
	if comp == 0 {
		comp = format.CompressionNone
	}
	if _, err := compress.CreateCodec(comp, f.name); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrBadPrototype, err)
	}

	f.encoding = enc
	f.compression = comp

	return nil
}

func (cv *CompressedVectorNode) Type() NodeType { return TypeCompressedVector }

// Prototype returns the record layout.
func (cv *CompressedVectorNode) Prototype() *StructureNode { return cv.prototype }

// RecordCount returns the number of records written by a closed BlockWriter.
func (cv *CompressedVectorNode) RecordCount() uint64 { return cv.recordCount }

// Packets returns the number of packets written by a closed BlockWriter.
func (cv *CompressedVectorNode) Packets() uint32 { return cv.packets }

func (cv *CompressedVectorNode) wire() (WireNode, error) {
	proto, err := cv.prototype.wire()
	if err != nil {
		return WireNode{}, err
	}

	codecs := make([]WireCodec, len(cv.fields))
	for i, f := range cv.fields {
		codecs[i] = WireCodec{
			Field:       f.name,
			ID:          hash.ID(f.name),
			Encoding:    strings.ToLower(f.encoding.String()),
			Compression: strings.ToLower(f.compression.String()),
		}
	}

	return WireNode{
		Type: TypeCompressedVector.String(),
		Points: &PointsValue{
			RecordCount: cv.recordCount,
			Packets:     cv.packets,
			FileOffset:  cv.fileOffset,
			Length:      cv.length,
			Prototype:   proto,
			Codecs:      codecs,
		},
	}, nil
}

// Writer creates the BlockWriter of this compressed vector, bound to buffers.
//
// Every prototype field must be bound by exactly one buffer of a matching kind, and
// all buffers must hold the same number of records. Only one writer can be created per
// compressed vector, and only one can be open per file.
//
// Parameters:
//   - buffers: Caller-owned column slices, read in place by Write
//
// Returns:
//   - *BlockWriter: The open writer
//   - error: ErrBufferBinding, ErrBufferSizeMismatch, ErrWriterAlreadyCreated,
//     ErrWriterOpen, ErrImageFileClosed or ErrPathUndefined when the node is detached
func (cv *CompressedVectorNode) Writer(buffers []SourceBuffer) (*BlockWriter, error) {
	f := cv.file
	if err := f.checkMutable(); err != nil {
		return nil, err
	}
	if cv.writerCreated {
		return nil, errs.ErrWriterAlreadyCreated
	}
	if cv.parent == nil {
		return nil, fmt.Errorf("%w: compressed vector is not attached", errs.ErrPathUndefined)
	}

	bound, capacity, err := cv.bind(buffers)
	if err != nil {
		return nil, err
	}

	bw := newBlockWriter(cv, bound, capacity)
	cv.writerCreated = true
	cv.fileOffset = uint64(f.offset) //nolint:gosec // offset is never negative
	f.writer = bw
	f.log.Debug("block writer opened", "fields", len(cv.fields), "capacity", capacity)

	return bw, nil
}

// bind orders buffers like the prototype fields.
func (cv *CompressedVectorNode) bind(buffers []SourceBuffer) ([]SourceBuffer, int, error) {
	if len(buffers) != len(cv.fields) {
		return nil, 0, fmt.Errorf("%w: %d buffers for %d fields", errs.ErrBufferBinding, len(buffers), len(cv.fields))
	}

	byName := make(map[string]SourceBuffer, len(buffers))
	capacity := -1
	for _, b := range buffers {
		if _, dup := byName[b.name]; dup {
			return nil, 0, fmt.Errorf("%w: %s bound twice", errs.ErrBufferBinding, b.name)
		}
		byName[b.name] = b

		if capacity == -1 {
			capacity = b.Cap()
		} else if b.Cap() != capacity {
			return nil, 0, fmt.Errorf("%w: %s holds %d records, expected %d", errs.ErrBufferSizeMismatch, b.name, b.Cap(), capacity)
		}
	}
	if capacity < 1 {
		return nil, 0, fmt.Errorf("%w: buffers hold no records", errs.ErrBufferSizeMismatch)
	}

	bound := make([]SourceBuffer, len(cv.fields))
	for i, f := range cv.fields {
		b, ok := byName[f.name]
		if !ok {
			return nil, 0, fmt.Errorf("%w: field %s is not bound", errs.ErrBufferBinding, f.name)
		}
		if b.Kind() != f.kind {
			return nil, 0, fmt.Errorf("%w: field %s is %s, buffer is %s", errs.ErrBufferBinding, f.name, f.kind, b.Kind())
		}
		bound[i] = b
	}

	return bound, capacity, nil
}
