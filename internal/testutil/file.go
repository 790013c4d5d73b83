// Package testutil parses ptcloud files so tests can assert what was persisted.
//
// It is verification support only; the library itself never reads files back.
package testutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/arloliu/ptcloud/compress"
	"github.com/arloliu/ptcloud/document"
	"github.com/arloliu/ptcloud/encoding"
	"github.com/arloliu/ptcloud/endian"
	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/format"
	"github.com/arloliu/ptcloud/internal/hash"
	"github.com/arloliu/ptcloud/section"
)

// File is a parsed ptcloud file.
type File struct {
	Header   section.FileHeader
	Metadata document.WireNode
	Raw      []byte
}

// Columns holds the decoded records of one compressed vector.
type Columns struct {
	Names   []string
	Floats  map[string][]float64
	Ints    map[string][]int64
	Packets []section.PacketHeader
}

// Len returns the number of decoded records.
func (c *Columns) Len() int {
	for _, v := range c.Floats {
		return len(v)
	}
	for _, v := range c.Ints {
		return len(v)
	}

	return 0
}

// ReadFile reads and parses the file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseFile(data)
}

// ParseFile parses a complete file image.
func ParseFile(data []byte) (*File, error) {
	h, err := section.ParseFileHeader(data)
	if err != nil {
		return nil, err
	}
	if h.FileSize != uint64(len(data)) {
		return nil, fmt.Errorf("file size %d, header says %d", len(data), h.FileSize)
	}

	end := h.MetadataOffset + h.MetadataLength
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("metadata [%d, %d) beyond file end", h.MetadataOffset, end)
	}
	stored := data[h.MetadataOffset:end]
	if hash.Checksum(stored) != h.MetadataChecksum {
		return nil, fmt.Errorf("%w: metadata", errs.ErrChecksumMismatch)
	}

	codec, err := compress.CreateCodec(h.Flag.MetadataCompression(), "metadata")
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(stored)
	if err != nil {
		return nil, err
	}

	tree, err := document.UnmarshalTree(raw)
	if err != nil {
		return nil, err
	}

	return &File{Header: h, Metadata: tree, Raw: data}, nil
}

// Node returns the metadata node at path.
func (f *File) Node(path string) (*document.WireNode, bool) {
	return f.Metadata.Lookup(path)
}

// Float returns the value of the Float node at path.
func (f *File) Float(path string) (float64, bool) {
	n, ok := f.Node(path)
	if !ok || n.Float == nil {
		return 0, false
	}

	return n.Float.Value, true
}

// Int returns the value of the Integer node at path.
func (f *File) Int(path string) (int64, bool) {
	n, ok := f.Node(path)
	if !ok || n.Integer == nil {
		return 0, false
	}

	return n.Integer.Value, true
}

// String returns the value of the String node at path.
func (f *File) String(path string) (string, bool) {
	n, ok := f.Node(path)
	if !ok || n.String == nil {
		return "", false
	}

	return *n.String, true
}

// Points decodes every record of the compressed vector at path.
func (f *File) Points(path string) (*Columns, error) {
	n, ok := f.Node(path)
	if !ok || n.Points == nil {
		return nil, fmt.Errorf("%s is not a compressed vector", path)
	}
	pv := n.Points
	engine := f.Header.Flag.GetEndianEngine()

	cols := &Columns{Floats: map[string][]float64{}, Ints: map[string][]int64{}}
	decoders := make([]func([]byte, int) error, len(pv.Codecs))
	for i, c := range pv.Codecs {
		proto, ok := pv.Prototype.Child(c.Field)
		if !ok {
			return nil, fmt.Errorf("codec field %s missing from prototype", c.Field)
		}
		dec, err := columnDecoder(cols, c, proto, engine)
		if err != nil {
			return nil, err
		}
		decoders[i] = dec
		cols.Names = append(cols.Names, c.Field)
	}

	pos := pv.FileOffset
	end := pv.FileOffset + pv.Length
	for pos < end {
		ph, err := section.ParsePacketHeader(f.Raw[pos:end], engine)
		if err != nil {
			return nil, fmt.Errorf("packet at %d: %w", pos, err)
		}
		if len(ph.FieldSizes) != len(decoders) {
			return nil, fmt.Errorf("packet at %d: %w", pos, errs.ErrInvalidFieldCount)
		}
		pos += uint64(ph.Size())

		payloads := f.Raw[pos : pos+uint64(ph.PayloadLength)]
		if hash.Checksum(payloads) != ph.Checksum {
			return nil, fmt.Errorf("%w: packet %d", errs.ErrChecksumMismatch, len(cols.Packets))
		}

		off := 0
		for i, size := range ph.FieldSizes {
			if err := decoders[i](payloads[off:off+int(size)], int(ph.RecordCount)); err != nil {
				return nil, fmt.Errorf("packet %d field %s: %w", len(cols.Packets), cols.Names[i], err)
			}
			off += int(size)
		}
		pos += uint64(ph.PayloadLength)
		cols.Packets = append(cols.Packets, ph)
	}

	if uint64(cols.Len()) != pv.RecordCount {
		return nil, fmt.Errorf("decoded %d records, metadata says %d", cols.Len(), pv.RecordCount)
	}

	return cols, nil
}

func columnDecoder(cols *Columns, c document.WireCodec, proto *document.WireNode, engine endian.EndianEngine) (func([]byte, int) error, error) {
	if c.ID != hash.ID(c.Field) {
		return nil, fmt.Errorf("field %s: id %#x does not match its name", c.Field, c.ID)
	}
	comp, ok := format.ParseCompression(c.Compression)
	if !ok {
		return nil, fmt.Errorf("unknown compression %q", c.Compression)
	}
	codec, err := compress.CreateCodec(comp, c.Field)
	if err != nil {
		return nil, err
	}
	enc, ok := format.ParseEncoding(c.Encoding)
	if !ok {
		return nil, fmt.Errorf("unknown encoding %q", c.Encoding)
	}

	name := c.Field
	collectF := func(seq func(func(float64) bool), n int) error {
		got := 0
		for v := range seq {
			cols.Floats[name] = append(cols.Floats[name], v)
			got++
		}
		if got != n {
			return fmt.Errorf("decoded %d of %d values", got, n)
		}

		return nil
	}

	return func(payload []byte, n int) error {
		data, err := codec.Decompress(payload)
		if err != nil {
			return err
		}

		switch {
		case enc == format.TypeBitPack && proto.Integer != nil:
			dec := encoding.NewBitPackDecoder(proto.Integer.Minimum, proto.Integer.Maximum)
			got := 0
			for v := range dec.All(data, n) {
				cols.Ints[name] = append(cols.Ints[name], v)
				got++
			}
			if got != n {
				return fmt.Errorf("decoded %d of %d values", got, n)
			}

			return nil
		case enc == format.TypeGorilla:
			return collectF(encoding.NewFloat64GorillaDecoder().All(data, n), n)
		case enc == format.TypeRaw && proto.Float != nil && strings.EqualFold(proto.Float.Precision, "single"):
			dec := encoding.NewFloat32RawDecoder(engine)
			return collectF(func(yield func(float64) bool) {
				for v := range dec.All(data, n) {
					if !yield(float64(v)) {
						return
					}
				}
			}, n)
		case enc == format.TypeRaw:
			return collectF(encoding.NewFloat64RawDecoder(engine).All(data, n), n)
		default:
			return fmt.Errorf("encoding %s does not fit field %s", c.Encoding, name)
		}
	}, nil
}
