package section

import (
	"fmt"

	"github.com/arloliu/ptcloud/endian"
	"github.com/arloliu/ptcloud/errs"
)

// PacketHeader precedes the field payloads of one packet.
type PacketHeader struct {
	// RecordCount is the number of records in the packet.
	RecordCount uint32
	// PayloadLength is the sum of FieldSizes.
	PayloadLength uint32
	// Checksum is the xxhash64 of the concatenated field payloads.
	Checksum uint64
	// FieldSizes holds the stored payload size of each field, in prototype order.
	FieldSizes []uint32
}

// Size returns the serialized header size.
func (h *PacketHeader) Size() int {
	return PacketHeaderFixedSize + PacketFieldSizeBytes*len(h.FieldSizes)
}

// AppendTo appends the serialized header to dst using engine.
func (h *PacketHeader) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	dst = append(dst, PacketMagic...)
	dst = engine.AppendUint32(dst, h.RecordCount)
	dst = engine.AppendUint16(dst, uint16(len(h.FieldSizes))) //nolint:gosec // bounded by MaxPacketFields
	dst = engine.AppendUint16(dst, 0)
	dst = engine.AppendUint32(dst, h.PayloadLength)
	dst = engine.AppendUint64(dst, h.Checksum)
	for _, size := range h.FieldSizes {
		dst = engine.AppendUint32(dst, size)
	}

	return dst
}

// ParsePacketHeader parses a packet header from the start of data.
//
// Parameters:
//   - data: Byte slice starting with a packet header
//   - engine: Byte order recorded in the file header
//
// Returns:
//   - PacketHeader: Parsed header
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber or ErrInvalidFieldCount
func ParsePacketHeader(data []byte, engine endian.EndianEngine) (PacketHeader, error) {
	if len(data) < PacketHeaderFixedSize {
		return PacketHeader{}, errs.ErrInvalidHeaderSize
	}
	if string(data[0:4]) != PacketMagic {
		return PacketHeader{}, errs.ErrInvalidMagicNumber
	}

	fieldCount := int(engine.Uint16(data[8:10]))
	if fieldCount == 0 || fieldCount > MaxPacketFields {
		return PacketHeader{}, fmt.Errorf("%w: %d", errs.ErrInvalidFieldCount, fieldCount)
	}
	if engine.Uint16(data[10:12]) != 0 {
		return PacketHeader{}, errs.ErrInvalidHeaderFlags
	}

	size := PacketHeaderFixedSize + PacketFieldSizeBytes*fieldCount
	if len(data) < size {
		return PacketHeader{}, errs.ErrInvalidHeaderSize
	}

	h := PacketHeader{
		RecordCount:   engine.Uint32(data[4:8]),
		PayloadLength: engine.Uint32(data[12:16]),
		Checksum:      engine.Uint64(data[16:24]),
		FieldSizes:    make([]uint32, fieldCount),
	}

	var total uint64
	for i := range h.FieldSizes {
		off := PacketHeaderFixedSize + PacketFieldSizeBytes*i
		h.FieldSizes[i] = engine.Uint32(data[off : off+PacketFieldSizeBytes])
		total += uint64(h.FieldSizes[i])
	}
	if total != uint64(h.PayloadLength) {
		return PacketHeader{}, fmt.Errorf("%w: field sizes sum to %d, payload length %d",
			errs.ErrInvalidHeaderSize, total, h.PayloadLength)
	}

	return h, nil
}
