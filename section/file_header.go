package section

import (
	"encoding/binary"

	"github.com/arloliu/ptcloud/errs"
)

// FileHeader is the fixed 64-byte header at the start of a ptcloud file.
//
// It is always stored little-endian so the flag, which selects the packet byte order,
// can be read first.
type FileHeader struct {
	VersionMajor uint16 // byte offset 4-5
	VersionMinor uint16 // byte offset 6-7
	Flag         FileFlag
	// PacketCount is the number of packets in the data section.
	PacketCount uint32 // byte offset 12-15
	// DataOffset is the byte offset of the first packet.
	DataOffset uint64 // byte offset 16-23
	// DataLength is the total size of all packets.
	DataLength uint64 // byte offset 24-31
	// MetadataOffset is the byte offset of the metadata section.
	MetadataOffset uint64 // byte offset 32-39
	// MetadataLength is the stored (possibly compressed) metadata size.
	MetadataLength uint64 // byte offset 40-47
	// MetadataChecksum is the xxhash64 of the stored metadata bytes.
	MetadataChecksum uint64 // byte offset 48-55
	// FileSize is the total file size.
	FileSize uint64 // byte offset 56-63
}

// NewFileHeader returns a header for the current format version with the data section
// starting right after the header.
func NewFileHeader(flag FileFlag) *FileHeader {
	return &FileHeader{
		VersionMajor: VersionMajor,
		VersionMinor: VersionMinor,
		Flag:         flag,
		DataOffset:   FileHeaderSize,
	}
}

// Bytes serializes the header into FileHeaderSize bytes.
func (h *FileHeader) Bytes() []byte {
	b := make([]byte, FileHeaderSize)
	le := binary.LittleEndian

	copy(b[0:4], FileMagic)
	le.PutUint16(b[4:6], h.VersionMajor)
	le.PutUint16(b[6:8], h.VersionMinor)
	le.PutUint16(b[8:10], h.Flag.Options)
	le.PutUint32(b[12:16], h.PacketCount)
	le.PutUint64(b[16:24], h.DataOffset)
	le.PutUint64(b[24:32], h.DataLength)
	le.PutUint64(b[32:40], h.MetadataOffset)
	le.PutUint64(b[40:48], h.MetadataLength)
	le.PutUint64(b[48:56], h.MetadataChecksum)
	le.PutUint64(b[56:64], h.FileSize)

	return b
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 64 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber or flag validation errors
func (h *FileHeader) Parse(data []byte) error {
	if len(data) != FileHeaderSize {
		return errs.ErrInvalidHeaderSize
	}
	if string(data[0:4]) != FileMagic {
		return errs.ErrInvalidMagicNumber
	}

	le := binary.LittleEndian
	h.VersionMajor = le.Uint16(data[4:6])
	h.VersionMinor = le.Uint16(data[6:8])
	h.Flag.Options = le.Uint16(data[8:10])
	h.PacketCount = le.Uint32(data[12:16])
	h.DataOffset = le.Uint64(data[16:24])
	h.DataLength = le.Uint64(data[24:32])
	h.MetadataOffset = le.Uint64(data[32:40])
	h.MetadataLength = le.Uint64(data[40:48])
	h.MetadataChecksum = le.Uint64(data[48:56])
	h.FileSize = le.Uint64(data[56:64])

	if le.Uint16(data[10:12]) != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	return h.Flag.Validate()
}

// ParseFileHeader parses a FileHeader from the start of data.
//
// Parameters:
//   - data: Byte slice starting with a header (must be at least 64 bytes)
//
// Returns:
//   - FileHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber or flag validation errors
func ParseFileHeader(data []byte) (FileHeader, error) {
	if len(data) < FileHeaderSize {
		return FileHeader{}, errs.ErrInvalidHeaderSize
	}

	h := FileHeader{}
	if err := h.Parse(data[:FileHeaderSize]); err != nil {
		return FileHeader{}, err
	}

	return h, nil
}
