package section

import (
	"fmt"

	"github.com/arloliu/ptcloud/endian"
	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/format"
)

// FileFlag is the packed option field of the file header.
type FileFlag struct {
	// Options holds the endianness bit and the metadata compression nibble.
	Options uint16
}

// NewFileFlag returns a little-endian flag with uncompressed metadata.
func NewFileFlag() FileFlag {
	flag := FileFlag{}
	flag.SetMetadataCompression(format.CompressionNone)

	return flag
}

// IsBigEndian reports whether packets are written big-endian.
func (f FileFlag) IsBigEndian() bool {
	return f.Options&EndiannessMask != 0
}

// WithBigEndian sets big-endian packets.
func (f *FileFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// WithLittleEndian sets little-endian packets.
func (f *FileFlag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// GetEndianEngine returns the engine matching the endianness bit.
func (f FileFlag) GetEndianEngine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// MetadataCompression returns the compression applied to the metadata section.
func (f FileFlag) MetadataCompression() format.CompressionType {
	return format.CompressionType((f.Options & MetadataCompressionMask) >> metadataCompressionShift)
}

// SetMetadataCompression sets the metadata compression nibble.
func (f *FileFlag) SetMetadataCompression(c format.CompressionType) {
	f.Options = f.Options&^MetadataCompressionMask | uint16(c)<<metadataCompressionShift&MetadataCompressionMask
}

// Validate checks that reserved bits are clear and the compression is known.
func (f FileFlag) Validate() error {
	if f.Options&ReservedBitsMask != 0 {
		return fmt.Errorf("%w: reserved bits set in 0x%04x", errs.ErrInvalidHeaderFlags, f.Options)
	}

	switch f.MetadataCompression() {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		return nil
	default:
		return fmt.Errorf("%w: unknown metadata compression %d", errs.ErrInvalidHeaderFlags, f.MetadataCompression())
	}
}
