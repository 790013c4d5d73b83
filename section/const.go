package section

// Magic numbers.
const (
	FileMagic   = "PTCF"
	PacketMagic = "PTPK"
)

// Format version written by this library.
const (
	VersionMajor uint16 = 1
	VersionMinor uint16 = 0
)

// Flag bit layout.
const (
	EndiannessMask          = 0x0001 // Mask for endianness bit (bit 0), 1 means big-endian
	MetadataCompressionMask = 0x00F0 // Mask for metadata compression type (bits 4-7)
	ReservedBitsMask        = 0xFF0E // Bits that must be zero

	metadataCompressionShift = 4
)

// Sizes of the fixed sections.
const (
	FileHeaderSize        = 64
	PacketHeaderFixedSize = 24
	PacketFieldSizeBytes  = 4
	MaxPacketFields       = 256
)
