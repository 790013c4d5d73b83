package format

type (
	EncodingType    uint8
	CompressionType uint8
	Precision       uint8
	FieldKind       uint8
)

const (
	TypeRaw     EncodingType = 0x1 // TypeRaw stores values in their fixed-width binary form.
	TypeGorilla EncodingType = 0x3 // TypeGorilla stores float64 values with XOR compression.
	TypeBitPack EncodingType = 0x4 // TypeBitPack stores bounded integers with the minimum bit width.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	PrecisionSingle Precision = 0x1 // PrecisionSingle is a 32-bit IEEE 754 float.
	PrecisionDouble Precision = 0x2 // PrecisionDouble is a 64-bit IEEE 754 float.

	KindInteger FieldKind = 0x1 // KindInteger is a bounded integer field.
	KindFloat   FieldKind = 0x2 // KindFloat is a floating point field.
)

func (e EncodingType) String() string {
	switch e {
	case TypeRaw:
		return "Raw"
	case TypeGorilla:
		return "Gorilla"
	case TypeBitPack:
		return "BitPack"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (p Precision) String() string {
	switch p {
	case PrecisionSingle:
		return "single"
	case PrecisionDouble:
		return "double"
	default:
		return "unknown"
	}
}

func (k FieldKind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	default:
		return "Unknown"
	}
}

// ParseCompression converts a lower-case compression name to a CompressionType.
// The second return value is false for unknown names.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

// ParseEncoding converts a lower-case encoding name to an EncodingType.
// The second return value is false for unknown names.
func ParseEncoding(name string) (EncodingType, bool) {
	switch name {
	case "raw":
		return TypeRaw, true
	case "gorilla":
		return TypeGorilla, true
	case "bitpack":
		return TypeBitPack, true
	default:
		return 0, false
	}
}
