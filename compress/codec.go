package compress

import (
	"fmt"

	"github.com/arloliu/ptcloud/format"
)

// Compressor compresses one encoded column or metadata payload.
type Compressor interface {
	// Compress compresses data and returns the result.
	//
	// The input slice is not modified. The returned slice is owned by the caller,
	// except for the no-op codec which returns data itself.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	// Decompress decompresses data produced by the matching Compressor.
	//
	// Returns an error if the input is corrupted or was produced by another algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats accumulates payload sizes before and after compression.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used.
	Algorithm format.CompressionType
	// OriginalSize is the total encoded size before compression.
	OriginalSize int64
	// CompressedSize is the total size after compression.
	CompressedSize int64
}

// Add records one payload compression.
func (s *CompressionStats) Add(original int, compressed int) {
	s.OriginalSize += int64(original)
	s.CompressedSize += int64(compressed)
}

// CompressionRatio returns compressed size / original size, or 0 when nothing was recorded.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec returns the Codec for compressionType.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of what will be compressed, used in the error message
//
// Returns:
//   - Codec: Codec for the requested type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	codec, ok := builtinCodecs[compressionType]
	if !ok {
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}

	return codec, nil
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}
