package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// s2MaxDecodedSize bounds the size a packet block may claim in its header.
const s2MaxDecodedSize = 128 * 1024 * 1024

// S2Compressor compresses with the S2 block format.
//
// Packets are written once and read many times, so blocks are encoded with
// s2.EncodeBetter. Any S2 block decodes regardless of the encoder level.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses data into a single S2 block. Empty input yields an empty block.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n := s2.MaxEncodedLen(len(data))
	if n < 0 {
		return nil, fmt.Errorf("s2: %d bytes exceed the block limit", len(data))
	}

	return s2.EncodeBetter(make([]byte, n), data), nil
}

// Decompress decompresses an S2 block produced by Compress.
//
// The decoded size is read from the block header and rejected above 128MB before
// any output is allocated.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	size, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2: %w", err)
	}
	if size > s2MaxDecodedSize {
		return nil, fmt.Errorf("s2: block claims %d bytes, limit %d", size, s2MaxDecodedSize)
	}

	out, err := s2.Decode(make([]byte, size), data)
	if err != nil {
		return nil, fmt.Errorf("s2: %w", err)
	}

	return out, nil
}
