package compress

// ZstdCompressor compresses with Zstandard.
//
// The implementation is selected at build time: the pure Go
// github.com/klauspost/compress/zstd by default, or the cgo binding
// github.com/valyala/gozstd with `-tags gozstd`. Both produce standard zstd frames, so
// files are readable regardless of the build used to write them.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
