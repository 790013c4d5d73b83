// Package compress provides the compression codecs applied to packet column payloads
// and to the metadata section of a ptcloud file.
//
// Compression is the second stage of the block pipeline: each field column of a packet
// is first encoded (raw, Gorilla or bit-packed, see package encoding) and the encoded
// bytes are then compressed with the codec selected for the field.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): returns the input unchanged.
//   - Zstd (format.CompressionZstd): best ratio, moderate speed. Uses
//     github.com/klauspost/compress/zstd by default, or github.com/valyala/gozstd
//     when built with the "gozstd" build tag and cgo enabled.
//   - S2 (format.CompressionS2): github.com/klauspost/compress/s2, fast with a fair ratio.
//   - LZ4 (format.CompressionLZ4): github.com/pierrec/lz4/v4 block format, fastest.
//
// Raw float32 coordinates compress poorly with LZ4 and S2 because the low mantissa
// bytes are noisy; Zstd usually wins for coordinates while the bit-packed color
// columns compress well with any codec.
//
// # Usage
//
//	codec, err := compress.CreateCodec(format.CompressionZstd, "cartesianX")
//	if err != nil {
//	    return err
//	}
//	payload, err := codec.Compress(encoded)
//
// All codecs are stateless values backed by pooled encoders and are safe for concurrent use.
package compress
