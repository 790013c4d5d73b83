// Package encoding implements the column encodings of ptcloud packets.
//
// A packet stores each prototype field as one column. The column is first encoded by
// one of the encoders below and then compressed by a codec from package compress.
//
// # Encodings
//
//   - Float32RawEncoder: IEEE 754 single precision, 4 bytes per value. Used for
//     cartesianX/Y/Z and intensity.
//   - Float64RawEncoder: IEEE 754 double precision, 8 bytes per value. The default for
//     timeStamp.
//   - Float64GorillaEncoder: XOR compression for slowly changing doubles such as GPS
//     time, selected with format.TypeGorilla.
//   - BitPackEncoder: bounded integers stored as value-minimum with the fewest bits that
//     hold maximum-minimum. Colors in [0, 255] take exactly 8 bits per value.
//
// Fixed-width encodings honor the endian.EndianEngine of the file; bit streams are
// always written most significant bit first.
//
// # Lifecycle
//
// An encoder accumulates one packet worth of values. The packet writer reads Bytes,
// calls Reset to start the next packet on the same pooled buffer, and calls Finish once
// the stream is done to return the buffer to its pool.
//
// Decoders mirror every encoder. They are stateless values used by verification tools
// and tests.
package encoding
