// Package endian provides the byte order engines used by the ptcloud binary sections.
//
// Every header, packet header and fixed-width column payload is written through an
// EndianEngine, which joins binary.ByteOrder (Put/read at an index) and
// binary.AppendByteOrder (append to a growing slice). Files default to little-endian;
// the chosen order is recorded in the file header flags.
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, math.Float32bits(x))
//
// The engines are stateless and safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// NativeEngine returns the byte order of the host.
func NativeEngine() EndianEngine {
	var marker uint16 = 0x0100

	// the lowest address holds 0x01 only on big-endian hosts
	b := (*[2]byte)(unsafe.Pointer(&marker))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNative reports whether engine matches the host byte order.
func IsNative(engine EndianEngine) bool {
	return engine == NativeEngine()
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
