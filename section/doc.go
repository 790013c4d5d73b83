// Package section defines the fixed binary structures of a ptcloud file.
//
// # File Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ FileHeader (64 bytes, fixed, always little-endian)      │
//	│  - zero filled at create, patched at close              │
//	├─────────────────────────────────────────────────────────┤
//	│ Packet 0..N-1 (variable)                                │
//	│  - PacketHeader (24 + 4 × fields bytes)                 │
//	│  - one encoded and compressed payload per field         │
//	├─────────────────────────────────────────────────────────┤
//	│ Metadata (variable)                                     │
//	│  - JSON document tree, optionally compressed            │
//	└─────────────────────────────────────────────────────────┘
//
// # FileHeader Format
//
//	Bytes  | Field            | Type    | Description
//	-------|------------------|---------|-------------------------------------
//	0-3    | Magic            | [4]byte | "PTCF"
//	4-5    | VersionMajor     | uint16  |
//	6-7    | VersionMinor     | uint16  |
//	8-9    | Flag             | uint16  | bit 0 endianness, bits 4-7 metadata compression
//	10-11  | Reserved         | uint16  | must be 0
//	12-15  | PacketCount      | uint32  |
//	16-23  | DataOffset       | uint64  | first packet, always 64
//	24-31  | DataLength       | uint64  | total packet bytes
//	32-39  | MetadataOffset   | uint64  |
//	40-47  | MetadataLength   | uint64  |
//	48-55  | MetadataChecksum | uint64  | xxhash64 of the stored metadata bytes
//	56-63  | FileSize         | uint64  |
//
// A file whose header is still zero was not closed and must be treated as incomplete.
//
// # PacketHeader Format
//
// Packet headers use the byte order recorded in the file header flag.
//
//	Bytes  | Field         | Type      | Description
//	-------|---------------|-----------|----------------------------------------
//	0-3    | Magic         | [4]byte   | "PTPK"
//	4-7    | RecordCount   | uint32    | records in this packet
//	8-9    | FieldCount    | uint16    | prototype fields
//	10-11  | Reserved      | uint16    | must be 0
//	12-15  | PayloadLength | uint32    | sum of FieldSizes
//	16-23  | Checksum      | uint64    | xxhash64 of all field payloads
//	24-    | FieldSizes    | []uint32  | stored payload size per field
package section
