package section

import (
	"testing"

	"github.com/arloliu/ptcloud/endian"
	"github.com/arloliu/ptcloud/errs"
	"github.com/stretchr/testify/require"
)

func TestPacketHeader_RoundTrip(t *testing.T) {
	engines := []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()}

	for _, engine := range engines {
		h := PacketHeader{
			RecordCount:   4096,
			PayloadLength: 10 + 20 + 30,
			Checksum:      0x0123456789abcdef,
			FieldSizes:    []uint32{10, 20, 30},
		}

		b := h.AppendTo(nil, engine)
		require.Len(t, b, h.Size())
		require.Equal(t, PacketHeaderFixedSize+12, h.Size())
		require.Equal(t, PacketMagic, string(b[:4]))

		// trailing payload bytes are ignored
		parsed, err := ParsePacketHeader(append(b, 0xff, 0xff), engine)
		require.NoError(t, err)
		require.Equal(t, h, parsed)
	}
}

func TestParsePacketHeader_Errors(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	valid := (&PacketHeader{RecordCount: 1, PayloadLength: 4, FieldSizes: []uint32{4}}).AppendTo(nil, engine)

	_, err := ParsePacketHeader(valid[:8], engine)
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)

	_, err = ParsePacketHeader(valid[:PacketHeaderFixedSize], engine)
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)

	badMagic := append([]byte(nil), valid...)
	badMagic[0] = 'X'
	_, err = ParsePacketHeader(badMagic, engine)
	require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)

	noFields := (&PacketHeader{RecordCount: 1}).AppendTo(nil, engine)
	_, err = ParsePacketHeader(noFields, engine)
	require.ErrorIs(t, err, errs.ErrInvalidFieldCount)

	badSum := (&PacketHeader{RecordCount: 1, PayloadLength: 9, FieldSizes: []uint32{4}}).AppendTo(nil, engine)
	_, err = ParsePacketHeader(badSum, engine)
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}
