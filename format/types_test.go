package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressionType_String(t *testing.T) {
	require.Equal(t, "None", CompressionNone.String())
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "S2", CompressionS2.String())
	require.Equal(t, "LZ4", CompressionLZ4.String())
	require.Equal(t, "Unknown", CompressionType(0x9).String())
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		name string
		want CompressionType
		ok   bool
	}{
		{"none", CompressionNone, true},
		{"zstd", CompressionZstd, true},
		{"s2", CompressionS2, true},
		{"lz4", CompressionLZ4, true},
		{"gzip", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCompression(tt.name)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseEncoding(t *testing.T) {
	enc, ok := ParseEncoding("gorilla")
	require.True(t, ok)
	require.Equal(t, TypeGorilla, enc)
	require.Equal(t, "Gorilla", enc.String())

	_, ok = ParseEncoding("delta")
	require.False(t, ok)
}

func TestPrecisionAndKind_String(t *testing.T) {
	require.Equal(t, "single", PrecisionSingle.String())
	require.Equal(t, "double", PrecisionDouble.String())
	require.Equal(t, "Integer", KindInteger.String())
	require.Equal(t, "Float", KindFloat.String())
}
