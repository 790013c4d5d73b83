package ptcloud

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/format"
	"github.com/arloliu/ptcloud/internal/testutil"
	"github.com/arloliu/ptcloud/writer"
	"github.com/stretchr/testify/require"
)

func samplePoints(n int) []Point {
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{
			X:         float64(i),
			Y:         float64(-i),
			Z:         float64(i % 7),
			R:         uint8(i % 256),
			G:         uint8((i * 3) % 256),
			B:         uint8((i * 7) % 256),
			Intensity: float64(i%100) / 100,
			GPSTime:   1000 + float64(i)/8,
		}
	}

	return points
}

func TestWritePoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.ptc")
	points := samplePoints(1500)

	stats, err := WritePoints(path, points,
		writer.WithSync(false),
		writer.WithBufferSize(500),
		writer.WithCompression(format.CompressionS2),
	)
	require.NoError(t, err)
	require.Equal(t, uint64(1500), stats.Points)
	require.Equal(t, 3, stats.Flushes)

	f, err := testutil.ReadFile(path)
	require.NoError(t, err)
	cols, err := f.Points("data3D/0/points")
	require.NoError(t, err)
	require.Equal(t, 1500, cols.Len())
	require.Equal(t, 1499.0, cols.Floats[writer.FieldCartesianX][1499])

	xMax, ok := f.Float("data3D/0/cartesianBounds/xMaximum")
	require.True(t, ok)
	require.Equal(t, 1499.0, xMax)
}

func TestWriteFile_FromSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.ptc")
	points := samplePoints(100)

	stats, err := WriteFile(path, slices.Values(points[:10]), writer.WithSync(false))
	require.NoError(t, err)
	require.Equal(t, uint64(10), stats.Points)
	require.FileExists(t, path)
}

func TestWriteFile_Errors(t *testing.T) {
	_, err := WriteFile(filepath.Join(t.TempDir(), "scan.ptc"), slices.Values(samplePoints(1)),
		writer.WithBufferSize(0))
	require.ErrorIs(t, err, errs.ErrInvalidBufferSize)

	missing := filepath.Join(t.TempDir(), "missing", "scan.ptc")
	_, err = WriteFile(missing, slices.Values(samplePoints(1)), writer.WithSync(false))
	require.ErrorIs(t, err, os.ErrNotExist)
	require.NoFileExists(t, missing)

	path := filepath.Join(t.TempDir(), "overflow.ptc")
	points := append(samplePoints(3), Point{Y: -1e39})
	_, err = WriteFile(path, slices.Values(points), writer.WithSync(false), writer.WithBufferSize(2))
	require.ErrorIs(t, err, errs.ErrFlushFailed)
	require.ErrorIs(t, err, errs.ErrValueOutOfBounds)
	require.NoFileExists(t, path)
}

func TestNewWriter(t *testing.T) {
	w, err := NewWriter(writer.WithScanName("lobby"))
	require.NoError(t, err)
	require.Equal(t, writer.StateUnopened, w.State())
}
