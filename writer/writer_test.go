package writer

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/ptcloud/document"
	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/format"
	"github.com/arloliu/ptcloud/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scanPath = "data3D/0"

func openWriter(t *testing.T, opts ...Option) (*Writer, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scan.ptc")
	w, err := New(append([]Option{WithSync(false)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, w.Open(path))
	require.Equal(t, StateOpen, w.State())

	return w, path
}

func writeAll(t *testing.T, w *Writer, points []Point) {
	t.Helper()

	for _, p := range points {
		require.NoError(t, w.WritePoint(p))
	}
}

func requireFloat(t *testing.T, f *testutil.File, path string, want float64) {
	t.Helper()

	got, ok := f.Float(path)
	require.True(t, ok, "missing float node %s", path)
	require.Equal(t, want, got, path)
}

func TestNew_RejectsBadOptions(t *testing.T) {
	_, err := New(WithBufferSize(0))
	require.ErrorIs(t, err, errs.ErrInvalidBufferSize)

	_, err = New(WithPacketRecords(-1))
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	_, err = New(WithTimeEncoding(format.TypeBitPack))
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	_, err = New(WithCompression(format.CompressionType(0x7f)))
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	_, err = New(WithOffset(0, math.NaN(), 0))
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	_, err = New(WithEmptyBounds(EmptyBounds(9)))
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	w, err := New()
	require.NoError(t, err)
	require.Equal(t, StateUnopened, w.State())
}

func TestWriter_FlushesAtCapacity(t *testing.T) {
	w, path := openWriter(t, WithBufferSize(1000))
	points := randomPoints(2500, 3)
	writeAll(t, w, points)

	stats := w.Stats()
	require.Equal(t, uint64(2500), stats.Points)
	require.Equal(t, 2, stats.Flushes)
	require.Equal(t, uint64(2000), stats.FlushedRecords)

	require.NoError(t, w.Close())
	require.Equal(t, StateClosed, w.State())

	stats = w.Stats()
	require.Equal(t, 3, stats.Flushes)
	require.Equal(t, uint64(2500), stats.FlushedRecords)
	require.Equal(t, uint32(1), stats.Packets)
	require.Len(t, stats.Compression, 8)
	require.Equal(t, int64(2500*4), stats.Compression[FieldCartesianX].OriginalSize)
	require.Equal(t, int64(2500*8), stats.Compression[FieldTimeStamp].OriginalSize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, info.Size(), stats.Bytes)

	f, err := testutil.ReadFile(path)
	require.NoError(t, err)
	cols, err := f.Points(scanPath + "/points")
	require.NoError(t, err)
	require.Equal(t, 2500, cols.Len())

	for i, p := range points {
		require.Equal(t, float64(float32(p.X)), cols.Floats[FieldCartesianX][i])
		require.Equal(t, float64(float32(p.Intensity)), cols.Floats[FieldIntensity][i])
		require.Equal(t, p.GPSTime, cols.Floats[FieldTimeStamp][i])
		require.Equal(t, int64(p.G), cols.Ints[FieldColorGreen][i])
	}
}

func TestWriter_SinglePointSummary(t *testing.T) {
	w, path := openWriter(t)
	require.NoError(t, w.WritePoint(Point{X: 1, Y: 2, Z: 3, R: 10, G: 20, B: 30, Intensity: 5, GPSTime: 10}))
	require.NoError(t, w.Close())

	f, err := testutil.ReadFile(path)
	require.NoError(t, err)

	bounds := scanPath + "/cartesianBounds/"
	requireFloat(t, f, bounds+"xMinimum", 1)
	requireFloat(t, f, bounds+"xMaximum", 1)
	requireFloat(t, f, bounds+"yMinimum", 2)
	requireFloat(t, f, bounds+"yMaximum", 2)
	requireFloat(t, f, bounds+"zMinimum", 3)
	requireFloat(t, f, bounds+"zMaximum", 3)
	requireFloat(t, f, scanPath+"/intensityLimits/intensityMinimum", 5)
	requireFloat(t, f, scanPath+"/intensityLimits/intensityMaximum", 5)
	requireFloat(t, f, scanPath+"/timeStampLimits/timeStampMinimum", 10)
	requireFloat(t, f, scanPath+"/timeStampLimits/timeStampMaximum", 10)

	cols, err := f.Points(scanPath + "/points")
	require.NoError(t, err)
	require.Equal(t, 1, cols.Len())
	require.Equal(t, []int64{10}, cols.Ints[FieldColorRed])
	require.Equal(t, []int64{30}, cols.Ints[FieldColorBlue])
}

func TestWriter_EmptySession(t *testing.T) {
	t.Run("omit", func(t *testing.T) {
		w, path := openWriter(t)
		require.NoError(t, w.Close())
		require.Equal(t, 0, w.Stats().Flushes)

		f, err := testutil.ReadFile(path)
		require.NoError(t, err)

		for _, name := range []string{"cartesianBounds", "intensityLimits", "timeStampLimits"} {
			_, ok := f.Node(scanPath + "/" + name)
			require.False(t, ok, name)
		}
		_, ok := f.Node(scanPath + "/colorLimits")
		require.True(t, ok)
		_, ok = f.Node(scanPath + "/pose/translation")
		require.True(t, ok)

		cols, err := f.Points(scanPath + "/points")
		require.NoError(t, err)
		require.Equal(t, 0, cols.Len())
		require.Empty(t, cols.Packets)

		n, ok := f.Node(scanPath + "/points")
		require.True(t, ok)
		_, ok = n.Points.Prototype.Child(FieldTimeStamp)
		require.True(t, ok)
	})

	t.Run("zero", func(t *testing.T) {
		w, path := openWriter(t, WithEmptyBounds(EmptyBoundsZero))
		require.NoError(t, w.Close())

		f, err := testutil.ReadFile(path)
		require.NoError(t, err)
		requireFloat(t, f, scanPath+"/cartesianBounds/xMinimum", 0)
		requireFloat(t, f, scanPath+"/cartesianBounds/zMaximum", 0)
		requireFloat(t, f, scanPath+"/intensityLimits/intensityMaximum", 0)
		requireFloat(t, f, scanPath+"/timeStampLimits/timeStampMinimum", 0)
	})
}

func TestWriter_BoundsMatchData(t *testing.T) {
	points := randomPoints(3000, 4)

	want := NewRanges()
	for _, p := range points {
		want.Update(p)
	}

	for _, size := range []int{1, 7, 999, 1000, 3000, 4000} {
		w, path := openWriter(t, WithBufferSize(size))
		writeAll(t, w, points)
		require.NoError(t, w.Close())
		require.Equal(t, want, w.Stats().Ranges, "buffer %d", size)

		f, err := testutil.ReadFile(path)
		require.NoError(t, err)
		requireFloat(t, f, scanPath+"/cartesianBounds/xMinimum", want.X.Min)
		requireFloat(t, f, scanPath+"/cartesianBounds/yMaximum", want.Y.Max)
		requireFloat(t, f, scanPath+"/intensityLimits/intensityMinimum", want.Intensity.Min)
		requireFloat(t, f, scanPath+"/timeStampLimits/timeStampMaximum", want.Time.Max)
	}
}

func TestWriter_OutputIndependentOfBufferSize(t *testing.T) {
	points := randomPoints(5000, 5)

	var reference []byte
	for _, size := range []int{1, 3, 1000, 4096, 6000} {
		w, path := openWriter(t,
			WithBufferSize(size),
			WithPacketRecords(1024),
			WithTimeEncoding(format.TypeGorilla),
		)
		writeAll(t, w, points)
		require.NoError(t, w.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		if reference == nil {
			reference = data
			continue
		}
		require.Equal(t, reference, data, "buffer %d", size)
	}
}

func TestWriter_CloseTwice(t *testing.T) {
	w, path := openWriter(t)
	writeAll(t, w, randomPoints(10, 6))
	require.NoError(t, w.Close())

	before, err := os.ReadFile(path)
	require.NoError(t, err)
	infoBefore, err := os.Stat(path)
	require.NoError(t, err)
	stats := w.Stats()

	require.NoError(t, w.Close())
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	infoAfter, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, before, after)
	require.Equal(t, infoBefore.ModTime(), infoAfter.ModTime())
	require.Equal(t, stats, w.Stats())
}

func TestWriter_WritePointOutsideSession(t *testing.T) {
	w, err := New(WithSync(false))
	require.NoError(t, err)

	require.NoError(t, w.WritePoint(Point{X: 1}))
	require.Equal(t, uint64(0), w.Stats().Points)
	require.True(t, w.Stats().Ranges.X.IsEmpty())
	require.NoError(t, w.Close())
	require.Equal(t, StateUnopened, w.State())

	path := filepath.Join(t.TempDir(), "scan.ptc")
	require.NoError(t, w.Open(path))
	require.NoError(t, w.WritePoint(Point{X: 2}))
	require.NoError(t, w.Close())

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, w.WritePoint(Point{X: 100}))
	require.Equal(t, uint64(1), w.Stats().Points)
	require.Equal(t, Range{Min: 2, Max: 2}, w.Stats().Ranges.X)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestWriter_ColorLimits(t *testing.T) {
	w, path := openWriter(t)
	writeAll(t, w, []Point{
		{R: 0, G: 128, B: 255},
		{R: 255, G: 0, B: 1},
		{R: 17, G: 255, B: 0},
	})
	require.NoError(t, w.Close())

	f, err := testutil.ReadFile(path)
	require.NoError(t, err)

	for _, c := range []string{"colorRed", "colorGreen", "colorBlue"} {
		lo, ok := f.Int(scanPath + "/colorLimits/" + c + "Minimum")
		require.True(t, ok)
		hi, ok := f.Int(scanPath + "/colorLimits/" + c + "Maximum")
		require.True(t, ok)
		require.Equal(t, int64(0), lo)
		require.Equal(t, int64(255), hi)
	}

	n, ok := f.Node(scanPath + "/points")
	require.True(t, ok)
	red, ok := n.Points.Prototype.Child(FieldColorRed)
	require.True(t, ok)
	require.NotNil(t, red.Integer)
	require.Equal(t, int64(0), red.Integer.Minimum)
	require.Equal(t, int64(255), red.Integer.Maximum)

	for _, c := range n.Points.Codecs {
		switch c.Field {
		case FieldColorRed, FieldColorGreen, FieldColorBlue:
			assert.Equal(t, "bitpack", c.Encoding, c.Field)
		case FieldTimeStamp:
			assert.Equal(t, "raw", c.Encoding)
		}
		assert.Equal(t, "zstd", c.Compression, c.Field)
	}

	cols, err := f.Points(scanPath + "/points")
	require.NoError(t, err)
	require.Equal(t, []int64{0, 255, 17}, cols.Ints[FieldColorRed])
	require.Equal(t, []int64{128, 0, 255}, cols.Ints[FieldColorGreen])
	require.Equal(t, []int64{255, 1, 0}, cols.Ints[FieldColorBlue])
}

func TestWriter_NonFiniteValuesStoredButNotBounded(t *testing.T) {
	w, path := openWriter(t, WithCompression(format.CompressionNone))
	writeAll(t, w, []Point{
		{X: math.NaN(), Y: 1, Z: 1, Intensity: math.Inf(1), GPSTime: 1},
		{X: 4, Y: 2, Z: 1, Intensity: 0.25, GPSTime: 2},
	})
	require.NoError(t, w.Close())

	f, err := testutil.ReadFile(path)
	require.NoError(t, err)
	requireFloat(t, f, scanPath+"/cartesianBounds/xMinimum", 4)
	requireFloat(t, f, scanPath+"/cartesianBounds/xMaximum", 4)
	requireFloat(t, f, scanPath+"/intensityLimits/intensityMaximum", 0.25)

	cols, err := f.Points(scanPath + "/points")
	require.NoError(t, err)
	require.True(t, math.IsNaN(cols.Floats[FieldCartesianX][0]))
	require.True(t, math.IsInf(cols.Floats[FieldIntensity][0], 1))
}

func TestWriter_Metadata(t *testing.T) {
	w, path := openWriter(t,
		WithOffset(100, -200, 3.5),
		WithScanName("north-wall"),
		WithDescription("test scan"),
		WithBigEndian(),
	)
	writeAll(t, w, randomPoints(5, 7))
	require.NoError(t, w.Close())

	f, err := testutil.ReadFile(path)
	require.NoError(t, err)
	require.True(t, f.Header.Flag.IsBigEndian())

	formatName, ok := f.String("formatName")
	require.True(t, ok)
	require.NotEmpty(t, formatName)
	guid, ok := f.String("guid")
	require.True(t, ok)
	require.NotEmpty(t, guid)
	coordinates, ok := f.String("coordinateMetadata")
	require.True(t, ok)
	require.Empty(t, coordinates)
	major, ok := f.Int("versionMajor")
	require.True(t, ok)
	require.Equal(t, int64(1), major)
	atomic, ok := f.Int("creationDateTime/isAtomicClockReferenced")
	require.True(t, ok)
	require.Equal(t, int64(0), atomic)
	requireFloat(t, f, "creationDateTime/dateTimeValue", 0)

	name, ok := f.String(scanPath + "/name")
	require.True(t, ok)
	require.Equal(t, "north-wall", name)
	description, ok := f.String(scanPath + "/description")
	require.True(t, ok)
	require.Equal(t, "test scan", description)
	scanGUID, ok := f.String(scanPath + "/guid")
	require.True(t, ok)
	require.Equal(t, DefaultScanGUID, scanGUID)

	requireFloat(t, f, scanPath+"/pose/translation/x", 100)
	requireFloat(t, f, scanPath+"/pose/translation/y", -200)
	requireFloat(t, f, scanPath+"/pose/translation/z", 3.5)

	cols, err := f.Points(scanPath + "/points")
	require.NoError(t, err)
	require.Equal(t, 5, cols.Len())
}

func TestWriter_FlushFailureIsSticky(t *testing.T) {
	w, path := openWriter(t, WithBufferSize(2))
	diskFull := errors.New("disk full")
	w.writeBlock = func(int) error { return diskFull }

	require.NoError(t, w.WritePoint(Point{X: 1}))
	err := w.WritePoint(Point{X: 2})
	require.ErrorIs(t, err, errs.ErrFlushFailed)
	require.ErrorIs(t, err, diskFull)
	require.Equal(t, StateFailed, w.State())

	again := w.WritePoint(Point{X: 3})
	require.Equal(t, err, again)
	require.Equal(t, uint64(2), w.Stats().Points)

	closeErr := w.Close()
	require.ErrorIs(t, closeErr, errs.ErrFlushFailed)
	require.Equal(t, StateClosed, w.State())
	require.NoFileExists(t, path)

	require.NoError(t, w.Close())
}

func TestWriter_FinalFlushFailureRemovesFile(t *testing.T) {
	w, path := openWriter(t, WithBufferSize(10))
	require.NoError(t, w.WritePoint(Point{X: 1}))
	w.writeBlock = func(int) error { return errors.New("short write") }

	err := w.Close()
	require.ErrorIs(t, err, errs.ErrFlushFailed)
	require.Equal(t, StateClosed, w.State())
	require.NoFileExists(t, path)
}

func TestWriter_OpenFailure(t *testing.T) {
	w, err := New(WithSync(false))
	require.NoError(t, err)

	missing := filepath.Join(t.TempDir(), "no-such-dir", "scan.ptc")
	require.Error(t, w.Open(missing))
	require.Equal(t, StateUnopened, w.State())
	require.NoFileExists(t, missing)

	path := filepath.Join(t.TempDir(), "scan.ptc")
	require.NoError(t, w.Open(path))
	require.ErrorIs(t, w.Open(path), errs.ErrWriterAlreadyOpen)
	require.NoError(t, w.Close())
	require.ErrorIs(t, w.Open(path), errs.ErrWriterAlreadyOpen)
}

func TestWriter_SinglePrecisionOverflowFails(t *testing.T) {
	tests := []struct {
		name  string
		point Point
	}{
		{name: "coordinate", point: Point{X: 1e39}},
		{name: "intensity", point: Point{Intensity: 1e300}},
		{name: "negative", point: Point{Z: -4e38}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, path := openWriter(t, WithBufferSize(1))

			err := w.WritePoint(tt.point)
			require.ErrorIs(t, err, errs.ErrFlushFailed)
			require.ErrorIs(t, err, errs.ErrValueOutOfBounds)
			require.Equal(t, StateFailed, w.State())

			require.ErrorIs(t, w.Close(), errs.ErrValueOutOfBounds)
			require.Equal(t, StateClosed, w.State())
			require.NoFileExists(t, path)
		})
	}
}

func TestWriter_SinglePrecisionOverflowOnClose(t *testing.T) {
	w, path := openWriter(t, WithBufferSize(10))
	writeAll(t, w, []Point{{X: 1}, {X: 1e39}})
	require.Equal(t, StateOpen, w.State())

	err := w.Close()
	require.ErrorIs(t, err, errs.ErrFlushFailed)
	require.ErrorIs(t, err, errs.ErrValueOutOfBounds)
	require.Equal(t, StateClosed, w.State())
	require.NoFileExists(t, path)
}

func TestWriter_FloatLimitsAccepted(t *testing.T) {
	w, path := openWriter(t)
	writeAll(t, w, []Point{{X: math.MaxFloat32, Intensity: -math.MaxFloat32}, {X: 1, Intensity: 1}})
	require.NoError(t, w.Close())

	f, err := testutil.ReadFile(path)
	require.NoError(t, err)
	requireFloat(t, f, scanPath+"/cartesianBounds/xMaximum", math.MaxFloat32)
}

func TestWriter_OpenFailureAfterCreate(t *testing.T) {
	w, err := New(WithSync(false))
	require.NoError(t, err)

	bindErr := errors.New("bind rejected")
	bind := w.bind
	w.bind = func(*document.CompressedVectorNode, []document.SourceBuffer) (*document.BlockWriter, error) {
		return nil, bindErr
	}

	path := filepath.Join(t.TempDir(), "scan.ptc")
	err = w.Open(path)
	require.ErrorIs(t, err, bindErr)
	require.Equal(t, StateUnopened, w.State())
	require.NoFileExists(t, path)
	require.NoError(t, w.WritePoint(Point{X: 1}))
	require.NoError(t, w.Close())

	w.bind = bind
	require.NoError(t, w.Open(path))
	require.Equal(t, StateOpen, w.State())
	writeAll(t, w, []Point{{X: 1}, {X: 2}})
	require.NoError(t, w.Close())
	require.FileExists(t, path)
	require.Equal(t, uint64(2), w.Stats().FlushedRecords)
}

func TestWriter_Abort(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		w, path := openWriter(t, WithBufferSize(2))
		writeAll(t, w, []Point{{X: 1}, {X: 2}, {X: 3}})

		require.NoError(t, w.Abort())
		require.Equal(t, StateClosed, w.State())
		require.NoFileExists(t, path)
		require.NoError(t, w.Close())
		require.NoError(t, w.Abort())
	})

	t.Run("failed", func(t *testing.T) {
		w, path := openWriter(t, WithBufferSize(1))
		w.writeBlock = func(int) error { return errors.New("disk full") }
		require.ErrorIs(t, w.WritePoint(Point{X: 1}), errs.ErrFlushFailed)

		require.NoError(t, w.Abort())
		require.Equal(t, StateClosed, w.State())
		require.NoFileExists(t, path)
	})

	t.Run("unopened", func(t *testing.T) {
		w, err := New()
		require.NoError(t, err)
		require.NoError(t, w.Abort())
		require.Equal(t, StateUnopened, w.State())
	})
}

func TestState_String(t *testing.T) {
	require.Equal(t, "unopened", StateUnopened.String())
	require.Equal(t, "open", StateOpen.String())
	require.Equal(t, "failed", StateFailed.String())
	require.Equal(t, "closed", StateClosed.String())
	require.Equal(t, "unknown", State(42).String())
	require.Equal(t, "omit", EmptyBoundsOmit.String())
	require.Equal(t, "zero", EmptyBoundsZero.String())
}
