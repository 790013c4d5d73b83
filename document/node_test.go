package document

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/format"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) *ImageFile {
	t.Helper()

	f, err := Create(filepath.Join(t.TempDir(), "nodes.ptc"), WithSync(false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Abort() })

	return f
}

func TestStructureNode_Set(t *testing.T) {
	f := newTestFile(t)
	root := f.Root()

	name := NewStringNode(f, "scan")
	require.NoError(t, root.Set("name", name))
	require.Equal(t, Node(root), name.Parent())

	err := root.Set("name", NewStringNode(f, "other"))
	require.ErrorIs(t, err, errs.ErrPathDefined)

	err = root.Set("alias", name)
	require.ErrorIs(t, err, errs.ErrAlreadyHasParent)

	require.ErrorIs(t, root.Set("", NewStringNode(f, "x")), errs.ErrBadNodeValue)
	require.ErrorIs(t, root.Set("a/b", NewStringNode(f, "x")), errs.ErrBadNodeValue)

	require.Equal(t, []string{"name"}, root.Names())
	require.Equal(t, 1, root.Len())
}

func TestStructureNode_InsertionOrder(t *testing.T) {
	f := newTestFile(t)
	s := NewStructureNode(f)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, s.Set(name, NewIntegerNode(f, 1)))
	}

	require.Equal(t, []string{"zeta", "alpha", "mid"}, s.Names())

	w, err := s.wire()
	require.NoError(t, err)
	require.Equal(t, "zeta", w.Children[0].Name)
	require.Equal(t, "mid", w.Children[2].Name)
}

func TestStructureNode_Cycle(t *testing.T) {
	f := newTestFile(t)
	a := NewStructureNode(f)
	b := NewStructureNode(f)
	require.NoError(t, a.Set("b", b))

	require.ErrorIs(t, b.Set("a", a), errs.ErrAlreadyHasParent)
	require.ErrorIs(t, a.Set("root", f.Root()), errs.ErrAlreadyHasParent)
}

func TestNode_DifferentFile(t *testing.T) {
	f1 := newTestFile(t)
	f2 := newTestFile(t)

	err := f1.Root().Set("x", NewStringNode(f2, "foreign"))
	require.ErrorIs(t, err, errs.ErrDifferentImageFile)
}

func TestStructureNode_Lookup(t *testing.T) {
	f := newTestFile(t)
	data3D := NewVectorNode(f, true)
	scan := NewStructureNode(f)
	require.NoError(t, scan.Set("name", NewStringNode(f, "s0")))
	require.NoError(t, data3D.Append(scan))
	require.NoError(t, f.Root().Set("data3D", data3D))

	n, err := f.Root().Lookup("/data3D/0/name")
	require.NoError(t, err)
	require.Equal(t, "s0", n.(*StringNode).Value())

	_, err = f.Root().Lookup("data3D/1/name")
	require.ErrorIs(t, err, errs.ErrPathUndefined)
	_, err = f.Root().Lookup("missing")
	require.ErrorIs(t, err, errs.ErrPathUndefined)
}

func TestVectorNode_Homogeneous(t *testing.T) {
	f := newTestFile(t)
	v := NewVectorNode(f, false)
	require.NoError(t, v.Append(NewIntegerNode(f, 1)))
	require.NoError(t, v.Append(NewIntegerNode(f, 2)))
	require.ErrorIs(t, v.Append(NewStringNode(f, "x")), errs.ErrBadNodeValue)

	mixed := NewVectorNode(f, true)
	require.NoError(t, mixed.Append(NewIntegerNode(f, 1)))
	require.NoError(t, mixed.Append(NewStringNode(f, "x")))
	require.Equal(t, 2, mixed.Len())

	_, ok := mixed.At(2)
	require.False(t, ok)
}

func TestIntegerNode_Bounds(t *testing.T) {
	f := newTestFile(t)

	n, err := NewBoundedIntegerNode(f, 0, 0, 255)
	require.NoError(t, err)
	require.Equal(t, int64(255), n.Maximum())

	_, err = NewBoundedIntegerNode(f, 256, 0, 255)
	require.ErrorIs(t, err, errs.ErrValueOutOfBounds)

	_, err = NewBoundedIntegerNode(f, 0, 10, 1)
	require.ErrorIs(t, err, errs.ErrBadNodeValue)

	u := NewIntegerNode(f, -5)
	require.Equal(t, int64(math.MinInt64), u.Minimum())
}

func TestFloatNode(t *testing.T) {
	f := newTestFile(t)

	n, err := NewFloatNode(f, 1.5, format.PrecisionSingle)
	require.NoError(t, err)
	require.Equal(t, float64(math.MaxFloat32), n.Maximum())
	require.Equal(t, format.PrecisionSingle, n.Precision())

	_, err = NewDoubleNode(f, math.NaN())
	require.ErrorIs(t, err, errs.ErrBadNodeValue)
	_, err = NewDoubleNode(f, math.Inf(1))
	require.ErrorIs(t, err, errs.ErrBadNodeValue)

	_, err = NewFloatNode(f, 1e300, format.PrecisionSingle)
	require.ErrorIs(t, err, errs.ErrValueOutOfBounds)

	_, err = NewFloatNode(f, 0, format.Precision(9))
	require.ErrorIs(t, err, errs.ErrBadNodeValue)
}

func testPrototype(t *testing.T, f *ImageFile) *StructureNode {
	t.Helper()

	proto := NewStructureNode(f)
	x, err := NewFloatNode(f, 0, format.PrecisionSingle)
	require.NoError(t, err)
	ts, err := NewDoubleNode(f, 0)
	require.NoError(t, err)
	red, err := NewBoundedIntegerNode(f, 0, 0, 255)
	require.NoError(t, err)

	require.NoError(t, proto.Set("cartesianX", x))
	require.NoError(t, proto.Set("timeStamp", ts))
	require.NoError(t, proto.Set("colorRed", red))

	return proto
}

func TestCompressedVector_Prototype(t *testing.T) {
	f := newTestFile(t)

	_, err := NewCompressedVectorNode(f, NewStructureNode(f))
	require.ErrorIs(t, err, errs.ErrBadPrototype)

	bad := NewStructureNode(f)
	require.NoError(t, bad.Set("label", NewStringNode(f, "x")))
	_, err = NewCompressedVectorNode(f, bad)
	require.ErrorIs(t, err, errs.ErrBadPrototype)

	proto := testPrototype(t, f)
	cv, err := NewCompressedVectorNode(f, proto)
	require.NoError(t, err)
	require.Equal(t, Node(cv), proto.Parent())

	_, err = NewCompressedVectorNode(f, proto)
	require.ErrorIs(t, err, errs.ErrAlreadyHasParent)
}

func TestCompressedVector_Codecs(t *testing.T) {
	f := newTestFile(t)
	cv, err := NewCompressedVectorNode(f, testPrototype(t, f),
		Codec{Compression: format.CompressionZstd},
		Codec{Fields: []string{"timeStamp"}, Encoding: format.TypeGorilla, Compression: format.CompressionS2},
	)
	require.NoError(t, err)

	byName := map[string]fieldSpec{}
	for _, fs := range cv.fields {
		byName[fs.name] = fs
	}
	require.Equal(t, format.TypeRaw, byName["cartesianX"].encoding)
	require.Equal(t, format.CompressionZstd, byName["cartesianX"].compression)
	require.Equal(t, format.TypeGorilla, byName["timeStamp"].encoding)
	require.Equal(t, format.CompressionS2, byName["timeStamp"].compression)
	require.Equal(t, format.TypeBitPack, byName["colorRed"].encoding)
	require.Equal(t, format.CompressionZstd, byName["colorRed"].compression)

	invalid := [][]Codec{
		{{Fields: []string{"cartesianX"}, Encoding: format.TypeGorilla}},
		{{Fields: []string{"colorRed"}, Encoding: format.TypeRaw}},
		{{Fields: []string{"missing"}}},
		{{Fields: []string{"timeStamp"}}, {Fields: []string{"timeStamp"}}},
		{{}, {}},
		{{Compression: format.CompressionType(0x9)}},
	}
	for i, codecs := range invalid {
		_, err := NewCompressedVectorNode(f, testPrototype(t, f), codecs...)
		require.ErrorIs(t, err, errs.ErrBadPrototype, "case %d", i)
	}
}

func TestWriterOpen_BlocksMutation(t *testing.T) {
	f := newTestFile(t)
	cv, err := NewCompressedVectorNode(f, testPrototype(t, f))
	require.NoError(t, err)

	_, err = cv.Writer(nil)
	require.ErrorIs(t, err, errs.ErrPathUndefined)

	require.NoError(t, f.Root().Set("points", cv))

	bw, err := cv.Writer([]SourceBuffer{
		NewFloat64Buffer("cartesianX", make([]float64, 4)),
		NewFloat64Buffer("timeStamp", make([]float64, 4)),
		NewUint8Buffer("colorRed", make([]uint8, 4)),
	})
	require.NoError(t, err)
	require.True(t, f.IsWriterOpen())

	require.ErrorIs(t, f.Root().Set("late", NewStringNode(f, "x")), errs.ErrWriterOpen)
	require.ErrorIs(t, f.Close(), errs.ErrWriterOpen)
	require.True(t, f.IsOpen())

	_, err = cv.Writer(nil)
	require.ErrorIs(t, err, errs.ErrWriterOpen)

	require.NoError(t, bw.Close())
	require.False(t, f.IsWriterOpen())
	require.NoError(t, f.Root().Set("late", NewStringNode(f, "x")))

	_, err = cv.Writer(nil)
	require.ErrorIs(t, err, errs.ErrWriterAlreadyCreated)
}

func TestClosedFile_RejectsMutation(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.Close())
	require.False(t, f.IsOpen())

	require.ErrorIs(t, f.Root().Set("x", NewStringNode(f, "x")), errs.ErrImageFileClosed)
	require.NoError(t, f.Close())
	require.NoError(t, f.Abort())
}

func TestNodeType_String(t *testing.T) {
	require.Equal(t, "CompressedVector", TypeCompressedVector.String())
	require.Equal(t, "Structure", TypeStructure.String())
	require.Equal(t, "Unknown", NodeType(0).String())
}
