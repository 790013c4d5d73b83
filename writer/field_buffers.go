package writer

import (
	"fmt"

	"github.com/arloliu/ptcloud/document"
	"github.com/arloliu/ptcloud/errs"
)

// FieldBuffers stages records column by column before they are handed to the block
// writer. All columns share one cursor and one fixed capacity.
//
// Slots past Len keep stale values from earlier batches; readers stop at Len.
type FieldBuffers struct {
	x, y, z   []float64
	r, g, b   []uint8
	intensity []float64
	time      []float64
	n         int
}

// NewFieldBuffers allocates the eight columns with the given capacity.
//
// Returns:
//   - *FieldBuffers: Empty buffers
//   - error: ErrInvalidBufferSize if capacity < 1
func NewFieldBuffers(capacity int) (*FieldBuffers, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidBufferSize, capacity)
	}

	return &FieldBuffers{
		x:         make([]float64, capacity),
		y:         make([]float64, capacity),
		z:         make([]float64, capacity),
		r:         make([]uint8, capacity),
		g:         make([]uint8, capacity),
		b:         make([]uint8, capacity),
		intensity: make([]float64, capacity),
		time:      make([]float64, capacity),
	}, nil
}

// Append stores p at the cursor and advances it.
// It returns ErrBufferFull without modification when Len() == Cap().
func (fb *FieldBuffers) Append(p Point) error {
	if fb.n == len(fb.x) {
		return errs.ErrBufferFull
	}

	i := fb.n
	fb.x[i], fb.y[i], fb.z[i] = p.X, p.Y, p.Z
	fb.r[i], fb.g[i], fb.b[i] = p.R, p.G, p.B
	fb.intensity[i] = p.Intensity
	fb.time[i] = p.GPSTime
	fb.n++

	return nil
}

// Len returns the number of staged records.
func (fb *FieldBuffers) Len() int { return fb.n }

// Cap returns the fixed capacity.
func (fb *FieldBuffers) Cap() int { return len(fb.x) }

// Full reports whether Len() == Cap().
func (fb *FieldBuffers) Full() bool { return fb.n == len(fb.x) }

// Reset moves the cursor back to zero. Slot contents are left in place.
func (fb *FieldBuffers) Reset() { fb.n = 0 }

// At returns the staged record at index i < Len().
func (fb *FieldBuffers) At(i int) (Point, bool) {
	if i < 0 || i >= fb.n {
		return Point{}, false
	}

	return Point{
		X: fb.x[i], Y: fb.y[i], Z: fb.z[i],
		R: fb.r[i], G: fb.g[i], B: fb.b[i],
		Intensity: fb.intensity[i],
		GPSTime:   fb.time[i],
	}, true
}

// SourceBuffers binds every column to its prototype field name. The block writer
// reads the columns in place.
func (fb *FieldBuffers) SourceBuffers() []document.SourceBuffer {
	return []document.SourceBuffer{
		document.NewFloat64Buffer(FieldCartesianX, fb.x),
		document.NewFloat64Buffer(FieldCartesianY, fb.y),
		document.NewFloat64Buffer(FieldCartesianZ, fb.z),
		document.NewUint8Buffer(FieldColorRed, fb.r),
		document.NewUint8Buffer(FieldColorGreen, fb.g),
		document.NewUint8Buffer(FieldColorBlue, fb.b),
		document.NewFloat64Buffer(FieldIntensity, fb.intensity),
		document.NewFloat64Buffer(FieldTimeStamp, fb.time),
	}
}
