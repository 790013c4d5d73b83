// Package pts reads PTS-style point text.
//
// Every data line holds "x y z intensity r g b" optionally followed by a GPS time.
// The first data line may instead be a single integer, the declared point count.
// Blank lines and lines starting with '#' are skipped. Color values outside 0..255
// are clamped.
package pts

import (
	"bytes"
	"fmt"
	"iter"
	"math"
	"os"
	"strconv"

	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/writer"
	"github.com/edsrzf/mmap-go"
)

// File is a read-only mapping of a point text file.
type File struct {
	f    *os.File
	data mmap.MMap
}

// Open maps the file at path read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	// zero-length files cannot be mapped
	if info.Size() == 0 {
		return &File{f: f}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("map %s: %w", path, err)
	}

	return &File{f: f, data: m}, nil
}

// Bytes returns the mapped content. The slice is valid until Close.
func (f *File) Bytes() []byte { return f.data }

// Points parses the mapped content.
func (f *File) Points() iter.Seq2[writer.Point, error] { return Parse(f.data) }

// DeclaredCount returns the count line of the mapped content, if any.
func (f *File) DeclaredCount() (int64, bool) { return DeclaredCount(f.data) }

// Close unmaps and closes the file.
func (f *File) Close() error {
	if f.data != nil {
		if err := f.data.Unmap(); err != nil {
			return err
		}
		f.data = nil
	}
	if f.f != nil {
		err := f.f.Close()
		f.f = nil

		return err
	}

	return nil
}

// Parse yields the points of data in order. Iteration stops after the first error,
// which carries the 1-based line number and wraps errs.ErrMalformedInput.
func Parse(data []byte) iter.Seq2[writer.Point, error] {
	return func(yield func(writer.Point, error) bool) {
		first := true
		for lineNo, line := range lines(data) {
			if first {
				first = false
				if isCountLine(line) {
					continue
				}
			}

			p, err := parseLine(line)
			if err != nil {
				yield(writer.Point{}, fmt.Errorf("%w: line %d: %w", errs.ErrMalformedInput, lineNo, err))
				return
			}
			if !yield(p, nil) {
				return
			}
		}
	}
}

// DeclaredCount returns the value of the count line when the first data line is one.
func DeclaredCount(data []byte) (int64, bool) {
	for _, line := range lines(data) {
		if !isCountLine(line) {
			return 0, false
		}
		n, _ := strconv.ParseInt(string(line), 10, 64)

		return n, true
	}

	return 0, false
}

// lines yields trimmed data lines with their 1-based line numbers, skipping blank
// and comment lines.
func lines(data []byte) iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		lineNo := 0
		for len(data) > 0 {
			lineNo++
			var line []byte
			if i := bytes.IndexByte(data, '\n'); i >= 0 {
				line, data = data[:i], data[i+1:]
			} else {
				line, data = data, nil
			}

			line = bytes.TrimSpace(line)
			if len(line) == 0 || line[0] == '#' {
				continue
			}
			if !yield(lineNo, line) {
				return
			}
		}
	}
}

func isCountLine(line []byte) bool {
	if bytes.ContainsAny(line, " \t,") {
		return false
	}
	n, err := strconv.ParseInt(string(line), 10, 64)

	return err == nil && n >= 0
}

func parseLine(line []byte) (writer.Point, error) {
	var fields [8][]byte
	n := 0
	for tok := range bytes.FieldsFuncSeq(line, isSeparator) {
		if n == len(fields) {
			return writer.Point{}, fmt.Errorf("expected 7 or 8 fields, got more than %d", len(fields))
		}
		fields[n] = tok
		n++
	}
	if n != 7 && n != 8 {
		return writer.Point{}, fmt.Errorf("expected 7 or 8 fields, got %d", n)
	}

	var vals [8]float64
	for i := range n {
		v, err := strconv.ParseFloat(string(fields[i]), 64)
		if err != nil {
			return writer.Point{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		vals[i] = v
	}

	return writer.Point{
		X:         vals[0],
		Y:         vals[1],
		Z:         vals[2],
		Intensity: vals[3],
		R:         clampColor(vals[4]),
		G:         clampColor(vals[5]),
		B:         clampColor(vals[6]),
		GPSTime:   vals[7],
	}, nil
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '\t' || r == ',' || r == '\r'
}

func clampColor(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint8:
		return math.MaxUint8
	default:
		return uint8(math.Round(v))
	}
}
