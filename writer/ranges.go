package writer

import "math"

// Range is a running [Min, Max] over finite values. A fresh Range is empty, with
// Min = +Inf and Max = -Inf.
type Range struct {
	Min float64
	Max float64
}

// EmptyRange returns a range that has observed nothing.
func EmptyRange() Range {
	return Range{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Update widens r to include v. NaN and infinite values are ignored.
func (r *Range) Update(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

// IsEmpty reports whether no finite value was observed.
func (r Range) IsEmpty() bool {
	return r.Min > r.Max
}

// Merge returns the smallest range covering r and o.
func (r Range) Merge(o Range) Range {
	return Range{Min: math.Min(r.Min, o.Min), Max: math.Max(r.Max, o.Max)}
}

// Ranges tracks the extents of the numeric point fields over a whole stream.
// Colors are not tracked; their limits are the fixed field bounds.
type Ranges struct {
	X         Range
	Y         Range
	Z         Range
	Intensity Range
	Time      Range
}

// NewRanges returns empty ranges.
func NewRanges() Ranges {
	return Ranges{
		X:         EmptyRange(),
		Y:         EmptyRange(),
		Z:         EmptyRange(),
		Intensity: EmptyRange(),
		Time:      EmptyRange(),
	}
}

// Update widens every range with the fields of p.
func (r *Ranges) Update(p Point) {
	r.X.Update(p.X)
	r.Y.Update(p.Y)
	r.Z.Update(p.Z)
	r.Intensity.Update(p.Intensity)
	r.Time.Update(p.GPSTime)
}

// Merge combines the ranges of two disjoint parts of a stream.
func (r Ranges) Merge(o Ranges) Ranges {
	return Ranges{
		X:         r.X.Merge(o.X),
		Y:         r.Y.Merge(o.Y),
		Z:         r.Z.Merge(o.Z),
		Intensity: r.Intensity.Merge(o.Intensity),
		Time:      r.Time.Merge(o.Time),
	}
}
