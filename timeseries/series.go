// Package timeseries holds the labelled time-series shape shared by every
// transform in this module: an ordered sequence of (timestamp, value) pairs
// with strictly increasing timestamps.
//
// A series is either zone-qualified or naive. Naive series come from sources
// that ship timestamps without any zone information (reanalysis CSV extracts,
// archive files); their times are stored in UTC but carry no claim about the
// actual zone. Mixing naive and zone-qualified series in one computation is
// an error, caught by CheckAligned.
package timeseries

import (
	"fmt"
	"sort"
	"time"
)

// Point is a single observation.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is an ordered sequence of points. Timestamps are strictly
// increasing; construct one through New or NewNaive so the invariant holds.
type Series struct {
	points []Point
	naive  bool
}

// New builds a zone-qualified series. Points must be sorted by time with no
// duplicate timestamps.
func New(points []Point) (Series, error) {
	if err := checkOrdered(points); err != nil {
		return Series{}, err
	}
	return Series{points: points}, nil
}

// NewNaive builds a series whose timestamps carry no zone information.
func NewNaive(points []Point) (Series, error) {
	if err := checkOrdered(points); err != nil {
		return Series{}, err
	}
	return Series{points: points, naive: true}, nil
}

func checkOrdered(points []Point) error {
	for i := 1; i < len(points); i++ {
		if !points[i].Time.After(points[i-1].Time) {
			return fmt.Errorf("timeseries: timestamps not strictly increasing at index %d (%s then %s)",
				i, points[i-1].Time, points[i].Time)
		}
	}
	return nil
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.points) }

// Naive reports whether the series' timestamps carry no zone information.
func (s Series) Naive() bool { return s.naive }

// At returns the i-th point.
func (s Series) At(i int) Point { return s.points[i] }

// Times returns a copy of the timestamps in order.
func (s Series) Times() []time.Time {
	out := make([]time.Time, len(s.points))
	for i, p := range s.points {
		out[i] = p.Time
	}
	return out
}

// Values returns a copy of the values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// ValueAt returns the most recent value at or before t, the forward-fill
// primitive used when aligning two series sampled on different cadences.
// The second return is false when t precedes the first observation.
func (s Series) ValueAt(t time.Time) (float64, bool) {
	idx := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].Time.After(t)
	})
	if idx == 0 {
		return 0, false
	}
	return s.points[idx-1].Value, true
}

// TopOfHour returns a series keeping only observations on the top of the
// hour (minute == 0). Sub-hourly sources are pre-filtered this way before
// entering any of the transforms.
func (s Series) TopOfHour() Series {
	var kept []Point
	for _, p := range s.points {
		if p.Time.Minute() == 0 {
			kept = append(kept, p)
		}
	}
	return Series{points: kept, naive: s.naive}
}

// Slice returns the points in [r.Start, r.End).
func (s Series) Slice(r TimeRange) Series {
	start := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Time.Before(r.Start)
	})
	end := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Time.Before(r.End)
	})
	if start >= end {
		return Series{naive: s.naive}
	}
	out := make([]Point, end-start)
	copy(out, s.points[start:end])
	return Series{points: out, naive: s.naive}
}

// WithTimes returns a series carrying this series' values on a replacement
// timeline. Used by the transforms' *On variants where the caller supplies
// an alternate output index.
func (s Series) WithTimes(timeline []time.Time) (Series, error) {
	if len(timeline) != len(s.points) {
		return Series{}, fmt.Errorf("timeseries: timeline has %d entries for %d values", len(timeline), len(s.points))
	}
	points := make([]Point, len(timeline))
	for i, t := range timeline {
		points[i] = Point{Time: t, Value: s.points[i].Value}
	}
	if err := checkOrdered(points); err != nil {
		return Series{}, err
	}
	return Series{points: points, naive: s.naive}, nil
}

// Like builds a series from points carrying the same zone class as ref.
// Transforms use it so a naive input yields a naive output.
func Like(ref Series, points []Point) (Series, error) {
	if ref.naive {
		return NewNaive(points)
	}
	return New(points)
}

// CheckAligned verifies that two input series can enter one computation:
// both non-empty, equal length, and the same zone class (naive with naive,
// zone-qualified with zone-qualified).
func CheckAligned(a, b Series) error {
	if a.Len() == 0 || b.Len() == 0 {
		return fmt.Errorf("timeseries: empty input series")
	}
	if a.Len() != b.Len() {
		return fmt.Errorf("timeseries: series lengths differ (%d vs %d)", a.Len(), b.Len())
	}
	if a.naive != b.naive {
		return fmt.Errorf("timeseries: cannot mix naive and zone-qualified series")
	}
	return nil
}

// TimeRange is a half-open [Start, End) query window.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Validate checks that the range is non-zero and ordered.
func (r TimeRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("timeseries: time range has zero bound")
	}
	if !r.Start.Before(r.End) {
		return fmt.Errorf("timeseries: time range start %s not before end %s", r.Start, r.End)
	}
	return nil
}
