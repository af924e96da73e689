package wind

import (
	"sort"
	"time"

	"github.com/matteodefelice/pypsa-entsoe/timeseries"
)

// The power curve is resampled onto a fixed fine grid before lookup:
// 501 evenly spaced speeds from 0 to 50 m/s, step 0.1.
const (
	gridMaxSpeed = 50.0
	gridPoints   = 501
)

// grid is a power curve interpolated onto the fixed fine speed grid.
type grid struct {
	speeds []float64
	cf     []float64
}

func newGrid(curve Curve) grid {
	g := grid{
		speeds: make([]float64, gridPoints),
		cf:     make([]float64, gridPoints),
	}
	for i := range g.speeds {
		g.speeds[i] = gridMaxSpeed * float64(i) / float64(gridPoints-1)
		g.cf[i] = curve.interpolate(g.speeds[i])
	}
	return g
}

// interpolate evaluates the curve at speed v with boundary clamping:
// below the first sample it returns the first capacity factor, above the
// last sample the last one.
func (c Curve) interpolate(v float64) float64 {
	if v <= c[0].Speed {
		return c[0].CF
	}
	last := c[len(c)-1]
	if v >= last.Speed {
		return last.CF
	}
	// First sample with speed > v; its predecessor starts the segment.
	hi := sort.Search(len(c), func(i int) bool { return c[i].Speed > v })
	lo := hi - 1
	frac := (v - c[lo].Speed) / (c[hi].Speed - c[lo].Speed)
	return c[lo].CF*(1-frac) + c[hi].CF*frac
}

// capacityFactor maps one wind-speed observation through the grid. The
// observation is digitized right-open (bin i satisfies
// speeds[i-1] <= v < speeds[i]) and the capacity factor is the average of
// the grid values at the bin's lower and upper edge. Observations at or
// above 50 m/s clamp to the top bin, negative ones to the bottom bin;
// out-of-range input never fails.
func (g grid) capacityFactor(v float64) float64 {
	idx := sort.Search(len(g.speeds), func(i int) bool { return g.speeds[i] > v })
	if idx >= gridPoints {
		idx = gridPoints - 1
	}
	if idx == 0 {
		idx = 1
	}
	return 0.5 * (g.cf[idx-1] + g.cf[idx])
}

// Convert maps a wind-speed series to a capacity-factor series on the same
// timestamps. Output order and length always match the input.
func Convert(ws timeseries.Series, curve Curve) (timeseries.Series, error) {
	return ConvertOn(ws, curve, nil)
}

// ConvertOn is Convert with the output placed on a caller-supplied
// timeline instead of the input series' own timestamps. A nil timeline
// keeps the input timestamps.
func ConvertOn(ws timeseries.Series, curve Curve, timeline []time.Time) (timeseries.Series, error) {
	if err := curve.validate(); err != nil {
		return timeseries.Series{}, err
	}
	g := newGrid(curve)

	points := make([]timeseries.Point, ws.Len())
	for i := 0; i < ws.Len(); i++ {
		p := ws.At(i)
		points[i] = timeseries.Point{Time: p.Time, Value: g.capacityFactor(p.Value)}
	}
	out, err := timeseries.Like(ws, points)
	if err != nil {
		return timeseries.Series{}, err
	}
	if timeline != nil {
		return out.WithTimes(timeline)
	}
	return out, nil
}
