// Package demand estimates hourly electricity demand with a fitted
// regression on temperature, surface irradiance and calendar features.
package demand

import (
	"fmt"
	"time"

	"github.com/matteodefelice/pypsa-entsoe/timeseries"
)

// Coefficients holds the fitted regression weights. The feature set is
// closed, so it is a fixed-field record rather than a keyed map.
//
// Hour[0] is the omitted reference category (midnight) and stays zero in a
// properly fitted set; Weekday is indexed Monday=0 through Sunday=6 and
// carries a weight for every day, matching the convention the coefficients
// were fitted under.
type Coefficients struct {
	Cool    float64 // per cooling degree above 24 °C
	Heat    float64 // per heating degree below 15 °C
	Holiday float64 // additive shift on public holidays
	Solar   float64 // per W/m² of surface irradiance
	Hour    [24]float64
	Weekday [7]float64
}

// Model scales the regression's normalized output into a load range.
//
// Holiday marks every timestamp as a holiday when true. No holiday calendar
// is wired in, so the default false leaves the holiday term inert; this is a
// known limitation of the upstream coefficient sets, not a bug.
type Model struct {
	Coefs   Coefficients
	MinLoad float64
	MaxLoad float64
	Holiday bool
}

// Estimate produces a demand series on the temperature series' timestamps.
// Temperature may arrive in Kelvin (see timeseries.EnsureCelsius); both
// inputs must be time-indexed, equal length and the same zone class.
func (m Model) Estimate(tmp, ssr timeseries.Series) (timeseries.Series, error) {
	return m.EstimateOn(tmp, ssr, nil)
}

// EstimateOn is Estimate with the output placed on a caller-supplied
// timeline. The calendar features (hour of day, day of week) are taken from
// the output timeline, so shifting the timeline shifts the demand profile
// with it. A nil timeline keeps the temperature series' timestamps.
func (m Model) EstimateOn(tmp, ssr timeseries.Series, timeline []time.Time) (timeseries.Series, error) {
	if err := timeseries.CheckAligned(tmp, ssr); err != nil {
		return timeseries.Series{}, err
	}
	tmp = timeseries.EnsureCelsius(tmp)

	times := timeline
	if times == nil {
		times = tmp.Times()
	}
	if len(times) != tmp.Len() {
		return timeseries.Series{}, fmt.Errorf("demand: timeline has %d entries for %d observations", len(times), tmp.Len())
	}

	points := make([]timeseries.Point, tmp.Len())
	for i := 0; i < tmp.Len(); i++ {
		norm := m.normalizedLoad(times[i], tmp.At(i).Value, ssr.At(i).Value)
		points[i] = timeseries.Point{
			Time:  times[i],
			Value: norm*(m.MaxLoad-m.MinLoad) + m.MinLoad,
		}
	}
	return timeseries.Like(tmp, points)
}

// normalizedLoad is the dot product of the feature vector at one timestamp
// with the fitted coefficients.
func (m Model) normalizedLoad(t time.Time, tempC, irradiance float64) float64 {
	c := m.Coefs

	load := cooling(tempC)*c.Cool + heating(tempC)*c.Heat + irradiance*c.Solar
	load += c.Hour[t.Hour()]
	load += c.Weekday[mondayIndexed(t.Weekday())]
	if m.Holiday {
		load += c.Holiday
	}
	return load
}

// cooling is the cooling demand driver: degrees above 24 °C.
func cooling(tempC float64) float64 {
	if tempC < 24 {
		return 0
	}
	return tempC - 24
}

// heating is the heating demand driver: degrees below 15 °C.
func heating(tempC float64) float64 {
	if tempC > 15 {
		return 0
	}
	return 15 - tempC
}

// mondayIndexed converts Go's Sunday=0 weekday to the Monday=0 convention
// the coefficients are fitted under.
func mondayIndexed(w time.Weekday) int {
	return (int(w) + 6) % 7
}
