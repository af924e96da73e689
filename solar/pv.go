// Package solar computes photovoltaic capacity factors from temperature and
// surface irradiance with the physical model of Evans and Florschuetz (1977)
// as applied by Bloomfield et al. (2020), doi:10.1002/met.1858.
package solar

import (
	"math"
	"time"

	"github.com/matteodefelice/pypsa-entsoe/timeseries"
)

// Reference panel parameters. effRef follows Bett and Thornton (2016).
const (
	tRef    = 25.0   // reference cell temperature, °C
	effRef  = 0.9    // relative efficiency at tRef
	betaRef = 0.0042 // efficiency loss per °C above tRef
	gRef    = 1000.0 // reference irradiance, W/m²
)

// CapacityFactor computes the PV capacity factor per timestamp:
//
//	eff = effRef * (1 - betaRef*(T - tRef))
//	cf  = eff * irradiance / gRef
//
// Temperature may arrive in Kelvin; see timeseries.EnsureCelsius for the
// normalization heuristic. Any not-a-number result (malformed input) is
// coerced to 0 — a data-cleaning rule, since broken meteorological samples
// must not poison a whole model run.
func CapacityFactor(tmp, ssr timeseries.Series) (timeseries.Series, error) {
	return CapacityFactorOn(tmp, ssr, nil)
}

// CapacityFactorOn is CapacityFactor with the output placed on a
// caller-supplied timeline. A nil timeline keeps the temperature series'
// timestamps.
func CapacityFactorOn(tmp, ssr timeseries.Series, timeline []time.Time) (timeseries.Series, error) {
	if err := timeseries.CheckAligned(tmp, ssr); err != nil {
		return timeseries.Series{}, err
	}
	tmp = timeseries.EnsureCelsius(tmp)

	points := make([]timeseries.Point, tmp.Len())
	for i := 0; i < tmp.Len(); i++ {
		eff := effRef * (1 - betaRef*(tmp.At(i).Value-tRef))
		cf := eff * ssr.At(i).Value / gRef
		if math.IsNaN(cf) {
			cf = 0
		}
		points[i] = timeseries.Point{Time: tmp.At(i).Time, Value: cf}
	}
	out, err := timeseries.Like(tmp, points)
	if err != nil {
		return timeseries.Series{}, err
	}
	if timeline != nil {
		return out.WithTimes(timeline)
	}
	return out, nil
}
