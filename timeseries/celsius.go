package timeseries

const kelvinOffset = 273.15

// EnsureCelsius returns the series shifted from Kelvin to Celsius when its
// minimum value exceeds 200, otherwise unchanged. The 200 threshold is a
// heuristic, not a unit check: no plausible Celsius air temperature reaches
// it, while any Kelvin air temperature does. Datasets that somehow mix
// Celsius values above 200 would be shifted wrongly; callers wanting strict
// unit handling must convert before calling.
func EnsureCelsius(s Series) Series {
	if s.Len() == 0 {
		return s
	}
	min := s.points[0].Value
	for _, p := range s.points[1:] {
		if p.Value < min {
			min = p.Value
		}
	}
	if min <= 200 {
		return s
	}
	points := make([]Point, len(s.points))
	for i, p := range s.points {
		points[i] = Point{Time: p.Time, Value: p.Value - kelvinOffset}
	}
	return Series{points: points, naive: s.naive}
}
