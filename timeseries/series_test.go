package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)

func hourly(values ...float64) Series {
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{Time: t0.Add(time.Duration(i) * time.Hour), Value: v}
	}
	s, err := New(points)
	if err != nil {
		panic(err)
	}
	return s
}

func TestNew_RejectsUnorderedTimestamps(t *testing.T) {
	_, err := New([]Point{
		{Time: t0.Add(time.Hour), Value: 1},
		{Time: t0, Value: 2},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not strictly increasing")
}

func TestNew_RejectsDuplicateTimestamps(t *testing.T) {
	_, err := New([]Point{
		{Time: t0, Value: 1},
		{Time: t0, Value: 2},
	})
	assert.Error(t, err)
}

func TestValueAt_ForwardFill(t *testing.T) {
	s := hourly(10, 20, 30)

	// Exact hit
	v, ok := s.ValueAt(t0.Add(time.Hour))
	require.True(t, ok)
	assert.Equal(t, 20.0, v)

	// Between observations: carries the last seen value forward
	v, ok = s.ValueAt(t0.Add(90 * time.Minute))
	require.True(t, ok)
	assert.Equal(t, 20.0, v)

	// After the last observation
	v, ok = s.ValueAt(t0.Add(48 * time.Hour))
	require.True(t, ok)
	assert.Equal(t, 30.0, v)

	// Before the first observation
	_, ok = s.ValueAt(t0.Add(-time.Minute))
	assert.False(t, ok)
}

func TestTopOfHour(t *testing.T) {
	points := []Point{
		{Time: t0, Value: 1},
		{Time: t0.Add(15 * time.Minute), Value: 2},
		{Time: t0.Add(30 * time.Minute), Value: 3},
		{Time: t0.Add(time.Hour), Value: 4},
	}
	s, err := New(points)
	require.NoError(t, err)

	filtered := s.TopOfHour()
	require.Equal(t, 2, filtered.Len())
	assert.Equal(t, 1.0, filtered.At(0).Value)
	assert.Equal(t, 4.0, filtered.At(1).Value)
}

func TestSlice(t *testing.T) {
	s := hourly(1, 2, 3, 4)

	r := TimeRange{Start: t0.Add(time.Hour), End: t0.Add(3 * time.Hour)}
	got := s.Slice(r)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, 2.0, got.At(0).Value)
	assert.Equal(t, 3.0, got.At(1).Value)

	empty := s.Slice(TimeRange{Start: t0.Add(10 * time.Hour), End: t0.Add(11 * time.Hour)})
	assert.Equal(t, 0, empty.Len())
}

func TestWithTimes(t *testing.T) {
	s := hourly(1, 2, 3)
	alt := []time.Time{
		t0.AddDate(1, 0, 0),
		t0.AddDate(1, 0, 0).Add(time.Hour),
		t0.AddDate(1, 0, 0).Add(2 * time.Hour),
	}

	got, err := s.WithTimes(alt)
	require.NoError(t, err)
	assert.Equal(t, alt[0], got.At(0).Time)
	assert.Equal(t, 1.0, got.At(0).Value)

	_, err = s.WithTimes(alt[:2])
	assert.Error(t, err, "timeline length must match series length")
}

func TestCheckAligned(t *testing.T) {
	a := hourly(1, 2)
	b := hourly(3, 4)
	assert.NoError(t, CheckAligned(a, b))

	short := hourly(1)
	assert.Error(t, CheckAligned(a, short))

	naive, err := NewNaive([]Point{{Time: t0, Value: 1}, {Time: t0.Add(time.Hour), Value: 2}})
	require.NoError(t, err)
	assert.Error(t, CheckAligned(a, naive), "naive and zone-qualified must not mix")

	assert.Error(t, CheckAligned(a, Series{}))
}

func TestEnsureCelsius_KelvinShiftAppliedOnce(t *testing.T) {
	kelvin := hourly(278.15, 283.15, 293.15)

	c := EnsureCelsius(kelvin)
	require.Equal(t, 3, c.Len())
	assert.InDelta(t, 5.0, c.At(0).Value, 1e-9)
	assert.InDelta(t, 10.0, c.At(1).Value, 1e-9)
	assert.InDelta(t, 20.0, c.At(2).Value, 1e-9)

	// Already Celsius: applying again must be a no-op
	again := EnsureCelsius(c)
	assert.InDelta(t, 5.0, again.At(0).Value, 1e-9)
}

func TestEnsureCelsius_LeavesCelsiusUntouched(t *testing.T) {
	celsius := hourly(-10, 0, 35)
	got := EnsureCelsius(celsius)
	assert.Equal(t, celsius.Values(), got.Values())
}

func TestTimeRangeValidate(t *testing.T) {
	assert.Error(t, TimeRange{}.Validate())
	assert.Error(t, TimeRange{Start: t0, End: t0}.Validate())
	assert.Error(t, TimeRange{Start: t0.Add(time.Hour), End: t0}.Validate())
	assert.NoError(t, TimeRange{Start: t0, End: t0.Add(time.Hour)}.Validate())
}
