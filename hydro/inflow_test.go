package hydro

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matteodefelice/pypsa-entsoe/timeseries"
)

var t0 = time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC)

func seriesAt(step time.Duration, values ...float64) timeseries.Series {
	points := make([]timeseries.Point, len(values))
	for i, v := range values {
		points[i] = timeseries.Point{Time: t0.Add(time.Duration(i) * step), Value: v}
	}
	s, err := timeseries.New(points)
	if err != nil {
		panic(err)
	}
	return s
}

const week = 7 * 24 * time.Hour

func TestReconstructInflow_DrawnDownReservoir(t *testing.T) {
	// Three weekly periods, 10 MWh generated in each, storage drawn down
	// 100 → 90 → 70.
	gen := seriesAt(week, 10, 10, 10)
	sto := seriesAt(week, 100, 90, 70)

	ledger, err := ReconstructInflow(gen, sto)
	require.NoError(t, err)
	require.Len(t, ledger, 3)

	// Period 0: delta = 90-100 = -10, inflow = 10 + (-10) = 0
	assert.Equal(t, t0, ledger[0].Period)
	assert.Equal(t, 10.0, ledger[0].Generation)
	assert.Equal(t, 100.0, ledger[0].Storage)
	assert.Equal(t, -10.0, ledger[0].StorageDelta)
	assert.Equal(t, 0.0, ledger[0].Inflow)

	// Period 1: delta = 70-90 = -20, inflow = 10 + (-20) = -10
	assert.Equal(t, -20.0, ledger[1].StorageDelta)
	assert.Equal(t, -10.0, ledger[1].Inflow)

	// Last period has no following storage reading
	assert.True(t, math.IsNaN(ledger[2].StorageDelta))
	assert.True(t, math.IsNaN(ledger[2].Inflow))
}

func TestReconstructInflow_GroupsHourlyGenerationIntoWeeks(t *testing.T) {
	// Hourly generation of 1 MWh over two weeks, weekly storage readings.
	hours := 2 * 7 * 24
	genVals := make([]float64, hours)
	for i := range genVals {
		genVals[i] = 1
	}
	gen := seriesAt(time.Hour, genVals...)
	sto := seriesAt(week, 500, 400)

	ledger, err := ReconstructInflow(gen, sto)
	require.NoError(t, err)
	require.Len(t, ledger, 2)

	// 168 hours of 1 MWh per week
	assert.Equal(t, 168.0, ledger[0].Generation)
	assert.Equal(t, -100.0, ledger[0].StorageDelta)
	assert.Equal(t, 68.0, ledger[0].Inflow)
	assert.Equal(t, 168.0, ledger[1].Generation)
}

func TestReconstructInflow_DropsGenerationBeforeFirstStorageReading(t *testing.T) {
	gen := seriesAt(week, 10, 10, 10)
	// First storage reading arrives one week into the generation record
	stoPoints := []timeseries.Point{
		{Time: t0.Add(week), Value: 50},
		{Time: t0.Add(2 * week), Value: 40},
	}
	sto, err := timeseries.New(stoPoints)
	require.NoError(t, err)

	ledger, err := ReconstructInflow(gen, sto)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, t0.Add(week), ledger[0].Period)
	assert.Equal(t, 10.0, ledger[0].Generation, "week-0 generation has no period and is dropped")
}

func TestReconstructInflow_FiltersSubHourlyGeneration(t *testing.T) {
	points := []timeseries.Point{
		{Time: t0, Value: 5},
		{Time: t0.Add(15 * time.Minute), Value: 99},
		{Time: t0.Add(time.Hour), Value: 5},
	}
	gen, err := timeseries.New(points)
	require.NoError(t, err)
	sto := seriesAt(week, 100, 90)

	ledger, err := ReconstructInflow(gen, sto)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, 10.0, ledger[0].Generation, "15-minute reading must be excluded")
}

func TestReconstructInflow_StorageOffsetFromGeneration(t *testing.T) {
	// Storage reported mid-week: generation forward-fills onto the most
	// recent reading at or before it.
	gen := seriesAt(week, 10, 20, 30)
	stoPoints := []timeseries.Point{
		{Time: t0.Add(-12 * time.Hour), Value: 100},
		{Time: t0.Add(week - 12*time.Hour), Value: 80},
		{Time: t0.Add(2*week - 12*time.Hour), Value: 85},
	}
	sto, err := timeseries.New(stoPoints)
	require.NoError(t, err)

	ledger, err := ReconstructInflow(gen, sto)
	require.NoError(t, err)
	require.Len(t, ledger, 3)

	assert.Equal(t, t0.Add(-12*time.Hour), ledger[0].Period)
	assert.Equal(t, 10.0, ledger[0].Generation)
	assert.Equal(t, -20.0, ledger[0].StorageDelta)
	assert.Equal(t, -10.0, ledger[0].Inflow)
	assert.Equal(t, 5.0, ledger[1].StorageDelta)
	assert.Equal(t, 25.0, ledger[1].Inflow)
}

func TestReconstructInflow_InputValidation(t *testing.T) {
	_, err := ReconstructInflow(timeseries.Series{}, seriesAt(week, 1))
	assert.Error(t, err)

	naive, err := timeseries.NewNaive([]timeseries.Point{{Time: t0, Value: 1}})
	require.NoError(t, err)
	_, err = ReconstructInflow(seriesAt(week, 1), naive)
	assert.Error(t, err, "naive and zone-qualified must not mix")
}

func TestLedgerInflows(t *testing.T) {
	gen := seriesAt(week, 10, 10, 10)
	sto := seriesAt(week, 100, 90, 70)

	ledger, err := ReconstructInflow(gen, sto)
	require.NoError(t, err)

	inflows, err := ledger.Inflows()
	require.NoError(t, err)
	require.Equal(t, 2, inflows.Len(), "undefined last period is dropped")
	assert.Equal(t, 0.0, inflows.At(0).Value)
	assert.Equal(t, -10.0, inflows.At(1).Value)
}
