// Package hydro reconstructs reservoir inflow from generation and storage
// time-series. Inflow is not reported by transmission operators; it is
// recovered from the water balance: whatever the reservoir generated in a
// period plus the change in stored energy over that period must have flowed
// in.
package hydro

import (
	"fmt"
	"math"
	"time"

	"github.com/matteodefelice/pypsa-entsoe/timeseries"
)

// Row is one reporting period of the inflow ledger. StorageDelta is the
// storage change over the period (next period's level minus this one's);
// Inflow = Generation + StorageDelta. The last row has no following storage
// reading to diff against, so its StorageDelta and Inflow are NaN — an
// expected boundary, not an error.
type Row struct {
	Period       time.Time
	Generation   float64
	Storage      float64
	StorageDelta float64
	Inflow       float64
}

// Ledger is the reconstructed inflow table, one row per storage reporting
// period, ordered by period start.
type Ledger []Row

// ReconstructInflow builds the inflow ledger from a generation series and a
// storage-level series over the same span. The storage series sets the
// reporting cadence (weekly in transparency-platform data, but any cadence
// works): each generation observation is assigned to the most recent storage
// reading at or before it, generation is summed per period, and the storage
// difference to the next period is added.
//
// Generation is pre-filtered to top-of-hour observations. Generation before
// the first storage reading has no period to land in and is dropped.
func ReconstructInflow(gen, sto timeseries.Series) (Ledger, error) {
	if gen.Naive() != sto.Naive() {
		return nil, fmt.Errorf("hydro: cannot mix naive and zone-qualified series")
	}
	if gen.Len() == 0 || sto.Len() == 0 {
		return nil, fmt.Errorf("hydro: empty input series")
	}
	gen = gen.TopOfHour()

	// Single forward pass over both series sorted by time, carrying the
	// last-seen storage reading as the current period key.
	var ledger Ledger
	si := -1
	for i := 0; i < gen.Len(); i++ {
		p := gen.At(i)
		for si+1 < sto.Len() && !sto.At(si+1).Time.After(p.Time) {
			si++
		}
		if si < 0 {
			continue
		}
		cur := sto.At(si)
		if len(ledger) == 0 || !ledger[len(ledger)-1].Period.Equal(cur.Time) {
			ledger = append(ledger, Row{Period: cur.Time, Storage: cur.Value})
		}
		ledger[len(ledger)-1].Generation += p.Value
	}

	for i := range ledger {
		if i == len(ledger)-1 {
			ledger[i].StorageDelta = math.NaN()
			ledger[i].Inflow = math.NaN()
			continue
		}
		ledger[i].StorageDelta = ledger[i+1].Storage - ledger[i].Storage
		ledger[i].Inflow = ledger[i].Generation + ledger[i].StorageDelta
	}
	return ledger, nil
}

// Inflows returns the defined inflow values as a series on the period
// starts, dropping the undefined last period.
func (l Ledger) Inflows() (timeseries.Series, error) {
	var points []timeseries.Point
	for _, row := range l {
		if math.IsNaN(row.Inflow) {
			continue
		}
		points = append(points, timeseries.Point{Time: row.Period, Value: row.Inflow})
	}
	return timeseries.New(points)
}
