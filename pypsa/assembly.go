// Package pypsa assembles power-system-model component tables from
// transparency-platform capacity data. Raw production types are grouped
// into model carriers through a static mapping supplied as configuration,
// then merged with per-carrier parameter templates.
package pypsa

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Carriers maps transparency-platform production-type names (e.g. "Fossil
// Gas", "Hydro Water Reservoir") to model carriers (e.g. "CCGT", "hydro").
type Carriers map[string]string

// LoadCarriers reads a carrier mapping from JSON.
func LoadCarriers(r io.Reader) (Carriers, error) {
	var c Carriers
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("pypsa: carrier mapping: %w", err)
	}
	return c, nil
}

// CarrierDefaults is one template row of per-carrier generator parameters.
type CarrierDefaults struct {
	PMinPu       float64 `json:"p_min_pu"`
	MarginalCost float64 `json:"marginal_cost"`
	Efficiency   float64 `json:"efficiency"`
}

// Generator is one row of the assembled generator table.
type Generator struct {
	Carrier       string
	PNom          float64 // installed capacity, MW
	PMinPu        float64
	MarginalCost  float64
	Efficiency    float64
	RampLimitUp   float64
	RampLimitDown float64
}

// Quantiles carries observed generation quantiles per production type,
// used to tighten the template defaults: q001 bounds minimum output, the
// q999 deltas bound ramping.
type Quantiles struct {
	Q001     map[string]float64
	Q999Up   map[string]float64
	Q999Down map[string]float64
}

// GeneratorsFromCapacity groups installed capacity by carrier and merges
// the per-carrier template. Production types without a mapping are dropped,
// as are carriers without a template row. When quantiles are supplied,
// p_min_pu becomes q001/p_nom and the ramp limits q999/p_nom for the
// carriers they cover. Rows are ordered by carrier.
func GeneratorsFromCapacity(capacity map[string]float64, mapping Carriers, template map[string]CarrierDefaults, q *Quantiles) []Generator {
	pnom := groupByCarrier(capacity, mapping)

	gens := make([]Generator, 0, len(pnom))
	for carrier, nom := range pnom {
		defaults, ok := template[carrier]
		if !ok {
			continue
		}
		gen := Generator{
			Carrier:      carrier,
			PNom:         nom,
			PMinPu:       defaults.PMinPu,
			MarginalCost: defaults.MarginalCost,
			Efficiency:   defaults.Efficiency,
		}
		if q != nil && nom > 0 {
			if q001, ok := lookupByCarrier(q.Q001, mapping, carrier); ok {
				gen.PMinPu = q001 / nom
			}
			if up, ok := lookupByCarrier(q.Q999Up, mapping, carrier); ok {
				gen.RampLimitUp = up / nom
			}
			if down, ok := lookupByCarrier(q.Q999Down, mapping, carrier); ok {
				gen.RampLimitDown = down / nom
			}
		}
		gens = append(gens, gen)
	}
	sort.Slice(gens, func(i, j int) bool { return gens[i].Carrier < gens[j].Carrier })
	return gens
}

// StoreDefaults is one template row of per-carrier storage parameters.
type StoreDefaults struct {
	Efficiency   float64 `json:"efficiency"`
	MarginalCost float64 `json:"marginal_cost"`
}

// Store is one row of the assembled storage table.
type Store struct {
	Carrier      string
	PNom         float64
	Efficiency   float64
	MarginalCost float64
}

// storageCarriers are the carriers modelled as storage units.
var storageCarriers = map[string]bool{"hydro": true, "PHS": true}

// StoresFromCapacity groups installed capacity by carrier, keeps the
// storage carriers (reservoir hydro and pumped storage) and merges the
// storage template. Rows are ordered by carrier.
func StoresFromCapacity(capacity map[string]float64, mapping Carriers, template map[string]StoreDefaults) []Store {
	pnom := groupByCarrier(capacity, mapping)

	stores := make([]Store, 0, 2)
	for carrier, nom := range pnom {
		if !storageCarriers[carrier] {
			continue
		}
		defaults, ok := template[carrier]
		if !ok {
			continue
		}
		stores = append(stores, Store{
			Carrier:      carrier,
			PNom:         nom,
			Efficiency:   defaults.Efficiency,
			MarginalCost: defaults.MarginalCost,
		})
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].Carrier < stores[j].Carrier })
	return stores
}

func groupByCarrier(values map[string]float64, mapping Carriers) map[string]float64 {
	grouped := make(map[string]float64)
	for productionType, v := range values {
		carrier, ok := mapping[productionType]
		if !ok {
			continue
		}
		grouped[carrier] += v
	}
	return grouped
}

// lookupByCarrier sums a per-production-type table over one carrier.
func lookupByCarrier(values map[string]float64, mapping Carriers, carrier string) (float64, bool) {
	var sum float64
	found := false
	for productionType, v := range values {
		if mapping[productionType] == carrier {
			sum += v
			found = true
		}
	}
	return sum, found
}
