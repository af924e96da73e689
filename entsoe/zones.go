package entsoe

import "fmt"

// Bidding-zone EIC area codes for the zones this module is used with.
var zoneDomains = map[string]string{
	"AT": "10YAT-APG------L",
	"BE": "10YBE----------2",
	"CH": "10YCH-SWISSGRIDZ",
	"CZ": "10YCZ-CEPS-----N",
	"DE": "10Y1001A1001A82H", // DE-LU since October 2018
	"DK": "10Y1001A1001A65H",
	"ES": "10YES-REE------0",
	"FR": "10YFR-RTE------C",
	"IT": "10YIT-GRTN-----B",
	"NL": "10YNL----------L",
	"NO": "10YNO-0--------C",
	"PL": "10YPL-AREA-----S",
	"PT": "10YPT-REN------W",
	"RO": "10YRO-TEL------P",
	"SE": "10YSE-1--------K",
}

func domainFor(zone string) (string, error) {
	domain, ok := zoneDomains[zone]
	if !ok {
		return "", fmt.Errorf("entsoe: unknown zone %q", zone)
	}
	return domain, nil
}

// Production-type (PSR) codes used in queries.
const (
	PSRHydroReservoir  = "B12" // Hydro Water Reservoir
	PSRHydroPumped     = "B10" // Hydro Pumped Storage
	PSRHydroRunOfRiver = "B11" // Hydro Run-of-river and poundage
	PSRSolar           = "B16"
	PSRWindOffshore    = "B18"
	PSRWindOnshore     = "B19"
)

// psrNames maps PSR codes to the production-type names used in
// transparency-platform exports; the carrier mapping is keyed by these.
var psrNames = map[string]string{
	"B01": "Biomass",
	"B02": "Fossil Brown coal/Lignite",
	"B03": "Fossil Coal-derived gas",
	"B04": "Fossil Gas",
	"B05": "Fossil Hard coal",
	"B06": "Fossil Oil",
	"B07": "Fossil Oil shale",
	"B08": "Fossil Peat",
	"B09": "Geothermal",
	"B10": "Hydro Pumped Storage",
	"B11": "Hydro Run-of-river and poundage",
	"B12": "Hydro Water Reservoir",
	"B13": "Marine",
	"B14": "Nuclear",
	"B15": "Other renewable",
	"B16": "Solar",
	"B17": "Waste",
	"B18": "Wind Offshore",
	"B19": "Wind Onshore",
	"B20": "Other",
}

// PSRName returns the production-type name for a PSR code, or the code
// itself when it is not a known type.
func PSRName(code string) string {
	if name, ok := psrNames[code]; ok {
		return name
	}
	return code
}
