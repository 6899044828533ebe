package engine

import (
	"github.com/matthewbaird/compliance/internal/types"
)

// catalogByKey is the lookup map built at Init time.
var catalogByKey map[string]*types.ComplianceSystemDefinition

// SystemCatalog contains the compliance system definitions. Immutable
// reference data: systems are attached to properties by key and the
// definition seeds the inspection's category, authority, frequency, and
// cost band.
var SystemCatalog = []types.ComplianceSystemDefinition{
	// === Fire Safety ===
	{
		Key:           "fire_alarm",
		Name:          "Fire Alarm System Inspection",
		Category:      "Fire Safety",
		Frequency:     types.FrequencyAnnual,
		Authority:     "FDNY",
		Jurisdictions: []string{"us-ny-nyc"},
		EstimatedCost: types.CostRange{MinCents: 30000, MaxCents: 80000},
		Requirements: []string{
			"Test all initiating and notification devices",
			"Verify central station connection",
			"File inspection report with authority",
		},
	},
	{
		Key:           "sprinkler",
		Name:          "Sprinkler System Flow Test",
		Category:      "Fire Safety",
		Frequency:     types.FrequencyQuarterly,
		Authority:     "FDNY",
		Jurisdictions: []string{"us-ny-nyc", "us-nj"},
		EstimatedCost: types.CostRange{MinCents: 20000, MaxCents: 45000},
		Requirements: []string{
			"Main drain flow test",
			"Inspect control valves and gauges",
		},
	},
	{
		Key:           "standpipe",
		Name:          "Standpipe System Inspection",
		Category:      "Fire Safety",
		Frequency:     types.FrequencyAnnual,
		Authority:     "FDNY",
		Jurisdictions: []string{"us-ny-nyc"},
		EstimatedCost: types.CostRange{MinCents: 25000, MaxCents: 60000},
	},

	// === Building Systems ===
	{
		Key:           "boiler",
		Name:          "Low-Pressure Boiler Inspection",
		Category:      "Building Systems",
		Frequency:     types.FrequencyAnnual,
		Authority:     "DOB",
		Jurisdictions: []string{"us-ny-nyc"},
		EstimatedCost: types.CostRange{MinCents: 35000, MaxCents: 75000},
		Requirements: []string{
			"Internal and external inspection by qualified inspector",
			"File report within 14 days of inspection",
		},
	},
	{
		Key:           "elevator",
		Name:          "Elevator Category 1 Test",
		Category:      "Building Systems",
		Frequency:     types.FrequencyAnnual,
		Authority:     "DOB",
		Jurisdictions: []string{"us-ny-nyc", "us-nj"},
		EstimatedCost: types.CostRange{MinCents: 50000, MaxCents: 120000},
		Requirements: []string{
			"Witnessed test by approved agency",
			"File ELV3 with the department",
		},
	},
	{
		Key:           "gas_piping",
		Name:          "Gas Piping System Inspection",
		Category:      "Building Systems",
		Frequency:     types.FrequencyBiannual,
		Authority:     "DOB",
		Jurisdictions: []string{"us-ny-nyc"},
		EstimatedCost: types.CostRange{MinCents: 25000, MaxCents: 55000},
	},
	{
		Key:           "facade",
		Name:          "Facade Condition Inspection",
		Category:      "Structural",
		Frequency:     types.FrequencyAnnual,
		Authority:     "DOB",
		Jurisdictions: []string{"us-ny-nyc"},
		EstimatedCost: types.CostRange{MinCents: 150000, MaxCents: 500000},
		Requirements: []string{
			"Qualified exterior wall inspector",
			"Close-up inspection of representative sample",
		},
	},

	// === Health & Environmental ===
	{
		Key:           "backflow",
		Name:          "Backflow Prevention Device Test",
		Category:      "Plumbing",
		Frequency:     types.FrequencyAnnual,
		Authority:     "DEP",
		Jurisdictions: []string{"us-ny-nyc", "us-nj", "us-ct"},
		EstimatedCost: types.CostRange{MinCents: 15000, MaxCents: 30000},
	},
	{
		Key:           "cooling_tower",
		Name:          "Cooling Tower Legionella Compliance",
		Category:      "Health",
		Frequency:     types.FrequencyQuarterly,
		Authority:     "DOHMH",
		Jurisdictions: []string{"us-ny-nyc"},
		EstimatedCost: types.CostRange{MinCents: 40000, MaxCents: 90000},
		Requirements: []string{
			"Bacteriological sampling",
			"Update maintenance program and plan",
		},
	},
	{
		Key:           "water_tank",
		Name:          "Rooftop Water Tank Inspection",
		Category:      "Health",
		Frequency:     types.FrequencyAnnual,
		Authority:     "DOHMH",
		Jurisdictions: []string{"us-ny-nyc"},
		EstimatedCost: types.CostRange{MinCents: 20000, MaxCents: 40000},
	},
	{
		Key:           "pest_control",
		Name:          "Integrated Pest Management Visit",
		Category:      "Health",
		Frequency:     types.FrequencyMonthly,
		Authority:     "HPD",
		Jurisdictions: []string{"us-ny-nyc", "us-nj", "us-ct"},
		EstimatedCost: types.CostRange{MinCents: 8000, MaxCents: 20000},
	},
}

func init() {
	catalogByKey = make(map[string]*types.ComplianceSystemDefinition, len(SystemCatalog))
	for i := range SystemCatalog {
		catalogByKey[SystemCatalog[i].Key] = &SystemCatalog[i]
	}
}

// LookupSystem returns the catalog definition for a system key.
func LookupSystem(key string) (*types.ComplianceSystemDefinition, bool) {
	def, ok := catalogByKey[key]
	return def, ok
}

// SystemsForJurisdiction returns catalog entries applicable to a locale
// tag. Entries with no jurisdiction list apply everywhere.
func SystemsForJurisdiction(tag string) []types.ComplianceSystemDefinition {
	var out []types.ComplianceSystemDefinition
	for _, def := range SystemCatalog {
		if len(def.Jurisdictions) == 0 {
			out = append(out, def)
			continue
		}
		for _, j := range def.Jurisdictions {
			if j == tag {
				out = append(out, def)
				break
			}
		}
	}
	return out
}
