package carbon

import "strings"

// GridEmissionFactors maps ISO 3166-1 alpha-2 country codes to grid carbon intensity.
// Values are in kg CO2 per kWh of consumed electricity.
//
// Source: national annual averages (Ember, IEA), rounded to two significant figures.
// TR is pinned to 0.44, the factor the machining model was calibrated with.
var GridEmissionFactors = map[string]float64{
	"TR": 0.44,  // Türkiye
	"DE": 0.38,  // Germany
	"FR": 0.056, // France (nuclear heavy)
	"IT": 0.33,  // Italy
	"ES": 0.17,  // Spain
	"GB": 0.21,  // United Kingdom
	"PL": 0.66,  // Poland (coal heavy)
	"SE": 0.013, // Sweden (very low carbon)
	"NL": 0.33,  // Netherlands
	"US": 0.37,  // United States
	"CN": 0.58,  // China
	"IN": 0.71,  // India
	"JP": 0.48,  // Japan
	"KR": 0.44,  // South Korea
}

// DefaultGridFactor is used when a region doesn't have a specific factor.
// This is the global average.
const DefaultGridFactor = 0.48

// GetGridFactor returns the grid emission factor for region in kg CO2 per kWh.
// Region codes are case-insensitive. Unknown regions return DefaultGridFactor.
func GetGridFactor(region string) float64 {
	if factor, ok := GridEmissionFactors[strings.ToUpper(strings.TrimSpace(region))]; ok {
		return factor
	}
	return DefaultGridFactor
}
