package carbon

import "math"

// Rounding is the presentation precision applied to a CalculationResult.
type Rounding struct {
	WeightDecimals int `yaml:"weight_decimals" json:"weight_decimals"`
	VolumeDecimals int `yaml:"volume_decimals" json:"volume_decimals"`
	EnergyDecimals int `yaml:"energy_decimals" json:"energy_decimals"`
	CarbonDecimals int `yaml:"carbon_decimals" json:"carbon_decimals"`
}

// DefaultRounding rounds energy to 3 decimals and carbon to 4.
func DefaultRounding() Rounding {
	return Rounding{
		WeightDecimals: 4,
		VolumeDecimals: 3,
		EnergyDecimals: 3,
		CarbonDecimals: 4,
	}
}

// Rounded returns a copy of r with every field rounded for display.
// Totals are rounded independently, so processing + idle may differ from
// total in the last digit.
func (r CalculationResult) Rounded(p Rounding) CalculationResult {
	return CalculationResult{
		RemovedMaterialWeightKg: RoundTo(r.RemovedMaterialWeightKg, p.WeightDecimals),
		RemovedVolumeCm3:        RoundTo(r.RemovedVolumeCm3, p.VolumeDecimals),
		ProcessingEnergyKWh:     RoundTo(r.ProcessingEnergyKWh, p.EnergyDecimals),
		IdleEnergyKWh:           RoundTo(r.IdleEnergyKWh, p.EnergyDecimals),
		TotalEnergyKWh:          RoundTo(r.TotalEnergyKWh, p.EnergyDecimals),
		TotalCarbonKg:           RoundTo(r.TotalCarbonKg, p.CarbonDecimals),
	}
}

// RoundTo rounds v half away from zero to the given number of decimals.
// Negative decimals leave v untouched.
func RoundTo(v float64, decimals int) float64 {
	if decimals < 0 || !IsFinite(v) {
		return v
	}
	const base = 10
	multiplier := math.Pow(base, float64(decimals))
	return math.Round(v*multiplier) / multiplier
}
