package cost

import (
	"fmt"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

// EquivalenceFactors are the divisors used by Equivalents.
type EquivalenceFactors struct {
	TreeAbsorptionKgPerYear float64 `yaml:"tree_absorption_kg_per_year" json:"tree_absorption_kg_per_year"`
	CarKgCO2PerKm           float64 `yaml:"car_kg_co2_per_km" json:"car_kg_co2_per_km"`
	DeviceChargeKWh         float64 `yaml:"device_charge_kwh" json:"device_charge_kwh"`
}

// DefaultEquivalenceFactors returns the package constants.
func DefaultEquivalenceFactors() EquivalenceFactors {
	return EquivalenceFactors{
		TreeAbsorptionKgPerYear: TreeAbsorptionKgPerYear,
		CarKgCO2PerKm:           CarKgCO2PerKm,
		DeviceChargeKWh:         DeviceChargeKWh,
	}
}

// Validate requires every factor to be positive and finite.
func (f EquivalenceFactors) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"tree_absorption_kg_per_year", f.TreeAbsorptionKgPerYear},
		{"car_kg_co2_per_km", f.CarKgCO2PerKm},
		{"device_charge_kwh", f.DeviceChargeKWh},
	}
	for _, fld := range fields {
		if !carbon.IsFinite(fld.v) || fld.v <= 0 {
			return carbon.NewValidationError(fld.name, fmt.Sprintf("must be > 0, got %v", fld.v))
		}
	}
	return nil
}

// Equivalence expresses a result in everyday terms.
type Equivalence struct {
	TreesPerYear    float64 `json:"trees_per_year"`
	CarKmEquivalent float64 `json:"car_km_equivalent"`
	DeviceCharges   float64 `json:"device_charges"`
}

// Equivalents converts carbon into trees and car kilometres, and energy into
// device charges. Zero-valued factors fall back to the defaults.
func Equivalents(result carbon.CalculationResult, f EquivalenceFactors) Equivalence {
	d := DefaultEquivalenceFactors()
	if f.TreeAbsorptionKgPerYear > 0 {
		d.TreeAbsorptionKgPerYear = f.TreeAbsorptionKgPerYear
	}
	if f.CarKgCO2PerKm > 0 {
		d.CarKgCO2PerKm = f.CarKgCO2PerKm
	}
	if f.DeviceChargeKWh > 0 {
		d.DeviceChargeKWh = f.DeviceChargeKWh
	}

	return Equivalence{
		TreesPerYear:    result.TotalCarbonKg / d.TreeAbsorptionKgPerYear,
		CarKmEquivalent: result.TotalCarbonKg / d.CarKgCO2PerKm,
		DeviceCharges:   result.TotalEnergyKWh / d.DeviceChargeKWh,
	}
}
