package carbon

import "math"

// Validate checks every input of Calculate and returns the first violation.
//
// Order: non-finite values, negative weights, final > initial, process time,
// material coefficients, standby power, then factors.
func Validate(machine MachineProfile, material MaterialProfile, params ProcessParameters, factors Factors) error {
	finite := []struct {
		field string
		v     float64
	}{
		{"initial_weight_kg", params.InitialWeightKg},
		{"final_weight_kg", params.FinalWeightKg},
		{"time_min", params.ProcessTimeMinutes},
		{"kc_value", material.KcValue},
		{"density", material.Density},
		{"standby_power_kw", machine.StandbyPowerKW},
		{"carbon_intensity", factors.CarbonIntensity},
		{"drive_efficiency", factors.DriveEfficiency},
	}
	for _, f := range finite {
		if !IsFinite(f.v) {
			return NewValidationError(f.field, "non-finite value")
		}
	}

	if params.InitialWeightKg < 0 {
		return NewValidationError("initial_weight_kg", "negative weight")
	}
	if params.FinalWeightKg < 0 {
		return NewValidationError("final_weight_kg", "negative weight")
	}
	if params.FinalWeightKg > params.InitialWeightKg {
		return NewValidationError("final_weight_kg", "final weight exceeds initial weight")
	}
	if params.ProcessTimeMinutes <= 0 {
		return NewValidationError("time_min", "non-positive process time")
	}
	if material.KcValue <= 0 {
		return NewValidationError("kc_value", "non-positive kc value")
	}
	if material.Density <= 0 {
		return NewValidationError("density", "non-positive density")
	}
	if machine.StandbyPowerKW < 0 {
		return NewValidationError("standby_power_kw", "negative standby power")
	}
	if factors.CarbonIntensity <= 0 {
		return NewValidationError("carbon_intensity", "non-positive carbon intensity")
	}
	if factors.DriveEfficiency < 0 || factors.DriveEfficiency > 1 {
		return NewValidationError("drive_efficiency", "drive efficiency out of range")
	}
	return nil
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
