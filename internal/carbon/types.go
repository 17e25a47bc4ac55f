package carbon

import "time"

// MachineProfile describes the electrical characteristics of a CNC machine.
type MachineProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand,omitempty"`

	// StandbyPowerKW is the power drawn while the machine is on but not cutting (kW, >= 0).
	StandbyPowerKW float64 `json:"standby_power_kw"`

	// OperatingPowerKW is the rated maximum power of the machine (kW, > 0).
	OperatingPowerKW float64 `json:"max_power_kw"`

	// EfficiencyPercent is informational and does not feed the energy model.
	EfficiencyPercent float64 `json:"efficiency_percent"`

	// Scope is the owning organisation; empty for built-in profiles.
	Scope     string    `json:"company_id,omitempty"`
	Builtin   bool      `json:"builtin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileID returns the machine identifier.
func (m MachineProfile) ProfileID() string { return m.ID }

// MaterialProfile describes the cutting behaviour of a workpiece material.
type MaterialProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// KcValue is the specific cutting energy coefficient (> 0).
	KcValue float64 `json:"kc_value"`

	// Density is the material density in kg/m³ (> 0).
	Density float64 `json:"density"`

	Scope     string    `json:"company_id,omitempty"`
	Builtin   bool      `json:"builtin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileID returns the material identifier.
func (m MaterialProfile) ProfileID() string { return m.ID }

// ProcessParameters are the measured inputs of a single machining operation.
type ProcessParameters struct {
	InitialWeightKg    float64 `json:"initial_weight_kg"`
	FinalWeightKg      float64 `json:"final_weight_kg"`
	ProcessTimeMinutes float64 `json:"time_min"`

	// ToolDiameterMm is accepted for completeness and does not affect the result.
	ToolDiameterMm *float64 `json:"tool_diameter_mm,omitempty"`
}

// Factors are the environment-dependent coefficients of a calculation.
// They are supplied per call so that no calculation depends on global state.
type Factors struct {
	// CarbonIntensity is the grid emission factor in kg CO2 per kWh (> 0).
	CarbonIntensity float64 `json:"carbon_intensity"`

	// DriveEfficiency divides cutting energy (0 < e <= 1).
	// Zero selects DefaultDriveEfficiency.
	DriveEfficiency float64 `json:"drive_efficiency,omitempty"`
}

// DefaultFactors returns Factors for the given intensity and the default drive efficiency.
func DefaultFactors(intensity float64) Factors {
	return Factors{CarbonIntensity: intensity, DriveEfficiency: DefaultDriveEfficiency}
}

func (f Factors) efficiency() float64 {
	if f.DriveEfficiency == 0 {
		return DefaultDriveEfficiency
	}
	return f.DriveEfficiency
}

// CalculationResult is the energy and carbon breakdown of one operation.
// Values are unrounded; use Rounded for presentation.
type CalculationResult struct {
	RemovedMaterialWeightKg float64 `json:"removed_material_weight_kg"`
	RemovedVolumeCm3        float64 `json:"removed_volume_cm3"`
	ProcessingEnergyKWh     float64 `json:"processing_energy_kwh"`
	IdleEnergyKWh           float64 `json:"idle_energy_kwh"`

	// TotalEnergyKWh always equals ProcessingEnergyKWh + IdleEnergyKWh.
	TotalEnergyKWh float64 `json:"total_energy_kwh"`

	// TotalCarbonKg always equals TotalEnergyKWh × Factors.CarbonIntensity.
	TotalCarbonKg float64 `json:"total_carbon_kg"`
}

// OptimizationTip is an advisory hint derived from a result.
type OptimizationTip struct {
	Code        string `json:"code"`
	IdlePct     int    `json:"idle_pct,omitempty"`
	IncreasePct int    `json:"increase_pct,omitempty"`
}
