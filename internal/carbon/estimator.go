package carbon

// CarbonEstimator computes the energy and carbon of a machining operation.
type CarbonEstimator interface {
	// Estimate validates its inputs and returns the unrounded result.
	Estimate(machine MachineProfile, material MaterialProfile, params ProcessParameters) (CalculationResult, error)
}

// Estimator implements CarbonEstimator with a fixed set of Factors.
type Estimator struct {
	factors Factors
}

// NewEstimator creates an estimator bound to factors.
func NewEstimator(factors Factors) *Estimator {
	return &Estimator{factors: factors}
}

// Factors returns the factors the estimator was created with.
func (e *Estimator) Factors() Factors {
	return e.factors
}

// Estimate runs Calculate with the estimator's factors.
func (e *Estimator) Estimate(machine MachineProfile, material MaterialProfile, params ProcessParameters) (CalculationResult, error) {
	return Calculate(machine, material, params, e.factors)
}

// Calculate validates the inputs and applies the machining energy model.
//
// The calculation:
//  1. Removed weight (kg) = initial − final
//  2. Removed volume (cm³) = (removed / density) × 1,000,000
//  3. Processing energy (kWh) = (volume × kc) / 60 / 1000 / drive efficiency (0.85)
//  4. Idle energy (kWh) = standby power × (minutes / 60)
//  5. Total energy (kWh) = processing + idle
//  6. Carbon (kg CO2) = total energy × carbon intensity
//
// Validation fails fast with a *ValidationError before any arithmetic.
// Calculate has no side effects and is safe for concurrent use.
func Calculate(machine MachineProfile, material MaterialProfile, params ProcessParameters, factors Factors) (CalculationResult, error) {
	if err := Validate(machine, material, params, factors); err != nil {
		return CalculationResult{}, err
	}

	// Step 1: Removed material
	removedKg := params.InitialWeightKg - params.FinalWeightKg

	// Step 2: Removed volume
	volumeCm3 := (removedKg / material.Density) * CubicCentimetresPerCubicMetre

	// Step 3: Cutting energy through the spindle drive
	processingKWh := (volumeCm3 * material.KcValue) / KcEnergyDivisor / WattHoursPerKWh / factors.efficiency()

	// Step 4: Standby draw for the whole operation
	idleKWh := machine.StandbyPowerKW * (params.ProcessTimeMinutes / MinutesPerHour)

	// Step 5 and 6
	totalKWh := processingKWh + idleKWh

	return CalculationResult{
		RemovedMaterialWeightKg: removedKg,
		RemovedVolumeCm3:        volumeCm3,
		ProcessingEnergyKWh:     processingKWh,
		IdleEnergyKWh:           idleKWh,
		TotalEnergyKWh:          totalKWh,
		TotalCarbonKg:           totalKWh * factors.CarbonIntensity,
	}, nil
}
