// Package cost derives secondary metrics from a calculation result: the
// monetary energy cost under a tariff and carbon equivalences people can
// relate to.
package cost

// Default equivalence factors. Region-specific values come from configuration.
const (
	// TreeAbsorptionKgPerYear is the CO2 one mature tree absorbs in a year.
	TreeAbsorptionKgPerYear = 21.0

	// CarKgCO2PerKm is the tailpipe emission of an average passenger car.
	CarKgCO2PerKm = 0.21

	// DeviceChargeKWh is the energy of one full smartphone charge.
	DeviceChargeKWh = 0.01
)

// MoneyDecimals is the number of decimal places in displayed energy cost.
const MoneyDecimals = 2
