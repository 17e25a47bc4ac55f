// Package carbon estimates the electrical energy and carbon emissions of CNC
// machining operations from a machine profile, a material profile and the
// process parameters of a single cut.
package carbon

const (
	// DefaultDriveEfficiency is the spindle drive efficiency applied to cutting energy.
	// Source: CarbonCAM machining model (fixed 85% drive and transmission efficiency).
	DefaultDriveEfficiency = 0.85

	// CubicCentimetresPerCubicMetre converts a volume in m³ to cm³.
	CubicCentimetresPerCubicMetre = 1_000_000.0

	// KcEnergyDivisor converts kc × cm³ to watt-hours in the machining model.
	// Source: CarbonCAM machining model.
	KcEnergyDivisor = 60.0

	// WattHoursPerKWh converts watt-hours to kilowatt-hours.
	WattHoursPerKWh = 1000.0

	// MinutesPerHour converts process minutes to hours for idle energy.
	MinutesPerHour = 60.0
)

// Insight thresholds.
const (
	// IdleShareTipThresholdPct is the idle share of total energy (percent) above
	// which an idle_high optimisation tip is emitted.
	IdleShareTipThresholdPct = 30

	// AluminumFeedRateIncreasePct is the feed rate increase suggested for aluminium.
	AluminumFeedRateIncreasePct = 15

	// MaxEfficiencyScore is the upper bound of EfficiencyScore.
	MaxEfficiencyScore = 100
)

// Optimisation tip codes.
const (
	TipIdleHigh                 = "idle_high"
	TipMaterialAluminumFeedRate = "material_aluminum_feed_rate"
)
