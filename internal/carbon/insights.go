package carbon

import (
	"math"
	"strings"
)

// EfficiencyScore is the share of total energy spent cutting, as a whole percent in [0, 100].
// It returns 0 when the total energy is not positive.
func EfficiencyScore(r CalculationResult) int {
	if r.TotalEnergyKWh <= 0 {
		return 0
	}
	pct := r.ProcessingEnergyKWh / r.TotalEnergyKWh * 100
	return int(math.RoundToEven(Clamp(pct, 0, MaxEfficiencyScore)))
}

// IdleSharePct is the idle share of total energy as a whole percent.
func IdleSharePct(r CalculationResult) int {
	if r.TotalEnergyKWh <= 0 {
		return 0
	}
	return int(math.RoundToEven(r.IdleEnergyKWh / r.TotalEnergyKWh * 100))
}

// OptimizationTips returns advisory tips for a result, in a stable order.
func OptimizationTips(r CalculationResult, material MaterialProfile) []OptimizationTip {
	tips := make([]OptimizationTip, 0, 2)

	if idle := IdleSharePct(r); idle > IdleShareTipThresholdPct {
		tips = append(tips, OptimizationTip{Code: TipIdleHigh, IdlePct: idle})
	}

	if IsAluminum(material) {
		tips = append(tips, OptimizationTip{
			Code:        TipMaterialAluminumFeedRate,
			IncreasePct: AluminumFeedRateIncreasePct,
		})
	}

	return tips
}

// aluminumMarkers are matched case-insensitively against material id and name.
var aluminumMarkers = []string{"aluminum", "alümin", "alu"}

// IsAluminum reports whether the material id or name denotes an aluminium alloy.
func IsAluminum(material MaterialProfile) bool {
	v := strings.ToLower(material.ID + " " + material.Name)
	for _, marker := range aluminumMarkers {
		if strings.Contains(v, marker) {
			return true
		}
	}
	return false
}
