package registry

import (
	"strings"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

// MachineDraft is the input for a new custom machine. Numeric fields are
// pointers so that a missing value is distinguishable from zero.
type MachineDraft struct {
	Name              string   `json:"name"`
	Brand             string   `json:"brand"`
	StandbyPowerKW    *float64 `json:"standby_power_kw"`
	OperatingPowerKW  *float64 `json:"max_power_kw"`
	EfficiencyPercent *float64 `json:"efficiency_percent"`
}

// MachinePatch lists the machine fields to change; nil fields are kept.
type MachinePatch struct {
	Name              *string  `json:"name"`
	Brand             *string  `json:"brand"`
	StandbyPowerKW    *float64 `json:"standby_power_kw"`
	OperatingPowerKW  *float64 `json:"max_power_kw"`
	EfficiencyPercent *float64 `json:"efficiency_percent"`
}

// MaterialDraft is the input for a new custom material.
type MaterialDraft struct {
	Name    string   `json:"name"`
	KcValue *float64 `json:"kc_value"`
	Density *float64 `json:"density"`
}

// MaterialPatch lists the material fields to change; nil fields are kept.
type MaterialPatch struct {
	Name    *string  `json:"name"`
	KcValue *float64 `json:"kc_value"`
	Density *float64 `json:"density"`
}

const maxEfficiencyPercent = 100

func (d MachineDraft) profile() (carbon.MachineProfile, error) {
	required := []struct {
		field string
		v     *float64
	}{
		{"standby_power_kw", d.StandbyPowerKW},
		{"max_power_kw", d.OperatingPowerKW},
		{"efficiency_percent", d.EfficiencyPercent},
	}
	for _, r := range required {
		if r.v == nil {
			return carbon.MachineProfile{}, carbon.NewValidationError(r.field, "is required")
		}
	}

	p := carbon.MachineProfile{
		Name:              strings.TrimSpace(d.Name),
		Brand:             strings.TrimSpace(d.Brand),
		StandbyPowerKW:    *d.StandbyPowerKW,
		OperatingPowerKW:  *d.OperatingPowerKW,
		EfficiencyPercent: *d.EfficiencyPercent,
	}
	return p, validateMachine(p)
}

func (patch MachinePatch) apply(p carbon.MachineProfile) (carbon.MachineProfile, error) {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Brand != nil {
		p.Brand = strings.TrimSpace(*patch.Brand)
	}
	if patch.StandbyPowerKW != nil {
		p.StandbyPowerKW = *patch.StandbyPowerKW
	}
	if patch.OperatingPowerKW != nil {
		p.OperatingPowerKW = *patch.OperatingPowerKW
	}
	if patch.EfficiencyPercent != nil {
		p.EfficiencyPercent = *patch.EfficiencyPercent
	}
	return p, validateMachine(p)
}

func (d MaterialDraft) profile() (carbon.MaterialProfile, error) {
	if d.KcValue == nil {
		return carbon.MaterialProfile{}, carbon.NewValidationError("kc_value", "is required")
	}
	if d.Density == nil {
		return carbon.MaterialProfile{}, carbon.NewValidationError("density", "is required")
	}

	p := carbon.MaterialProfile{
		Name:    strings.TrimSpace(d.Name),
		KcValue: *d.KcValue,
		Density: *d.Density,
	}
	return p, validateMaterial(p)
}

func (patch MaterialPatch) apply(p carbon.MaterialProfile) (carbon.MaterialProfile, error) {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.KcValue != nil {
		p.KcValue = *patch.KcValue
	}
	if patch.Density != nil {
		p.Density = *patch.Density
	}
	return p, validateMaterial(p)
}

func validateMachine(p carbon.MachineProfile) error {
	switch {
	case p.Name == "":
		return carbon.NewValidationError("name", "is required")
	case !carbon.IsFinite(p.StandbyPowerKW) || p.StandbyPowerKW < 0:
		return carbon.NewValidationError("standby_power_kw", "must be a finite value >= 0")
	case !carbon.IsFinite(p.OperatingPowerKW) || p.OperatingPowerKW <= 0:
		return carbon.NewValidationError("max_power_kw", "must be a finite value > 0")
	case !carbon.IsFinite(p.EfficiencyPercent) || p.EfficiencyPercent <= 0 || p.EfficiencyPercent > maxEfficiencyPercent:
		return carbon.NewValidationError("efficiency_percent", "must be in (0, 100]")
	}
	return nil
}

func validateMaterial(p carbon.MaterialProfile) error {
	switch {
	case p.Name == "":
		return carbon.NewValidationError("name", "is required")
	case !carbon.IsFinite(p.KcValue) || p.KcValue <= 0:
		return carbon.NewValidationError("kc_value", "must be a finite value > 0")
	case !carbon.IsFinite(p.Density) || p.Density <= 0:
		return carbon.NewValidationError("density", "must be a finite value > 0")
	}
	return nil
}
