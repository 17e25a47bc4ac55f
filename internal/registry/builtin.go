package registry

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

//go:embed data/builtin_profiles.yaml
var builtinProfilesYAML []byte

type builtinFile struct {
	Machines  []builtinMachine  `yaml:"machines"`
	Materials []builtinMaterial `yaml:"materials"`
}

type builtinMachine struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	Brand             string  `yaml:"brand"`
	StandbyPowerKW    float64 `yaml:"standby_power_kw"`
	OperatingPowerKW  float64 `yaml:"max_power_kw"`
	EfficiencyPercent float64 `yaml:"efficiency_percent"`
}

type builtinMaterial struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	KcValue float64 `yaml:"kc_value"`
	Density float64 `yaml:"density"`
}

// Catalog is an immutable, ordered set of built-in profiles.
// It satisfies Lookup and ignores the scope argument.
type Catalog struct {
	machines     []carbon.MachineProfile
	materials    []carbon.MaterialProfile
	machineByID  map[string]int
	materialByID map[string]int
}

var (
	builtinCatalog     *Catalog
	builtinCatalogErr  error
	builtinCatalogOnce sync.Once
)

// Builtins returns the embedded built-in catalog, parsed exactly once.
func Builtins() (*Catalog, error) {
	builtinCatalogOnce.Do(func() {
		builtinCatalog, builtinCatalogErr = ParseCatalog(builtinProfilesYAML)
	})
	return builtinCatalog, builtinCatalogErr
}

// ParseCatalog parses a YAML catalog document. Every entry is validated with the
// same rules as custom profiles; duplicate ids are rejected.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file builtinFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profile catalog: %w", err)
	}

	c := &Catalog{
		machineByID:  make(map[string]int, len(file.Machines)),
		materialByID: make(map[string]int, len(file.Materials)),
	}

	for _, m := range file.Machines {
		p := carbon.MachineProfile{
			ID:                strings.TrimSpace(m.ID),
			Name:              strings.TrimSpace(m.Name),
			Brand:             strings.TrimSpace(m.Brand),
			StandbyPowerKW:    m.StandbyPowerKW,
			OperatingPowerKW:  m.OperatingPowerKW,
			EfficiencyPercent: m.EfficiencyPercent,
			Builtin:           true,
		}
		if p.ID == "" {
			return nil, fmt.Errorf("catalog machine %q: missing id", p.Name)
		}
		if _, dup := c.machineByID[p.ID]; dup {
			return nil, fmt.Errorf("catalog machine %q: duplicate id", p.ID)
		}
		if err := validateMachine(p); err != nil {
			return nil, fmt.Errorf("catalog machine %q: %w", p.ID, err)
		}
		c.machineByID[p.ID] = len(c.machines)
		c.machines = append(c.machines, p)
	}

	for _, m := range file.Materials {
		p := carbon.MaterialProfile{
			ID:      strings.TrimSpace(m.ID),
			Name:    strings.TrimSpace(m.Name),
			KcValue: m.KcValue,
			Density: m.Density,
			Builtin: true,
		}
		if p.ID == "" {
			return nil, fmt.Errorf("catalog material %q: missing id", p.Name)
		}
		if _, dup := c.materialByID[p.ID]; dup {
			return nil, fmt.Errorf("catalog material %q: duplicate id", p.ID)
		}
		if err := validateMaterial(p); err != nil {
			return nil, fmt.Errorf("catalog material %q: %w", p.ID, err)
		}
		c.materialByID[p.ID] = len(c.materials)
		c.materials = append(c.materials, p)
	}

	return c, nil
}

// Machines returns a copy of the built-in machines in catalog order.
func (c *Catalog) Machines() []carbon.MachineProfile {
	return append([]carbon.MachineProfile(nil), c.machines...)
}

// Materials returns a copy of the built-in materials in catalog order.
func (c *Catalog) Materials() []carbon.MaterialProfile {
	return append([]carbon.MaterialProfile(nil), c.materials...)
}

// HasMachine reports whether id names a built-in machine.
func (c *Catalog) HasMachine(id string) bool {
	_, ok := c.machineByID[id]
	return ok
}

// HasMaterial reports whether id names a built-in material.
func (c *Catalog) HasMaterial(id string) bool {
	_, ok := c.materialByID[id]
	return ok
}

// Machine implements Lookup.
func (c *Catalog) Machine(_ context.Context, _, id string) (carbon.MachineProfile, error) {
	if i, ok := c.machineByID[id]; ok {
		return c.machines[i], nil
	}
	return carbon.MachineProfile{}, &carbon.NotFoundError{Kind: carbon.KindMachine, ID: id}
}

// Material implements Lookup.
func (c *Catalog) Material(_ context.Context, _, id string) (carbon.MaterialProfile, error) {
	if i, ok := c.materialByID[id]; ok {
		return c.materials[i], nil
	}
	return carbon.MaterialProfile{}, &carbon.NotFoundError{Kind: carbon.KindMaterial, ID: id}
}
