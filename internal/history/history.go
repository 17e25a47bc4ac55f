// Package history keeps past calculations. Each record carries a copy of the
// profile values used, so later edits or deletions of a profile never change
// what was reported.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

// ErrNoRecord is returned by stores when a record does not exist in the scope.
var ErrNoRecord = errors.New("history: no record")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// MachineSnapshot is the machine as it was at calculation time.
type MachineSnapshot struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Brand             string  `json:"brand,omitempty"`
	StandbyPowerKW    float64 `json:"standby_power_kw"`
	OperatingPowerKW  float64 `json:"max_power_kw"`
	EfficiencyPercent float64 `json:"efficiency_percent"`
	Builtin           bool    `json:"builtin"`
}

// MaterialSnapshot is the material as it was at calculation time.
type MaterialSnapshot struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	KcValue float64 `json:"kc_value"`
	Density float64 `json:"density"`
	Builtin bool    `json:"builtin"`
}

// SnapshotMachine copies the values of m.
func SnapshotMachine(m carbon.MachineProfile) MachineSnapshot {
	return MachineSnapshot{
		ID:                m.ID,
		Name:              m.Name,
		Brand:             m.Brand,
		StandbyPowerKW:    m.StandbyPowerKW,
		OperatingPowerKW:  m.OperatingPowerKW,
		EfficiencyPercent: m.EfficiencyPercent,
		Builtin:           m.Builtin,
	}
}

// SnapshotMaterial copies the values of m.
func SnapshotMaterial(m carbon.MaterialProfile) MaterialSnapshot {
	return MaterialSnapshot{
		ID:      m.ID,
		Name:    m.Name,
		KcValue: m.KcValue,
		Density: m.Density,
		Builtin: m.Builtin,
	}
}

// Record is one stored calculation.
type Record struct {
	ID       string                   `json:"id"`
	Scope    string                   `json:"company_id,omitempty"`
	Machine  MachineSnapshot          `json:"machine"`
	Material MaterialSnapshot         `json:"material"`
	Params   carbon.ProcessParameters `json:"params"`
	Factors  carbon.Factors           `json:"factors"`
	Result   carbon.CalculationResult `json:"result"`

	EnergyCost *float64 `json:"energy_cost,omitempty"`
	Currency   string   `json:"energy_currency,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewRecord builds a record with a fresh id stamped at now.
func NewRecord(scope string, machine carbon.MachineProfile, material carbon.MaterialProfile,
	params carbon.ProcessParameters, factors carbon.Factors, result carbon.CalculationResult, now time.Time,
) Record {
	now = now.UTC()
	return Record{
		ID:        NewID(now),
		Scope:     scope,
		Machine:   SnapshotMachine(machine),
		Material:  SnapshotMaterial(material),
		Params:    params,
		Factors:   factors,
		Result:    result,
		CreatedAt: now,
	}
}

// NewID returns a ULID for t. Ids sort by creation time.
func NewID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
}

// Store persists records per organization scope.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, scope, id string) (Record, error)
	// List returns the newest records first.
	List(ctx context.Context, scope string, limit int) ([]Record, error)
}

// NotFound maps ErrNoRecord onto the domain error for id.
func NotFound(err error, id string) error {
	if errors.Is(err, ErrNoRecord) {
		return &carbon.NotFoundError{Kind: "calculation", ID: id}
	}
	return err
}
