package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/postgres"
)

// PGMachineStore stores custom machines in the custom_machines table.
type PGMachineStore struct {
	db postgres.DB
}

// NewPGMachineStore creates a machine store over db.
func NewPGMachineStore(db postgres.DB) *PGMachineStore {
	return &PGMachineStore{db: db}
}

const machineColumns = `id, company_id, name, brand, standby_power_kw, max_power_kw, efficiency_percent, created_at, updated_at`

func scanMachine(row pgx.Row) (carbon.MachineProfile, error) {
	var m carbon.MachineProfile
	err := row.Scan(&m.ID, &m.Scope, &m.Name, &m.Brand, &m.StandbyPowerKW, &m.OperatingPowerKW,
		&m.EfficiencyPercent, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// List implements ProfileStore.
func (s *PGMachineStore) List(ctx context.Context, scope string) ([]carbon.MachineProfile, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+machineColumns+` FROM custom_machines WHERE company_id = $1 ORDER BY created_at, id`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to query machines: %w", err)
	}
	defer rows.Close()

	var out []carbon.MachineProfile
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan machine: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating machines: %w", err)
	}
	return out, nil
}

// Get implements ProfileStore.
func (s *PGMachineStore) Get(ctx context.Context, scope, id string) (carbon.MachineProfile, error) {
	m, err := scanMachine(s.db.QueryRow(ctx,
		`SELECT `+machineColumns+` FROM custom_machines WHERE company_id = $1 AND id = $2`, scope, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return carbon.MachineProfile{}, ErrNoRecord
	}
	return m, err
}

// Insert implements ProfileStore.
func (s *PGMachineStore) Insert(ctx context.Context, scope string, m carbon.MachineProfile) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO custom_machines (`+machineColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, scope, m.Name, m.Brand, m.StandbyPowerKW, m.OperatingPowerKW, m.EfficiencyPercent, m.CreatedAt, m.UpdatedAt)
	return execError(err)
}

// Update implements ProfileStore.
func (s *PGMachineStore) Update(ctx context.Context, scope string, m carbon.MachineProfile) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE custom_machines
		 SET name = $3, brand = $4, standby_power_kw = $5, max_power_kw = $6, efficiency_percent = $7, updated_at = $8
		 WHERE company_id = $1 AND id = $2`,
		scope, m.ID, m.Name, m.Brand, m.StandbyPowerKW, m.OperatingPowerKW, m.EfficiencyPercent, m.UpdatedAt)
	if err != nil {
		return execError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRecord
	}
	return nil
}

// Delete implements ProfileStore.
func (s *PGMachineStore) Delete(ctx context.Context, scope, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM custom_machines WHERE company_id = $1 AND id = $2`, scope, id)
	if err != nil {
		return execError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRecord
	}
	return nil
}

// PGMaterialStore stores custom materials in the custom_materials table.
type PGMaterialStore struct {
	db postgres.DB
}

// NewPGMaterialStore creates a material store over db.
func NewPGMaterialStore(db postgres.DB) *PGMaterialStore {
	return &PGMaterialStore{db: db}
}

const materialColumns = `id, company_id, name, kc_value, density, created_at, updated_at`

func scanMaterial(row pgx.Row) (carbon.MaterialProfile, error) {
	var m carbon.MaterialProfile
	err := row.Scan(&m.ID, &m.Scope, &m.Name, &m.KcValue, &m.Density, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// List implements ProfileStore.
func (s *PGMaterialStore) List(ctx context.Context, scope string) ([]carbon.MaterialProfile, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+materialColumns+` FROM custom_materials WHERE company_id = $1 ORDER BY created_at, id`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	var out []carbon.MaterialProfile
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating materials: %w", err)
	}
	return out, nil
}

// Get implements ProfileStore.
func (s *PGMaterialStore) Get(ctx context.Context, scope, id string) (carbon.MaterialProfile, error) {
	m, err := scanMaterial(s.db.QueryRow(ctx,
		`SELECT `+materialColumns+` FROM custom_materials WHERE company_id = $1 AND id = $2`, scope, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return carbon.MaterialProfile{}, ErrNoRecord
	}
	return m, err
}

// Insert implements ProfileStore.
func (s *PGMaterialStore) Insert(ctx context.Context, scope string, m carbon.MaterialProfile) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO custom_materials (`+materialColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, scope, m.Name, m.KcValue, m.Density, m.CreatedAt, m.UpdatedAt)
	return execError(err)
}

// Update implements ProfileStore.
func (s *PGMaterialStore) Update(ctx context.Context, scope string, m carbon.MaterialProfile) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE custom_materials SET name = $3, kc_value = $4, density = $5, updated_at = $6
		 WHERE company_id = $1 AND id = $2`,
		scope, m.ID, m.Name, m.KcValue, m.Density, m.UpdatedAt)
	if err != nil {
		return execError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRecord
	}
	return nil
}

// Delete implements ProfileStore.
func (s *PGMaterialStore) Delete(ctx context.Context, scope, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM custom_materials WHERE company_id = $1 AND id = $2`, scope, id)
	if err != nil {
		return execError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRecord
	}
	return nil
}

func execError(err error) error {
	if err == nil {
		return nil
	}
	if postgres.IsUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}
