package postgres

// schema is applied in order by Migrate. Statements must stay idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS custom_machines (
		id                 TEXT PRIMARY KEY,
		company_id         TEXT NOT NULL,
		name               TEXT NOT NULL,
		brand              TEXT NOT NULL DEFAULT '',
		standby_power_kw   DOUBLE PRECISION NOT NULL CHECK (standby_power_kw >= 0),
		max_power_kw       DOUBLE PRECISION NOT NULL CHECK (max_power_kw > 0),
		efficiency_percent DOUBLE PRECISION NOT NULL CHECK (efficiency_percent > 0 AND efficiency_percent <= 100),
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT custom_machines_unique_name_per_company UNIQUE (company_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS custom_materials (
		id         TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name       TEXT NOT NULL,
		kc_value   DOUBLE PRECISION NOT NULL CHECK (kc_value > 0),
		density    DOUBLE PRECISION NOT NULL CHECK (density > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT custom_materials_unique_name_per_company UNIQUE (company_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS calculations (
		id          TEXT PRIMARY KEY,
		company_id  TEXT NOT NULL DEFAULT '',
		machine_id  TEXT NOT NULL,
		material_id TEXT NOT NULL,
		payload     JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_custom_machines_company_id ON custom_machines(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_custom_materials_company_id ON custom_materials(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_calculations_company_created ON calculations(company_id, created_at DESC)`,
}
