package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/postgres"
)

// PGStore stores records in the calculations table as JSONB payloads.
type PGStore struct {
	db postgres.DB
}

// NewPGStore creates a store over db.
func NewPGStore(db postgres.DB) *PGStore {
	return &PGStore{db: db}
}

// Save implements Store.
func (s *PGStore) Save(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode calculation %s: %w", rec.ID, err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO calculations (id, company_id, machine_id, material_id, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Scope, rec.Machine.ID, rec.Material.ID, payload, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert calculation %s: %w", rec.ID, err)
	}
	return nil
}

// Get implements Store.
func (s *PGStore) Get(ctx context.Context, scope, id string) (Record, error) {
	var payload []byte
	err := s.db.QueryRow(ctx,
		`SELECT payload FROM calculations WHERE company_id = $1 AND id = $2`, scope, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNoRecord
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to query calculation %s: %w", id, err)
	}
	return decode(payload)
}

// List implements Store.
func (s *PGStore) List(ctx context.Context, scope string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.Query(ctx,
		`SELECT payload FROM calculations WHERE company_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		scope, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		rec, err := decode(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calculations: %w", err)
	}
	return out, nil
}

func decode(payload []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode calculation payload: %w", err)
	}
	return rec, nil
}
