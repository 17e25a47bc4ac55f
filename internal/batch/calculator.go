package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/logging"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/registry"
)

// Options tunes batch execution.
type Options struct {
	// Concurrency is the number of rows calculated in parallel. Values <= 1 run sequentially.
	Concurrency int `yaml:"concurrency"`

	// MaxRows rejects larger batches before any work. Zero means unlimited.
	MaxRows int `yaml:"max_rows"`
}

// RowOutcome is the result of one input row: either Result or Err is set.
type RowOutcome struct {
	RowIndex   int
	MachineID  string
	MaterialID string
	Params     carbon.ProcessParameters
	Machine    carbon.MachineProfile
	Material   carbon.MaterialProfile
	Result     *carbon.CalculationResult
	Err        error

	// EnergyCost, Currency and AppliedRatePerKWh are filled in by
	// post-processing, if at all.
	EnergyCost        *float64
	Currency          string
	AppliedRatePerKWh *float64
}

// OK reports whether the row produced a result.
func (o RowOutcome) OK() bool {
	return o.Err == nil && o.Result != nil
}

// RowResult is a successful row.
type RowResult struct {
	RowIndex          int                      `json:"row_index"`
	MachineID         string                   `json:"machine_id"`
	MaterialID        string                   `json:"material_id"`
	Result            carbon.CalculationResult `json:"result"`
	EnergyCost        *float64                 `json:"energy_cost,omitempty"`
	Currency          string                   `json:"energy_currency,omitempty"`
	AppliedRatePerKWh *float64                 `json:"applied_rate_per_kwh,omitempty"`
}

// RowError is a failed row.
type RowError struct {
	RowIndex int    `json:"row_index"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

// Result holds one outcome per input row, in input order.
type Result struct {
	Rows []RowOutcome
}

// Results returns the successful rows in input order.
func (r Result) Results() []RowResult {
	out := make([]RowResult, 0, len(r.Rows))
	for _, o := range r.Rows {
		if !o.OK() {
			continue
		}
		out = append(out, RowResult{
			RowIndex:          o.RowIndex,
			MachineID:         o.MachineID,
			MaterialID:        o.MaterialID,
			Result:            *o.Result,
			EnergyCost:        o.EnergyCost,
			Currency:          o.Currency,
			AppliedRatePerKWh: o.AppliedRatePerKWh,
		})
	}
	return out
}

// Errors returns the failed rows in input order.
func (r Result) Errors() []RowError {
	out := make([]RowError, 0)
	for _, o := range r.Rows {
		if o.OK() {
			continue
		}
		re := RowError{RowIndex: o.RowIndex, Message: o.Err.Error()}
		var verr *carbon.ValidationError
		if errors.As(o.Err, &verr) {
			re.Field = verr.Field
			re.Message = verr.Reason
		}
		out = append(out, re)
	}
	return out
}

// Failed counts the failed rows.
func (r Result) Failed() int {
	n := 0
	for _, o := range r.Rows {
		if !o.OK() {
			n++
		}
	}
	return n
}

// Calculator applies carbon.Calculate to batches of rows.
type Calculator struct {
	lookup  registry.Lookup
	factors carbon.Factors
	opts    Options
	logger  zerolog.Logger
}

// NewCalculator creates a batch calculator resolving profiles through lookup.
func NewCalculator(lookup registry.Lookup, factors carbon.Factors, opts Options, logger zerolog.Logger) *Calculator {
	return &Calculator{
		lookup:  lookup,
		factors: factors,
		opts:    opts,
		logger:  logging.ComponentLogger(logger, "batch"),
	}
}

// WithFactors returns a copy of c using factors.
func (c *Calculator) WithFactors(factors carbon.Factors) *Calculator {
	cp := *c
	cp.factors = factors
	return &cp
}

// Calculate processes rows for scope. A failing row never aborts the batch:
// its error is recorded in the outcome at the same index. The only error
// returned is a *carbon.ValidationError for a batch larger than MaxRows.
// Rows not yet started when ctx is done fail with the context error.
func (c *Calculator) Calculate(ctx context.Context, scope string, rows []RawRow) (Result, error) {
	if c.opts.MaxRows > 0 && len(rows) > c.opts.MaxRows {
		return Result{}, carbon.NewValidationError("rows",
			fmt.Sprintf("batch has %d rows, limit is %d", len(rows), c.opts.MaxRows))
	}

	start := time.Now()
	res := Result{Rows: make([]RowOutcome, len(rows))}
	profiles := newProfileCache(c.lookup)

	if c.opts.Concurrency <= 1 {
		for i := range rows {
			res.Rows[i] = c.calculateRow(ctx, scope, i, rows[i], profiles)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(c.opts.Concurrency)
		for i := range rows {
			g.Go(func() error {
				res.Rows[i] = c.calculateRow(ctx, scope, i, rows[i], profiles)
				return nil
			})
		}
		_ = g.Wait()
	}

	c.logger.Info().
		Str(logging.FieldRequestID, logging.RequestIDFromContext(ctx)).
		Str(logging.FieldScope, scope).
		Int(logging.FieldRows, len(rows)).
		Int(logging.FieldFailed, res.Failed()).
		Int64(logging.FieldDurationMs, time.Since(start).Milliseconds()).
		Msg("batch calculated")
	return res, nil
}

func (c *Calculator) calculateRow(ctx context.Context, scope string, i int, row RawRow, profiles *profileCache) RowOutcome {
	out := RowOutcome{RowIndex: i}

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	parsed, err := ParseRow(row)
	if err != nil {
		out.MachineID = row.MachineID.String()
		out.MaterialID = row.MaterialID.String()
		out.Err = err
		return out
	}
	out.MachineID = parsed.MachineID
	out.MaterialID = parsed.MaterialID
	out.Params = parsed.Params

	machine, err := profiles.machine(ctx, scope, parsed.MachineID)
	if err != nil {
		out.Err = err
		return out
	}
	material, err := profiles.material(ctx, scope, parsed.MaterialID)
	if err != nil {
		out.Err = err
		return out
	}
	out.Machine = machine
	out.Material = material

	result, err := carbon.Calculate(machine, material, parsed.Params, c.factors)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = &result
	return out
}

// profileCache memoizes lookups for the duration of one batch. Not-found
// answers are cached too; other errors are retried on the next row.
type profileCache struct {
	lookup registry.Lookup

	mu        sync.Mutex
	machines  map[string]machineEntry
	materials map[string]materialEntry
}

type machineEntry struct {
	profile carbon.MachineProfile
	err     error
}

type materialEntry struct {
	profile carbon.MaterialProfile
	err     error
}

func newProfileCache(lookup registry.Lookup) *profileCache {
	return &profileCache{
		lookup:    lookup,
		machines:  make(map[string]machineEntry),
		materials: make(map[string]materialEntry),
	}
}

func (p *profileCache) machine(ctx context.Context, scope, id string) (carbon.MachineProfile, error) {
	p.mu.Lock()
	e, ok := p.machines[id]
	p.mu.Unlock()
	if ok {
		return e.profile, e.err
	}

	m, err := p.lookup.Machine(ctx, scope, id)
	if err == nil || errors.Is(err, carbon.ErrNotFound) {
		p.mu.Lock()
		p.machines[id] = machineEntry{profile: m, err: err}
		p.mu.Unlock()
	}
	return m, err
}

func (p *profileCache) material(ctx context.Context, scope, id string) (carbon.MaterialProfile, error) {
	p.mu.Lock()
	e, ok := p.materials[id]
	p.mu.Unlock()
	if ok {
		return e.profile, e.err
	}

	m, err := p.lookup.Material(ctx, scope, id)
	if err == nil || errors.Is(err, carbon.ErrNotFound) {
		p.mu.Lock()
		p.materials[id] = materialEntry{profile: m, err: err}
		p.mu.Unlock()
	}
	return m, err
}
