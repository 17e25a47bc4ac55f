// Package service orchestrates a calculation end to end: profile
// resolution, the energy model, insights, tariffs, equivalences, history
// and metrics.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/batch"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/config"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/cost"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/history"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/logging"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/metrics"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/pricing"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/registry"
)

// Service is safe for concurrent use.
type Service struct {
	cfg      config.Config
	registry *registry.Registry
	batch    *batch.Calculator
	history  history.Store
	tariffs  pricing.PricingClient
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for history timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// New wires a Service. A nil metrics uses a private registry.
func New(cfg config.Config, reg *registry.Registry, hist history.Store, tariffs pricing.PricingClient,
	m *metrics.Metrics, logger zerolog.Logger, opts ...Option,
) *Service {
	if m == nil {
		m = metrics.NewUnregistered()
	}
	s := &Service{
		cfg:      cfg,
		registry: reg,
		batch:    batch.NewCalculator(reg, cfg.Carbon.Factors(nil, ""), cfg.Batch, logger),
		history:  hist,
		tariffs:  tariffs,
		metrics:  m,
		logger:   logging.ComponentLogger(logger, "service"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the profile registry.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Config returns the configuration the service was built with.
func (s *Service) Config() config.Config {
	return s.cfg
}

// CalculateRequest is a single-operation calculation.
type CalculateRequest struct {
	MachineID       string   `json:"machine_id"`
	MaterialID      string   `json:"material_id"`
	InitialWeightKg *float64 `json:"initial_weight_kg"`
	FinalWeightKg   *float64 `json:"final_weight_kg"`
	TimeMin         *float64 `json:"time_min"`
	ToolDiameterMm  *float64 `json:"tool_diameter_mm,omitempty"`

	// Region selects the grid factor when no intensity is given or configured.
	Region          string   `json:"region,omitempty"`
	CarbonIntensity *float64 `json:"carbon_intensity,omitempty"`

	// Energy cost is computed only when OperationStartHHMM is set.
	TariffType         string `json:"tariff_type,omitempty"`
	Currency           string `json:"currency,omitempty"`
	OperationStartHHMM string `json:"operation_start_hhmm,omitempty"`
	OperationEndHHMM   string `json:"operation_end_hhmm,omitempty"`
}

// CalculateResponse carries the rounded result and its enrichments.
type CalculateResponse struct {
	CalculationID string `json:"calculation_id,omitempty"`
	MachineID     string `json:"machine_id"`
	MaterialID    string `json:"material_id"`

	carbon.CalculationResult

	CarbonIntensity  float64                  `json:"carbon_intensity"`
	EfficiencyScore  int                      `json:"efficiency_score"`
	OptimizationTips []carbon.OptimizationTip `json:"optimization_tips"`

	EnergyCost        *float64 `json:"energy_cost,omitempty"`
	EnergyCurrency    string   `json:"energy_currency,omitempty"`
	AppliedRatePerKWh *float64 `json:"applied_rate_per_kwh,omitempty"`
	EnergyCostError   string   `json:"energy_cost_error,omitempty"`

	Equivalents cost.Equivalence `json:"equivalents"`
}

// Calculate resolves both profiles for scope and computes one operation.
// Tariff problems do not fail the call; they are reported in EnergyCostError.
func (s *Service) Calculate(ctx context.Context, scope string, req CalculateRequest) (CalculateResponse, error) {
	resp, err := s.calculate(ctx, scope, req)
	switch {
	case err == nil:
		s.metrics.RecordCalculation(metrics.OutcomeOK, resp.TotalEnergyKWh)
	case errors.Is(err, carbon.ErrValidation):
		s.metrics.RecordCalculation(metrics.OutcomeInvalid, 0)
	case errors.Is(err, carbon.ErrNotFound):
		s.metrics.RecordCalculation(metrics.OutcomeMissing, 0)
	default:
		s.metrics.RecordCalculation(metrics.OutcomeError, 0)
	}
	return resp, err
}

func (s *Service) calculate(ctx context.Context, scope string, req CalculateRequest) (CalculateResponse, error) {
	machineID := strings.TrimSpace(req.MachineID)
	materialID := strings.TrimSpace(req.MaterialID)
	if machineID == "" {
		return CalculateResponse{}, carbon.NewValidationError("machine_id", "is required")
	}
	if materialID == "" {
		return CalculateResponse{}, carbon.NewValidationError("material_id", "is required")
	}
	required := []struct {
		field string
		value *float64
	}{
		{"initial_weight_kg", req.InitialWeightKg},
		{"final_weight_kg", req.FinalWeightKg},
		{"time_min", req.TimeMin},
	}
	for _, r := range required {
		if r.value == nil {
			return CalculateResponse{}, carbon.NewValidationError(r.field, "is required")
		}
	}
	if o := req.CarbonIntensity; o != nil && (!carbon.IsFinite(*o) || *o <= 0) {
		return CalculateResponse{}, carbon.NewValidationError("carbon_intensity", "non-positive carbon intensity")
	}

	machine, err := s.registry.Machine(ctx, scope, machineID)
	if err != nil {
		return CalculateResponse{}, err
	}
	material, err := s.registry.Material(ctx, scope, materialID)
	if err != nil {
		return CalculateResponse{}, err
	}

	params := carbon.ProcessParameters{
		InitialWeightKg:    *req.InitialWeightKg,
		FinalWeightKg:      *req.FinalWeightKg,
		ProcessTimeMinutes: *req.TimeMin,
		ToolDiameterMm:     req.ToolDiameterMm,
	}
	factors := s.cfg.Carbon.Factors(req.CarbonIntensity, req.Region)

	result, err := carbon.Calculate(machine, material, params, factors)
	if err != nil {
		return CalculateResponse{}, err
	}

	resp := CalculateResponse{
		MachineID:         machineID,
		MaterialID:        materialID,
		CalculationResult: result.Rounded(s.cfg.Carbon.Rounding),
		CarbonIntensity:   factors.CarbonIntensity,
		EfficiencyScore:   carbon.EfficiencyScore(result),
		OptimizationTips:  carbon.OptimizationTips(result, material),
		Equivalents:       cost.Equivalents(result, s.cfg.Equivalence),
	}

	if strings.TrimSpace(req.OperationStartHHMM) != "" {
		s.applyTariff(&resp, result, params, req)
	}

	rec := history.NewRecord(scope, machine, material, params, factors, result, s.now())
	rec.EnergyCost = resp.EnergyCost
	rec.Currency = resp.EnergyCurrency
	if err := s.history.Save(ctx, rec); err != nil {
		s.logger.Error().
			Str(logging.FieldRequestID, logging.RequestIDFromContext(ctx)).
			Err(err).
			Msg("failed to save calculation history")
	} else {
		resp.CalculationID = rec.ID
	}

	s.logger.Debug().
		Str(logging.FieldRequestID, logging.RequestIDFromContext(ctx)).
		Str(logging.FieldScope, scope).
		Str(logging.FieldMachineID, machineID).
		Str(logging.FieldMaterialID, materialID).
		Float64("total_energy_kwh", result.TotalEnergyKWh).
		Float64("total_carbon_kg", result.TotalCarbonKg).
		Msg("calculation completed")
	return resp, nil
}

func (s *Service) applyTariff(resp *CalculateResponse, result carbon.CalculationResult, params carbon.ProcessParameters, req CalculateRequest) {
	tariffType := req.TariffType
	if strings.TrimSpace(tariffType) == "" {
		tariffType = s.cfg.Electricity.TariffType
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.tariffs.Currency()
	}

	rates, found := s.tariffs.Rates(s.cfg.Electricity.Region, currency)
	if !found {
		s.logger.Debug().Str("currency", currency).Msg("no tariff table entry, using fallback rates")
	}
	rates.Currency = currency

	q, err := pricing.Estimate(result.TotalEnergyKWh, params.ProcessTimeMinutes, pricing.Request{
		TariffType: tariffType,
		Start:      req.OperationStartHHMM,
		End:        req.OperationEndHHMM,
	}, rates)
	if err != nil {
		var verr *carbon.ValidationError
		if errors.As(err, &verr) {
			resp.EnergyCostError = verr.Reason
		} else {
			resp.EnergyCostError = err.Error()
		}
		return
	}

	amount, _ := cost.RoundMoney(q.Cost).Float64()
	resp.EnergyCost = &amount
	resp.EnergyCurrency = q.Currency
	resp.AppliedRatePerKWh = &q.AppliedRatePerKWh
}
