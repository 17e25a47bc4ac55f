package service

import (
	"context"
	"time"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/batch"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/cost"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/logging"
)

// BatchResponse summarises a batch. Results and Errors are in row order.
type BatchResponse struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []batch.RowResult `json:"results"`
	Errors    []batch.RowError  `json:"errors"`

	// Outcome keeps the unrounded per-row outcomes for CSV export.
	Outcome batch.Result `json:"-"`
}

// Batch calculates rows for scope and prices every successful row at the
// single rate of the configured tariff.
func (s *Service) Batch(ctx context.Context, scope string, rows []batch.RawRow) (BatchResponse, error) {
	start := time.Now()
	res, err := s.batch.Calculate(ctx, scope, rows)
	if err != nil {
		return BatchResponse{}, err
	}

	rates, _ := s.tariffs.Rates(s.cfg.Electricity.Region, s.cfg.Electricity.Currency)
	tariff := cost.Tariff{RatePerKWh: rates.SingleRatePerKWh, Currency: s.cfg.Electricity.Currency}
	for i := range res.Rows {
		o := &res.Rows[i]
		if !o.OK() {
			continue
		}
		enriched, err := cost.Enrich(*o.Result, tariff)
		if err != nil {
			s.logger.Warn().
				Str(logging.FieldRequestID, logging.RequestIDFromContext(ctx)).
				Err(err).
				Msg("batch rows left unpriced")
			break
		}
		amount, _ := enriched.EnergyCostDisplay.Float64()
		o.EnergyCost = &amount
		o.Currency = enriched.Currency
		rate := enriched.RatePerKWh
		o.AppliedRatePerKWh = &rate
	}

	results := res.Results()
	for i := range results {
		results[i].Result = results[i].Result.Rounded(s.cfg.Carbon.Rounding)
	}
	failed := res.Failed()
	s.metrics.RecordBatch(len(rows)-failed, failed, time.Since(start))

	return BatchResponse{
		Total:     len(rows),
		Succeeded: len(rows) - failed,
		Failed:    failed,
		Results:   results,
		Errors:    res.Errors(),
		Outcome:   res,
	}, nil
}
