package cost

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

// referenceResult is the 10 kg to 9.2 kg steel cut on the standard machine.
func referenceResult() carbon.CalculationResult {
	return carbon.CalculationResult{
		RemovedMaterialWeightKg: 0.8,
		RemovedVolumeCm3:        101.91082802547771,
		ProcessingEnergyKWh:     4.795803671787186,
		IdleEnergyKWh:           0.75,
		TotalEnergyKWh:          5.545803671787186,
		TotalCarbonKg:           2.440153615586362,
	}
}

func TestEnrich(t *testing.T) {
	got, err := Enrich(referenceResult(), Tariff{RatePerKWh: 2.5, Currency: "try"})
	require.NoError(t, err)

	assert.InDelta(t, 13.864509, got.EnergyCost, 1e-6)
	assert.Equal(t, "13.86", got.EnergyCostDisplay.String())
	assert.Equal(t, "TRY", got.Currency)
	assert.Equal(t, 2.5, got.RatePerKWh)
	assert.Equal(t, referenceResult(), got.CalculationResult)
}

func TestEnrich_Errors(t *testing.T) {
	tests := []struct {
		name      string
		tariff    Tariff
		wantField string
	}{
		{name: "zero rate", tariff: Tariff{RatePerKWh: 0, Currency: "TRY"}, wantField: "rate_per_kwh"},
		{name: "negative rate", tariff: Tariff{RatePerKWh: -1, Currency: "TRY"}, wantField: "rate_per_kwh"},
		{name: "NaN rate", tariff: Tariff{RatePerKWh: math.NaN(), Currency: "TRY"}, wantField: "rate_per_kwh"},
		{name: "missing currency", tariff: Tariff{RatePerKWh: 1, Currency: "  "}, wantField: "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Enrich(referenceResult(), tt.tariff)
			require.ErrorIs(t, err, carbon.ErrValidation)
			var verr *carbon.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "0.13", RoundMoney(0.125).String())
	assert.Equal(t, "1.5", RoundMoney(1.499999).String())
	assert.Equal(t, "0", RoundMoney(0.001).String())
}

func TestEquivalents(t *testing.T) {
	r := referenceResult()

	got := Equivalents(r, DefaultEquivalenceFactors())
	assert.InDelta(t, r.TotalCarbonKg/21, got.TreesPerYear, 1e-12)
	assert.InDelta(t, r.TotalCarbonKg/0.21, got.CarKmEquivalent, 1e-9)
	assert.InDelta(t, r.TotalEnergyKWh/0.01, got.DeviceCharges, 1e-9)

	zero := Equivalents(r, EquivalenceFactors{})
	assert.Equal(t, got, zero, "zero factors fall back to defaults")

	custom := Equivalents(r, EquivalenceFactors{TreeAbsorptionKgPerYear: 10, CarKgCO2PerKm: 0.1, DeviceChargeKWh: 0.02})
	assert.InDelta(t, r.TotalCarbonKg/10, custom.TreesPerYear, 1e-12)
	assert.InDelta(t, r.TotalCarbonKg/0.1, custom.CarKmEquivalent, 1e-9)
	assert.InDelta(t, r.TotalEnergyKWh/0.02, custom.DeviceCharges, 1e-9)
}

func TestEquivalents_ZeroResult(t *testing.T) {
	assert.Equal(t, Equivalence{}, Equivalents(carbon.CalculationResult{}, DefaultEquivalenceFactors()))
}

func TestEquivalenceFactors_Validate(t *testing.T) {
	require.NoError(t, DefaultEquivalenceFactors().Validate())

	f := DefaultEquivalenceFactors()
	f.CarKgCO2PerKm = 0
	err := f.Validate()
	require.ErrorIs(t, err, carbon.ErrValidation)
	var verr *carbon.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "car_kg_co2_per_km", verr.Field)
}

func TestFormatter(t *testing.T) {
	f := NewFormatter(language.Und)

	assert.Equal(t, "18,248", f.Number(18248, 0))
	assert.Equal(t, "0.12", f.Number(0.1162, 2))
	assert.Equal(t, "13.86 TRY", f.Money(13.864509, "TRY"))

	desc := f.Describe(Equivalents(referenceResult(), DefaultEquivalenceFactors()))
	assert.Contains(t, desc, "0.12 trees")
	assert.Contains(t, desc, "~11.6 km")
	assert.Contains(t, desc, "~555 device charges")
}
