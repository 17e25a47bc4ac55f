package cost

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

// Tariff is a flat electricity price.
type Tariff struct {
	RatePerKWh float64 `json:"rate_per_kwh" yaml:"rate_per_kwh"`
	Currency   string  `json:"currency" yaml:"currency"`
}

// Enriched is a calculation result with its energy cost.
type Enriched struct {
	carbon.CalculationResult

	EnergyCost float64 `json:"energy_cost"`
	// EnergyCostDisplay is EnergyCost rounded half away from zero to MoneyDecimals.
	EnergyCostDisplay decimal.Decimal `json:"energy_cost_display"`
	Currency          string          `json:"energy_currency"`
	RatePerKWh        float64         `json:"applied_rate_per_kwh"`
}

// Enrich prices result under tariff. The rate must be positive and finite.
func Enrich(result carbon.CalculationResult, tariff Tariff) (Enriched, error) {
	if !carbon.IsFinite(tariff.RatePerKWh) || tariff.RatePerKWh <= 0 {
		return Enriched{}, carbon.NewValidationError("rate_per_kwh", "must be > 0")
	}
	currency := strings.ToUpper(strings.TrimSpace(tariff.Currency))
	if currency == "" {
		return Enriched{}, carbon.NewValidationError("currency", "is required")
	}

	cost := result.TotalEnergyKWh * tariff.RatePerKWh
	return Enriched{
		CalculationResult: result,
		EnergyCost:        cost,
		EnergyCostDisplay: RoundMoney(cost),
		Currency:          currency,
		RatePerKWh:        tariff.RatePerKWh,
	}, nil
}

// RoundMoney rounds an amount to MoneyDecimals.
func RoundMoney(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(MoneyDecimals)
}
