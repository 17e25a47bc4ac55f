package pricing

// Tariff types.
const (
	TariffSingle = "single"
	TariffMulti  = "multi"
)

// Default window boundaries of a multi tariff.
const (
	DefaultDayStart   = "06:00"
	DefaultPeakStart  = "17:00"
	DefaultNightStart = "22:00"
)

// Rates are the per-kWh prices and window boundaries for one region and currency.
type Rates struct {
	Region   string `yaml:"region" json:"region"`
	Currency string `yaml:"currency" json:"currency"`

	SingleRatePerKWh float64 `yaml:"single_rate_per_kwh" json:"single_rate_per_kwh"`
	DayRatePerKWh    float64 `yaml:"day_rate_per_kwh" json:"day_rate_per_kwh"`
	PeakRatePerKWh   float64 `yaml:"peak_rate_per_kwh" json:"peak_rate_per_kwh"`
	NightRatePerKWh  float64 `yaml:"night_rate_per_kwh" json:"night_rate_per_kwh"`

	// Window starts as HH:MM. Day runs to peak, peak to night, night wraps to day.
	DayStart   string `yaml:"day_start" json:"day_start"`
	PeakStart  string `yaml:"peak_start" json:"peak_start"`
	NightStart string `yaml:"night_start" json:"night_start"`
}

// FallbackRates are used when no table row matches and nothing is configured.
func FallbackRates(region, currency string) Rates {
	return Rates{
		Region:           region,
		Currency:         currency,
		SingleRatePerKWh: 1,
		DayRatePerKWh:    1,
		PeakRatePerKWh:   2,
		NightRatePerKWh:  0.8,
		DayStart:         DefaultDayStart,
		PeakStart:        DefaultPeakStart,
		NightStart:       DefaultNightStart,
	}
}

// Merge returns r with every non-zero field of override applied.
func (r Rates) Merge(override Rates) Rates {
	if override.SingleRatePerKWh > 0 {
		r.SingleRatePerKWh = override.SingleRatePerKWh
	}
	if override.DayRatePerKWh > 0 {
		r.DayRatePerKWh = override.DayRatePerKWh
	}
	if override.PeakRatePerKWh > 0 {
		r.PeakRatePerKWh = override.PeakRatePerKWh
	}
	if override.NightRatePerKWh > 0 {
		r.NightRatePerKWh = override.NightRatePerKWh
	}
	if override.DayStart != "" {
		r.DayStart = override.DayStart
	}
	if override.PeakStart != "" {
		r.PeakStart = override.PeakStart
	}
	if override.NightStart != "" {
		r.NightStart = override.NightStart
	}
	return r
}

// rateTable is the embedded tariff document.
type rateTable struct {
	Tariffs []Rates `yaml:"tariffs"`
}
