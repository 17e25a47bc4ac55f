package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

const minutesPerDay = 24 * 60

// Request describes when an operation ran and which tariff applies.
type Request struct {
	// TariffType is "single" or "multi", case-insensitive.
	TariffType string
	// Start is the operation start as HH:MM.
	Start string
	// End is the optional operation end as HH:MM. An end at or before Start
	// means the operation crossed midnight.
	End string
}

// Quote is an electricity cost for one operation.
type Quote struct {
	Cost              float64 `json:"energy_cost"`
	Currency          string  `json:"energy_currency"`
	AppliedRatePerKWh float64 `json:"applied_rate_per_kwh"`
	DurationMinutes   float64 `json:"duration_minutes"`
	MinutesDay        float64 `json:"minutes_day"`
	MinutesPeak       float64 `json:"minutes_peak"`
	MinutesNight      float64 `json:"minutes_night"`
}

// ParseHHMM parses "HH:MM" into minutes since midnight.
func ParseHHMM(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("time %q must be in HH:MM format", value)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("time %q must be in HH:MM format", value)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("time %q must be in HH:MM format", value)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour must be between 0 and 23, got %d", hour)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("minute must be between 0 and 59, got %d", minute)
	}
	return hour*60 + minute, nil
}

// Validate checks a tariff row. Rates may be zero for tariff types the row
// does not serve; Estimate rejects them at use.
func (r Rates) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"single_rate_per_kwh", r.SingleRatePerKWh},
		{"day_rate_per_kwh", r.DayRatePerKWh},
		{"peak_rate_per_kwh", r.PeakRatePerKWh},
		{"night_rate_per_kwh", r.NightRatePerKWh},
	}
	for _, f := range fields {
		if !carbon.IsFinite(f.v) || f.v < 0 {
			return carbon.NewValidationError(f.name, "must be a non-negative number")
		}
	}
	if _, err := r.windows(); err != nil {
		return err
	}
	return nil
}

type windows struct {
	day, peak, night int
}

func (r Rates) windows() (windows, error) {
	parse := func(field, value, fallback string) (int, error) {
		if value == "" {
			value = fallback
		}
		m, err := ParseHHMM(value)
		if err != nil {
			return 0, carbon.NewValidationError(field, err.Error())
		}
		return m, nil
	}

	var w windows
	var err error
	if w.day, err = parse("day_start", r.DayStart, DefaultDayStart); err != nil {
		return w, err
	}
	if w.peak, err = parse("peak_start", r.PeakStart, DefaultPeakStart); err != nil {
		return w, err
	}
	if w.night, err = parse("night_start", r.NightStart, DefaultNightStart); err != nil {
		return w, err
	}
	if w.day >= w.peak || w.peak >= w.night {
		return w, carbon.NewValidationError("windows", "day_start < peak_start < night_start required")
	}
	return w, nil
}

// Estimate prices totalKWh under rates.
//
// Single tariffs charge a flat rate. Multi tariffs split the operation across
// the day, peak and night windows (night wraps midnight) and charge the
// minute-weighted average rate for the whole energy. The interval is
// Start..End when End is given, otherwise Start plus processMinutes.
func Estimate(totalKWh, processMinutes float64, req Request, rates Rates) (Quote, error) {
	if !carbon.IsFinite(totalKWh) || totalKWh < 0 {
		return Quote{}, carbon.NewValidationError("total_energy_kwh", "must be >= 0")
	}
	if !carbon.IsFinite(processMinutes) || processMinutes <= 0 {
		return Quote{}, carbon.NewValidationError("time_min", "must be > 0")
	}

	tariff := strings.ToLower(strings.TrimSpace(req.TariffType))
	start, err := ParseHHMM(req.Start)
	if err != nil {
		return Quote{}, carbon.NewValidationError("operation_start_hhmm", err.Error())
	}

	duration := processMinutes
	if strings.TrimSpace(req.End) != "" {
		end, err := ParseHHMM(req.End)
		if err != nil {
			return Quote{}, carbon.NewValidationError("operation_end_hhmm", err.Error())
		}
		if end <= start {
			end += minutesPerDay
		}
		duration = float64(end - start)
	}
	intervalStart := start
	intervalEnd := start + int(math.RoundToEven(duration))

	switch tariff {
	case TariffSingle:
		if rates.SingleRatePerKWh <= 0 {
			return Quote{}, carbon.NewValidationError("single_rate_per_kwh", "must be > 0 for single tariff")
		}
		return Quote{
			Cost:              totalKWh * rates.SingleRatePerKWh,
			Currency:          rates.Currency,
			AppliedRatePerKWh: rates.SingleRatePerKWh,
			DurationMinutes:   duration,
		}, nil
	case TariffMulti:
	default:
		return Quote{}, carbon.NewValidationError("tariff_type", "tariff_type must be 'Single' or 'Multi'")
	}

	if rates.DayRatePerKWh <= 0 || rates.PeakRatePerKWh <= 0 || rates.NightRatePerKWh <= 0 {
		return Quote{}, carbon.NewValidationError("rates", "day/peak/night rates must be > 0 for multi tariff")
	}
	w, err := rates.windows()
	if err != nil {
		return Quote{}, err
	}

	var day, peak, night int
	// Two days cover any interval starting before midnight and lasting under 24h.
	for _, offset := range []int{0, minutesPerDay} {
		day += overlap(intervalStart, intervalEnd, w.day+offset, w.peak+offset)
		peak += overlap(intervalStart, intervalEnd, w.peak+offset, w.night+offset)
		night += overlap(intervalStart, intervalEnd, w.night+offset, minutesPerDay+offset)
		night += overlap(intervalStart, intervalEnd, offset, w.day+offset)
	}

	total := max(1, intervalEnd-intervalStart)
	weighted := (float64(day)*rates.DayRatePerKWh +
		float64(peak)*rates.PeakRatePerKWh +
		float64(night)*rates.NightRatePerKWh) / float64(total)

	return Quote{
		Cost:              totalKWh * weighted,
		Currency:          rates.Currency,
		AppliedRatePerKWh: weighted,
		DurationMinutes:   duration,
		MinutesDay:        float64(day),
		MinutesPeak:       float64(peak),
		MinutesNight:      float64(night),
	}, nil
}

func overlap(aStart, aEnd, bStart, bEnd int) int {
	return max(0, min(aEnd, bEnd)-max(aStart, bStart))
}
