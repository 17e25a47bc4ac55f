package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseHHMM(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "06:30", want: 390},
		{in: " 23:59 ", want: 1439},
		{in: "7:05", want: 425},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "-1:00", wantErr: true},
		{in: "1200", wantErr: true},
		{in: "12:00:00", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHHMM(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHHMM(%q) = %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHHMM(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHHMM(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestEstimate_Single(t *testing.T) {
	rates := FallbackRates("TR", "TRY")

	q, err := Estimate(5.545804, 30, Request{TariffType: " Single ", Start: "08:00"}, rates)
	if err != nil {
		t.Fatalf("Estimate() failed: %v", err)
	}
	if !almostEqual(q.Cost, 5.545804) {
		t.Errorf("Cost = %v, want 5.545804", q.Cost)
	}
	if q.AppliedRatePerKWh != 1 {
		t.Errorf("AppliedRatePerKWh = %v, want 1", q.AppliedRatePerKWh)
	}
	if q.Currency != "TRY" {
		t.Errorf("Currency = %q, want TRY", q.Currency)
	}
	if q.DurationMinutes != 30 {
		t.Errorf("DurationMinutes = %v, want 30", q.DurationMinutes)
	}
}

func TestEstimate_Multi(t *testing.T) {
	rates := FallbackRates("TR", "TRY") // day 1, peak 2, night 0.8

	tests := []struct {
		name      string
		req       Request
		minutes   float64
		wantDay   float64
		wantPeak  float64
		wantNight float64
		wantRate  float64
	}{
		{
			name:    "entirely in day window",
			req:     Request{TariffType: "multi", Start: "08:00"},
			minutes: 60,
			wantDay: 60, wantRate: 1,
		},
		{
			name:    "straddles day and peak",
			req:     Request{TariffType: "MULTI", Start: "16:30"},
			minutes: 60,
			wantDay: 30, wantPeak: 30, wantRate: 1.5,
		},
		{
			name:      "crosses midnight with end time",
			req:       Request{TariffType: "Multi", Start: "23:00", End: "01:00"},
			minutes:   10,
			wantNight: 120, wantRate: 0.8,
		},
		{
			name:    "night into morning",
			req:     Request{TariffType: "multi", Start: "05:00", End: "07:00"},
			minutes: 120,
			wantDay: 60, wantNight: 60, wantRate: 0.9,
		},
		{
			name:     "peak into night",
			req:      Request{TariffType: "multi", Start: "21:00"},
			minutes:  120,
			wantPeak: 60, wantNight: 60, wantRate: 1.4,
		},
		{
			name:    "end equal to start spans a full day",
			req:     Request{TariffType: "multi", Start: "06:00", End: "06:00"},
			minutes: 1,
			wantDay: 660, wantPeak: 300, wantNight: 480,
			wantRate: (660*1 + 300*2 + 480*0.8) / 1440.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Estimate(10, tt.minutes, tt.req, rates)
			if err != nil {
				t.Fatalf("Estimate() failed: %v", err)
			}
			if q.MinutesDay != tt.wantDay || q.MinutesPeak != tt.wantPeak || q.MinutesNight != tt.wantNight {
				t.Errorf("split = %v/%v/%v, want %v/%v/%v",
					q.MinutesDay, q.MinutesPeak, q.MinutesNight, tt.wantDay, tt.wantPeak, tt.wantNight)
			}
			if !almostEqual(q.AppliedRatePerKWh, tt.wantRate) {
				t.Errorf("AppliedRatePerKWh = %v, want %v", q.AppliedRatePerKWh, tt.wantRate)
			}
			if !almostEqual(q.Cost, 10*tt.wantRate) {
				t.Errorf("Cost = %v, want %v", q.Cost, 10*tt.wantRate)
			}
		})
	}
}

func TestEstimate_CustomWindows(t *testing.T) {
	rates := FallbackRates("TR", "TRY")
	rates.PeakStart = "18:00"

	q, err := Estimate(1, 60, Request{TariffType: "multi", Start: "17:00"}, rates)
	if err != nil {
		t.Fatalf("Estimate() failed: %v", err)
	}
	if q.MinutesDay != 60 || q.MinutesPeak != 0 {
		t.Errorf("split = day %v peak %v, want day 60 peak 0", q.MinutesDay, q.MinutesPeak)
	}
}

func TestEstimate_Errors(t *testing.T) {
	valid := FallbackRates("TR", "TRY")
	noSingle := valid
	noSingle.SingleRatePerKWh = 0
	noPeak := valid
	noPeak.PeakRatePerKWh = 0
	badWindows := valid
	badWindows.PeakStart = "05:00"

	tests := []struct {
		name      string
		kwh       float64
		minutes   float64
		req       Request
		rates     Rates
		wantField string
	}{
		{name: "negative energy", kwh: -1, minutes: 10, req: Request{TariffType: "single", Start: "08:00"}, rates: valid, wantField: "total_energy_kwh"},
		{name: "zero minutes", kwh: 1, minutes: 0, req: Request{TariffType: "single", Start: "08:00"}, rates: valid, wantField: "time_min"},
		{name: "bad start", kwh: 1, minutes: 10, req: Request{TariffType: "single", Start: "8am"}, rates: valid, wantField: "operation_start_hhmm"},
		{name: "bad end", kwh: 1, minutes: 10, req: Request{TariffType: "multi", Start: "08:00", End: "25:00"}, rates: valid, wantField: "operation_end_hhmm"},
		{name: "unknown tariff", kwh: 1, minutes: 10, req: Request{TariffType: "dual", Start: "08:00"}, rates: valid, wantField: "tariff_type"},
		{name: "missing single rate", kwh: 1, minutes: 10, req: Request{TariffType: "single", Start: "08:00"}, rates: noSingle, wantField: "single_rate_per_kwh"},
		{name: "missing peak rate", kwh: 1, minutes: 10, req: Request{TariffType: "multi", Start: "08:00"}, rates: noPeak, wantField: "rates"},
		{name: "unordered windows", kwh: 1, minutes: 10, req: Request{TariffType: "multi", Start: "08:00"}, rates: badWindows, wantField: "windows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(tt.kwh, tt.minutes, tt.req, tt.rates)
			if !errors.Is(err, carbon.ErrValidation) {
				t.Fatalf("Estimate() error = %v, want validation error", err)
			}
			var verr *carbon.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.wantField {
				t.Errorf("field = %v, want %q", err, tt.wantField)
			}
		})
	}
}
