package pricing

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient(zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}

	if client == nil {
		t.Fatal("NewClient() returned nil client")
	}

	if client.Region() != "TR" {
		t.Errorf("Region() = %q, want %q", client.Region(), "TR")
	}
	if client.Currency() != "TRY" {
		t.Errorf("Currency() = %q, want %q", client.Currency(), "TRY")
	}
}

func TestClient_WithDefaults(t *testing.T) {
	client, err := NewClient(zerolog.Nop(), WithDefaults("de", "eur"))
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	if client.Region() != "DE" || client.Currency() != "EUR" {
		t.Errorf("defaults = %s/%s, want DE/EUR", client.Region(), client.Currency())
	}

	r, found := client.Rates("", "")
	if !found {
		t.Fatal("Rates() for DE/EUR not found")
	}
	if r.SingleRatePerKWh != 0.18 {
		t.Errorf("SingleRatePerKWh = %v, want 0.18", r.SingleRatePerKWh)
	}
}

func TestClient_Rates(t *testing.T) {
	client, err := NewClient(zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}

	tests := []struct {
		name       string
		region     string
		currency   string
		wantFound  bool
		wantSingle float64
		wantPeak   float64
	}{
		{name: "TR TRY", region: "TR", currency: "TRY", wantFound: true, wantSingle: 1.0, wantPeak: 2.0},
		{name: "lower case", region: "tr", currency: "try", wantFound: true, wantSingle: 1.0, wantPeak: 2.0},
		{name: "US USD", region: "US", currency: "USD", wantFound: true, wantSingle: 0.08, wantPeak: 0.13},
		{name: "defaults", wantFound: true, wantSingle: 1.0, wantPeak: 2.0},
		{name: "unknown region falls back", region: "XX", currency: "XXX", wantFound: false, wantSingle: 1.0, wantPeak: 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, found := client.Rates(tt.region, tt.currency)
			if found != tt.wantFound {
				t.Fatalf("Rates() found = %v, want %v", found, tt.wantFound)
			}
			if r.SingleRatePerKWh != tt.wantSingle {
				t.Errorf("SingleRatePerKWh = %v, want %v", r.SingleRatePerKWh, tt.wantSingle)
			}
			if r.PeakRatePerKWh != tt.wantPeak {
				t.Errorf("PeakRatePerKWh = %v, want %v", r.PeakRatePerKWh, tt.wantPeak)
			}
		})
	}
}

func TestClient_Fallback(t *testing.T) {
	client, err := NewClient(zerolog.Nop(), WithFallback(Rates{SingleRatePerKWh: 3.5, NightStart: "23:00"}))
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}

	r, found := client.Rates("TR", "TRY")
	if !found {
		t.Fatal("Rates() for TR/TRY not found")
	}
	if r.SingleRatePerKWh != 1.0 {
		t.Errorf("SingleRatePerKWh = %v, want table value 1.0", r.SingleRatePerKWh)
	}

	fallback, found := client.Rates("XX", "XXX")
	if found {
		t.Fatal("Rates() unexpectedly found XX/XXX")
	}
	if fallback.SingleRatePerKWh != 3.5 {
		t.Errorf("fallback SingleRatePerKWh = %v, want 3.5", fallback.SingleRatePerKWh)
	}
	if fallback.PeakRatePerKWh != 2.0 {
		t.Errorf("fallback PeakRatePerKWh = %v, want default 2.0", fallback.PeakRatePerKWh)
	}
	if fallback.NightStart != "23:00" {
		t.Errorf("fallback NightStart = %q, want 23:00", fallback.NightStart)
	}
	if fallback.Currency != "XXX" {
		t.Errorf("fallback Currency = %q, want XXX", fallback.Currency)
	}
}

func TestClient_ConcurrentRates(t *testing.T) {
	client, err := NewClient(zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, found := client.Rates("TR", "TRY"); !found {
				t.Error("Rates() not found under concurrency")
			}
		}()
	}
	wg.Wait()
}

func TestEmbeddedTableIsValid(t *testing.T) {
	client, err := NewClient(zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	if len(client.index) != 3 {
		t.Errorf("indexed %d tariffs, want 3", len(client.index))
	}
	for key, r := range client.index {
		if err := r.Validate(); err != nil {
			t.Errorf("tariff %s invalid: %v", key, err)
		}
	}
}
