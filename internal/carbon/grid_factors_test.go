package carbon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGridEmissionFactors_AllWithinValidRange validates that all grid emission factors
// fall within 0 to 1.5 kg CO2 per kWh. No national grid exceeds that, so a larger
// value means the table was written in the wrong unit.
func TestGridEmissionFactors_AllWithinValidRange(t *testing.T) {
	const minValidFactor = 0.0
	const maxValidFactor = 1.5

	for region, factor := range GridEmissionFactors {
		t.Run(region, func(t *testing.T) {
			assert.Greater(t, factor, minValidFactor,
				"Grid factor for %s should be > 0 (got %f)", region, factor)
			assert.LessOrEqual(t, factor, maxValidFactor,
				"Grid factor for %s should be <= 1.5 kg CO2/kWh (got %f)", region, factor)
		})
	}
}

func TestGridEmissionFactors_DefaultWithinValidRange(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultGridFactor, 0.2)
	assert.LessOrEqual(t, DefaultGridFactor, 0.8)
}

func TestGetGridFactor(t *testing.T) {
	tests := []struct {
		name   string
		region string
		want   float64
	}{
		{name: "calibration region", region: "TR", want: 0.44},
		{name: "lowercase code", region: "tr", want: 0.44},
		{name: "surrounding whitespace", region: " de ", want: 0.38},
		{name: "low carbon grid", region: "SE", want: 0.013},
		{name: "unknown region falls back", region: "XX", want: DefaultGridFactor},
		{name: "empty region falls back", region: "", want: DefaultGridFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GetGridFactor(tt.region), 1e-12)
		})
	}
}

func TestResolveIntensity(t *testing.T) {
	override := 0.25
	zero := 0.0
	negative := -1.0

	tests := []struct {
		name       string
		override   *float64
		configured float64
		region     string
		want       float64
	}{
		{name: "request override wins", override: &override, configured: 0.5, region: "TR", want: 0.25},
		{name: "configured beats region", configured: 0.5, region: "TR", want: 0.5},
		{name: "region when nothing set", region: "FR", want: 0.056},
		{name: "zero override ignored", override: &zero, configured: 0.5, want: 0.5},
		{name: "negative override ignored", override: &negative, region: "TR", want: 0.44},
		{name: "unknown region uses default", region: "??", want: DefaultGridFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ResolveIntensity(tt.override, tt.configured, tt.region), 1e-12)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(150, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}
