package carbon

// ResolveIntensity determines the carbon intensity to use for a calculation.
// Priority order: requestOverride > configured > GetGridFactor(region).
//
// Parameters:
//   - requestOverride: intensity supplied with a single request (nil if not set)
//   - configured: intensity from service configuration (0 if not set)
//   - region: grid region used when neither value is set
//
// Non-positive overrides are ignored so that a zero value never silences emissions.
func ResolveIntensity(requestOverride *float64, configured float64, region string) float64 {
	// Priority 1: Per-request override
	if requestOverride != nil && *requestOverride > 0 {
		return *requestOverride
	}

	// Priority 2: Configured value
	if configured > 0 {
		return configured
	}

	// Priority 3: Regional grid factor
	return GetGridFactor(region)
}

// Clamp restricts a value to the range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
