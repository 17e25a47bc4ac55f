package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Environment variables. The ELECTRICITY_*, CORS_ALLOW_ORIGINS and LOG_LEVEL
// names are kept for existing deployments.
const (
	EnvHTTPAddr         = "CARBONCAM_HTTP_ADDR"
	EnvGRPCAddr         = "CARBONCAM_GRPC_ADDR"
	EnvDatabaseURL      = "CARBONCAM_DATABASE_URL"
	EnvRegion           = "CARBONCAM_REGION"
	EnvCarbonIntensity  = "CARBONCAM_CARBON_INTENSITY"
	EnvBatchConcurrency = "CARBONCAM_BATCH_CONCURRENCY"
	EnvBatchMaxRows     = "CARBONCAM_BATCH_MAX_ROWS"
	EnvLogLevel         = "CARBONCAM_LOG_LEVEL"
	EnvLogFormat        = "CARBONCAM_LOG_FORMAT"
	EnvCORSCredentials  = "CARBONCAM_CORS_ALLOW_CREDENTIALS"
	EnvCORSMaxAge       = "CARBONCAM_CORS_MAX_AGE"

	EnvLegacyLogLevel   = "LOG_LEVEL"
	EnvCORSOrigins      = "CORS_ALLOW_ORIGINS"
	EnvRatesRegion      = "ELECTRICITY_RATES_REGION"
	EnvRateCurrency     = "ELECTRICITY_RATE_CURRENCY"
	EnvRateSinglePerKWh = "ELECTRICITY_RATE_SINGLE_PER_KWH"
	EnvRateDayPerKWh    = "ELECTRICITY_RATE_DAY_PER_KWH"
	EnvRatePeakPerKWh   = "ELECTRICITY_RATE_PEAK_PER_KWH"
	EnvRateNightPerKWh  = "ELECTRICITY_RATE_NIGHT_PER_KWH"
)

func applyEnv(cfg *Config, lookup func(string) (string, bool), logger zerolog.Logger) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := get(k); ok {
				*dst = v
				return
			}
		}
	}
	setFloat := func(dst *float64, key string) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = f
		return nil
	}
	setInt := func(dst *int, key string) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	setString(&cfg.Server.Addr, EnvHTTPAddr)
	setString(&cfg.Server.GRPCAddr, EnvGRPCAddr)
	setString(&cfg.Database.URL, EnvDatabaseURL)
	setString(&cfg.Carbon.Region, EnvRegion)
	setString(&cfg.Logging.Level, EnvLogLevel, EnvLegacyLogLevel)
	setString(&cfg.Logging.Format, EnvLogFormat)
	setString(&cfg.Electricity.Region, EnvRatesRegion)
	setString(&cfg.Electricity.Currency, EnvRateCurrency)
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)

	for _, f := range []struct {
		dst *float64
		key string
	}{
		{&cfg.Carbon.CarbonIntensity, EnvCarbonIntensity},
		{&cfg.Electricity.Fallback.SingleRatePerKWh, EnvRateSinglePerKWh},
		{&cfg.Electricity.Fallback.DayRatePerKWh, EnvRateDayPerKWh},
		{&cfg.Electricity.Fallback.PeakRatePerKWh, EnvRatePeakPerKWh},
		{&cfg.Electricity.Fallback.NightRatePerKWh, EnvRateNightPerKWh},
	} {
		if err := setFloat(f.dst, f.key); err != nil {
			return err
		}
	}
	if err := setInt(&cfg.Batch.Concurrency, EnvBatchConcurrency); err != nil {
		return err
	}
	if err := setInt(&cfg.Batch.MaxRows, EnvBatchMaxRows); err != nil {
		return err
	}

	if v, ok := get(EnvCORSOrigins); ok {
		cfg.Server.CORS.AllowedOrigins = ParseOrigins(v)
		if cfg.Server.CORS.HasWildcard() {
			logger.Warn().Msg("CORS wildcard origin (*) is insecure; use specific origins in production")
		}
	}
	if v, ok := get(EnvCORSCredentials); ok {
		allow := strings.EqualFold(v, "true")
		cfg.Server.CORS.AllowCredentials = &allow
	}
	if v, ok := get(EnvCORSMaxAge); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Server.CORS.MaxAge = n
		} else {
			logger.Warn().Str("value", v).Msgf("invalid %s, using default", EnvCORSMaxAge)
		}
	}

	logger.Debug().
		Strs("allowed_origins", cfg.Server.CORS.AllowedOrigins).
		Int("max_age", cfg.Server.CORS.MaxAge).
		Msg("CORS configuration applied")
	return nil
}
