// Package config loads service configuration from a YAML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables. Validate runs last.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/batch"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/cost"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/logging"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/postgres"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/pricing"
)

// Config is the complete service configuration.
type Config struct {
	Server      ServerConfig            `yaml:"server"`
	Logging     logging.Config          `yaml:"logging"`
	Database    postgres.Config         `yaml:"database"`
	Carbon      CarbonConfig            `yaml:"carbon"`
	Batch       batch.Options           `yaml:"batch"`
	Electricity ElectricityConfig       `yaml:"electricity"`
	Equivalence cost.EquivalenceFactors `yaml:"equivalence"`
}

// ServerConfig configures the HTTP and gRPC listeners.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	CORS            CORSConfig    `yaml:"cors"`
}

// CORSConfig configures cross-origin access for browser clients.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	// AllowCredentials unset means credentials are allowed unless the
	// wildcard origin is configured.
	AllowCredentials *bool `yaml:"allow_credentials"`
	MaxAge           int   `yaml:"max_age"`
}

// CarbonConfig holds the calculation factors.
type CarbonConfig struct {
	// Region selects a grid factor when CarbonIntensity is zero.
	Region string `yaml:"region"`
	// CarbonIntensity in kg CO2 per kWh. Zero uses the grid factor of Region.
	CarbonIntensity float64         `yaml:"carbon_intensity"`
	DriveEfficiency float64         `yaml:"drive_efficiency"`
	Rounding        carbon.Rounding `yaml:"rounding"`
}

// Factors resolves the configured factors, honouring a per-request intensity override.
func (c CarbonConfig) Factors(override *float64, region string) carbon.Factors {
	if region == "" {
		region = c.Region
	}
	return carbon.Factors{
		CarbonIntensity: carbon.ResolveIntensity(override, c.CarbonIntensity, region),
		DriveEfficiency: c.DriveEfficiency,
	}
}

// ElectricityConfig selects the tariff used for energy cost.
type ElectricityConfig struct {
	Region     string `yaml:"region"`
	Currency   string `yaml:"currency"`
	TariffType string `yaml:"tariff_type"`
	// Fallback rates apply to regions without a table entry.
	Fallback pricing.Rates `yaml:"fallback"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    10 << 20,
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
				MaxAge:         86400,
			},
		},
		Logging:  logging.DefaultConfig(),
		Database: postgres.DefaultConfig(),
		Carbon: CarbonConfig{
			Region:          "TR",
			DriveEfficiency: carbon.DefaultDriveEfficiency,
			Rounding:        carbon.DefaultRounding(),
		},
		Batch: batch.Options{Concurrency: 4, MaxRows: 10000},
		Electricity: ElectricityConfig{
			Region:     "TR",
			Currency:   "TRY",
			TariffType: pricing.TariffSingle,
		},
		Equivalence: cost.DefaultEquivalenceFactors(),
	}
}

// Load reads path (optional), applies the process environment and validates.
func Load(path string, logger zerolog.Logger) (Config, error) {
	return load(path, os.LookupEnv, logger)
}

func load(path string, lookup func(string) (string, bool), logger zerolog.Logger) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, lookup, logger); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode unmarshals data onto cfg, rejecting unknown keys.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the combined configuration.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0, got %d", c.Server.MaxBodyBytes)
	}
	if err := c.Server.CORS.Validate(); err != nil {
		return err
	}
	if c.Carbon.CarbonIntensity < 0 || !carbon.IsFinite(c.Carbon.CarbonIntensity) {
		return fmt.Errorf("carbon.carbon_intensity must be >= 0, got %v", c.Carbon.CarbonIntensity)
	}
	if c.Carbon.DriveEfficiency < 0 || c.Carbon.DriveEfficiency > 1 {
		return fmt.Errorf("carbon.drive_efficiency must be within (0, 1], got %v", c.Carbon.DriveEfficiency)
	}
	if c.Batch.Concurrency < 0 || c.Batch.MaxRows < 0 {
		return errors.New("batch.concurrency and batch.max_rows must be >= 0")
	}
	if err := c.Electricity.Fallback.Validate(); err != nil {
		return fmt.Errorf("electricity.fallback: %w", err)
	}
	if err := c.Equivalence.Validate(); err != nil {
		return fmt.Errorf("equivalence: %w", err)
	}
	switch c.Logging.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", logging.FormatConsole, logging.FormatJSON, c.Logging.Format)
	}
	return nil
}
