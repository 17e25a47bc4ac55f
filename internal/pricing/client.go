package pricing

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed data/electricity_rates.yaml
var rawRatesYAML []byte

// PricingClient provides electricity tariff lookups.
type PricingClient interface {
	// Region returns the default tariff region.
	Region() string

	// Currency returns the default currency code.
	Currency() string

	// Rates returns the tariff for region and currency.
	// Returns (rates, true) if found, (fallback, false) if not found.
	Rates(region, currency string) (Rates, bool)
}

// Client implements PricingClient with embedded YAML data.
type Client struct {
	region   string
	currency string
	fallback Rates
	logger   zerolog.Logger

	// Thread-safe initialization
	once sync.Once
	err  error

	// key: "REGION/CURRENCY"
	index map[string]Rates
}

// Option configures a Client.
type Option func(*Client)

// WithDefaults sets the default region and currency.
func WithDefaults(region, currency string) Option {
	return func(c *Client) {
		if region != "" {
			c.region = strings.ToUpper(region)
		}
		if currency != "" {
			c.currency = strings.ToUpper(currency)
		}
	}
}

// WithFallback sets the rates used for regions missing from the table.
// Zero fields keep FallbackRates values.
func WithFallback(r Rates) Option {
	return func(c *Client) { c.fallback = r }
}

// NewClient creates a Client and parses the embedded tariff table.
// It returns an error if the table cannot be parsed.
func NewClient(logger zerolog.Logger, opts ...Option) (*Client, error) {
	c := &Client{
		region:   "TR",
		currency: "TRY",
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

// init parses embedded tariff data exactly once
func (c *Client) init() error {
	c.once.Do(func() {
		var table rateTable
		if err := yaml.Unmarshal(rawRatesYAML, &table); err != nil {
			c.err = fmt.Errorf("failed to parse tariff data: %w", err)
			return
		}

		c.index = make(map[string]Rates, len(table.Tariffs))
		for _, r := range table.Tariffs {
			r.Region = strings.ToUpper(r.Region)
			r.Currency = strings.ToUpper(r.Currency)
			if err := r.Validate(); err != nil {
				c.logger.Warn().
					Str("region", r.Region).
					Str("currency", r.Currency).
					Err(err).
					Msg("skipping invalid tariff row")
				continue
			}
			c.index[rateKey(r.Region, r.Currency)] = r
		}
	})
	return c.err
}

func rateKey(region, currency string) string {
	return strings.ToUpper(region) + "/" + strings.ToUpper(currency)
}

// Region returns the default tariff region.
func (c *Client) Region() string {
	return c.region
}

// Currency returns the default currency code.
func (c *Client) Currency() string {
	return c.currency
}

// Rates returns the tariff for region and currency. Table rows win over the
// configured fallback. Empty arguments select the client defaults.
func (c *Client) Rates(region, currency string) (Rates, bool) {
	if region == "" {
		region = c.region
	}
	if currency == "" {
		currency = c.currency
	}

	if err := c.init(); err == nil {
		if r, ok := c.index[rateKey(region, currency)]; ok {
			return r, true
		}
	}

	c.logger.Debug().
		Str("region", region).
		Str("currency", currency).
		Msg("tariff not found, using fallback rates")
	return FallbackRates(strings.ToUpper(region), strings.ToUpper(currency)).Merge(c.fallback), false
}
