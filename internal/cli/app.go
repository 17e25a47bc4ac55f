package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/config"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/history"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/metrics"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/postgres"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/pricing"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/registry"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/service"
)

// app is the wired object graph behind every command.
type app struct {
	svc     *service.Service
	metrics *metrics.Metrics
	db      *postgres.Client
}

// newApp wires the service. With a database URL configured, custom profiles
// and history live in PostgreSQL; otherwise they are kept in memory.
func newApp(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*app, error) {
	m := metrics.New(prometheus.NewRegistry())

	catalog, err := registry.Builtins()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in profiles: %w", err)
	}
	regOpts := []registry.Option{
		registry.WithLogger(logger),
		registry.WithMutationObserver(m.RecordMutation),
	}

	a := &app{metrics: m}
	var (
		reg  *registry.Registry
		hist history.Store
	)
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
		reg = registry.New(catalog,
			registry.NewPGMachineStore(db.DB()), registry.NewPGMaterialStore(db.DB()), regOpts...)
		hist = history.NewPGStore(db.DB())
	} else {
		logger.Debug().Msg("no database configured, custom profiles and history are kept in memory")
		reg = registry.New(catalog, registry.NewMachineMemoryStore(), registry.NewMaterialMemoryStore(), regOpts...)
		hist = history.NewMemoryStore()
	}

	tariffs, err := pricing.NewClient(logger,
		pricing.WithDefaults(cfg.Electricity.Region, cfg.Electricity.Currency),
		pricing.WithFallback(cfg.Electricity.Fallback),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load electricity rates: %w", err)
	}

	a.svc = service.New(cfg, reg, hist, tariffs, m, logger)
	return a, nil
}

// Close releases the database pool, if any.
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
