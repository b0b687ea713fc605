package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sguter90/switchmaestro/pkg/layout"
	"github.com/sguter90/switchmaestro/pkg/persistence"
	"github.com/sguter90/switchmaestro/pkg/registry"
	"github.com/sguter90/switchmaestro/pkg/storage"
	"go.uber.org/zap"
)

// App holds every long-lived component of a running server
type App struct {
	Config      *Config
	Logger      *zap.Logger
	KV          storage.KV
	Driver      string
	Registry    *registry.Registry
	Sampler     *registry.Sampler
	Dashboard   *layout.Dashboard
	Persistence *persistence.Adapter
}

// NewApp wires the components together. A storage backend that cannot be
// opened is replaced by an in-memory one so the dashboard stays usable;
// saves then fail with persistence.ErrNotDurable.
func NewApp(cfg *Config, logger *zap.Logger) (*App, error) {
	kv, driver, err := openStorage(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	adapterOpts := []persistence.AdapterOption{persistence.WithLogger(logger.Named("persistence"))}
	if driver != cfg.Storage.Driver {
		adapterOpts = append(adapterOpts, persistence.WithVolatileStore(
			fmt.Errorf("%s storage could not be opened, running on %s", cfg.Storage.Driver, driver)))
	}

	reg := registry.New(
		registry.WithConnectDelay(cfg.Simulator.ConnectDelay),
		registry.WithSuccessRate(cfg.Simulator.SuccessRate),
		registry.WithLogger(logger.Named("registry")),
	)
	dashboard := layout.NewDashboard(reg)

	return &App{
		Config:   cfg,
		Logger:   logger,
		KV:       kv,
		Driver:   driver,
		Registry: reg,
		Sampler: registry.NewSampler(reg, cfg.Diagnostics.Interval, cfg.Diagnostics.Samples,
			registry.WithSamplerRandom(rand.Float64),
			registry.WithSamplerLogger(logger.Named("sampler"))),
		Dashboard:   dashboard,
		Persistence: persistence.NewAdapter(kv, dashboard, adapterOpts...),
	}, nil
}

func openStorage(cfg storage.Config, logger *zap.Logger) (storage.KV, string, error) {
	kv, err := storage.Open(cfg, logger.Named("storage"))
	if err == nil {
		logger.Info("✓ storage opened", zap.String("driver", cfg.Driver))
		return kv, cfg.Driver, nil
	}

	logger.Error("❌ failed to open storage, layout changes will not survive a restart",
		zap.String("driver", cfg.Driver),
		zap.Error(err))

	fallback, ferr := storage.NewMemoryStore(cfg.QuotaBytes)
	if ferr != nil {
		return nil, "", fmt.Errorf("failed to open fallback storage: %w", ferr)
	}
	return fallback, storage.DriverMemory, nil
}

// Start restores the saved layout and starts background work
func (a *App) Start(ctx context.Context) error {
	a.Persistence.Load(ctx)

	if err := a.Sampler.Start(); err != nil {
		return fmt.Errorf("failed to start sampler: %w", err)
	}

	if a.Config.Simulator.AutoConnect {
		go func() {
			if err := a.Registry.Connect(ctx); err != nil {
				a.Logger.Warn("auto connect failed", zap.Error(err))
			}
		}()
	}
	return nil
}

// Close stops background work and releases storage
func (a *App) Close() error {
	if err := a.Sampler.Stop(); err != nil {
		a.Logger.Warn("sampler stopped with error", zap.Error(err))
	}
	if err := a.KV.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}
