// Package bootstrap wires configuration into the report service and its
// optional infrastructure. Both the API server and the CLI start here.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"vigilant-link/internal/config"
	"vigilant-link/internal/detection"
	"vigilant-link/internal/domain/services"
	"vigilant-link/internal/infrastructure/cache"
	"vigilant-link/internal/infrastructure/database"
	"vigilant-link/internal/infrastructure/database/memory"
	"vigilant-link/internal/infrastructure/database/repository"
	"vigilant-link/internal/infrastructure/database/sqlite"
	"vigilant-link/internal/streaming"
	"vigilant-link/pkg/logger"
)

// Options toggles optional infrastructure
type Options struct {
	// Redis connects the stats cache and rate limiter when enabled in config
	Redis bool
	// NATS connects the report event publisher when enabled in config
	NATS bool
}

// App holds the wired service and the infrastructure it owns
type App struct {
	Config    *config.Config
	Logger    *logger.Logger
	Service   *services.ReportService
	Store     services.ReportStore
	Cache     *cache.RedisCache
	Publisher *streaming.NATSPublisher

	closers []func()
}

// New builds the report service. Storage failures are fatal; Redis and NATS
// failures are logged and the app continues without them.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	app := &App{Config: cfg, Logger: log}

	store, err := app.openStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = services.NewBreakerStore(store, cfg.Breaker, log)

	classifier := detection.NewClassifier(detection.DefaultCatalogue())
	app.Service = services.NewReportService(classifier, app.Store, cfg.Reports, log)

	if opts.Redis && cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		} else {
			app.Cache = redisCache
			app.Service.SetCache(redisCache)
			app.closers = append(app.closers, func() { _ = redisCache.Close() })
		}
	}

	if opts.NATS && cfg.NATS.Enabled {
		publisher, err := streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without report events")
		} else {
			app.Publisher = publisher
			app.Service.SetPublisher(publisher)
			app.closers = append(app.closers, publisher.Close)
		}
	}

	return app, nil
}

func (a *App) openStore(ctx context.Context) (services.ReportStore, error) {
	log := a.Logger
	switch a.Config.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.NewPostgres(ctx, a.Config.Database, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}
		collector := db.Collector()
		if err := prometheus.Register(collector); err != nil {
			log.Warn().Err(err).Msg("failed to register connection pool metrics")
		} else {
			a.closers = append(a.closers, func() { prometheus.Unregister(collector) })
		}
		return repository.NewRepositories(db.Pool()).Reports, nil

	case config.StorageSQLite:
		store, err := sqlite.NewStore(ctx, a.Config.SQLite.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		log.Info().Str("path", a.Config.SQLite.Path).Msg("using SQLite report store")
		return store, nil

	case config.StorageMemory, "":
		log.Info().Msg("using in-memory report store, reports are lost on restart")
		store := memory.NewStore()
		a.closers = append(a.closers, func() { _ = store.Close() })
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", a.Config.Storage.Driver)
	}
}

// Ready checks the store and, when connected, the cache
func (a *App) Ready(ctx context.Context) error {
	if err := a.Service.Ready(ctx); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if a.Cache != nil {
		if err := a.Cache.Ping(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	return nil
}

// Close releases everything in reverse order of acquisition
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
