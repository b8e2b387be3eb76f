// Package bootstrap assembles the reservation stack from configuration. The
// server and the operator CLIs share it so they see the same storage.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"antesala/internal/catalog"
	"antesala/internal/pricing"
	"antesala/internal/reservations"
	"antesala/internal/shared/config"
	"antesala/internal/shared/database"
	"antesala/internal/storage"
	"antesala/pkg/cache"
	"antesala/pkg/logger"
)

// App is the wired reservation stack
type App struct {
	DB      *database.DB
	Cache   cache.Service // nil for the memory backend
	Catalog *catalog.Catalog
	Engine  *pricing.Engine
	Manager *reservations.Manager
	// Subscriber is set when live sync is available
	Subscriber reservations.Subscriber

	closers []func() error
}

// Open connects the configured backend and builds the manager. opts are applied after the defaults.
func Open(cfg *config.Config, log *logger.Logger, opts ...reservations.Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := cfg.PricingPolicy()
	if err != nil {
		return nil, err
	}

	db, err := database.InitDB(cfg, log)
	if err != nil {
		return nil, err
	}
	app := &App{DB: db, closers: []func() error{db.Close}}

	app.Catalog = catalog.Default().
		WithFoodPrices(cfg.Pricing.FoodPrices).
		WithRoomRates(cfg.Pricing.RoomHourlyRates)
	app.Engine = pricing.NewEngine(app.Catalog, policy)

	if db.Redis != nil {
		app.Cache = cache.NewService(db.Redis)
	}

	gateway, err := app.gateway(cfg, log)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	managerOpts := []reservations.Option{
		reservations.WithLogger(log),
		reservations.WithStartupDelay(cfg.Storage.StartupDelay),
	}
	app.Manager = reservations.NewManager(gateway, app.Engine, append(managerOpts, opts...)...)

	log.Info("reservation storage ready",
		"backend", cfg.Storage.Backend,
		"live_sync", app.Subscriber != nil,
	)
	return app, nil
}

// gateway builds the storage chain for the configured backend:
//
//	memory: MemoryStore
//	local:  RedisStore
//	remote: Fallback(Publishing(DocumentStore, ChangeFeed) or DocumentStore, RedisStore)
func (a *App) gateway(cfg *config.Config, log *logger.Logger) (reservations.Gateway, error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		return storage.NewMemoryStore[reservations.Reservation](), nil

	case config.StorageLocal:
		return storage.NewRedisStore[reservations.Reservation](a.Cache, cfg.Storage.LocalKey), nil

	case config.StorageRemote:
		local := storage.NewRedisStore[reservations.Reservation](a.Cache, cfg.Storage.LocalKey)

		// Postgres down at startup: run on the local store, every response reports stale sync
		if a.DB.PostgreSQL == nil {
			log.WithError(a.DB.RemoteErr).Warn("remote store unavailable, using the local store only")
			unavailable := storage.NewUnavailableGateway[reservations.Reservation](a.DB.RemoteErr)
			return storage.NewFallbackGateway[reservations.Reservation](unavailable, local, "postgres", log), nil
		}

		var remote storage.Gateway[reservations.Reservation] = storage.NewDocumentStore[reservations.Reservation](a.DB.PostgreSQL)
		live := false
		if cfg.Kafka.Enabled {
			feedCfg := storage.DefaultChangeFeedConfig()
			feedCfg.Brokers = cfg.Kafka.Brokers
			feedCfg.Topic = cfg.Kafka.Topic
			feedCfg.GroupPrefix = cfg.Kafka.GroupPrefix
			feedCfg.Origin = uuid.NewString()

			feed, err := storage.NewChangeFeed[reservations.Reservation](feedCfg, log)
			if err != nil {
				// Saves still reach Postgres; only live sync is lost
				log.WithError(err).Warn("changefeed unavailable, live sync disabled")
			} else {
				a.closers = append(a.closers, feed.Close)
				remote = storage.NewPublishingGateway[reservations.Reservation](remote, feed)
				live = true
			}
		}

		fallback := storage.NewFallbackGateway[reservations.Reservation](remote, local, "postgres", log)
		if live {
			a.Subscriber = fallback
		}
		return fallback, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// Load reads the persisted list and starts live sync when configured. The
// returned stop function ends the subscription.
func (a *App) Load(ctx context.Context) (func(), error) {
	if err := a.Manager.Load(ctx); err != nil {
		return nil, err
	}
	if a.Subscriber == nil {
		return func() {}, nil
	}
	stop, err := a.Manager.StartSync(ctx, a.Subscriber)
	if err != nil {
		return nil, fmt.Errorf("failed to start live sync: %w", err)
	}
	return stop, nil
}

// Close releases every connection in reverse order of opening
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
