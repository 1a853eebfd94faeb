// Package app wires configuration into the services shared by the API server
// and the maintenance CLI.
package app

import (
	"context"
	"fmt"

	"github.com/ggorockee/localdirectory/internal/cache"
	"github.com/ggorockee/localdirectory/internal/config"
	"github.com/ggorockee/localdirectory/internal/database"
	"github.com/ggorockee/localdirectory/internal/dataset"
	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/notify"
	"github.com/ggorockee/localdirectory/internal/places"
	"github.com/ggorockee/localdirectory/internal/ratelimit"
	"github.com/ggorockee/localdirectory/internal/resilience"
	"github.com/ggorockee/localdirectory/internal/services"
	"github.com/ggorockee/localdirectory/internal/telemetry"
)

type App struct {
	Config      *config.Config
	DB          *database.DB
	Metrics     *telemetry.Pipeline
	Store       *cache.GormStore
	Places      *services.PlacesService
	Maintenance *services.CacheMaintenance
	Inquiries   *services.InquiryService
	Data        *dataset.Dataset
}

// New connects and migrates the database, loads the keyword/location data and
// builds the services on top of them.
func New(cfg *config.Config) (*App, error) {
	log := logger.GetLogger("app")

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	data, err := dataset.Load(cfg.Data.KeywordsPath, cfg.Data.LocationsPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	log.Infof("Dataset loaded: %d keywords, %d locations", len(data.Keywords), len(data.Locations))

	metrics, err := telemetry.NewPipeline(telemetry.ServiceName)
	if err != nil {
		log.Warnf("Failed to register pipeline metrics: %v", err)
		metrics = nil
	}

	if cfg.Places.APIKey == "" {
		log.Warn("PLACES_API_KEY is not set; upstream searches will fail and pages will be served as unavailable")
	}

	client := places.NewClient(places.ClientConfig{
		BaseURL: cfg.Places.BaseURL,
		APIKey:  cfg.Places.APIKey,
		Radius:  cfg.Places.Radius,
		Timeout: cfg.Places.RequestTimeout,
	})
	adapter := places.NewAdapter(client, places.AdapterConfig{
		PageDelay:      cfg.Places.PageDelay,
		MaxPages:       cfg.Places.MaxPages,
		RequestTimeout: cfg.Places.RequestTimeout,
		Metrics:        metrics,
	})

	store := cache.NewGormStore(db.DB, cfg.Cache.TTL)

	inquiries := services.NewInquiryService(db)
	if n := notify.NewEmailNotifier(cfg.Email); n != nil {
		inquiries.WithNotifier(n)
		log.Infof("Inquiry notifications enabled (%s)", cfg.Email.NotifyTo)
	}

	return &App{
		Config:  cfg,
		DB:      db,
		Metrics: metrics,
		Store:   store,
		Places: services.NewPlacesService(services.PlacesServiceConfig{
			Store:       store,
			Fetcher:     adapter,
			Breaker:     resilience.NewCircuitBreaker(resilience.BreakerConfig{}),
			Boundary:    resilience.NewErrorBoundary(resilience.BoundaryConfig{}),
			Metrics:     metrics,
			HotTTL:      cfg.Cache.HotTTL,
			HotCapacity: cfg.Cache.HotCapacity,
		}),
		Maintenance: services.NewCacheMaintenance(store, metrics),
		Inquiries:   inquiries,
		Data:        data,
	}, nil
}

// Limiter uses Redis when REDIS_ADDR is set so counters are shared between
// instances; otherwise counters live in the database and ended windows are
// purged by the maintenance schedule. The returned close func releases the
// Redis client.
func (a *App) Limiter(ctx context.Context) (*ratelimit.Limiter, func() error, error) {
	rl := a.Config.RateLimit
	cfg := ratelimit.Config{
		Global: ratelimit.Rule{Max: int64(rl.GlobalMax), Window: rl.GlobalWindow},
		IP:     ratelimit.Rule{Max: int64(rl.IPMax), Window: rl.IPWindow},
	}

	if rl.RedisAddr == "" {
		store := ratelimit.NewGormStore(a.DB.DB)
		a.Maintenance.WithCounterPurger(store)
		return ratelimit.New(store, cfg), func() error { return nil }, nil
	}

	store, err := ratelimit.NewRedisStore(ctx, ratelimit.RedisConfig{
		Addr:     rl.RedisAddr,
		Password: rl.RedisPassword,
		DB:       rl.RedisDB,
		Prefix:   "localdirectory:ratelimit:",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.GetLogger("app").Infof("Rate limit counters stored in Redis (%s)", rl.RedisAddr)
	return ratelimit.New(store, cfg), store.Close, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
