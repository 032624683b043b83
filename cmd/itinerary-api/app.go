package main

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/kyoto-flow-api/internal/handler"
	"github.com/noah-isme/kyoto-flow-api/internal/models"
	"github.com/noah-isme/kyoto-flow-api/internal/repository"
	"github.com/noah-isme/kyoto-flow-api/internal/seed"
	"github.com/noah-isme/kyoto-flow-api/internal/service"
	"github.com/noah-isme/kyoto-flow-api/pkg/cache"
	"github.com/noah-isme/kyoto-flow-api/pkg/config"
	"github.com/noah-isme/kyoto-flow-api/pkg/database"
	"github.com/noah-isme/kyoto-flow-api/pkg/jobs"
)

// app holds the wired services and the resources that need closing.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *service.MetricsService
	itinerary *service.ItineraryService
	exporter  *service.ExportService
	checks    map[string]handler.ReadinessCheck

	db    *sqlx.DB
	redis *redis.Client
	queue *jobs.Queue[models.TripSnapshot]
}

func buildApp(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logr, metrics: service.NewMetricsService(), checks: map[string]handler.ReadinessCheck{}}

	trip, err := seed.Load(cfg.Trip.SeedFile)
	if err != nil {
		return nil, err
	}

	var cacheSvc *service.CacheService
	if cfg.Weather.CacheEnabled {
		a.redis, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("weather cache disabled", zap.Error(err))
		} else {
			client := a.redis
			a.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
			repo := repository.NewCacheRepository(a.redis, logr.Named("cache"))
			cacheSvc = service.NewCacheService(repo, a.metrics, cfg.Trip.ID, cfg.Weather.CacheTTL, logr.Named("cache"), true)
			if err := cacheSvc.Invalidate(ctx, "weather:*"); err != nil {
				logr.Warn("failed to clear stale weather entries", zap.Error(err))
			}
		}
	}
	weather := service.NewWeatherService(service.NewStaticWeatherProvider(trip.WeatherTable()), cacheSvc, logr.Named("weather"))

	var snapshots service.SnapshotDispatcher
	var store *repository.SnapshotRepository
	if cfg.Persistence.Enabled {
		a.db, err = database.Open(cfg.Database)
		if err != nil {
			a.close()
			return nil, err
		}
		if err := database.Migrate(a.db); err != nil {
			a.close()
			return nil, err
		}
		db := a.db
		a.checks["database"] = func(ctx context.Context) error { return db.PingContext(ctx) }
		store = repository.NewSnapshotRepository(a.db, cfg.Trip.ID)

		worker := service.NewSnapshotWorker(store, a.metrics, logr.Named("persistence"))
		a.queue = jobs.NewQueue[models.TripSnapshot]("snapshots", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Persistence.Workers,
			MaxRetries: cfg.Persistence.Retries,
			RetryDelay: cfg.Persistence.RetryDelay,
			Logger:     logr.Named("jobs"),
		})
		snapshots = a.queue
	}

	a.itinerary = service.NewItineraryService(trip, weather, snapshots, a.metrics, validator.New(), logr.Named("itinerary"), service.ItineraryConfig{TripID: cfg.Trip.ID})

	if store != nil {
		restored, err := service.LoadInto(ctx, store, a.itinerary)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		logr.Info("itinerary loaded", zap.Bool("restored", restored), zap.String("driver", cfg.Database.Driver))
	}

	location, err := time.LoadLocation(cfg.Export.TimeZone)
	if err != nil {
		logr.Warn("unknown export time zone, using UTC", zap.String("tz", cfg.Export.TimeZone), zap.Error(err))
		location = time.UTC
	}
	a.exporter = service.NewExportService(service.ExportConfig{
		PDFFontPath:   cfg.Export.PDFFontPath,
		Location:      location,
		EventDuration: cfg.Export.EventDuration,
	}, logr.Named("export"))

	return a, nil
}

// start launches background workers.
func (a *app) start(ctx context.Context) {
	if a.queue != nil {
		a.queue.Start(ctx)
	}
}

// close stops workers and releases connections.
func (a *app) close() {
	if a.queue != nil {
		a.queue.Stop()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
