package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/healthsched/adapter/cli"
	"github.com/felixgeelhaar/healthsched/adapter/cli/engine"
	"github.com/felixgeelhaar/healthsched/internal/scheduling/infrastructure/cache"
	"github.com/felixgeelhaar/healthsched/internal/scheduling/infrastructure/events"
	"github.com/felixgeelhaar/healthsched/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/healthsched/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/healthsched/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/healthsched/pkg/config"
	"github.com/felixgeelhaar/healthsched/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cli.SetLogger(logger)

	metrics := observability.NewInMemoryMetrics()

	runRepo, closeRepo, err := wireRunRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to wire run history", "error", err)
		os.Exit(1)
	}
	if closeRepo != nil {
		defer closeRepo()
	}

	resultCache, closeCache := wireResultCache(ctx, cfg, logger)
	if closeCache != nil {
		defer closeCache()
	}
	if resultCache != nil {
		resultCache = resultCache.WithMetrics(metrics)
	}

	publisher, closePublisher := wireEventPublisher(cfg, logger)
	if closePublisher != nil {
		defer closePublisher()
	}
	if publisher != nil {
		publisher = publisher.WithMetrics(metrics)
	}

	health := wireHealthRegistry(runRepo, resultCache)

	cli.SetApp(cli.NewApp(cfg, logger, runRepo, resultCache, publisher, metrics, health))

	cli.AddCommand(engine.RunCmd)
	cli.AddCommand(engine.ValidateCmd)
	cli.AddCommand(engine.ReportCmd)
	cli.AddCommand(engine.HealthCmd)

	cli.Execute()
}

// wireHealthRegistry registers a health check for every backend that is
// actually configured; run history always has one since a backend is always
// wired (SQLite locally, Postgres otherwise).
func wireHealthRegistry(runRepo persistence.RunRepository, resultCache *cache.ResultCache) *observability.HealthRegistry {
	registry := observability.NewHealthRegistry()

	registry.Register("run_history", observability.DatabaseHealthChecker(func(ctx context.Context) error {
		_, err := runRepo.ListRecent(ctx, 1)
		return err
	}))

	if resultCache != nil {
		registry.Register("result_cache", observability.RedisHealthChecker(func(ctx context.Context) error {
			_, err := resultCache.Get(ctx, "healthcheck", 0)
			if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
				return err
			}
			return nil
		}))
	}

	return registry
}

// wireRunRepository selects and connects the run-history backend configured
// by RunHistoryDriver/LocalMode, running migrations before returning.
func wireRunRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (persistence.RunRepository, func(), error) {
	if cfg.IsSQLite() {
		db, err := persistence.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("run sqlite migrations: %w", err)
		}
		logger.Info("run history backed by sqlite", "path", cfg.SQLitePath)
		return persistence.NewSQLiteRunRepository(db), func() { _ = db.Close() }, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}
	logger.Info("run history backed by postgres")
	return persistence.NewPostgresRunRepository(pool), pool.Close, nil
}

// wireResultCache connects to Redis when caching is enabled, falling back to
// no cache (a nil *cache.ResultCache, which callers must check) on failure.
// The cache sits outside the scheduler's pure call boundary and is never
// load-bearing for correctness.
func wireResultCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*cache.ResultCache, func()) {
	if !cfg.CacheEnabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid redis url, running without result cache", "error", err)
		return nil, nil
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, running without result cache", "error", err)
		_ = client.Close()
		return nil, nil
	}
	logger.Info("connected to redis result cache")
	return cache.NewResultCache(client, logger), func() { _ = client.Close() }
}

// wireEventPublisher connects to RabbitMQ when event publishing is enabled.
// When it is disabled it returns a nil publisher, which callers must check;
// when it is enabled but RabbitMQ is unreachable it wires a no-op publisher.
func wireEventPublisher(cfg *config.Config, logger *slog.Logger) (*events.RunCompletedPublisher, func()) {
	if !cfg.EventsEnabled {
		return nil, nil
	}

	rabbitPublisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Warn("rabbitmq unavailable, run-completed events will not be published", "error", err)
		return events.NewRunCompletedPublisher(eventbus.NewNoopPublisher(logger), logger), nil
	}
	logger.Info("connected to rabbitmq")
	return events.NewRunCompletedPublisher(rabbitPublisher, logger), func() { _ = rabbitPublisher.Close() }
}
