package cli

import (
	"log/slog"

	"github.com/felixgeelhaar/healthsched/internal/scheduling/infrastructure/cache"
	"github.com/felixgeelhaar/healthsched/internal/scheduling/infrastructure/events"
	"github.com/felixgeelhaar/healthsched/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/healthsched/pkg/config"
	"github.com/felixgeelhaar/healthsched/pkg/observability"
)

// App holds the CLI's wired dependencies: the scheduling engine itself takes
// no dependencies (it is a pure function over loaded entities), so this only
// carries the adapters around it: run history, the result cache, the
// run-completed event publisher, metrics, and component health checks.
type App struct {
	Config         *config.Config
	Logger         *slog.Logger
	RunRepo        persistence.RunRepository
	Cache          *cache.ResultCache
	EventPublisher *events.RunCompletedPublisher
	Metrics        observability.Metrics
	Health         *observability.HealthRegistry
}

// NewApp assembles an App from its wired dependencies. Cache and
// EventPublisher may be nil when Redis/RabbitMQ are not configured; callers
// must check before use.
func NewApp(cfg *config.Config, logger *slog.Logger, runRepo persistence.RunRepository, resultCache *cache.ResultCache, publisher *events.RunCompletedPublisher, metrics observability.Metrics, health *observability.HealthRegistry) *App {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &App{
		Config:         cfg,
		Logger:         logger,
		RunRepo:        runRepo,
		Cache:          resultCache,
		EventPublisher: publisher,
		Metrics:        metrics,
		Health:         health,
	}
}

var currentApp *App

// SetApp installs the App instance subcommands read from.
func SetApp(a *App) {
	currentApp = a
}

// GetApp returns the installed App, or nil if none was set.
func GetApp() *App {
	return currentApp
}
