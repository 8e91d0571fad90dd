// Package events publishes RunCompletedEvent to the shared domain-event bus,
// wrapping the publish call in a circuit breaker so a broker outage degrades
// to dropped events rather than blocking a scheduling run.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/healthsched/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/healthsched/pkg/observability"
)

// RunCompletedPublisher publishes a Run's completion event once Complete has
// been called on it.
type RunCompletedPublisher struct {
	publisher eventbus.Publisher
	breaker   *gobreaker.CircuitBreaker[any]
	logger    *slog.Logger
	metrics   observability.Metrics
}

// NewRunCompletedPublisher wraps an eventbus.Publisher (RabbitMQPublisher or
// NoopPublisher) with a circuit breaker tuned for an occasional, non-critical
// publish: five consecutive failures trips it, and it probes again after 30s.
func NewRunCompletedPublisher(publisher eventbus.Publisher, logger *slog.Logger) *RunCompletedPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "run-completed-publisher",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("event publisher circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &RunCompletedPublisher{publisher: publisher, breaker: breaker, logger: logger, metrics: observability.NoopMetrics{}}
}

// WithMetrics attaches a metrics collector; successful publishes are counted
// against it. Omitting this call leaves metrics as a no-op.
func (p *RunCompletedPublisher) WithMetrics(metrics observability.Metrics) *RunCompletedPublisher {
	if metrics != nil {
		p.metrics = metrics
	}
	return p
}

// Publish serializes and emits the run's RunCompletedEvent. Failure to
// publish is logged and swallowed: a completed schedule is never invalidated
// by a downstream notification failing to go out.
func (p *RunCompletedPublisher) Publish(ctx context.Context, event domain.RunCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal run completed event: %w", err)
	}

	_, err = p.breaker.Execute(func() (any, error) {
		return nil, p.publisher.Publish(ctx, event.RoutingKey(), payload)
	})
	if err != nil {
		p.logger.Error("failed to publish run completed event", "run_id", event.AggregateID(), "error", err)
		return nil
	}
	p.metrics.Counter(observability.MetricEventsPublished, 1)
	return nil
}
