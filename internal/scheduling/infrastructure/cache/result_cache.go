// Package cache memoizes finished scheduling runs behind Redis, keyed on a
// digest of the exact input set and horizon. It sits strictly outside the
// scheduler's pure call boundary: the engine itself never reads or writes
// the cache, an adapter does, before and after invoking Schedule.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/healthsched/pkg/observability"
)

// ErrCacheMiss is returned by Get when no cached result exists for a key.
var ErrCacheMiss = errors.New("cache: miss")

// keyPrefix namespaces every entry this package writes, mirroring the
// orbit:{id}:user:{id}:{key} scoping convention used for scoped Redis
// storage elsewhere in the stack.
const keyPrefix = "healthsched:run:"

// defaultTTL bounds how long a cached schedule survives before a fresh run
// is forced; 90-day horizons are expected to be regenerated far more often
// than that as input files change.
const defaultTTL = 24 * time.Hour

// ResultCache memoizes the serialized schedule artifact for a given input
// digest so repeated CLI invocations against an unchanged input set skip
// re-running the scheduler.
type ResultCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
	metrics observability.Metrics
	ttl     time.Duration
}

// NewResultCache wraps a Redis client with a circuit breaker: once three
// consecutive Redis operations fail, the breaker opens for ten seconds and
// every call during that window fails fast as a cache miss rather than
// blocking on a downed Redis.
func NewResultCache(client *redis.Client, logger *slog.Logger) *ResultCache {
	if logger == nil {
		logger = slog.Default()
	}
	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "scheduling-result-cache",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("result cache circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &ResultCache{client: client, breaker: breaker, logger: logger, metrics: observability.NoopMetrics{}, ttl: defaultTTL}
}

// WithMetrics attaches a metrics collector; cache hits and misses are
// reported against it. Omitting this call leaves metrics as a no-op.
func (c *ResultCache) WithMetrics(metrics observability.Metrics) *ResultCache {
	if metrics != nil {
		c.metrics = metrics
	}
	return c
}

func key(inputDigest string, durationDays int) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, inputDigest, durationDays)
}

// Get returns the cached schedule artifact for an input digest, or
// ErrCacheMiss if nothing is cached (including when the breaker is open).
// A miss is a normal outcome, not a Redis failure, so it is signaled via a
// nil result rather than an error and never counts toward tripping the
// breaker.
func (c *ResultCache) Get(ctx context.Context, inputDigest string, durationDays int) ([]byte, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		val, err := c.client.Get(ctx, key(inputDigest, durationDays)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		c.logger.Warn("result cache read failed, treating as miss", "error", err)
		c.metrics.Counter(observability.MetricCacheMisses, 1)
		return nil, ErrCacheMiss
	}
	payload, ok := result.([]byte)
	if !ok || payload == nil {
		c.metrics.Counter(observability.MetricCacheMisses, 1)
		return nil, ErrCacheMiss
	}
	c.metrics.Counter(observability.MetricCacheHits, 1)
	return payload, nil
}

// Set stores a schedule artifact under an input digest. Failures are logged
// and swallowed: a cache write failing never invalidates a run that already
// succeeded.
func (c *ResultCache) Set(ctx context.Context, inputDigest string, durationDays int, payload []byte) {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.client.Set(ctx, key(inputDigest, durationDays), payload, c.ttl).Err()
	})
	if err != nil {
		c.logger.Warn("result cache write failed", "error", err)
	}
}
