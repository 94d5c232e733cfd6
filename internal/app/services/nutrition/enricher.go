// Package nutrition implements the meal enrichment engine: cache first, then
// the AI provider, then the deterministic local estimator.
package nutrition

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/fitnessbro/platform/internal/app/domain/nutrition"
	"github.com/fitnessbro/platform/internal/metrics"
	"github.com/fitnessbro/platform/pkg/logger"
)

const (
	cacheKeyPrefix = "meal_cache:"

	// DefaultCacheTTL bounds how long a verified AI estimate is reused.
	DefaultCacheTTL = 24 * time.Hour

	// cacheWriteTimeout bounds the detached best-effort cache write.
	cacheWriteTimeout = 2 * time.Second
)

// Enricher resolves one meal text into a structured calorie breakdown. It
// never fails: any AI or cache problem degrades to the local estimator.
type Enricher struct {
	cache     Cache
	provider  Provider
	estimator *LocalEstimator
	ttl       time.Duration
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// NewEnricher constructs the engine. Cache and provider may be nil, in which
// case those stages are skipped and only the local estimator runs.
func NewEnricher(cache Cache, provider Provider, estimator *LocalEstimator, log *logger.Logger) *Enricher {
	if estimator == nil {
		estimator = NewLocalEstimator(nil)
	}
	if log == nil {
		log = logger.NewDefault("nutrition")
	}
	return &Enricher{
		cache:     cache,
		provider:  provider,
		estimator: estimator,
		ttl:       DefaultCacheTTL,
		log:       log,
	}
}

// WithTTL overrides the cache TTL. Zero or negative values are ignored.
func (e *Enricher) WithTTL(ttl time.Duration) *Enricher {
	if ttl > 0 {
		e.ttl = ttl
	}
	return e
}

// WithMetrics attaches prometheus collectors.
func (e *Enricher) WithMetrics(m *metrics.Metrics) *Enricher {
	e.metrics = m
	return e
}

// CacheKey returns the cache key for a meal text.
func CacheKey(mealText string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(mealText))
}

// Resolve returns a breakdown for the meal text. Resolution order: cache,
// AI provider, local estimator. Only verified AI output is written back to
// the cache so a degraded estimate never gets pinned for the TTL window.
func (e *Enricher) Resolve(ctx context.Context, mealText string) nutrition.MealBreakdown {
	key := CacheKey(mealText)

	if e.cache != nil {
		if breakdown, ok := e.cacheLookup(ctx, key); ok {
			if e.metrics != nil {
				e.metrics.RecordCacheHit()
			}
			return breakdown
		}
		if e.metrics != nil {
			e.metrics.RecordCacheMiss()
		}
	}

	if e.provider != nil {
		breakdown, err := e.resolveAI(ctx, mealText)
		if err == nil {
			e.cacheStore(key, breakdown)
			return breakdown
		}
		if e.metrics != nil {
			e.metrics.RecordAIFailure()
		}
		e.log.WithError(err).WithField("meal", mealText).Warn("AI estimation degraded, using local estimator")
	}

	return e.estimator.Estimate(mealText)
}

func (e *Enricher) cacheLookup(ctx context.Context, key string) (nutrition.MealBreakdown, bool) {
	value, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.log.WithError(err).Warn("estimator cache read failed")
		return nutrition.MealBreakdown{}, false
	}
	if !ok {
		return nutrition.MealBreakdown{}, false
	}

	var breakdown nutrition.MealBreakdown
	if err := json.Unmarshal([]byte(value), &breakdown); err != nil {
		e.log.WithError(err).WithField("key", key).Warn("discarding undecodable cache entry")
		return nutrition.MealBreakdown{}, false
	}
	return breakdown, true
}

func (e *Enricher) resolveAI(ctx context.Context, mealText string) (nutrition.MealBreakdown, error) {
	raw, err := e.provider.EstimateMeal(ctx, mealText)
	if err != nil {
		return nutrition.MealBreakdown{}, err
	}
	return ParseBreakdown(raw)
}

// cacheStore writes a verified AI result back. The write runs on a detached
// context so a canceled client request does not tear it down mid-write.
func (e *Enricher) cacheStore(key string, breakdown nutrition.MealBreakdown) {
	if e.cache == nil {
		return
	}

	value, err := json.Marshal(breakdown)
	if err != nil {
		e.log.WithError(err).Warn("encode cache entry")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
	defer cancel()
	if err := e.cache.SetEx(ctx, key, string(value), e.ttl); err != nil {
		e.log.WithError(err).WithField("key", key).Warn("estimator cache write failed")
	}
}
