package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SirBarnaby/moyb/internal/muscles"
	"github.com/SirBarnaby/moyb/internal/planner"
	"github.com/SirBarnaby/moyb/internal/telemetry/metrics"
	"github.com/SirBarnaby/moyb/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/cases"
)

// Lookup is what the planner surfaces (HTTP, MCP) use to reach the catalog.
// Failures never propagate: they are logged, counted, and served as empty results.
type Lookup struct {
	source         Source
	redisClient    *redis.Client
	searchCacheTTL time.Duration
	metrics        *metrics.Manager
}

// NewLookup wraps the source. A nil redisClient disables the search cache.
func NewLookup(
	source Source,
	redisClient *redis.Client,
	searchCacheTTL time.Duration,
	metricsManager *metrics.Manager,
) *Lookup {
	return &Lookup{
		source:         source,
		redisClient:    redisClient,
		searchCacheTTL: searchCacheTTL,
		metrics:        metricsManager,
	}
}

func (l *Lookup) ExercisesForMuscle(ctx context.Context, muscleName string) []planner.Exercise {
	ctx, span := tracing.GlobalTracer.Start(ctx, "lookup.exercisesForMuscle")
	defer span.End()
	span.SetAttributes(attribute.String("muscle.name", muscleName))

	exercises, err := l.source.FindExercisesByTargetMuscle(ctx, muscleName)
	if err != nil {
		log.Errorf("find exercises for muscle [%s]: %s", muscleName, err)
		l.failed("exercises_for_muscle")
		return []planner.Exercise{}
	}
	if exercises == nil {
		exercises = []planner.Exercise{}
	}
	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))

	return exercises
}

func (l *Lookup) SearchMuscles(ctx context.Context, term string) []muscles.Muscle {
	ctx, span := tracing.GlobalTracer.Start(ctx, "lookup.searchMuscles")
	defer span.End()
	span.SetAttributes(attribute.String("term", term))

	cacheKey := fmt.Sprintf("muscle-search::%s", fold(strings.TrimSpace(term)))
	if cached, ok := l.cachedSearch(ctx, cacheKey); ok {
		span.SetAttributes(attribute.Bool("from-cache", true))
		return cached
	}

	found, err := l.source.SearchMuscles(ctx, term)
	if err != nil {
		log.Errorf("search muscles [%s]: %s", term, err)
		l.failed("search_muscles")
		return []muscles.Muscle{}
	}
	if found == nil {
		found = []muscles.Muscle{}
	}

	l.cacheSearch(ctx, cacheKey, found)
	return found
}

// FindMuscle prefers a case-insensitive exact name match among the search
// results, then falls back to the first result.
func (l *Lookup) FindMuscle(ctx context.Context, name string) (muscles.Muscle, error) {
	found := l.SearchMuscles(ctx, name)
	if len(found) == 0 {
		return muscles.Muscle{}, ErrMuscleNotFound
	}

	want := fold(strings.TrimSpace(name))
	for _, m := range found {
		if fold(m.Name) == want {
			return m, nil
		}
	}
	return found[0], nil
}

func (l *Lookup) cachedSearch(ctx context.Context, key string) ([]muscles.Muscle, bool) {
	if l.redisClient == nil {
		return nil, false
	}

	val, err := l.redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	} else if err != nil {
		log.Errorf("get cached muscle search [%s]: %s", key, err)
		return nil, false
	}

	var cached []muscles.Muscle
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		log.Errorf("unmarshal cached muscle search [%s]: %s", key, err)
		return nil, false
	}
	log.Tracef("muscle search [%s] served from cache", key)
	return cached, true
}

func (l *Lookup) cacheSearch(ctx context.Context, key string, found []muscles.Muscle) {
	// empty results are not cached, the backend may just be warming up
	if l.redisClient == nil || len(found) == 0 {
		return
	}

	b, err := json.Marshal(found)
	if err != nil {
		log.Errorf("marshal muscle search for cache: %s", err)
		return
	}
	if err := l.redisClient.Set(ctx, key, string(b), l.searchCacheTTL).Err(); err != nil {
		log.Errorf("cache muscle search [%s]: %s", key, err)
	}
}

func (l *Lookup) failed(operation string) {
	if l.metrics != nil {
		l.metrics.CounterCatalogFetchFailures.WithLabelValues(operation).Inc()
	}
}

// fold is for caseless matching; a Caser is stateful, so one per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
