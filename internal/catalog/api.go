package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/SirBarnaby/moyb/internal/muscles"
	"github.com/SirBarnaby/moyb/internal/planner"
	"github.com/SirBarnaby/moyb/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const megabyte = 1024 * 1024

// Api reads the catalog from the exercise backend REST API.
// Exercise lists are kept in an in-process cache, since they rarely change.
type Api struct {
	baseURL    string
	httpClient *http.Client
	cache      *freecache.Cache
	cacheTTL   int // seconds
}

func NewApi(baseURL string, httpClient *http.Client, cacheSizeMB, cacheTTLSec int) *Api {
	return &Api{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		cache:      freecache.NewCache(cacheSizeMB * megabyte),
		cacheTTL:   cacheTTLSec,
	}
}

func (a *Api) FindExercisesByTargetMuscle(ctx context.Context, muscleName string) (_ []planner.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalogApi.findExercisesByTargetMuscle")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("muscle.name", muscleName))

	cacheKey := fmt.Sprintf("target::%s", strings.ToLower(muscleName))
	var exercises []planner.Exercise
	if cached, err := a.cache.Get([]byte(cacheKey)); err == nil {
		if err = json.Unmarshal(cached, &exercises); err == nil {
			log.Tracef("found exercises for [%s] in cache", muscleName)
			span.SetAttributes(attribute.Bool("from-cache", true))
			return exercises, nil
		}
		log.Errorf("failed to unmarshal cached exercises for [%s]: %s", muscleName, err)
	}

	respBytes, err := a.get(ctx, "/Exercises/by-main-muscle/"+url.PathEscape(muscleName), nil)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(respBytes, &exercises); err != nil {
		return nil, fmt.Errorf("unmarshal exercises response: %w", err)
	}

	if err := a.cache.Set([]byte(cacheKey), respBytes, a.cacheTTL); err != nil {
		log.Errorf("failed to cache exercises for [%s]: %s", muscleName, err)
	}

	return exercises, nil
}

func (a *Api) SearchMuscles(ctx context.Context, term string) (_ []muscles.Muscle, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalogApi.searchMuscles")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("term", term))

	respBytes, err := a.get(ctx, "/Muscles/search", url.Values{"term": []string{term}})
	if err != nil {
		return nil, err
	}

	var found []muscles.Muscle
	if err := json.Unmarshal(respBytes, &found); err != nil {
		return nil, fmt.Errorf("unmarshal muscles response: %w", err)
	}

	return withRegions(found), nil
}

func (a *Api) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := a.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	log.Debugf("calling exercise backend: %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response bytes: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("exercise backend [%s] responded with %d", path, resp.StatusCode)
	}

	return respBytes, nil
}
