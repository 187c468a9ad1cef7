package planner

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SirBarnaby/moyb/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerTestEnv struct {
	router   *mux.Router
	registry *Registry
	metrics  *metrics.Manager
}

func newHandlerTestEnv() *handlerTestEnv {
	metricsManager := metrics.NewTestManager()
	registry := NewRegistry(DefaultConfig(), metricsManager)
	r := mux.NewRouter()
	NewHandler(registry, metricsManager).SetupRoutes(r)
	return &handlerTestEnv{
		router:   r,
		registry: registry,
		metrics:  metricsManager,
	}
}

func (env *handlerTestEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	} else {
		reqBody = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func decodePlan(t *testing.T, rr *httptest.ResponseRecorder) PlanResponse {
	t.Helper()
	var resp PlanResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func volumeOf(resp PlanResponse, muscleID int) float64 {
	for _, m := range resp.Muscles {
		if m.Muscle.ID == muscleID {
			return m.TotalVolume
		}
	}
	return -1
}

func TestHandler_CreateAndGet(t *testing.T) {
	env := newHandlerTestEnv()

	rr := env.do(t, http.MethodPost, "/plans", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decodePlan(t, rr)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, DefaultConfig(), created.Config)
	assert.Empty(t, created.Entries)
	assert.Len(t, created.Muscles, 22)

	rr = env.do(t, http.MethodGet, "/plans/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created.ID, decodePlan(t, rr).ID)

	rr = env.do(t, http.MethodGet, "/plans/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.CounterPlanMutations.WithLabelValues("create")))
}

func TestHandler_CreateWithPartialConfig(t *testing.T) {
	env := newHandlerTestEnv()

	rr := env.do(t, http.MethodPost, "/plans", map[string]any{"synergisticMultiplier": 0.25})
	require.Equal(t, http.StatusCreated, rr.Code)
	cfg := decodePlan(t, rr).Config
	assert.Equal(t, 0.25, cfg.SynergisticMultiplier)
	assert.Equal(t, DefaultSetsPerWeekMax, int(cfg.SetsPerWeekMax))
	assert.Equal(t, DefaultStabilizingMultiplier, cfg.StabilizingMultiplier)

	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString("{nope"))
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_ExerciseLifecycle(t *testing.T) {
	env := newHandlerTestEnv()
	id, _ := env.registry.Create(nil)

	rr := env.do(t, http.MethodPost, "/plans/"+id+"/exercises", addExerciseRequest{Exercise: benchPress(), Sets: 3})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = env.do(t, http.MethodPost, "/plans/"+id+"/exercises", addExerciseRequest{Exercise: benchPress(), Sets: 2})
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodePlan(t, rr)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 5, resp.Entries[0].Sets)
	assert.InDelta(t, 5.0, volumeOf(resp, chestID), 1e-9)

	rr = env.do(t, http.MethodPut, "/plans/"+id+"/exercises/bench-press", updateSetsRequest{Sets: 8})
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodePlan(t, rr)
	assert.Equal(t, 8, resp.Entries[0].Sets)
	assert.InDelta(t, 4.0, volumeOf(resp, tricepsID), 1e-9)

	rr = env.do(t, http.MethodPut, "/plans/"+id+"/exercises/unknown", updateSetsRequest{Sets: 8})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodDelete, "/plans/"+id+"/exercises/bench-press", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodePlan(t, rr)
	assert.Empty(t, resp.Entries)
	assert.Zero(t, volumeOf(resp, chestID))
}

func TestHandler_UpdateSets_RemovedWhileReadingBody(t *testing.T) {
	env := newHandlerTestEnv()
	id, plan := env.registry.Create(nil)
	plan.AddExercise(benchPress(), 3)

	pr, pw := io.Pipe()
	req := httptest.NewRequest(http.MethodPut, "/plans/"+id+"/exercises/bench-press", pr)
	rr := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		env.router.ServeHTTP(rr, req)
	}()

	// returns once the handler has started reading the body
	_, err := pw.Write([]byte(`{"sets":`))
	require.NoError(t, err)

	del := env.do(t, http.MethodDelete, "/plans/"+id+"/exercises/bench-press", nil)
	require.Equal(t, http.StatusOK, del.Code)

	_, err = pw.Write([]byte(`8}`))
	require.NoError(t, err)
	require.NoError(t, pw.Close())
	<-done

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, plan.Entries())
	assert.Zero(t, volumeOf(decodePlan(t, env.do(t, http.MethodGet, "/plans/"+id, nil)), chestID))
}

func TestHandler_AddExercise_BadRequests(t *testing.T) {
	env := newHandlerTestEnv()
	id, _ := env.registry.Create(nil)

	rr := env.do(t, http.MethodPost, "/plans/"+id+"/exercises", addExerciseRequest{Sets: 3})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/plans/"+id+"/exercises", bytes.NewBufferString("[]"))
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, "/plans/missing/exercises", addExerciseRequest{Exercise: benchPress(), Sets: 3})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_UpdateConfig(t *testing.T) {
	env := newHandlerTestEnv()
	id, plan := env.registry.Create(nil)
	plan.AddExercise(testExercise("dips", inv(tricepsID, CategorySynergistic)), 10)

	rr := env.do(t, http.MethodPut, "/plans/"+id+"/config", map[string]any{"synergisticMultiplier": 0.25})
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodePlan(t, rr)
	assert.InDelta(t, 2.5, volumeOf(resp, tricepsID), 1e-9)
	assert.Equal(t, DefaultStabilizingMultiplier, resp.Config.StabilizingMultiplier)
}

func TestHandler_HeatmapAndRegions(t *testing.T) {
	env := newHandlerTestEnv()
	id, plan := env.registry.Create(nil)
	plan.AddExercise(benchPress(), 20)

	rr := env.do(t, http.MethodGet, "/plans/"+id+"/heatmap", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var heatmap HeatmapResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &heatmap))
	assert.Equal(t, id, heatmap.PlanID)
	assert.Equal(t, 20.0, heatmap.SetsPerWeekMax)
	require.Len(t, heatmap.Cells, 22)

	rr = env.do(t, http.MethodGet, "/plans/"+id+"/regions", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var regions map[string]float64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &regions))
	assert.InDelta(t, 40.0, regions["upper"], 1e-9)
	assert.InDelta(t, 6.6, regions["core"], 1e-9)
	assert.Zero(t, regions["lower"])
}

func TestHandler_Delete(t *testing.T) {
	env := newHandlerTestEnv()
	id, _ := env.registry.Create(nil)

	rr := env.do(t, http.MethodDelete, "/plans/"+id, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, env.registry.Len())

	rr = env.do(t, http.MethodDelete, "/plans/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
