package planner

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/SirBarnaby/moyb/internal/telemetry/metrics"
	"github.com/SirBarnaby/moyb/internal/telemetry/tracing"
	"github.com/SirBarnaby/moyb/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type PlanResponse struct {
	ID      string       `json:"id"`
	Entries []Entry      `json:"entries"`
	Muscles []MuscleLoad `json:"muscles"`
	Config  Config       `json:"config"`
}

type HeatmapResponse struct {
	PlanID         string        `json:"planId"`
	SetsPerWeekMax float64       `json:"setsPerWeekMax"`
	Cells          []HeatmapCell `json:"cells"`
}

type addExerciseRequest struct {
	Exercise Exercise `json:"exercise"`
	Sets     int      `json:"sets"`
}

type updateSetsRequest struct {
	Sets int `json:"sets"`
}

// configRequest fields left out keep their current value.
type configRequest struct {
	SetsPerWeekMax        *float64 `json:"setsPerWeekMax"`
	SynergisticMultiplier *float64 `json:"synergisticMultiplier"`
	StabilizingMultiplier *float64 `json:"stabilizingMultiplier"`
}

func (c configRequest) applyTo(cfg Config) Config {
	if c.SetsPerWeekMax != nil {
		cfg.SetsPerWeekMax = *c.SetsPerWeekMax
	}
	if c.SynergisticMultiplier != nil {
		cfg.SynergisticMultiplier = *c.SynergisticMultiplier
	}
	if c.StabilizingMultiplier != nil {
		cfg.StabilizingMultiplier = *c.StabilizingMultiplier
	}
	return cfg
}

type Handler struct {
	registry *Registry
	metrics  *metrics.Manager
}

func NewHandler(registry *Registry, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		registry: registry,
		metrics:  metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/plans", handler.HandleCreate).Methods("POST", "OPTIONS").Name("create-plan")
	r.HandleFunc("/plans/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-plan")
	r.HandleFunc("/plans/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-plan")
	r.HandleFunc("/plans/{id}/exercises", handler.HandleAddExercise).Methods("POST", "OPTIONS").Name("add-exercise")
	r.HandleFunc("/plans/{id}/exercises/{exid}", handler.HandleUpdateSets).Methods("PUT", "OPTIONS").Name("update-sets")
	r.HandleFunc("/plans/{id}/exercises/{exid}", handler.HandleRemoveExercise).Methods("DELETE", "OPTIONS").Name("remove-exercise")
	r.HandleFunc("/plans/{id}/config", handler.HandleUpdateConfig).Methods("PUT", "OPTIONS").Name("update-config")
	r.HandleFunc("/plans/{id}/heatmap", handler.HandleHeatmap).Methods("GET", "OPTIONS").Name("plan-heatmap")
	r.HandleFunc("/plans/{id}/regions", handler.HandleRegions).Methods("GET", "OPTIONS").Name("plan-regions")
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.create")
	defer span.End()

	// the body is optional, an empty one means the default config
	var cfg *Config
	var req configRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	switch {
	case err == nil:
		c := req.applyTo(handler.registry.Defaults())
		cfg = &c
	case !errors.Is(err, io.EOF):
		log.Tracef("create plan, unmarshal config: %s", err)
		http.Error(w, "invalid plan config", http.StatusBadRequest)
		return
	}

	id, plan := handler.registry.Create(cfg)
	span.SetAttributes(attribute.String("plan.id", id))
	handler.mutated("create")

	pkg.WriteJSON(w, planResponse(id, plan), http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.get")
	defer span.End()

	id, plan, ok := handler.planFromRequest(w, r)
	if !ok {
		return
	}

	pkg.WriteJSON(w, planResponse(id, plan), http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := handler.registry.Delete(id); err != nil {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}
	handler.mutated("delete")

	pkg.WriteJSON(w, map[string]string{"deletedId": id}, http.StatusOK)
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.exercises.add")
	defer span.End()

	id, plan, ok := handler.planFromRequest(w, r)
	if !ok {
		return
	}

	var req addExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}
	if req.Exercise.ID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	span.SetAttributes(
		attribute.String("exercise.id", req.Exercise.ID),
		attribute.Int("sets", req.Sets),
	)
	plan.AddExercise(req.Exercise, req.Sets)
	handler.mutated("add_exercise")

	pkg.WriteJSON(w, planResponse(id, plan), http.StatusOK)
}

func (handler *Handler) HandleUpdateSets(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.exercises.update")
	defer span.End()

	id, plan, ok := handler.planFromRequest(w, r)
	if !ok {
		return
	}

	var req updateSetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update sets, unmarshal json params: %s", err)
		http.Error(w, "update sets failed", http.StatusBadRequest)
		return
	}

	if !plan.UpdateExistingSets(mux.Vars(r)["exid"], req.Sets) {
		http.Error(w, "exercise not in plan", http.StatusNotFound)
		return
	}
	handler.mutated("update_sets")

	pkg.WriteJSON(w, planResponse(id, plan), http.StatusOK)
}

func (handler *Handler) HandleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.exercises.remove")
	defer span.End()

	id, plan, ok := handler.planFromRequest(w, r)
	if !ok {
		return
	}

	// removing an absent exercise is a no-op
	plan.RemoveExercise(Exercise{ID: mux.Vars(r)["exid"]})
	handler.mutated("remove_exercise")

	pkg.WriteJSON(w, planResponse(id, plan), http.StatusOK)
}

func (handler *Handler) HandleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.config.update")
	defer span.End()

	id, plan, ok := handler.planFromRequest(w, r)
	if !ok {
		return
	}

	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update config, unmarshal json params: %s", err)
		http.Error(w, "invalid plan config", http.StatusBadRequest)
		return
	}

	plan.UpdateConfig(req.applyTo)
	handler.mutated("update_config")

	pkg.WriteJSON(w, planResponse(id, plan), http.StatusOK)
}

func (handler *Handler) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.heatmap")
	defer span.End()

	id, plan, ok := handler.planFromRequest(w, r)
	if !ok {
		return
	}

	pkg.WriteJSON(w, HeatmapResponse{
		PlanID:         id,
		SetsPerWeekMax: plan.Config().SetsPerWeekMax,
		Cells:          Heatmap(plan),
	}, http.StatusOK)
}

func (handler *Handler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.regions")
	defer span.End()

	_, plan, ok := handler.planFromRequest(w, r)
	if !ok {
		return
	}

	volumes := plan.RegionVolumes()
	resp := make(map[string]float64, len(volumes))
	for region, v := range volumes {
		resp[string(region)] = v
	}
	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (handler *Handler) planFromRequest(w http.ResponseWriter, r *http.Request) (string, *Plan, bool) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, plan id empty", http.StatusBadRequest)
		return "", nil, false
	}

	plan, err := handler.registry.Get(id)
	if errors.Is(err, ErrPlanNotFound) {
		http.Error(w, "plan not found", http.StatusNotFound)
		return "", nil, false
	} else if err != nil {
		log.Errorf("get plan [%s]: %s", id, err)
		http.Error(w, "failed to get plan", http.StatusInternalServerError)
		return "", nil, false
	}

	return id, plan, true
}

func (handler *Handler) mutated(operation string) {
	if handler.metrics != nil {
		handler.metrics.CounterPlanMutations.WithLabelValues(operation).Inc()
	}
}

func planResponse(id string, plan *Plan) PlanResponse {
	entries := plan.Entries()
	if entries == nil {
		entries = []Entry{}
	}
	return PlanResponse{
		ID:      id,
		Entries: entries,
		Muscles: plan.Loads(),
		Config:  plan.Config(),
	}
}
