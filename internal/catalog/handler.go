package catalog

import (
	"net/http"
	"strings"

	"github.com/SirBarnaby/moyb/internal/muscles"
	"github.com/SirBarnaby/moyb/internal/telemetry/tracing"
	"github.com/SirBarnaby/moyb/pkg"

	"github.com/gorilla/mux"
)

type Handler struct {
	lookup *Lookup
}

func NewHandler(lookup *Lookup) *Handler {
	return &Handler{
		lookup: lookup,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/muscles", handler.HandleCatalog).Methods("GET", "OPTIONS").Name("muscles")
	r.HandleFunc("/muscles/search", handler.HandleSearch).Methods("GET", "OPTIONS").Name("muscles-search")
	r.HandleFunc("/exercises/target/{muscle}", handler.HandleExercisesForMuscle).Methods("GET", "OPTIONS").Name("exercises-target")
}

func (handler *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.muscles.catalog")
	defer span.End()

	pkg.WriteJSON(w, muscles.Catalog(), http.StatusOK)
}

func (handler *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.muscles.search")
	defer span.End()

	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		http.Error(w, "error, search term empty", http.StatusBadRequest)
		return
	}

	pkg.WriteJSON(w, handler.lookup.SearchMuscles(ctx, term), http.StatusOK)
}

func (handler *Handler) HandleExercisesForMuscle(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.target")
	defer span.End()

	muscleName := mux.Vars(r)["muscle"]
	if muscleName == "" {
		http.Error(w, "error, muscle name empty", http.StatusBadRequest)
		return
	}

	pkg.WriteJSON(w, handler.lookup.ExercisesForMuscle(ctx, muscleName), http.StatusOK)
}
