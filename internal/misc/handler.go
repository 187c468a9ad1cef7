package misc

import (
	"encoding/json"
	"net/http"

	"github.com/SirBarnaby/moyb/internal/telemetry/tracing"
	"github.com/SirBarnaby/moyb/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	tipsManager *TipsManager
	versionInfo string
}

func NewHandler(tipsManager *TipsManager, versionInfo string) *Handler {
	return &Handler{
		tipsManager: tipsManager,
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/tip/random", handler.handleGetRandomTip).Methods("GET", "OPTIONS").Name("tip")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetRandomTip(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.tip")
	defer span.End()

	tip := handler.tipsManager.RandomTip()
	if category := r.URL.Query().Get("category"); category != "" {
		span.SetAttributes(attribute.String("tip.category", category))
		tip = handler.tipsManager.RandomTipIn(category)
		if tip == nil {
			http.Error(w, "no tips in category", http.StatusNotFound)
			return
		}
	}

	tipBytes, err := json.Marshal(tip)
	if err != nil {
		http.Error(w, "", http.StatusInternalServerError)
		log.Errorf("marshal tip error: %s", err)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, tipBytes)
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
