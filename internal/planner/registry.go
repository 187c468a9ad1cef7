package planner

import (
	"errors"
	"sync"
	"time"

	"github.com/SirBarnaby/moyb/internal/telemetry/metrics"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrPlanNotFound = errors.New("plan not found")

type registeredPlan struct {
	plan     *Plan
	lastUsed time.Time
}

// Registry keeps the in-memory plans of all open sessions. Plans are never
// persisted; idle ones are dropped by ScanAndClean.
type Registry struct {
	mu       sync.Mutex
	plans    map[string]*registeredPlan
	defaults Config
	metrics  *metrics.Manager

	// overridden in tests
	now func() time.Time
}

func NewRegistry(defaults Config, metricsManager *metrics.Manager) *Registry {
	return &Registry{
		plans:    make(map[string]*registeredPlan),
		defaults: defaults,
		metrics:  metricsManager,
		now:      time.Now,
	}
}

func (r *Registry) Defaults() Config {
	return r.defaults
}

// Create registers a new empty plan. A nil cfg means the registry defaults.
func (r *Registry) Create(cfg *Config) (string, *Plan) {
	planCfg := r.defaults
	if cfg != nil {
		planCfg = *cfg
	}

	id := uuid.NewString()
	plan := NewPlan(planCfg, r.hooks())

	r.mu.Lock()
	r.plans[id] = &registeredPlan{
		plan:     plan,
		lastUsed: r.now(),
	}
	count := len(r.plans)
	r.mu.Unlock()

	r.metrics.GaugeActivePlans.Set(float64(count))
	log.Debugf("plan [%s] created, active plans: %d", id, count)

	return id, plan
}

func (r *Registry) Get(id string) (*Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rp, ok := r.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	rp.lastUsed = r.now()
	return rp.plan, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	if _, ok := r.plans[id]; !ok {
		r.mu.Unlock()
		return ErrPlanNotFound
	}
	delete(r.plans, id)
	count := len(r.plans)
	r.mu.Unlock()

	r.metrics.GaugeActivePlans.Set(float64(count))
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plans)
}

// ScanAndClean drops the plans not used for longer than maxIdle,
// and returns how many were dropped.
func (r *Registry) ScanAndClean(maxIdle time.Duration) int {
	r.mu.Lock()
	now := r.now()
	removed := 0
	for id, rp := range r.plans {
		if now.Sub(rp.lastUsed) > maxIdle {
			delete(r.plans, id)
			removed++
		}
	}
	count := len(r.plans)
	r.mu.Unlock()

	r.metrics.GaugeActivePlans.Set(float64(count))
	if removed > 0 {
		log.Debugf("removed %d idle plans, %d left", removed, count)
	}

	return removed
}

func (r *Registry) hooks() *Hooks {
	return &Hooks{
		OnSkip: func(_ string, _ MuscleInvolvement, reason SkipReason) {
			r.metrics.CounterSkippedInvolvements.WithLabelValues(string(reason)).Inc()
		},
		OnRecompute: func(took time.Duration, _ int) {
			r.metrics.HistRecomputeDuration.Observe(took.Seconds())
		},
	}
}
