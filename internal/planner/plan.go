package planner

import (
	"slices"
	"sync"
	"time"

	"github.com/SirBarnaby/moyb/internal/muscles"

	log "github.com/sirupsen/logrus"
)

type Entry struct {
	Exercise Exercise `json:"exercise"`
	Sets     int      `json:"sets"`
}

type SkipReason string

const (
	SkipUnknownMuscle   SkipReason = "unknown_muscle"
	SkipUnknownCategory SkipReason = "unknown_category"
)

// Hooks lets the owner of a plan observe what the engine does.
// Skipped involvements are never errors; OnSkip is the only place they surface.
// Hooks run while the plan is locked and must not call back into it.
type Hooks struct {
	OnSkip      func(exerciseID string, involvement MuscleInvolvement, reason SkipReason)
	OnRecompute func(took time.Duration, entries int)
}

// MuscleLoad is a read-only snapshot of one muscle's accumulated load.
type MuscleLoad struct {
	Muscle          muscles.Muscle `json:"muscle"`
	SetsPrimary     float64        `json:"setsPrimary"`
	SetsSynergic    float64        `json:"setsSynergic"`
	SetsStabilizing float64        `json:"setsStabilizing"`
	TotalVolume     float64        `json:"totalVolume"`
}

// Plan is the ordered ledger of planned exercises together with the per-muscle
// loads derived from it. After every exported call returns, the loads are
// exactly what replaying the ledger would produce.
//
// All calls are serialized on a single mutex: a full recompute reads the whole
// ledger and must not interleave with an insert.
type Plan struct {
	mu sync.Mutex

	entries []Entry
	config  Config
	weights *muscles.Weights
	loads   *muscles.LoadSet
	hooks   Hooks
}

func NewPlan(cfg Config, hooks *Hooks) *Plan {
	weights := &muscles.Weights{
		Synergistic: cfg.SynergisticMultiplier,
		Stabilizing: cfg.StabilizingMultiplier,
	}
	p := &Plan{
		config:  cfg,
		weights: weights,
		loads:   muscles.NewLoadSet(muscles.Catalog(), weights),
	}
	if hooks != nil {
		p.hooks = *hooks
	}
	return p
}

// AddExercise adds sets to the exercise's entry, creating it at the end of the
// ledger when the exercise is new. Non-positive sets for a new exercise are
// ignored; an entry whose count drops to zero or below is removed.
func (p *Plan) AddExercise(exercise Exercise, sets int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOf(exercise.ID)
	if idx < 0 {
		if sets <= 0 {
			return
		}
		p.entries = append(p.entries, Entry{Exercise: exercise, Sets: sets})
		p.distribute(exercise, sets)
		return
	}

	newSets := p.entries[idx].Sets + sets
	if newSets <= 0 {
		p.entries = slices.Delete(p.entries, idx, idx+1)
		p.recompute()
		return
	}

	p.entries[idx].Sets = newSets
	if sets != 0 {
		// the stored exercise is the one every recompute replays
		p.distribute(p.entries[idx].Exercise, sets)
	}
}

// AddMuscleLoad keeps the older single-call API working:
// positive sets add, anything else drops the exercise from the plan.
func (p *Plan) AddMuscleLoad(exercise Exercise, sets int) {
	if sets > 0 {
		p.AddExercise(exercise, sets)
		return
	}
	p.RemoveExercise(exercise)
}

// RemoveExercise drops the exercise (matched by id) and replays the rest.
func (p *Plan) RemoveExercise(exercise Exercise) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.removeLocked(exercise.ID)
}

// UpdateExerciseSets sets an absolute count. A count <= 0 removes the exercise.
func (p *Plan) UpdateExerciseSets(exercise Exercise, sets int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sets <= 0 {
		p.removeLocked(exercise.ID)
		return
	}

	idx := p.indexOf(exercise.ID)
	if idx < 0 {
		p.entries = append(p.entries, Entry{Exercise: exercise, Sets: sets})
		p.distribute(exercise, sets)
		return
	}

	p.entries[idx].Sets = sets
	p.recompute()
}

// UpdateExistingSets is UpdateExerciseSets for an exercise already in the plan,
// known only by id. It reports false, and changes nothing, when the exercise is absent.
func (p *Plan) UpdateExistingSets(exerciseID string, sets int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOf(exerciseID)
	if idx < 0 {
		return false
	}

	if sets <= 0 {
		p.removeLocked(exerciseID)
		return true
	}
	p.entries[idx].Sets = sets
	p.recompute()
	return true
}

// UpdateMultipliers swaps the whole configuration and replays the ledger.
func (p *Plan) UpdateMultipliers(cfg Config) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.setConfigLocked(cfg)
}

// UpdateConfig applies update to the current configuration and replays the ledger,
// both under the plan lock. update must not call back into the plan.
func (p *Plan) UpdateConfig(update func(Config) Config) Config {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.setConfigLocked(update(p.config))
	return p.config
}

func (p *Plan) setConfigLocked(cfg Config) {
	p.config = cfg
	p.weights.Synergistic = cfg.SynergisticMultiplier
	p.weights.Stabilizing = cfg.StabilizingMultiplier
	p.recompute()
}

// RecomputeAllVolumes zeroes every load and replays the ledger in order.
func (p *Plan) RecomputeAllVolumes() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.recompute()
}

func (p *Plan) Entries() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.entries)
}

func (p *Plan) Entry(exerciseID string) (Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOf(exerciseID)
	if idx < 0 {
		return Entry{}, false
	}
	return p.entries[idx], true
}

func (p *Plan) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.config
}

// Loads returns a snapshot of every muscle load, in catalog order.
func (p *Plan) Loads() []MuscleLoad {
	p.mu.Lock()
	defer p.mu.Unlock()

	all := p.loads.All()
	snapshot := make([]MuscleLoad, 0, len(all))
	for _, l := range all {
		snapshot = append(snapshot, toMuscleLoad(l))
	}
	return snapshot
}

func (p *Plan) Load(muscleID int) (MuscleLoad, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.loads.Get(muscleID)
	if !ok {
		return MuscleLoad{}, false
	}
	return toMuscleLoad(l), true
}

func toMuscleLoad(l *muscles.Load) MuscleLoad {
	return MuscleLoad{
		Muscle:          l.Muscle,
		SetsPrimary:     l.SetsPrimary,
		SetsSynergic:    l.SetsSynergic,
		SetsStabilizing: l.SetsStabilizing,
		TotalVolume:     l.TotalSetVolume(),
	}
}

func (p *Plan) indexOf(exerciseID string) int {
	return slices.IndexFunc(p.entries, func(e Entry) bool {
		return e.Exercise.ID == exerciseID
	})
}

func (p *Plan) removeLocked(exerciseID string) {
	idx := p.indexOf(exerciseID)
	if idx < 0 {
		return
	}
	p.entries = slices.Delete(p.entries, idx, idx+1)
	p.recompute()
}

// distribute adds sets to the counter each involvement's category selects.
func (p *Plan) distribute(exercise Exercise, sets int) {
	n := float64(sets)
	for _, inv := range exercise.Involvements {
		load, ok := p.loads.Get(inv.MuscleID)
		if !ok {
			log.Debugf("planner: exercise [%s] involves unknown muscle %d, skipping", exercise.ID, inv.MuscleID)
			p.skipped(exercise.ID, inv, SkipUnknownMuscle)
			continue
		}

		switch inv.Category {
		case CategoryPrimary:
			load.AddPrimarySets(n)
		case CategorySynergistic:
			load.AddSynergicSets(n)
		case CategoryStabilizing:
			load.AddStabilizingSets(n)
		default:
			log.Tracef("planner: exercise [%s] muscle %d has unknown category [%s]", exercise.ID, inv.MuscleID, inv.Category)
			p.skipped(exercise.ID, inv, SkipUnknownCategory)
		}
	}
}

func (p *Plan) recompute() {
	start := time.Now()

	p.loads.Reset()
	for _, e := range p.entries {
		p.distribute(e.Exercise, e.Sets)
	}

	if p.hooks.OnRecompute != nil {
		p.hooks.OnRecompute(time.Since(start), len(p.entries))
	}
}

func (p *Plan) skipped(exerciseID string, inv MuscleInvolvement, reason SkipReason) {
	if p.hooks.OnSkip != nil {
		p.hooks.OnSkip(exerciseID, inv, reason)
	}
}
