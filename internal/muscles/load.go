package muscles

// Weights holds the fractional weights of synergistic and stabilizing sets.
// A LoadSet shares one Weights value with all of its loads, so a change
// is seen by every TotalSetVolume call that follows it.
type Weights struct {
	Synergistic float64
	Stabilizing float64
}

// Load accumulates the sets one muscle receives, split by movement category.
// Counters are unbounded on purpose: clamping is up to whoever renders them.
type Load struct {
	Muscle Muscle

	SetsPrimary     float64
	SetsSynergic    float64
	SetsStabilizing float64

	weights *Weights
}

func (l *Load) AddPrimarySets(n float64) {
	l.SetsPrimary += n
}

func (l *Load) AddSynergicSets(n float64) {
	l.SetsSynergic += n
}

func (l *Load) AddStabilizingSets(n float64) {
	l.SetsStabilizing += n
}

// TotalSetVolume weighs the counters with the current weights.
func (l *Load) TotalSetVolume() float64 {
	var w Weights
	if l.weights != nil {
		w = *l.weights
	}
	return l.SetsPrimary +
		l.SetsSynergic*w.Synergistic +
		l.SetsStabilizing*w.Stabilizing
}

func (l *Load) reset() {
	l.SetsPrimary = 0
	l.SetsSynergic = 0
	l.SetsStabilizing = 0
}

// LoadSet is the full set of loads, one per catalog muscle, created and reset together.
type LoadSet struct {
	loads []*Load
	byID  map[int]*Load
}

func NewLoadSet(muscles []Muscle, weights *Weights) *LoadSet {
	ls := &LoadSet{
		loads: make([]*Load, 0, len(muscles)),
		byID:  make(map[int]*Load, len(muscles)),
	}
	for _, m := range muscles {
		l := &Load{
			Muscle:  m,
			weights: weights,
		}
		ls.loads = append(ls.loads, l)
		ls.byID[m.ID] = l
	}
	return ls
}

func (ls *LoadSet) Get(muscleID int) (*Load, bool) {
	l, ok := ls.byID[muscleID]
	return l, ok
}

// All returns the loads in catalog order.
func (ls *LoadSet) All() []*Load {
	return ls.loads
}

// Reset zeroes every counter.
func (ls *LoadSet) Reset() {
	for _, l := range ls.loads {
		l.reset()
	}
}
