package planner

const (
	DefaultSetsPerWeekMax        = 20
	DefaultSynergisticMultiplier = 0.5
	DefaultStabilizingMultiplier = 0.33
)

// Config is the per-plan volume configuration.
// Multipliers are expected in [0,1] but that is not enforced.
type Config struct {
	SetsPerWeekMax        float64 `json:"setsPerWeekMax"`
	SynergisticMultiplier float64 `json:"synergisticMultiplier"`
	StabilizingMultiplier float64 `json:"stabilizingMultiplier"`
}

func DefaultConfig() Config {
	return Config{
		SetsPerWeekMax:        DefaultSetsPerWeekMax,
		SynergisticMultiplier: DefaultSynergisticMultiplier,
		StabilizingMultiplier: DefaultStabilizingMultiplier,
	}
}
