package planner

import "strings"

// MovementCategory says how a muscle takes part in an exercise.
type MovementCategory string

const (
	CategoryPrimary     MovementCategory = "primary"
	CategorySynergistic MovementCategory = "synergistic"
	CategoryStabilizing MovementCategory = "stabilizing"
)

type MuscleInvolvement struct {
	ExerciseID                string           `json:"exerciseId,omitempty" yaml:"exerciseId,omitempty"`
	MuscleID                  int              `json:"muscleId" yaml:"muscleId"`
	ContractionType           string           `json:"contractionType,omitempty" yaml:"contractionType,omitempty"`
	FatigueAccumulationFactor string           `json:"fatigueAccumulationFactor,omitempty" yaml:"fatigueAccumulationFactor,omitempty"`
	Category                  MovementCategory `json:"muscleMovementCategory" yaml:"muscleMovementCategory"`
}

// Exercise is fetched from the exercise catalog and never changed by the planner.
// Apart from ID and Involvements, the fields are passed through untouched.
type Exercise struct {
	ID                string  `json:"id" yaml:"id"`
	Name              string  `json:"name" yaml:"name"`
	Description       string  `json:"description,omitempty" yaml:"description,omitempty"`
	EquipmentRequired string  `json:"equipmentRequired,omitempty" yaml:"equipmentRequired,omitempty"`
	MovementType      string  `json:"movementType,omitempty" yaml:"movementType,omitempty"`
	Popularity        float64 `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	RangeOfMotion     float64 `json:"rangeOfMotion,omitempty" yaml:"rangeOfMotion,omitempty"`
	InjuryRiskFactor  string  `json:"injuryRiskFactor,omitempty" yaml:"injuryRiskFactor,omitempty"`
	JointStressFactor string  `json:"jointStressFactor,omitempty" yaml:"jointStressFactor,omitempty"`
	CNSFatigueFactor  string  `json:"cnsFatigueFactor,omitempty" yaml:"cnsFatigueFactor,omitempty"`
	IsUnilateral      bool    `json:"isUnilateral,omitempty" yaml:"isUnilateral,omitempty"`
	IsHighSpinalLoad  bool    `json:"isHighSpinalLoad,omitempty" yaml:"isHighSpinalLoad,omitempty"`
	MainMuscle        string  `json:"mainMuscle,omitempty" yaml:"mainMuscle,omitempty"`
	ImageURL          string  `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`

	Involvements []MuscleInvolvement `json:"muscleInExercises" yaml:"muscleInExercises"`
}

func (e Exercise) IsCalisthenics() bool {
	return strings.Contains(strings.ToLower(e.EquipmentRequired), "bodyweight")
}

func (e Exercise) IsSpecial() bool {
	return strings.Contains(strings.ToLower(e.MovementType), "special")
}
