package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SirBarnaby/moyb/internal/planner"
)

var (
	ErrExerciseNotFound  = errors.New("exercise not found for target muscle")
	ErrExerciseNotInPlan = errors.New("exercise not in plan")
)

// exerciseLookup is the part of catalog.Lookup the tools need.
type exerciseLookup interface {
	ExercisesForMuscle(ctx context.Context, muscleName string) []planner.Exercise
}

// MultiplierUpdate holds the config fields to change; nil ones are kept.
type MultiplierUpdate struct {
	SetsPerWeekMax        *float64
	SynergisticMultiplier *float64
	StabilizingMultiplier *float64
}

// plannerService is what the Handler calls into. Kept as an interface for tests.
type plannerService interface {
	CreatePlan(ctx context.Context) (string, planner.Config)
	ExercisesForMuscle(ctx context.Context, muscleName string) ([]planner.Exercise, error)
	AddExercise(ctx context.Context, planID, targetMuscle, exerciseID string, sets int) ([]planner.MuscleVolume, error)
	RemoveExercise(ctx context.Context, planID, exerciseID string) ([]planner.MuscleVolume, error)
	UpdateExerciseSets(ctx context.Context, planID, exerciseID string, sets int) ([]planner.MuscleVolume, error)
	UpdateMultipliers(ctx context.Context, planID string, update MultiplierUpdate) (planner.Config, error)
	PlanVolumes(ctx context.Context, planID string) ([]planner.MuscleVolume, error)
}

// PlannerService drives the plans of the registry on behalf of an MCP client.
type PlannerService struct {
	registry *planner.Registry
	lookup   exerciseLookup
}

func NewPlannerService(registry *planner.Registry, lookup exerciseLookup) *PlannerService {
	return &PlannerService{
		registry: registry,
		lookup:   lookup,
	}
}

func (s *PlannerService) CreatePlan(_ context.Context) (string, planner.Config) {
	id, plan := s.registry.Create(nil)
	return id, plan.Config()
}

func (s *PlannerService) ExercisesForMuscle(ctx context.Context, muscleName string) ([]planner.Exercise, error) {
	muscleName = strings.TrimSpace(muscleName)
	if muscleName == "" {
		return nil, errors.New("muscle name empty")
	}
	return s.lookup.ExercisesForMuscle(ctx, muscleName), nil
}

// AddExercise resolves the exercise among the ones targeting the given muscle,
// since the catalog can only be browsed by target muscle.
func (s *PlannerService) AddExercise(
	ctx context.Context,
	planID, targetMuscle, exerciseID string,
	sets int,
) ([]planner.MuscleVolume, error) {
	plan, err := s.registry.Get(planID)
	if err != nil {
		return nil, err
	}

	exercise, found := findExercise(s.lookup.ExercisesForMuscle(ctx, targetMuscle), exerciseID)
	if !found {
		return nil, fmt.Errorf("%w: [%s] / [%s]", ErrExerciseNotFound, targetMuscle, exerciseID)
	}

	plan.AddExercise(exercise, sets)
	return planner.Volumes(plan), nil
}

func (s *PlannerService) RemoveExercise(_ context.Context, planID, exerciseID string) ([]planner.MuscleVolume, error) {
	plan, err := s.registry.Get(planID)
	if err != nil {
		return nil, err
	}

	plan.RemoveExercise(planner.Exercise{ID: exerciseID})
	return planner.Volumes(plan), nil
}

func (s *PlannerService) UpdateExerciseSets(_ context.Context, planID, exerciseID string, sets int) ([]planner.MuscleVolume, error) {
	plan, err := s.registry.Get(planID)
	if err != nil {
		return nil, err
	}

	if !plan.UpdateExistingSets(exerciseID, sets) {
		return nil, fmt.Errorf("%w: [%s]", ErrExerciseNotInPlan, exerciseID)
	}
	return planner.Volumes(plan), nil
}

func (s *PlannerService) UpdateMultipliers(_ context.Context, planID string, update MultiplierUpdate) (planner.Config, error) {
	plan, err := s.registry.Get(planID)
	if err != nil {
		return planner.Config{}, err
	}

	return plan.UpdateConfig(update.applyTo), nil
}

func (u MultiplierUpdate) applyTo(cfg planner.Config) planner.Config {
	if u.SetsPerWeekMax != nil {
		cfg.SetsPerWeekMax = *u.SetsPerWeekMax
	}
	if u.SynergisticMultiplier != nil {
		cfg.SynergisticMultiplier = *u.SynergisticMultiplier
	}
	if u.StabilizingMultiplier != nil {
		cfg.StabilizingMultiplier = *u.StabilizingMultiplier
	}
	return cfg
}

func (s *PlannerService) PlanVolumes(_ context.Context, planID string) ([]planner.MuscleVolume, error) {
	plan, err := s.registry.Get(planID)
	if err != nil {
		return nil, err
	}
	return planner.Volumes(plan), nil
}

func findExercise(exercises []planner.Exercise, exerciseID string) (planner.Exercise, bool) {
	for _, e := range exercises {
		if e.ID == exerciseID {
			return e, true
		}
	}
	return planner.Exercise{}, false
}
