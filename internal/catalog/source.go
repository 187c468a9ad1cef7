// Package catalog resolves exercises and muscles from an external store.
// The planner only ever sees what a Source returned; it never fetches by itself.
package catalog

import (
	"context"
	"errors"

	"github.com/SirBarnaby/moyb/internal/muscles"
	"github.com/SirBarnaby/moyb/internal/planner"
)

//go:generate mockgen -source=$GOFILE -destination=source_mock_test.go -package=catalog

var ErrMuscleNotFound = errors.New("muscle not found")

type Source interface {
	FindExercisesByTargetMuscle(ctx context.Context, muscleName string) ([]planner.Exercise, error)
	SearchMuscles(ctx context.Context, term string) ([]muscles.Muscle, error)
}

// withRegions fills in the body region for muscles the local catalog knows.
func withRegions(found []muscles.Muscle) []muscles.Muscle {
	for i := range found {
		if found[i].BodyRegion == muscles.RegionUndefined {
			found[i].BodyRegion = muscles.RegionOf(found[i].ID)
		}
	}
	return found
}
