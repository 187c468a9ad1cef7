package catalog

import (
	"context"
	"testing"

	"github.com/SirBarnaby/moyb/internal/muscles"
	"github.com/SirBarnaby/moyb/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	source, err := NewFileSource("testdata/exercises.yaml")
	require.NoError(t, err)
	ctx := context.Background()

	exercises, err := source.FindExercisesByTargetMuscle(ctx, "chest")
	require.NoError(t, err)
	require.Len(t, exercises, 2)
	assert.Equal(t, "bench-press", exercises[0].ID)
	assert.Equal(t, "push-up", exercises[1].ID)
	assert.True(t, exercises[1].IsCalisthenics())
	require.Len(t, exercises[0].Involvements, 4)
	assert.Equal(t, "bench-press", exercises[0].Involvements[0].ExerciseID)
	assert.Equal(t, planner.CategoryStabilizing, exercises[0].Involvements[3].Category)

	found, err := source.SearchMuscles(ctx, "brachii")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Triceps", found[0].Name)
	assert.Equal(t, muscles.RegionUpper, found[0].BodyRegion)

	found, err = source.SearchMuscles(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestParseFileSource(t *testing.T) {
	source, err := ParseFileSource([]byte(`
exercises:
  - id: plank
    name: Plank
    mainMuscle: Abs
    muscleInExercises:
      - muscleId: 1
        muscleMovementCategory: primary
`))
	require.NoError(t, err)

	// falls back to the built-in muscles
	found, err := source.SearchMuscles(context.Background(), "hamstrings")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 11, found[0].ID)

	_, err = ParseFileSource([]byte("exercises:\n  - name: no id\n"))
	assert.Error(t, err)

	_, err = ParseFileSource([]byte("exercises: [unclosed"))
	assert.Error(t, err)
}

func TestNewFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource("testdata/nope.yaml")
	assert.EqualError(t, err, "catalog file not found: testdata/nope.yaml")

	_, err = NewFileSource("testdata")
	assert.EqualError(t, err, "catalog file not found: testdata")
}
