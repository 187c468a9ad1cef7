//go:build integration

package integration_testing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/SirBarnaby/moyb/internal/muscles"
	"github.com/SirBarnaby/moyb/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *Suite

func TestMain(m *testing.M) {
	ctx, cancel := context.WithCancel(context.Background())
	suite = newSuite(ctx)

	code := m.Run()

	cancel()
	suite.cleanup()
	os.Exit(code)
}

func getJSON(t *testing.T, path string, v any) {
	t.Helper()
	resp, err := http.Get(serverEndpoint + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func sendJSON(t *testing.T, method, path, body string, wantStatus int, v any) {
	t.Helper()
	req, err := http.NewRequest(method, serverEndpoint+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
}

func Test_ExercisesForMuscle_FromPostgres(t *testing.T) {
	var exercises []planner.Exercise
	getJSON(t, "/exercises/target/chest", &exercises)

	require.Len(t, exercises, 2)
	assert.Equal(t, "bench-press", exercises[0].ID)
	assert.Equal(t, "push-up", exercises[1].ID)
	require.Len(t, exercises[0].Involvements, 4)
	assert.Equal(t, planner.CategoryPrimary, exercises[0].Involvements[0].Category)
	assert.Equal(t, 7, exercises[0].Involvements[0].MuscleID)
	assert.True(t, exercises[1].IsCalisthenics())

	var none []planner.Exercise
	getJSON(t, "/exercises/target/Wings", &none)
	assert.Empty(t, none)
}

func Test_SearchMuscles_FromPostgres(t *testing.T) {
	// twice, the second one comes from the redis cache
	for i := 0; i < 2; i++ {
		var found []muscles.Muscle
		getJSON(t, "/muscles/search?term=delt", &found)
		require.Len(t, found, 2, "round %d", i)
		assert.Equal(t, "Front Delts", found[0].Name)
		assert.Equal(t, muscles.RegionUpper, found[0].BodyRegion)
	}

	// wildcards in the term are matched literally
	var wildcard []muscles.Muscle
	getJSON(t, "/muscles/search?term=%25", &wildcard)
	assert.Empty(t, wildcard)
	getJSON(t, "/muscles/search?term=_", &wildcard)
	assert.Empty(t, wildcard)
}

func Test_PlanFlow(t *testing.T) {
	var exercises []planner.Exercise
	getJSON(t, "/exercises/target/Chest", &exercises)
	require.NotEmpty(t, exercises)

	var plan planner.PlanResponse
	sendJSON(t, http.MethodPost, "/plans", "", http.StatusCreated, &plan)
	require.NotEmpty(t, plan.ID)

	exerciseJson, err := json.Marshal(exercises[0])
	require.NoError(t, err)
	sendJSON(t, http.MethodPost, "/plans/"+plan.ID+"/exercises",
		fmt.Sprintf(`{"exercise": %s, "sets": 10}`, exerciseJson),
		http.StatusOK, &plan,
	)
	require.Len(t, plan.Entries, 1)

	var heatmap planner.HeatmapResponse
	getJSON(t, "/plans/"+plan.ID+"/heatmap", &heatmap)
	var chestColor string
	for _, cell := range heatmap.Cells {
		if cell.MuscleID == 7 {
			chestColor = cell.Color
			assert.Equal(t, 10.0, cell.Volume)
		}
	}
	assert.NotEmpty(t, chestColor)

	sendJSON(t, http.MethodDelete, "/plans/"+plan.ID, "", http.StatusOK, nil)
	sendJSON(t, http.MethodGet, "/plans/"+plan.ID, "", http.StatusNotFound, nil)
}
