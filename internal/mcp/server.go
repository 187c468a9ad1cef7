package mcp

import (
	"github.com/SirBarnaby/moyb/internal/planner"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds the MCP server with the plan tools. Mounted by the main
// service at /mcp, and run over stdio by cmd/planner_mcp.
func NewServer(registry *planner.Registry, lookup exerciseLookup) *mcp.Server {
	h := NewHandler(NewPlannerService(registry, lookup))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "moyb-planner",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "create_plan",
		Description: "Creates an empty workout plan with the default volume config and returns its plan_id. Call this first; every other plan tool needs the plan_id.",
	}, h.CreatePlanTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "find_exercises_for_muscle",
		Description: "Returns the exercises whose main target is the given muscle (e.g. Chest, Quads), with their muscle involvements. Use to pick an exercise_id for add_exercise.",
	}, h.FindExercisesForMuscleTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Adds weekly sets of an exercise to the plan. Args: plan_id, target_muscle (as used in find_exercises_for_muscle), exercise_id, sets. Adding an exercise already in the plan adds to its sets. Returns per-muscle volumes.",
	}, h.AddExerciseTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "remove_exercise",
		Description: "Removes an exercise from the plan. Removing an exercise that is not in the plan does nothing. Returns per-muscle volumes.",
	}, h.RemoveExerciseTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "update_exercise_sets",
		Description: "Sets the absolute weekly sets of an exercise already in the plan; 0 removes it. Returns per-muscle volumes.",
	}, h.UpdateExerciseSetsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "update_multipliers",
		Description: "Changes the plan's volume config: sets_per_week_max, synergistic_multiplier, stabilizing_multiplier. Omitted fields keep their value. All volumes are recomputed.",
	}, h.UpdateMultipliersTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_plan_volumes",
		Description: "Returns the total weekly volume per muscle of the plan, with the muscle's body region. Use to check program balance.",
	}, h.GetPlanVolumesTool())

	return s
}
