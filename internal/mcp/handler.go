package mcp

import (
	"context"
	"encoding/json"

	"github.com/SirBarnaby/moyb/internal/planner"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler turns tool calls into service calls and formats the results.
// Service errors are reported as tool errors, never as protocol errors.
type Handler struct {
	service plannerService
}

func NewHandler(service plannerService) *Handler {
	return &Handler{
		service: service,
	}
}

type createPlanResult struct {
	PlanID string         `json:"plan_id"`
	Config planner.Config `json:"config"`
}

// CreatePlanTool returns the MCP tool handler for create_plan.
func (h *Handler) CreatePlanTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		id, cfg := h.service.CreatePlan(ctx)
		return jsonResult(createPlanResult{PlanID: id, Config: cfg}), nil, nil
	}
}

// ExercisesForMuscleInput is the input for find_exercises_for_muscle.
type ExercisesForMuscleInput struct {
	MuscleName string `json:"muscle_name" jsonschema:"Target muscle name (e.g. Chest, Quads)"`
}

// FindExercisesForMuscleTool returns the MCP tool handler for find_exercises_for_muscle.
func (h *Handler) FindExercisesForMuscleTool() func(context.Context, *mcp.CallToolRequest, ExercisesForMuscleInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExercisesForMuscleInput) (*mcp.CallToolResult, any, error) {
		list, err := h.service.ExercisesForMuscle(ctx, in.MuscleName)
		if err != nil {
			return errorResult("Error finding exercises: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// AddExerciseInput is the input for add_exercise.
type AddExerciseInput struct {
	PlanID       string `json:"plan_id" jsonschema:"Plan id returned by create_plan"`
	TargetMuscle string `json:"target_muscle" jsonschema:"Target muscle the exercise was found under"`
	ExerciseID   string `json:"exercise_id" jsonschema:"Exercise id from find_exercises_for_muscle"`
	Sets         int    `json:"sets" jsonschema:"Number of weekly sets to add (negative removes sets)"`
}

// AddExerciseTool returns the MCP tool handler for add_exercise.
func (h *Handler) AddExerciseTool() func(context.Context, *mcp.CallToolRequest, AddExerciseInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in AddExerciseInput) (*mcp.CallToolResult, any, error) {
		if in.PlanID == "" || in.ExerciseID == "" {
			return errorResult("plan_id and exercise_id are required"), nil, nil
		}
		volumes, err := h.service.AddExercise(ctx, in.PlanID, in.TargetMuscle, in.ExerciseID, in.Sets)
		if err != nil {
			return errorResult("Error adding exercise: " + err.Error()), nil, nil
		}
		return jsonResult(volumes), nil, nil
	}
}

// PlanExerciseInput is the input for remove_exercise.
type PlanExerciseInput struct {
	PlanID     string `json:"plan_id" jsonschema:"Plan id returned by create_plan"`
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise id in the plan"`
}

// RemoveExerciseTool returns the MCP tool handler for remove_exercise.
func (h *Handler) RemoveExerciseTool() func(context.Context, *mcp.CallToolRequest, PlanExerciseInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in PlanExerciseInput) (*mcp.CallToolResult, any, error) {
		volumes, err := h.service.RemoveExercise(ctx, in.PlanID, in.ExerciseID)
		if err != nil {
			return errorResult("Error removing exercise: " + err.Error()), nil, nil
		}
		return jsonResult(volumes), nil, nil
	}
}

// UpdateSetsInput is the input for update_exercise_sets.
type UpdateSetsInput struct {
	PlanID     string `json:"plan_id" jsonschema:"Plan id returned by create_plan"`
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise id in the plan"`
	Sets       int    `json:"sets" jsonschema:"New absolute number of weekly sets (0 or less removes the exercise)"`
}

// UpdateExerciseSetsTool returns the MCP tool handler for update_exercise_sets.
func (h *Handler) UpdateExerciseSetsTool() func(context.Context, *mcp.CallToolRequest, UpdateSetsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UpdateSetsInput) (*mcp.CallToolResult, any, error) {
		volumes, err := h.service.UpdateExerciseSets(ctx, in.PlanID, in.ExerciseID, in.Sets)
		if err != nil {
			return errorResult("Error updating sets: " + err.Error()), nil, nil
		}
		return jsonResult(volumes), nil, nil
	}
}

// MultipliersInput is the input for update_multipliers.
type MultipliersInput struct {
	PlanID                string   `json:"plan_id" jsonschema:"Plan id returned by create_plan"`
	SetsPerWeekMax        *float64 `json:"sets_per_week_max,omitempty" jsonschema:"Weekly sets at which a muscle shows full intensity"`
	SynergisticMultiplier *float64 `json:"synergistic_multiplier,omitempty" jsonschema:"Volume weight of a synergistic set, usually 0-1"`
	StabilizingMultiplier *float64 `json:"stabilizing_multiplier,omitempty" jsonschema:"Volume weight of a stabilizing set, usually 0-1"`
}

// UpdateMultipliersTool returns the MCP tool handler for update_multipliers.
func (h *Handler) UpdateMultipliersTool() func(context.Context, *mcp.CallToolRequest, MultipliersInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in MultipliersInput) (*mcp.CallToolResult, any, error) {
		cfg, err := h.service.UpdateMultipliers(ctx, in.PlanID, MultiplierUpdate{
			SetsPerWeekMax:        in.SetsPerWeekMax,
			SynergisticMultiplier: in.SynergisticMultiplier,
			StabilizingMultiplier: in.StabilizingMultiplier,
		})
		if err != nil {
			return errorResult("Error updating multipliers: " + err.Error()), nil, nil
		}
		return jsonResult(cfg), nil, nil
	}
}

// PlanInput is the input for get_plan_volumes.
type PlanInput struct {
	PlanID string `json:"plan_id" jsonschema:"Plan id returned by create_plan"`
}

// GetPlanVolumesTool returns the MCP tool handler for get_plan_volumes.
func (h *Handler) GetPlanVolumesTool() func(context.Context, *mcp.CallToolRequest, PlanInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in PlanInput) (*mcp.CallToolResult, any, error) {
		volumes, err := h.service.PlanVolumes(ctx, in.PlanID)
		if err != nil {
			return errorResult("Error fetching plan volumes: " + err.Error()), nil, nil
		}
		return jsonResult(volumes), nil, nil
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}
