package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/SirBarnaby/moyb/internal/muscles"
	"github.com/SirBarnaby/moyb/internal/planner"
	"github.com/SirBarnaby/moyb/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches term literally anywhere in the column, used with ESCAPE '\'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// PsqlSource reads the catalog straight from the exercise database
// (tables muscle, exercise, muscle_in_exercise).
type PsqlSource struct {
	db *pgxpool.Pool
}

func NewPsqlSource(db *pgxpool.Pool) *PsqlSource {
	return &PsqlSource{
		db: db,
	}
}

func (s *PsqlSource) FindExercisesByTargetMuscle(ctx context.Context, muscleName string) (_ []planner.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.exercisesByTargetMuscle")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("muscle.name", muscleName))

	rows, err := s.db.Query(
		ctx,
		`SELECT
				id, name, COALESCE(description, ''), COALESCE(equipment_required, ''),
				COALESCE(movement_type, ''), COALESCE(popularity, 0), COALESCE(range_of_motion, 0),
				COALESCE(injury_risk_factor, ''), COALESCE(joint_stress_factor, ''), COALESCE(cns_fatigue_factor, ''),
				is_unilateral, is_high_spinal_load, COALESCE(main_muscle, ''), COALESCE(image_url, '')
			FROM exercise
			WHERE LOWER(main_muscle) = LOWER($1)
			ORDER BY popularity DESC NULLS LAST, name;`,
		muscleName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []planner.Exercise
	indexByID := make(map[string]int)
	for rows.Next() {
		var e planner.Exercise
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Description, &e.EquipmentRequired,
			&e.MovementType, &e.Popularity, &e.RangeOfMotion,
			&e.InjuryRiskFactor, &e.JointStressFactor, &e.CNSFatigueFactor,
			&e.IsUnilateral, &e.IsHighSpinalLoad, &e.MainMuscle, &e.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		indexByID[e.ID] = len(exercises)
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))
	if len(exercises) == 0 {
		return exercises, nil
	}

	ids := make([]string, 0, len(exercises))
	for _, e := range exercises {
		ids = append(ids, e.ID)
	}

	invRows, err := s.db.Query(
		ctx,
		`SELECT exercise_id, muscle_id, COALESCE(contraction_type, ''),
				COALESCE(fatigue_accumulation_factor, ''), muscle_movement_category
			FROM muscle_in_exercise
			WHERE exercise_id = ANY($1)
			ORDER BY exercise_id, id;`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query involvements: %w", err)
	}

	involvements, err := pgx.CollectRows(invRows, func(row pgx.CollectableRow) (planner.MuscleInvolvement, error) {
		var inv planner.MuscleInvolvement
		err := row.Scan(&inv.ExerciseID, &inv.MuscleID, &inv.ContractionType, &inv.FatigueAccumulationFactor, &inv.Category)
		return inv, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect involvements: %w", err)
	}

	for _, inv := range involvements {
		idx, ok := indexByID[inv.ExerciseID]
		if !ok {
			continue
		}
		exercises[idx].Involvements = append(exercises[idx].Involvements, inv)
	}

	return exercises, nil
}

func (s *PsqlSource) SearchMuscles(ctx context.Context, term string) (_ []muscles.Muscle, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.searchMuscles")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("term", term))

	pattern := containsPattern(term)
	rows, err := s.db.Query(
		ctx,
		`SELECT id, name, COALESCE(name_latin, ''), COALESCE(description, '')
			FROM muscle
			WHERE name ILIKE $1 ESCAPE '\' OR name_latin ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'
			ORDER BY id;`,
		pattern,
	)
	if err != nil {
		return nil, err
	}

	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (muscles.Muscle, error) {
		var m muscles.Muscle
		err := row.Scan(&m.ID, &m.Name, &m.NameLatin, &m.Description)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect muscles: %w", err)
	}

	return withRegions(found), nil
}
