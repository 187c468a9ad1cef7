package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/SirBarnaby/moyb/internal/muscles"
	"github.com/SirBarnaby/moyb/internal/planner"
	"github.com/SirBarnaby/moyb/pkg"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type fileCatalog struct {
	Muscles   []muscles.Muscle   `yaml:"muscles"`
	Exercises []planner.Exercise `yaml:"exercises"`
}

// FileSource serves a catalog loaded once from a YAML file. Used for local
// development and the stdio MCP server, where no exercise backend runs.
type FileSource struct {
	muscles   []muscles.Muscle
	exercises []planner.Exercise
}

func NewFileSource(path string) (*FileSource, error) {
	exists, err := pkg.PathExists(path, false)
	if err != nil {
		return nil, fmt.Errorf("check catalog file: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("catalog file not found: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseFileSource(content)
}

func ParseFileSource(content []byte) (*FileSource, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(content, &fc); err != nil {
		return nil, fmt.Errorf("unmarshal catalog yaml: %w", err)
	}

	// muscles left out of the file fall back to the built-in catalog
	if len(fc.Muscles) == 0 {
		fc.Muscles = muscles.Catalog()
	}

	for i, e := range fc.Exercises {
		if e.ID == "" {
			return nil, fmt.Errorf("exercise #%d [%s] has no id", i, e.Name)
		}
		for j := range e.Involvements {
			fc.Exercises[i].Involvements[j].ExerciseID = e.ID
		}
	}

	log.Debugf("file catalog loaded: %d muscles, %d exercises", len(fc.Muscles), len(fc.Exercises))

	return &FileSource{
		muscles:   withRegions(fc.Muscles),
		exercises: fc.Exercises,
	}, nil
}

func (s *FileSource) FindExercisesByTargetMuscle(_ context.Context, muscleName string) ([]planner.Exercise, error) {
	var found []planner.Exercise
	for _, e := range s.exercises {
		if strings.EqualFold(e.MainMuscle, muscleName) {
			found = append(found, e)
		}
	}
	return found, nil
}

func (s *FileSource) SearchMuscles(_ context.Context, term string) ([]muscles.Muscle, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	var found []muscles.Muscle
	for _, m := range s.muscles {
		if strings.Contains(strings.ToLower(m.Name), term) ||
			strings.Contains(strings.ToLower(m.NameLatin), term) ||
			strings.Contains(strings.ToLower(m.Description), term) {
			found = append(found, m)
		}
	}
	return found, nil
}
