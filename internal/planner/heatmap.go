package planner

import (
	"github.com/SirBarnaby/moyb/internal/intensity"
	"github.com/SirBarnaby/moyb/internal/muscles"
)

type HeatmapCell struct {
	MuscleID   int                `json:"muscleId"`
	Name       string             `json:"name"`
	ElementID  string             `json:"elementId"`
	BodyRegion muscles.BodyRegion `json:"bodyRegion"`
	Volume     float64            `json:"volume"`
	Color      string             `json:"color"`
}

// Heatmap colours every muscle of the plan against its SetsPerWeekMax.
func Heatmap(plan *Plan) []HeatmapCell {
	cfg := plan.Config()
	loads := plan.Loads()

	cells := make([]HeatmapCell, 0, len(loads))
	for _, l := range loads {
		cells = append(cells, HeatmapCell{
			MuscleID:   l.Muscle.ID,
			Name:       l.Muscle.Name,
			ElementID:  muscles.ElementID(l.Muscle.Name),
			BodyRegion: l.Muscle.BodyRegion,
			Volume:     l.TotalVolume,
			Color:      intensity.ColorFor(l.TotalVolume, cfg.SetsPerWeekMax),
		})
	}
	return cells
}

// RegionVolumes sums the total volume per body region, for balancing upper/lower/core work.
func (p *Plan) RegionVolumes() map[muscles.BodyRegion]float64 {
	volumes := map[muscles.BodyRegion]float64{
		muscles.RegionUpper: 0,
		muscles.RegionLower: 0,
		muscles.RegionCore:  0,
	}
	for _, l := range p.Loads() {
		if l.Muscle.BodyRegion == muscles.RegionUndefined {
			continue
		}
		volumes[l.Muscle.BodyRegion] += l.TotalVolume
	}
	return volumes
}

// MuscleVolume is the trimmed per-muscle view used by the MCP tools.
type MuscleVolume struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	BodyRegion  muscles.BodyRegion `json:"bodyRegion"`
	TotalVolume float64            `json:"totalVolume"`
}

func Volumes(plan *Plan) []MuscleVolume {
	loads := plan.Loads()
	volumes := make([]MuscleVolume, 0, len(loads))
	for _, l := range loads {
		volumes = append(volumes, MuscleVolume{
			ID:          l.Muscle.ID,
			Name:        l.Muscle.Name,
			BodyRegion:  l.Muscle.BodyRegion,
			TotalVolume: l.TotalVolume,
		})
	}
	return volumes
}
