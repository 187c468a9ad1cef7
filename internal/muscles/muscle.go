package muscles

import (
	"strings"
)

type BodyRegion string

const (
	RegionUpper     BodyRegion = "upper"
	RegionLower     BodyRegion = "lower"
	RegionCore      BodyRegion = "core"
	RegionUndefined BodyRegion = ""
)

type Muscle struct {
	ID          int        `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	NameLatin   string     `json:"nameLatin,omitempty" yaml:"nameLatin,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	BodyRegion  BodyRegion `json:"bodyRegion,omitempty" yaml:"bodyRegion,omitempty"`
}

// catalog is ordered by id; the ids are the ones the exercise backend uses
var catalog = []Muscle{
	{ID: 1, Name: "Abs"},
	{ID: 2, Name: "Abductors"},
	{ID: 3, Name: "Adductors"},
	{ID: 4, Name: "Front Delts"},
	{ID: 5, Name: "Biceps"},
	{ID: 6, Name: "Calves"},
	{ID: 7, Name: "Chest"},
	{ID: 8, Name: "Forearm Extensors"},
	{ID: 9, Name: "Forearm Flexors"},
	{ID: 10, Name: "Glutes"},
	{ID: 11, Name: "Hamstrings"},
	{ID: 12, Name: "Side Delts"},
	{ID: 13, Name: "Lats"},
	{ID: 14, Name: "Lower Back"},
	{ID: 15, Name: "Obliques"},
	{ID: 16, Name: "Rear Delts"},
	{ID: 17, Name: "Quads"},
	{ID: 18, Name: "Rotator Cuff"},
	{ID: 19, Name: "Tibialis"},
	{ID: 20, Name: "Trapezius"},
	{ID: 21, Name: "Triceps"},
	{ID: 22, Name: "Hip Flexors"},
}

var regionByID = map[int]BodyRegion{
	4: RegionUpper, 5: RegionUpper, 7: RegionUpper, 8: RegionUpper, 9: RegionUpper,
	12: RegionUpper, 13: RegionUpper, 16: RegionUpper, 18: RegionUpper, 20: RegionUpper, 21: RegionUpper,

	2: RegionLower, 3: RegionLower, 6: RegionLower, 10: RegionLower,
	11: RegionLower, 17: RegionLower, 19: RegionLower, 22: RegionLower,

	1: RegionCore, 14: RegionCore, 15: RegionCore,
}

// Catalog returns a fresh copy of all known muscles, with body regions filled in.
func Catalog() []Muscle {
	all := make([]Muscle, 0, len(catalog))
	for _, m := range catalog {
		m.BodyRegion = RegionOf(m.ID)
		all = append(all, m)
	}
	return all
}

// RegionOf returns RegionUndefined for ids outside the catalog.
func RegionOf(id int) BodyRegion {
	return regionByID[id]
}

func NameByID(id int) (string, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m.Name, true
		}
	}
	return "", false
}

// IDByName matches the display name case-insensitively.
func IDByName(name string) (int, bool) {
	for _, m := range catalog {
		if strings.EqualFold(m.Name, name) {
			return m.ID, true
		}
	}
	return 0, false
}
