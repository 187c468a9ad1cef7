package muscles

import (
	"strings"
)

// elementAliases maps naming variations to the element ids of the anatomy SVG
var elementAliases = map[string]string{
	"front delts":       "frontdelts",
	"anterior delts":    "frontdelts",
	"side delts":        "sidedelts",
	"lateral delts":     "sidedelts",
	"rear delts":        "reardelts",
	"posterior delts":   "reardelts",
	"forearm extensors": "forearmextendors",
	"forearm flexors":   "forearmflexors",
	"lower back":        "lowerback",
	"rotator cuff":      "rotatorcuff",
	"trapezius":         "traps",
}

// ElementID returns the anatomy diagram element id for a muscle name.
// Names without an alias are lowercased with all whitespace removed.
func ElementID(muscleName string) string {
	lower := strings.ToLower(muscleName)
	if id, ok := elementAliases[lower]; ok {
		return id
	}
	return strings.Join(strings.Fields(lower), "")
}
