// Package intensity turns a muscle's training volume into the tint used on the body diagram.
package intensity

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// NeutralColor is the untouched muscle colour, rgb(151, 151, 151).
const NeutralColor = "#979797"

const baseline = 151

type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ColorFor maps a volume against the cap to a hex colour.
// A cap below 1 or not finite is treated as 1, and the ratio saturates at 1.
// A NaN volume counts as no volume.
func ColorFor(volume, volumeCap float64) string {
	if volume <= 0 || math.IsNaN(volume) {
		return NeutralColor
	}
	if math.IsNaN(volumeCap) || math.IsInf(volumeCap, 0) {
		volumeCap = 1
	}
	ratio := math.Min(volume/math.Max(volumeCap, 1), 1.0)
	return Tint(ratio).Hex()
}

// Tint moves red up toward 255 and green/blue down as ratio goes 0 -> 1.
func Tint(ratio float64) RGB {
	return RGB{
		R: int(math.Round(baseline + 104*ratio)),
		G: int(math.Round(baseline - 151*ratio)),
		B: int(math.Round(baseline - 77*ratio)),
	}
}

func (c RGB) Hex() string {
	return RGBToHex(c.R, c.G, c.B)
}

// RGBToHex clamps each channel to [0,255] and encodes it as #rrggbb.
func RGBToHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
}

var (
	shortHexRe = regexp.MustCompile(`(?i)^#?([a-f\d])([a-f\d])([a-f\d])$`)
	longHexRe  = regexp.MustCompile(`(?i)^#?([a-f\d]{2})([a-f\d]{2})([a-f\d]{2})$`)
)

// HexToRGB parses #rrggbb or the #rgb shorthand, with or without the leading #.
func HexToRGB(hex string) (RGB, bool) {
	if m := shortHexRe.FindStringSubmatch(hex); m != nil {
		hex = m[1] + m[1] + m[2] + m[2] + m[3] + m[3]
	}

	m := longHexRe.FindStringSubmatch(hex)
	if m == nil {
		return RGB{}, false
	}

	var channels [3]int
	for i := range channels {
		v, err := strconv.ParseUint(m[i+1], 16, 8)
		if err != nil {
			return RGB{}, false
		}
		channels[i] = int(v)
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}, true
}

func clamp(v int) int {
	return max(0, min(255, v))
}
