package calc

import (
	"fmt"
	"math"
)

// DefaultTargetPerKm is the R$/km that maps to a full performance bar.
const DefaultTargetPerKm = 2.0

type rgb struct{ r, g, b float64 }

var (
	colorRed    = rgb{255, 0, 0}
	colorYellow = rgb{255, 255, 0}
	colorGreen  = rgb{0, 128, 0}
	colorLime   = rgb{0, 255, 0}
)

// Performance is the visual indicator of how well a single earning paid per km.
type Performance struct {
	PerKm   float64 `json:"per_km"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

// EarningPerformance scales amount/distance against targetPerKm into 0–100%.
func EarningPerformance(amount, distanceKm, targetPerKm float64) Performance {
	if targetPerKm <= 0 || math.IsNaN(targetPerKm) {
		targetPerKm = DefaultTargetPerKm
	}
	perKm := divide(nonNegative(amount), nonNegative(distanceKm))
	percent := math.Min(perKm/targetPerKm*100, 100)

	return Performance{
		PerKm:   perKm,
		Percent: percent,
		Color:   RampColor(percent),
	}
}

// RampColor maps 0–100 to red → yellow (33) → green (66) → lime (100).
func RampColor(percent float64) string {
	p := math.Max(0, math.Min(100, nonNegative(percent)))

	var c rgb
	switch {
	case p <= 33:
		c = lerp(colorRed, colorYellow, p/33)
	case p <= 66:
		c = lerp(colorYellow, colorGreen, (p-33)/33)
	default:
		c = lerp(colorGreen, colorLime, (p-66)/34)
	}
	return fmt.Sprintf("#%02x%02x%02x", int(math.Round(c.r)), int(math.Round(c.g)), int(math.Round(c.b)))
}

func lerp(a, b rgb, t float64) rgb {
	return rgb{
		r: a.r + (b.r-a.r)*t,
		g: a.g + (b.g-a.g)*t,
		b: a.b + (b.b-a.b)*t,
	}
}
