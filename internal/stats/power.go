// Package stats computes derived power stats and applies the per-slot
// rarity, bean and passive modifiers.
package stats

import (
	"math"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
)

// ComputePower derives the seven power stats from base attributes.
// It performs no validation: negative or zero inputs yield defined outputs.
func ComputePower(s models.BaseStats) models.PowerStats {
	return models.PowerStats{
		ShootAT:    round(s.Kick + s.Control),
		FocusAT:    round(s.Technique + s.Control + s.Kick*0.5),
		FocusDF:    round(s.Technique + s.Intelligence + s.Agility*0.5),
		WallDF:     round(s.Pressure + s.Physical),
		ScrambleAT: round(s.Intelligence + s.Physical),
		ScrambleDF: round(s.Intelligence + s.Pressure),
		KP:         round(s.Pressure*2 + s.Physical*3 + s.Agility*4),
	}
}

// NormalizeStat maps non-finite values to 0
func NormalizeStat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round(v float64) int {
	return int(math.Round(NormalizeStat(v)))
}
