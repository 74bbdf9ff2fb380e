package stats

import (
	"math"
	"strings"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
)

const (
	PassivePresetSlots = 5
	MaxSlotPassives    = PassivePresetSlots + 1
	MaxPassiveValue    = 999
)

// ClampPassiveValue rounds v to two decimals and clamps it to [-999, 999].
// Non-finite input clamps to 0.
func ClampPassiveValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	rounded := math.Round(v*100) / 100
	return math.Max(-MaxPassiveValue, math.Min(MaxPassiveValue, rounded))
}

// EmptySlotPassives returns five empty presets and an empty custom passive
func EmptySlotPassives() models.SlotPassives {
	return models.SlotPassives{}
}

// NormalizeSlotPassives trims passive ids and clamps every value
func NormalizeSlotPassives(p models.SlotPassives) models.SlotPassives {
	out := EmptySlotPassives()
	for i, preset := range p.Presets {
		out.Presets[i] = normalizePreset(preset)
	}
	out.Custom = normalizePreset(p.Custom)
	return out
}

func normalizePreset(p models.SlotPassivePreset) models.SlotPassivePreset {
	return models.SlotPassivePreset{
		PassiveID: strings.TrimSpace(p.PassiveID),
		Value:     ClampPassiveValue(p.Value),
	}
}
