package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
)

// RarityDefinition describes one rarity tier
type RarityDefinition struct {
	Value      models.SlotRarity `json:"value"`
	Label      string            `json:"label"`
	Multiplier float64           `json:"multiplier"`
}

// BoostLabel renders the tier bonus, e.g. "+40%"
func (d RarityDefinition) BoostLabel() string {
	return fmt.Sprintf("+%d%%", int(math.Round((d.Multiplier-1)*100)))
}

// rarityDefinitions is ordered from lowest to highest tier
var rarityDefinitions = []RarityDefinition{
	{Value: models.RarityNormal, Label: "Normal", Multiplier: 1},
	{Value: models.RarityGrowing, Label: "Growing", Multiplier: 1.1},
	{Value: models.RarityAdvanced, Label: "Advanced", Multiplier: 1.2},
	{Value: models.RarityTop, Label: "Top", Multiplier: 1.3},
	{Value: models.RarityLegendary, Label: "Legendary", Multiplier: 1.4},
	{Value: models.RarityHero, Label: "Hero", Multiplier: 1.67},
}

// Rarities returns the rarity tiers in ascending order
func Rarities() []RarityDefinition {
	out := make([]RarityDefinition, len(rarityDefinitions))
	copy(out, rarityDefinitions)
	return out
}

// RarityIndex returns the position of r in the tier order
func RarityIndex(r models.SlotRarity) (int, bool) {
	for i, def := range rarityDefinitions {
		if def.Value == r {
			return i, true
		}
	}
	return 0, false
}

// ValidRarity reports whether r is a known tier
func ValidRarity(r models.SlotRarity) bool {
	_, ok := RarityIndex(r)
	return ok
}

// RarityDefinitionFor returns the definition of r, falling back to normal
// for unrecognized tags.
func RarityDefinitionFor(r models.SlotRarity) RarityDefinition {
	if i, ok := RarityIndex(r); ok {
		return rarityDefinitions[i]
	}
	return rarityDefinitions[0]
}

// Multiplier returns the bonus factor of r (1.0 for unknown tags)
func Multiplier(r models.SlotRarity) float64 {
	return RarityDefinitionFor(r).Multiplier
}

// ApplyRarityBonus scales a stat value by the rarity multiplier
func ApplyRarityBonus(value float64, r models.SlotRarity) float64 {
	return NormalizeStat(value) * Multiplier(r)
}

// ParseRarity converts a raw tag into a known tier. Unknown or blank
// tags yield normal and false.
func ParseRarity(raw string) (models.SlotRarity, bool) {
	r := models.SlotRarity(strings.ToLower(strings.TrimSpace(raw)))
	if ValidRarity(r) {
		return r, true
	}
	return models.RarityNormal, false
}
