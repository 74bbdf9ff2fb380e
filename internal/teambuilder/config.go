package teambuilder

import (
	"strings"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
	"github.com/Billy-Davies-2/inazuma-guide/internal/stats"
)

// SlotConfigPatch is a partial slot configuration. Nil fields are left as-is.
// Equipments are merged per category, beans replace the whole set.
type SlotConfigPatch struct {
	Rarity     *models.SlotRarity    `json:"rarity,omitempty"`
	Equipments models.SlotEquipments `json:"equipments,omitempty"`
	Beans      []models.SlotBean     `json:"beans,omitempty"`
}

// EmptySlotEquipments returns a map with every category set to none
func EmptySlotEquipments() models.SlotEquipments {
	eq := make(models.SlotEquipments, len(models.EquipmentCategories))
	for _, c := range models.EquipmentCategories {
		eq[c] = ""
	}
	return eq
}

// DefaultSlotConfig is a normal rarity slot with nothing equipped
func DefaultSlotConfig() models.SlotConfig {
	return models.SlotConfig{
		Rarity:     models.RarityNormal,
		Equipments: EmptySlotEquipments(),
		Beans:      stats.EmptySlotBeans(),
	}
}

// NormalizeSlotConfig heals a possibly partial config: unknown rarity
// becomes normal, every equipment category is present and beans are clamped.
func NormalizeSlotConfig(cfg models.SlotConfig) models.SlotConfig {
	out := DefaultSlotConfig()
	if stats.ValidRarity(cfg.Rarity) {
		out.Rarity = cfg.Rarity
	}
	for _, c := range models.EquipmentCategories {
		out.Equipments[c] = strings.TrimSpace(cfg.Equipments[c])
	}
	out.Beans = stats.NormalizeSlotBeans(cfg.Beans[:])
	return out
}

// MergeSlotConfig applies patch on top of the normalized base
func MergeSlotConfig(base models.SlotConfig, patch SlotConfigPatch) models.SlotConfig {
	out := NormalizeSlotConfig(base)
	if patch.Rarity != nil {
		out.Rarity = *patch.Rarity
	}
	for c, id := range patch.Equipments {
		out.Equipments[c] = id
	}
	if patch.Beans != nil {
		out.Beans = stats.NormalizeSlotBeans(patch.Beans)
	}
	return NormalizeSlotConfig(out)
}

// IsDefaultSlotConfig reports whether cfg carries no customization
func IsDefaultSlotConfig(cfg models.SlotConfig) bool {
	n := NormalizeSlotConfig(cfg)
	if n.Rarity != models.RarityNormal || n.Beans != stats.EmptySlotBeans() {
		return false
	}
	for _, id := range n.Equipments {
		if id != "" {
			return false
		}
	}
	return true
}
