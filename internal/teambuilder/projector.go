package teambuilder

import (
	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
	"github.com/Billy-Davies-2/inazuma-guide/internal/stats"
)

// PlayerLookup resolves entity ids to player records
type PlayerLookup interface {
	Player(id int) (models.Player, bool)
}

// EquipmentLookup resolves equipment ids
type EquipmentLookup interface {
	Equipment(id string) (models.Equipment, bool)
}

// Lookup is what the projector needs from the dataset
type Lookup interface {
	PlayerLookup
	EquipmentLookup
}

// Project builds the read-only view of every slot, in slot order.
// Unknown entity ids render as empty slots.
func Project(s models.TeamBuilderState, slotList []models.TeamBuilderSlot, lookup Lookup) []models.SlotAssignment {
	out := make([]models.SlotAssignment, 0, len(slotList))
	for _, slot := range slotList {
		cfg := NormalizeSlotConfig(s.SlotConfigs[slot.ID])
		entry := models.SlotAssignment{Slot: slot, Config: cfg}

		if id := s.Assignments[slot.ID]; id != nil && lookup != nil {
			if p, ok := lookup.Player(*id); ok {
				player := p
				entry.Player = &player
				entry.Computed = ComputeSlotStats(player, cfg, slot.ConfigScope, lookup)
			}
		}
		out = append(out, entry)
	}
	return out
}

func zeroBonuses() map[models.AttributeKey]float64 {
	m := make(map[models.AttributeKey]float64, len(models.AttributeKeys))
	for _, k := range models.AttributeKeys {
		m[k] = 0
	}
	return m
}

// EquipmentBonuses sums the attribute stats of the equipped items.
// Unknown ids contribute nothing.
func EquipmentBonuses(eq models.SlotEquipments, lookup EquipmentLookup) map[models.AttributeKey]float64 {
	bonuses := zeroBonuses()
	if lookup == nil {
		return bonuses
	}
	for _, c := range models.EquipmentCategories {
		id := eq[c]
		if id == "" {
			continue
		}
		item, ok := lookup.Equipment(id)
		if !ok {
			continue
		}
		for _, k := range models.AttributeKeys {
			bonuses[k] += stats.NormalizeStat(item.Stats.Get(k))
		}
	}
	return bonuses
}

// ComputeSlotStats applies rarity, then equipment and beans, to the
// player's base attributes. Rarity-only slots skip equipment and beans.
func ComputeSlotStats(p models.Player, cfg models.SlotConfig, scope models.ConfigScope, lookup EquipmentLookup) *models.SlotComputedStats {
	cfg = NormalizeSlotConfig(cfg)

	equipment := zeroBonuses()
	beans := zeroBonuses()
	if scope != models.ConfigScopeRarityOnly {
		equipment = EquipmentBonuses(cfg.Equipments, lookup)
		beans = stats.BeanBonuses(cfg.Beans)
	}

	var final models.BaseStats
	for _, k := range models.AttributeKeys {
		v := stats.ApplyRarityBonus(p.Stats.Get(k), cfg.Rarity) + equipment[k] + beans[k]
		final = final.With(k, v)
	}
	final.Total = final.Sum()

	return &models.SlotComputedStats{
		Base:             final,
		Power:            stats.ComputePower(final),
		EquipmentBonuses: equipment,
		BeanBonuses:      beans,
	}
}

// CountFilled counts projected slots that resolved to a player
func CountFilled(list []models.SlotAssignment) int {
	n := 0
	for _, a := range list {
		if a.Player != nil {
			n++
		}
	}
	return n
}
