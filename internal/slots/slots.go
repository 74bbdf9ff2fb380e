// Package slots unifies formation positions and the fixed auxiliary roster
// (reserves, manager, coordinators) into one addressable slot list.
package slots

import (
	"fmt"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
)

const (
	ReserveCount     = 5
	CoordinatorCount = 3
	ManagerSlotID    = "manager-slot"
)

// ExtendFormationSlot turns a formation slot into a full-scope starter
func ExtendFormationSlot(s models.FormationSlot) models.TeamBuilderSlot {
	return models.TeamBuilderSlot{
		ID:               s.ID,
		Label:            string(s.Label),
		Position:         s.Label,
		Column:           s.Column,
		Row:              s.Row,
		AllowedPositions: append([]models.PositionCode(nil), s.AllowedPositions...),
		Kind:             models.SlotKindStarter,
		DisplayLabel:     string(s.Label),
		ConfigScope:      models.ConfigScopeFull,
	}
}

var extraSlots = buildExtraSlots()

func buildExtraSlots() []models.TeamBuilderSlot {
	out := make([]models.TeamBuilderSlot, 0, ReserveCount+1+CoordinatorCount)
	for i := 1; i <= ReserveCount; i++ {
		out = append(out, models.TeamBuilderSlot{
			ID:           fmt.Sprintf("reserve-%d", i),
			Label:        fmt.Sprintf("Reserve %d", i),
			DisplayLabel: "Reserve",
			Column:       3,
			Row:          1,
			Kind:         models.SlotKindReserve,
			ConfigScope:  models.ConfigScopeFull,
		})
	}
	out = append(out, models.TeamBuilderSlot{
		ID:           ManagerSlotID,
		Label:        "Manager",
		DisplayLabel: "Manager",
		Column:       3,
		Row:          1,
		Kind:         models.SlotKindManager,
		ConfigScope:  models.ConfigScopeRarityOnly,
	})
	for i := 1; i <= CoordinatorCount; i++ {
		out = append(out, models.TeamBuilderSlot{
			ID:           fmt.Sprintf("coordinator-%d", i),
			Label:        fmt.Sprintf("Coordinator %d", i),
			DisplayLabel: "Support",
			Column:       3,
			Row:          1,
			Kind:         models.SlotKindCoordinator,
			ConfigScope:  models.ConfigScopeRarityOnly,
		})
	}
	return out
}

// ExtraSlots returns the auxiliary slots in roster order
func ExtraSlots() []models.TeamBuilderSlot {
	return append([]models.TeamBuilderSlot(nil), extraSlots...)
}

// ExtraSlotIDs returns the auxiliary slot ids in roster order
func ExtraSlotIDs() []string {
	ids := make([]string, len(extraSlots))
	for i, s := range extraSlots {
		ids[i] = s.ID
	}
	return ids
}

// IsExtraSlotID reports whether id belongs to the auxiliary roster
func IsExtraSlotID(id string) bool {
	for _, s := range extraSlots {
		if s.ID == id {
			return true
		}
	}
	return false
}

// ForFormation lists the formation's starters followed by the auxiliary slots
func ForFormation(f models.FormationDefinition) []models.TeamBuilderSlot {
	out := make([]models.TeamBuilderSlot, 0, len(f.Slots)+len(extraSlots))
	for _, s := range f.Slots {
		out = append(out, ExtendFormationSlot(s))
	}
	return append(out, extraSlots...)
}

// IDs extracts slot ids, keeping order
func IDs(list []models.TeamBuilderSlot) []string {
	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	return ids
}

// Filter keeps the slots whose kind is one of kinds
func Filter(list []models.TeamBuilderSlot, kinds ...models.SlotKind) []models.TeamBuilderSlot {
	var out []models.TeamBuilderSlot
	for _, s := range list {
		for _, k := range kinds {
			if s.Kind == k {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Starters, Reserves and Staff are the three groups the pitch view renders
func Starters(list []models.TeamBuilderSlot) []models.TeamBuilderSlot {
	return Filter(list, models.SlotKindStarter)
}

func Reserves(list []models.TeamBuilderSlot) []models.TeamBuilderSlot {
	return Filter(list, models.SlotKindReserve)
}

func Staff(list []models.TeamBuilderSlot) []models.TeamBuilderSlot {
	return Filter(list, models.SlotKindManager, models.SlotKindCoordinator)
}

// Find returns the slot with the given id
func Find(list []models.TeamBuilderSlot, id string) (models.TeamBuilderSlot, bool) {
	for _, s := range list {
		if s.ID == id {
			return s, true
		}
	}
	return models.TeamBuilderSlot{}, false
}
