// Package teambuilder holds the team state transitions, the computed
// assignment projector and the state container that persists and
// announces changes.
//
// Every reducer is pure: it returns a new state and never mutates its input.
package teambuilder

import (
	"github.com/Billy-Davies-2/inazuma-guide/internal/formations"
	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
	"github.com/Billy-Davies-2/inazuma-guide/internal/slots"
	"github.com/Billy-Davies-2/inazuma-guide/internal/stats"
)

// DefaultState is the first catalog formation, nothing assigned, nickname display
func DefaultState() models.TeamBuilderState {
	return models.TeamBuilderState{
		FormationID:  formations.Default().ID,
		Assignments:  models.TeamBuilderAssignments{},
		SlotConfigs:  models.TeamBuilderSlotConfigs{},
		SlotPassives: map[string]models.SlotPassives{},
		DisplayMode:  models.DisplayNickname,
	}
}

// Clone deep-copies a state, including the entity id pointers
func Clone(s models.TeamBuilderState) models.TeamBuilderState {
	out := s
	out.Assignments = make(models.TeamBuilderAssignments, len(s.Assignments))
	for k, v := range s.Assignments {
		out.Assignments[k] = copyID(v)
	}
	out.SlotConfigs = make(models.TeamBuilderSlotConfigs, len(s.SlotConfigs))
	for k, v := range s.SlotConfigs {
		out.SlotConfigs[k] = cloneConfig(v)
	}
	out.SlotPassives = make(map[string]models.SlotPassives, len(s.SlotPassives))
	for k, v := range s.SlotPassives {
		out.SlotPassives[k] = v
	}
	return out
}

func copyID(v *int) *int {
	if v == nil {
		return nil
	}
	return models.EntityID(*v)
}

func cloneConfig(c models.SlotConfig) models.SlotConfig {
	if c.Equipments != nil {
		eq := make(models.SlotEquipments, len(c.Equipments))
		for k, v := range c.Equipments {
			eq[k] = v
		}
		c.Equipments = eq
	}
	return c
}

// CurrentFormation resolves the state's formation, falling back to the default
func CurrentFormation(s models.TeamBuilderState) models.FormationDefinition {
	return formations.Resolve(s.FormationID)
}

// SlotsFor lists the starters of the state's formation followed by the auxiliary slots
func SlotsFor(s models.TeamBuilderState) []models.TeamBuilderSlot {
	return slots.ForFormation(CurrentFormation(s))
}

// Assign puts entityID in slotID. The same entity may occupy several slots.
func Assign(s models.TeamBuilderState, slotID string, entityID int) models.TeamBuilderState {
	out := Clone(s)
	out.Assignments[slotID] = models.EntityID(entityID)
	return out
}

// ClearSlot empties slotID but keeps its key
func ClearSlot(s models.TeamBuilderState, slotID string) models.TeamBuilderState {
	out := Clone(s)
	out.Assignments[slotID] = nil
	return out
}

// ChangeFormation switches layouts. Starter keys are rebuilt for the new
// formation and keep their value only where the slot id is shared; auxiliary
// slots carry over untouched. Unknown ids resolve to the current formation.
func ChangeFormation(s models.TeamBuilderState, formationID string) models.TeamBuilderState {
	next, ok := formations.Get(formationID)
	if !ok {
		next = CurrentFormation(s)
	}

	out := Clone(s)
	out.FormationID = next.ID
	out.Assignments = models.TeamBuilderAssignments{}
	out.SlotConfigs = models.TeamBuilderSlotConfigs{}
	out.SlotPassives = map[string]models.SlotPassives{}

	carry := func(id string) {
		out.Assignments[id] = copyID(s.Assignments[id])
		if cfg, ok := s.SlotConfigs[id]; ok {
			out.SlotConfigs[id] = cloneConfig(cfg)
		}
		if p, ok := s.SlotPassives[id]; ok {
			out.SlotPassives[id] = p
		}
	}
	for _, slot := range next.Slots {
		carry(slot.ID)
	}
	for _, id := range slots.ExtraSlotIDs() {
		carry(id)
	}
	return out
}

// UpdateSlotConfig merges patch over the slot's normalized config
func UpdateSlotConfig(s models.TeamBuilderState, slotID string, patch SlotConfigPatch) models.TeamBuilderState {
	out := Clone(s)
	out.SlotConfigs[slotID] = MergeSlotConfig(s.SlotConfigs[slotID], patch)
	return out
}

// UpdateSlotPassives replaces the slot's passives with a clamped copy
func UpdateSlotPassives(s models.TeamBuilderState, slotID string, passives models.SlotPassives) models.TeamBuilderState {
	out := Clone(s)
	out.SlotPassives[slotID] = stats.NormalizeSlotPassives(passives)
	return out
}

// ChangeDisplayMode sets the tile display mode. Unknown modes are ignored.
func ChangeDisplayMode(s models.TeamBuilderState, mode models.DisplayMode) models.TeamBuilderState {
	out := Clone(s)
	if mode.Valid() {
		out.DisplayMode = mode
	}
	return out
}

// ClearTeam empties every slot of the current formation and the auxiliary
// roster and drops all configs and passives.
func ClearTeam(s models.TeamBuilderState) models.TeamBuilderState {
	out := Clone(s)
	out.Assignments = models.TeamBuilderAssignments{}
	for _, slot := range CurrentFormation(s).Slots {
		out.Assignments[slot.ID] = nil
	}
	for _, id := range slots.ExtraSlotIDs() {
		out.Assignments[id] = nil
	}
	out.SlotConfigs = models.TeamBuilderSlotConfigs{}
	out.SlotPassives = map[string]models.SlotPassives{}
	return out
}

// ImportState adopts a shared snapshot wholesale
func ImportState(s models.TeamBuilderState, shared models.TeamBuilderState) models.TeamBuilderState {
	n := NormalizeState(shared)
	out := Clone(s)
	out.FormationID = n.FormationID
	out.Assignments = n.Assignments
	out.SlotConfigs = n.SlotConfigs
	out.SlotPassives = n.SlotPassives
	out.DisplayMode = n.DisplayMode
	return out
}

// NormalizeState heals a persisted or partial state: unknown formation ids
// fall back to the default, nil maps become empty, configs and passives are
// normalized and an invalid display mode becomes nickname.
func NormalizeState(s models.TeamBuilderState) models.TeamBuilderState {
	out := Clone(s)
	if !formations.Exists(out.FormationID) {
		out.FormationID = formations.Default().ID
	}
	for id, cfg := range out.SlotConfigs {
		out.SlotConfigs[id] = NormalizeSlotConfig(cfg)
	}
	for id, p := range out.SlotPassives {
		out.SlotPassives[id] = stats.NormalizeSlotPassives(p)
	}
	if !out.DisplayMode.Valid() {
		out.DisplayMode = models.DisplayNickname
	}
	return out
}

// CountAssigned counts the slots holding an entity
func CountAssigned(a models.TeamBuilderAssignments) int {
	n := 0
	for _, v := range a {
		if v != nil {
			n++
		}
	}
	return n
}
