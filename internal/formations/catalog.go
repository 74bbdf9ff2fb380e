// Package formations holds the static catalog of tactical layouts.
package formations

import "github.com/Billy-Davies-2/inazuma-guide/internal/models"

// Grid bounds shared by every layout
const (
	GridColumns = 5
	GridRows    = 6
)

func slot(id string, label models.PositionCode, column, row int) models.FormationSlot {
	return models.FormationSlot{
		ID:               id,
		Label:            label,
		Column:           column,
		Row:              row,
		AllowedPositions: []models.PositionCode{label},
	}
}

const (
	fw = models.PositionFW
	mf = models.PositionMF
	df = models.PositionDF
	gk = models.PositionGK
)

// catalog is never handed out directly, see All and Get
var catalog = []models.FormationDefinition{
	{
		ID:      "433-delta",
		Name:    "4-3-3 Delta",
		Summary: "Aggressive trident up front with staggered mids supporting.",
		Slots: []models.FormationSlot{
			slot("delta-fw-left", fw, 1, 1),
			slot("delta-fw-center", fw, 3, 1),
			slot("delta-fw-right", fw, 5, 1),
			slot("delta-mf-left-half", mf, 2, 2),
			slot("delta-mf-right-half", mf, 4, 2),
			slot("delta-mf-center", mf, 3, 3),
			slot("delta-df-left", df, 1, 3),
			slot("delta-df-right", df, 5, 3),
			slot("delta-df-leftmid", df, 2, 4),
			slot("delta-df-rightmid", df, 4, 4),
			slot("delta-gk", gk, 3, 6),
		},
	},
	{
		ID:      "451-balanced",
		Name:    "4-5-1 Balanced",
		Summary: "Crowded midfield for possession with lone striker.",
		Slots: []models.FormationSlot{
			slot("balanced-fw-center", fw, 3, 1),
			slot("balanced-mf-left", mf, 1, 2),
			slot("balanced-mf-center", mf, 3, 2),
			slot("balanced-mf-right", mf, 5, 2),
			slot("balanced-mf-half-left", mf, 2, 3),
			slot("balanced-mf-half-right", mf, 4, 3),
			slot("balanced-df-left", df, 1, 3),
			slot("balanced-df-right", df, 5, 3),
			slot("balanced-df-half-left", df, 2, 4),
			slot("balanced-df-half-right", df, 4, 4),
			slot("balanced-gk", gk, 3, 6),
		},
	},
	{
		ID:      "541-double-volante",
		Name:    "5-4-1 Double Volante",
		Summary: "Double holding mids shielding a five-back wall.",
		Slots: []models.FormationSlot{
			slot("volante-fw-center", fw, 3, 1),
			slot("volante-mf-left", mf, 1, 2),
			slot("volante-mf-right", mf, 5, 2),
			slot("volante-mf-double-1", mf, 2, 3),
			slot("volante-mf-double-2", mf, 4, 3),
			slot("volante-df-left", df, 1, 4),
			slot("volante-df-right", df, 5, 4),
			slot("volante-df-half-left", df, 2, 5),
			slot("volante-df-center", df, 3, 5),
			slot("volante-df-half-right", df, 4, 5),
			slot("volante-gk", gk, 3, 6),
		},
	},
	{
		ID:      "361-hexa",
		Name:    "3-6-1 Hexa",
		Summary: "Six mids swarm the center while a trio defends.",
		Slots: []models.FormationSlot{
			slot("hexa-fw-center", fw, 3, 1),
			slot("hexa-mf-left", mf, 1, 2),
			slot("hexa-mf-leftmid", mf, 2, 2),
			slot("hexa-mf-rightmid", mf, 4, 2),
			slot("hexa-mf-right", mf, 5, 2),
			slot("hexa-mf-trail-left", mf, 2, 3),
			slot("hexa-mf-trail-right", mf, 4, 3),
			slot("hexa-df-left", df, 2, 4),
			slot("hexa-df-center", df, 3, 4),
			slot("hexa-df-right", df, 4, 4),
			slot("hexa-gk", gk, 3, 6),
		},
	},
	{
		ID:      "352-freedom",
		Name:    "3-5-2 Freedom",
		Summary: "Twin forwards with flexible five-player midfield.",
		Slots: []models.FormationSlot{
			slot("freedom-fw-half-left", fw, 2, 1),
			slot("freedom-fw-half-right", fw, 4, 1),
			slot("freedom-mf-left", mf, 1, 2),
			slot("freedom-mf-center", mf, 3, 2),
			slot("freedom-mf-right", mf, 5, 2),
			slot("freedom-mf-half-left", mf, 2, 3),
			slot("freedom-mf-half-right", mf, 4, 3),
			slot("freedom-df-half-left", df, 2, 4),
			slot("freedom-df-center", df, 3, 4),
			slot("freedom-df-half-right", df, 4, 4),
			slot("freedom-gk", gk, 3, 6),
		},
	},
	{
		ID:      "433-triangle",
		Name:    "4-3-3 Triangle",
		Summary: "Classic front triangle with a compact midfield.",
		Slots: []models.FormationSlot{
			slot("triangle-fw-left", fw, 1, 1),
			slot("triangle-fw-center", fw, 3, 1),
			slot("triangle-fw-right", fw, 5, 1),
			slot("triangle-mf-advanced", mf, 3, 2),
			slot("triangle-mf-left", mf, 2, 3),
			slot("triangle-mf-right", mf, 4, 3),
			slot("triangle-df-wide-left", df, 1, 4),
			slot("triangle-df-wide-right", df, 5, 4),
			slot("triangle-df-inner-left", df, 2, 5),
			slot("triangle-df-inner-right", df, 4, 5),
			slot("triangle-gk", gk, 3, 6),
		},
	},
	{
		ID:      "442-diamond",
		Name:    "4-4-2 Diamond",
		Summary: "Diamond midfield feeding dual forwards.",
		Slots: []models.FormationSlot{
			slot("diamond-fw-left", fw, 1, 1),
			slot("diamond-cam", mf, 3, 1),
			slot("diamond-fw-right", fw, 5, 1),
			slot("diamond-mf-half-left", mf, 2, 2),
			slot("diamond-mf-half-right", mf, 4, 2),
			slot("diamond-dm", mf, 3, 3),
			slot("diamond-df-left", df, 1, 4),
			slot("diamond-df-right", df, 5, 4),
			slot("diamond-df-half-left", df, 2, 5),
			slot("diamond-df-half-right", df, 4, 5),
			slot("diamond-gk", gk, 3, 6),
		},
	},
	{
		ID:      "442-box",
		Name:    "4-4-2 Box",
		Summary: "Box-shaped mids controlling central channels.",
		Slots: []models.FormationSlot{
			slot("box-fw-half-left", fw, 2, 1),
			slot("box-fw-half-right", fw, 4, 1),
			slot("box-mf-left", mf, 1, 2),
			slot("box-mf-right", mf, 5, 2),
			slot("box-mf-half-left", mf, 2, 3),
			slot("box-mf-half-right", mf, 4, 3),
			slot("box-df-left", df, 1, 4),
			slot("box-df-right", df, 5, 4),
			slot("box-df-half-left", df, 2, 5),
			slot("box-df-half-right", df, 4, 5),
			slot("box-gk", gk, 3, 6),
		},
	},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, f := range catalog {
		m[f.ID] = i
	}
	return m
}()

// All returns every formation in catalog order. Callers get their own copy.
func All() []models.FormationDefinition {
	out := make([]models.FormationDefinition, len(catalog))
	for i, f := range catalog {
		out[i] = clone(f)
	}
	return out
}

// Get looks up a formation by id
func Get(id string) (models.FormationDefinition, bool) {
	i, ok := byID[id]
	if !ok {
		return models.FormationDefinition{}, false
	}
	return clone(catalog[i]), true
}

// Index returns the catalog position of id, or -1
func Index(id string) int {
	if i, ok := byID[id]; ok {
		return i
	}
	return -1
}

// At returns the formation at catalog position i
func At(i int) (models.FormationDefinition, bool) {
	if i < 0 || i >= len(catalog) {
		return models.FormationDefinition{}, false
	}
	return clone(catalog[i]), true
}

// Default is the first catalog entry
func Default() models.FormationDefinition {
	return clone(catalog[0])
}

// Resolve returns the formation for id, falling back to Default
func Resolve(id string) models.FormationDefinition {
	if f, ok := Get(id); ok {
		return f
	}
	return Default()
}

// Exists reports whether id names a catalog entry
func Exists(id string) bool {
	_, ok := byID[id]
	return ok
}

func clone(f models.FormationDefinition) models.FormationDefinition {
	slots := make([]models.FormationSlot, len(f.Slots))
	for i, s := range f.Slots {
		s.AllowedPositions = append([]models.PositionCode(nil), s.AllowedPositions...)
		slots[i] = s
	}
	f.Slots = slots
	return f
}
