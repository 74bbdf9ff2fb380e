package teambuilder

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
	"github.com/Billy-Davies-2/inazuma-guide/internal/slots"
	"github.com/Billy-Davies-2/inazuma-guide/internal/stats"
)

type fakeLookup struct {
	players    map[int]models.Player
	equipments map[string]models.Equipment
}

func (f fakeLookup) Player(id int) (models.Player, bool) {
	p, ok := f.players[id]
	return p, ok
}

func (f fakeLookup) Equipment(id string) (models.Equipment, bool) {
	e, ok := f.equipments[id]
	return e, ok
}

func newFakeLookup() fakeLookup {
	base := models.BaseStats{Kick: 100, Control: 50, Technique: 40, Pressure: 30, Physical: 20, Agility: 10, Intelligence: 60}
	base.Total = base.Sum()
	return fakeLookup{
		players: map[int]models.Player{
			42: {ID: 42, Name: "Byron Love", Nickname: "Aphrodi", Position: "FW", Stats: base, Power: stats.ComputePower(base)},
			7:  {ID: 7, Name: "Celia Hills", Position: "MF", Stats: base, Power: stats.ComputePower(base)},
		},
		equipments: map[string]models.Equipment{
			"boots-gale": {ID: "boots-gale", Category: models.EquipmentBoots, Stats: models.BaseStats{Kick: 10, Agility: 16}},
		},
	}
}

func configuredState() models.TeamBuilderState {
	s := DefaultState()
	s = Assign(s, "delta-fw-center", 42)
	s = Assign(s, "manager-slot", 42)
	s = Assign(s, "delta-gk", 999)
	patch := SlotConfigPatch{
		Rarity:     rarity(models.RarityLegendary),
		Equipments: models.SlotEquipments{models.EquipmentBoots: "boots-gale", models.EquipmentMisc: "missing-item"},
		Beans:      []models.SlotBean{{Attribute: models.AttrKick, Value: 20}},
	}
	s = UpdateSlotConfig(s, "delta-fw-center", patch)
	s = UpdateSlotConfig(s, "manager-slot", patch)
	return s
}

func TestProjectPreservesSlotOrder(t *testing.T) {
	s := configuredState()
	list := SlotsFor(s)
	got := Project(s, list, newFakeLookup())

	if len(got) != len(list) {
		t.Fatalf("expected %d entries, got %d", len(list), len(got))
	}
	for i := range list {
		if got[i].Slot.ID != list[i].ID {
			t.Errorf("entry %d: expected slot %s, got %s", i, list[i].ID, got[i].Slot.ID)
		}
	}
	if CountFilled(got) != 2 {
		t.Errorf("expected 2 filled slots, got %d", CountFilled(got))
	}
}

func TestProjectUnknownEntityIsEmpty(t *testing.T) {
	s := configuredState()
	got := Project(s, SlotsFor(s), newFakeLookup())
	gk, _ := findAssignment(got, "delta-gk")
	if gk.Player != nil || gk.Computed != nil {
		t.Errorf("unknown entity should render empty, got %+v", gk)
	}
	if diff := cmp.Diff(DefaultSlotConfig(), gk.Config); diff != "" {
		t.Errorf("empty slot should carry the default config (-want +got):\n%s", diff)
	}
}

func findAssignment(list []models.SlotAssignment, id string) (models.SlotAssignment, bool) {
	for _, a := range list {
		if a.Slot.ID == id {
			return a, true
		}
	}
	return models.SlotAssignment{}, false
}

func TestProjectComputesStats(t *testing.T) {
	s := configuredState()
	got := Project(s, SlotsFor(s), newFakeLookup())

	fw, _ := findAssignment(got, "delta-fw-center")
	if fw.Computed == nil {
		t.Fatal("expected computed stats for an occupied slot")
	}
	// kick: 100 * 1.4 + 10 (boots) + 20 (bean)
	if math.Abs(fw.Computed.Base.Kick-170) > 1e-9 {
		t.Errorf("expected kick 170, got %v", fw.Computed.Base.Kick)
	}
	// agility: 10 * 1.4 + 16
	if math.Abs(fw.Computed.Base.Agility-30) > 1e-9 {
		t.Errorf("expected agility 30, got %v", fw.Computed.Base.Agility)
	}
	if math.Abs(fw.Computed.Base.Total-fw.Computed.Base.Sum()) > 1e-9 {
		t.Errorf("total %v should equal the attribute sum", fw.Computed.Base.Total)
	}
	if fw.Computed.EquipmentBonuses[models.AttrKick] != 10 {
		t.Errorf("expected kick equipment bonus 10, got %v", fw.Computed.EquipmentBonuses[models.AttrKick])
	}
	if fw.Computed.BeanBonuses[models.AttrKick] != 20 {
		t.Errorf("expected kick bean bonus 20, got %v", fw.Computed.BeanBonuses[models.AttrKick])
	}
	if fw.Computed.Power.ShootAT != 170+70 {
		t.Errorf("expected shootAT 240, got %d", fw.Computed.Power.ShootAT)
	}
}

func TestProjectRarityOnlySlotIgnoresEquipmentAndBeans(t *testing.T) {
	s := configuredState()
	got := Project(s, SlotsFor(s), newFakeLookup())

	manager, _ := findAssignment(got, "manager-slot")
	if manager.Slot.ConfigScope != models.ConfigScopeRarityOnly {
		t.Fatalf("expected manager slot to be rarity-only, got %s", manager.Slot.ConfigScope)
	}
	if math.Abs(manager.Computed.Base.Kick-140) > 1e-9 {
		t.Errorf("expected kick 140 from rarity alone, got %v", manager.Computed.Base.Kick)
	}
	for _, k := range models.AttributeKeys {
		if manager.Computed.EquipmentBonuses[k] != 0 || manager.Computed.BeanBonuses[k] != 0 {
			t.Errorf("%s: rarity-only slot should have no bonuses", k)
		}
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	s := configuredState()
	before := Clone(s)
	lookup := newFakeLookup()

	first := Project(s, SlotsFor(s), lookup)
	second := Project(s, SlotsFor(s), lookup)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("projection should be stable (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, s); diff != "" {
		t.Errorf("Project mutated the state (-before +after):\n%s", diff)
	}
}

func TestProjectNilLookup(t *testing.T) {
	s := configuredState()
	got := Project(s, SlotsFor(s), nil)
	if CountFilled(got) != 0 {
		t.Errorf("nil lookup should resolve nothing, got %d filled", CountFilled(got))
	}
}

func TestDisplayValue(t *testing.T) {
	s := configuredState()
	list := Project(s, SlotsFor(s), newFakeLookup())

	fw, _ := findAssignment(list, "delta-fw-center")
	gk, _ := findAssignment(list, "delta-gk")
	coach, _ := findAssignment(list, "coordinator-1")

	testCases := []struct {
		name     string
		entry    models.SlotAssignment
		mode     models.DisplayMode
		expected string
	}{
		{"nickname", fw, models.DisplayNickname, "Aphrodi"},
		{"computed power", fw, models.DisplayShootAT, "240"},
		{"empty starter", gk, models.DisplayKP, "GK"},
		{"empty coordinator", coach, models.DisplayNickname, "Support"},
		{"invalid mode falls back to nickname", fw, "bogus", "Aphrodi"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayValue(tc.entry, tc.mode); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}

	nameOnly := models.SlotAssignment{
		Slot:   slots.ExtraSlots()[0],
		Player: &models.Player{Name: "Celia Hills"},
	}
	if got := DisplayValue(nameOnly, models.DisplayNickname); got != "Celia Hills" {
		t.Errorf("expected name fallback, got %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	testCases := []struct {
		input    float64
		expected string
	}{
		{12, "12"},
		{0, "0"},
		{-3, "-3"},
		{12.34, "12.3"},
		{12.04, "12"},
		{math.NaN(), "0"},
		{math.Inf(1), "0"},
	}
	for _, tc := range testCases {
		if got := FormatNumber(tc.input); got != tc.expected {
			t.Errorf("FormatNumber(%v): expected %q, got %q", tc.input, tc.expected, got)
		}
	}
}
