package stats

import (
	"math"
	"testing"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
)

func TestComputePowerFormulas(t *testing.T) {
	base := models.BaseStats{
		Kick:         10,
		Control:      20,
		Technique:    30,
		Pressure:     40,
		Physical:     50,
		Agility:      60,
		Intelligence: 70,
		Total:        280,
	}

	power := ComputePower(base)

	testCases := []struct {
		name     string
		got      int
		expected int
	}{
		{"shootAT", power.ShootAT, 30},
		{"focusAT", power.FocusAT, 55},
		{"focusDF", power.FocusDF, 130},
		{"wallDF", power.WallDF, 90},
		{"scrambleAT", power.ScrambleAT, 120},
		{"scrambleDF", power.ScrambleDF, 110},
		{"kp", power.KP, 470},
	}

	for _, tc := range testCases {
		if tc.got != tc.expected {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.expected, tc.got)
		}
	}
}

func TestComputePowerShootExample(t *testing.T) {
	power := ComputePower(models.BaseStats{Kick: 10, Control: 20, Total: 30})
	if power.ShootAT != 30 {
		t.Errorf("expected shootAT=30, got %d", power.ShootAT)
	}
}

func TestComputePowerRoundsHalfValues(t *testing.T) {
	// focusAT = 1 + 0 + 0.5*5 = 3.5
	power := ComputePower(models.BaseStats{Kick: 5, Technique: 1})
	if power.FocusAT != 4 {
		t.Errorf("expected focusAT=4, got %d", power.FocusAT)
	}
	// focusDF = 0 + 0 + 0.5*3 = 1.5
	power = ComputePower(models.BaseStats{Agility: 3})
	if power.FocusDF != 2 {
		t.Errorf("expected focusDF=2, got %d", power.FocusDF)
	}
}

func TestComputePowerDeterministic(t *testing.T) {
	base := models.BaseStats{Kick: 13.3, Control: 7.9, Agility: -4, Intelligence: 0.25}
	first := ComputePower(base)
	for i := 0; i < 10; i++ {
		if got := ComputePower(base); got != first {
			t.Fatalf("ComputePower not deterministic: %+v vs %+v", first, got)
		}
	}
}

func TestComputePowerNonFinite(t *testing.T) {
	power := ComputePower(models.BaseStats{Kick: math.NaN(), Control: math.Inf(1)})
	if power.ShootAT != 0 {
		t.Errorf("expected non-finite sum to round to 0, got %d", power.ShootAT)
	}
}

func TestApplyRarityBonus(t *testing.T) {
	testCases := []struct {
		rarity   models.SlotRarity
		expected float64
	}{
		{models.RarityNormal, 100},
		{models.RarityGrowing, 110},
		{models.RarityAdvanced, 120},
		{models.RarityTop, 130},
		{models.RarityLegendary, 140},
		{models.RarityHero, 167},
	}

	for _, tc := range testCases {
		got := ApplyRarityBonus(100, tc.rarity)
		if math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("%s: expected %v, got %v", tc.rarity, tc.expected, got)
		}
		if got != 100*Multiplier(tc.rarity) {
			t.Errorf("%s: bonus should equal value * multiplier", tc.rarity)
		}
	}
}

func TestApplyRarityBonusUnknownTag(t *testing.T) {
	for _, v := range []float64{0, 1, 55.5, -12, 1000} {
		unknown := ApplyRarityBonus(v, models.SlotRarity("unknown-tag"))
		normal := ApplyRarityBonus(v, models.RarityNormal)
		if unknown != normal {
			t.Errorf("value %v: unknown tag gave %v, normal gave %v", v, unknown, normal)
		}
	}
}

func TestRarityDefinitions(t *testing.T) {
	defs := Rarities()
	if len(defs) != 6 {
		t.Fatalf("expected 6 rarity tiers, got %d", len(defs))
	}
	for i := 1; i < len(defs); i++ {
		if defs[i].Multiplier <= defs[i-1].Multiplier {
			t.Errorf("tier %s should have a larger multiplier than %s", defs[i].Value, defs[i-1].Value)
		}
	}
	if label := RarityDefinitionFor(models.RarityHero).BoostLabel(); label != "+67%" {
		t.Errorf("expected hero boost label +67%%, got %s", label)
	}
	if label := RarityDefinitionFor(models.RarityNormal).BoostLabel(); label != "+0%" {
		t.Errorf("expected normal boost label +0%%, got %s", label)
	}

	// Mutating the returned slice must not leak into the table
	defs[0].Multiplier = 99
	if Multiplier(models.RarityNormal) != 1 {
		t.Error("Rarities() should return a copy")
	}
}

func TestClampBeanValue(t *testing.T) {
	testCases := []struct {
		input    float64
		expected int
	}{
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		{500, 198},
		{-5, 0},
		{0, 0},
		{198, 198},
		{199, 198},
		{42.4, 42},
		{42.5, 43},
		{197.6, 198},
	}

	for _, tc := range testCases {
		got := ClampBeanValue(tc.input)
		if got != tc.expected {
			t.Errorf("ClampBeanValue(%v): expected %d, got %d", tc.input, tc.expected, got)
		}
		if got < 0 || got > MaxBeanPoints {
			t.Errorf("ClampBeanValue(%v) = %d is out of range", tc.input, got)
		}
	}
}

func TestNormalizeSlotBeans(t *testing.T) {
	beans := NormalizeSlotBeans(nil)
	if len(beans) != BeanSlotsCount {
		t.Fatalf("expected %d beans, got %d", BeanSlotsCount, len(beans))
	}
	for i, bean := range beans {
		if bean.Attribute != "" || bean.Value != 0 {
			t.Errorf("bean %d should be empty, got %+v", i, bean)
		}
	}

	beans = NormalizeSlotBeans([]models.SlotBean{
		{Attribute: models.AttrKick, Value: 150},
		{Attribute: "bogus", Value: 20},
		{Attribute: models.AttrAgility, Value: 900},
		{Attribute: models.AttrControl, Value: 10},
	})
	if beans[0] != (models.SlotBean{Attribute: models.AttrKick, Value: 150}) {
		t.Errorf("unexpected first bean: %+v", beans[0])
	}
	if beans[1].Attribute != "" || beans[1].Value != 20 {
		t.Errorf("unknown attribute should be dropped, got %+v", beans[1])
	}
	if beans[2].Value != MaxBeanPoints {
		t.Errorf("expected clamped bean value, got %d", beans[2].Value)
	}
}

func TestBeanBonuses(t *testing.T) {
	bonuses := BeanBonuses(models.SlotBeans{
		{Attribute: models.AttrKick, Value: 20},
		{Attribute: models.AttrKick, Value: 5},
		{Attribute: "", Value: 100},
	})
	if bonuses[models.AttrKick] != 25 {
		t.Errorf("expected kick bonus 25, got %v", bonuses[models.AttrKick])
	}
	if len(bonuses) != len(models.AttributeKeys) {
		t.Errorf("expected every attribute key to be present, got %d", len(bonuses))
	}
	for _, key := range models.AttributeKeys {
		if key != models.AttrKick && bonuses[key] != 0 {
			t.Errorf("%s: expected 0, got %v", key, bonuses[key])
		}
	}
}

func TestClampPassiveValue(t *testing.T) {
	testCases := []struct {
		input    float64
		expected float64
	}{
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{1000, 999},
		{-1000, -999},
		{12.346, 12.35},
		{-3.14159, -3.14},
		{0.1, 0.1},
		{999, 999},
	}

	for _, tc := range testCases {
		got := ClampPassiveValue(tc.input)
		if math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("ClampPassiveValue(%v): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestNormalizeSlotPassives(t *testing.T) {
	var p models.SlotPassives
	p.Presets[0] = models.SlotPassivePreset{PassiveID: "  speed-up  ", Value: 10.129}
	p.Presets[4] = models.SlotPassivePreset{PassiveID: "   ", Value: 5000}
	p.Custom = models.SlotPassivePreset{PassiveID: "custom", Value: math.NaN()}

	got := NormalizeSlotPassives(p)
	if got.Presets[0].PassiveID != "speed-up" || got.Presets[0].Value != 10.13 {
		t.Errorf("unexpected preset 0: %+v", got.Presets[0])
	}
	if got.Presets[4].PassiveID != "" || got.Presets[4].Value != 999 {
		t.Errorf("unexpected preset 4: %+v", got.Presets[4])
	}
	if got.Custom.Value != 0 {
		t.Errorf("expected NaN custom value to clamp to 0, got %v", got.Custom.Value)
	}
	if len(got.Presets)+1 != MaxSlotPassives {
		t.Errorf("expected %d passive slots in total", MaxSlotPassives)
	}
}

func TestParseRarity(t *testing.T) {
	testCases := []struct {
		input    string
		expected models.SlotRarity
		ok       bool
	}{
		{"legendary", models.RarityLegendary, true},
		{"  Hero ", models.RarityHero, true},
		{"", models.RarityNormal, false},
		{"mythic", models.RarityNormal, false},
	}

	for _, tc := range testCases {
		got, ok := ParseRarity(tc.input)
		if got != tc.expected || ok != tc.ok {
			t.Errorf("ParseRarity(%q): expected (%s, %v), got (%s, %v)", tc.input, tc.expected, tc.ok, got, ok)
		}
	}
}
