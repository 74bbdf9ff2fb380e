// Package share turns a team snapshot into a compact URL-safe code and back.
//
// A code is base64url (unpadded) over DEFLATE over a versioned JSON payload.
// Slots are addressed by their index in the formation's slot order, so a
// code is only meaningful together with the formation it names.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/flate"

	"github.com/Billy-Davies-2/inazuma-guide/internal/formations"
	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
	"github.com/Billy-Davies-2/inazuma-guide/internal/slots"
	"github.com/Billy-Davies-2/inazuma-guide/internal/stats"
	"github.com/Billy-Davies-2/inazuma-guide/internal/teambuilder"
)

const (
	// Version is the payload layout version written by Encode
	Version = 1

	// MaxCodeLength bounds the encoded input Decode will look at
	MaxCodeLength = 16 << 10
	// maxPayloadBytes bounds the inflated JSON
	maxPayloadBytes = 256 << 10
)

// ErrInvalidCode wraps every Decode failure
var ErrInvalidCode = errors.New("invalid share code")

type payload struct {
	V int    `json:"v"`
	F string `json:"f"`
	D int    `json:"d"`
	// A holds [slot index, entity id] pairs for occupied slots
	A [][2]int `json:"a,omitempty"`
	// E lists slot indexes present but empty
	E []int           `json:"e,omitempty"`
	C []configTuple   `json:"c,omitempty"`
	P []passivesTuple `json:"p,omitempty"`
}

type configTuple struct {
	I int `json:"i"`
	R int `json:"r"`
	// Q holds one equipment id per category, in category order
	Q []string `json:"q"`
	// B holds [attribute index or -1, value] per bean
	B [][2]int `json:"b"`
}

type presetTuple struct {
	K string  `json:"k,omitempty"`
	N float64 `json:"n,omitempty"`
}

type passivesTuple struct {
	I int           `json:"i"`
	S []presetTuple `json:"s"`
	C presetTuple   `json:"c"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCode, fmt.Sprintf(format, args...))
}

func indexOf[T comparable](list []T, v T) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}

// Encode serializes s. Keys outside the formation's slot set are dropped.
func Encode(s models.TeamBuilderState) (string, error) {
	f, ok := formations.Get(s.FormationID)
	if !ok {
		return "", fmt.Errorf("unknown formation %q", s.FormationID)
	}
	ids := slots.IDs(slots.ForFormation(f))

	mode := indexOf(models.DisplayModes, s.DisplayMode)
	if mode < 0 {
		mode = 0
	}
	p := payload{V: Version, F: f.ID, D: mode}

	for i, id := range ids {
		if v, present := s.Assignments[id]; present {
			if v != nil {
				p.A = append(p.A, [2]int{i, *v})
			} else {
				p.E = append(p.E, i)
			}
		}
		if cfg, present := s.SlotConfigs[id]; present {
			p.C = append(p.C, encodeConfig(i, cfg))
		}
		if pass, present := s.SlotPassives[id]; present {
			p.P = append(p.P, encodePassives(i, pass))
		}
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal share payload: %w", err)
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("failed to create compressor: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return "", fmt.Errorf("failed to compress share payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to compress share payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

func encodeConfig(i int, cfg models.SlotConfig) configTuple {
	cfg = teambuilder.NormalizeSlotConfig(cfg)
	r, _ := stats.RarityIndex(cfg.Rarity)
	t := configTuple{I: i, R: r}
	for _, c := range models.EquipmentCategories {
		t.Q = append(t.Q, cfg.Equipments[c])
	}
	for _, bean := range cfg.Beans {
		t.B = append(t.B, [2]int{indexOf(models.AttributeKeys, bean.Attribute), bean.Value})
	}
	return t
}

func encodePassives(i int, p models.SlotPassives) passivesTuple {
	p = stats.NormalizeSlotPassives(p)
	t := passivesTuple{I: i, C: presetTuple{K: p.Custom.PassiveID, N: p.Custom.Value}}
	for _, preset := range p.Presets {
		t.S = append(t.S, presetTuple{K: preset.PassiveID, N: preset.Value})
	}
	return t
}

// Decode parses a code produced by Encode. Any malformed, truncated,
// oversized or out-of-range input yields an error wrapping ErrInvalidCode.
func Decode(code string) (models.TeamBuilderState, error) {
	if code == "" {
		return models.TeamBuilderState{}, invalid("empty code")
	}
	if len(code) > MaxCodeLength {
		return models.TeamBuilderState{}, invalid("code too long")
	}

	compressed, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return models.TeamBuilderState{}, invalid("bad encoding: %v", err)
	}

	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	raw, err := io.ReadAll(io.LimitReader(r, maxPayloadBytes+1))
	if err != nil {
		return models.TeamBuilderState{}, invalid("bad compression: %v", err)
	}
	if len(raw) > maxPayloadBytes {
		return models.TeamBuilderState{}, invalid("payload too large")
	}

	var p payload
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return models.TeamBuilderState{}, invalid("bad payload: %v", err)
	}
	if dec.More() {
		return models.TeamBuilderState{}, invalid("trailing data")
	}

	state, err := p.state()
	if err != nil {
		return models.TeamBuilderState{}, err
	}
	return teambuilder.NormalizeState(state), nil
}

func (p payload) state() (models.TeamBuilderState, error) {
	if p.V != Version {
		return models.TeamBuilderState{}, invalid("unsupported version %d", p.V)
	}
	f, ok := formations.Get(p.F)
	if !ok {
		return models.TeamBuilderState{}, invalid("unknown formation %q", p.F)
	}
	if p.D < 0 || p.D >= len(models.DisplayModes) {
		return models.TeamBuilderState{}, invalid("display mode out of range")
	}
	ids := slots.IDs(slots.ForFormation(f))
	slotID := func(i int) (string, error) {
		if i < 0 || i >= len(ids) {
			return "", invalid("slot index %d out of range", i)
		}
		return ids[i], nil
	}

	s := models.TeamBuilderState{
		FormationID:  f.ID,
		Assignments:  models.TeamBuilderAssignments{},
		SlotConfigs:  models.TeamBuilderSlotConfigs{},
		SlotPassives: map[string]models.SlotPassives{},
		DisplayMode:  models.DisplayModes[p.D],
	}

	for _, a := range p.A {
		id, err := slotID(a[0])
		if err != nil {
			return s, err
		}
		if _, dup := s.Assignments[id]; dup {
			return s, invalid("duplicate slot index %d", a[0])
		}
		s.Assignments[id] = models.EntityID(a[1])
	}
	for _, i := range p.E {
		id, err := slotID(i)
		if err != nil {
			return s, err
		}
		if _, dup := s.Assignments[id]; dup {
			return s, invalid("duplicate slot index %d", i)
		}
		s.Assignments[id] = nil
	}

	for _, c := range p.C {
		id, err := slotID(c.I)
		if err != nil {
			return s, err
		}
		if _, dup := s.SlotConfigs[id]; dup {
			return s, invalid("duplicate config index %d", c.I)
		}
		cfg, err := c.config()
		if err != nil {
			return s, err
		}
		s.SlotConfigs[id] = cfg
	}

	for _, t := range p.P {
		id, err := slotID(t.I)
		if err != nil {
			return s, err
		}
		if _, dup := s.SlotPassives[id]; dup {
			return s, invalid("duplicate passives index %d", t.I)
		}
		pass, err := t.passives()
		if err != nil {
			return s, err
		}
		s.SlotPassives[id] = pass
	}
	return s, nil
}

func (c configTuple) config() (models.SlotConfig, error) {
	rarities := stats.Rarities()
	if c.R < 0 || c.R >= len(rarities) {
		return models.SlotConfig{}, invalid("rarity index %d out of range", c.R)
	}
	if len(c.Q) != len(models.EquipmentCategories) {
		return models.SlotConfig{}, invalid("expected %d equipment entries", len(models.EquipmentCategories))
	}
	if len(c.B) != stats.BeanSlotsCount {
		return models.SlotConfig{}, invalid("expected %d beans", stats.BeanSlotsCount)
	}

	cfg := teambuilder.DefaultSlotConfig()
	cfg.Rarity = rarities[c.R].Value
	for i, category := range models.EquipmentCategories {
		cfg.Equipments[category] = c.Q[i]
	}
	for i, b := range c.B {
		attr, value := b[0], b[1]
		if attr < -1 || attr >= len(models.AttributeKeys) {
			return models.SlotConfig{}, invalid("bean attribute %d out of range", attr)
		}
		if value < 0 || value > stats.MaxBeanPoints {
			return models.SlotConfig{}, invalid("bean value %d out of range", value)
		}
		if attr >= 0 {
			cfg.Beans[i].Attribute = models.AttributeKeys[attr]
		}
		cfg.Beans[i].Value = value
	}
	return cfg, nil
}

func (t passivesTuple) passives() (models.SlotPassives, error) {
	var p models.SlotPassives
	if len(t.S) != len(p.Presets) {
		return p, invalid("expected %d passive presets", len(p.Presets))
	}
	check := func(v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > stats.MaxPassiveValue {
			return invalid("passive value out of range")
		}
		return nil
	}
	for i, preset := range t.S {
		if err := check(preset.N); err != nil {
			return p, err
		}
		p.Presets[i] = models.SlotPassivePreset{PassiveID: preset.K, Value: preset.N}
	}
	if err := check(t.C.N); err != nil {
		return p, err
	}
	p.Custom = models.SlotPassivePreset{PassiveID: t.C.K, Value: t.C.N}
	return p, nil
}

