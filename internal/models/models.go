package models

// AttributeKey names one of the seven base attributes
type AttributeKey string

const (
	AttrKick         AttributeKey = "kick"
	AttrControl      AttributeKey = "control"
	AttrTechnique    AttributeKey = "technique"
	AttrPressure     AttributeKey = "pressure"
	AttrPhysical     AttributeKey = "physical"
	AttrAgility      AttributeKey = "agility"
	AttrIntelligence AttributeKey = "intelligence"
)

// AttributeKeys lists the base attributes in their canonical order.
// The share codec addresses attributes by their index in this list.
var AttributeKeys = []AttributeKey{
	AttrKick,
	AttrControl,
	AttrTechnique,
	AttrPressure,
	AttrPhysical,
	AttrAgility,
	AttrIntelligence,
}

// Valid reports whether k is one of the seven base attributes
func (k AttributeKey) Valid() bool {
	for _, key := range AttributeKeys {
		if key == k {
			return true
		}
	}
	return false
}

// BaseStats holds the seven base attributes plus their precomputed total
type BaseStats struct {
	Kick         float64 `json:"kick"`
	Control      float64 `json:"control"`
	Technique    float64 `json:"technique"`
	Pressure     float64 `json:"pressure"`
	Physical     float64 `json:"physical"`
	Agility      float64 `json:"agility"`
	Intelligence float64 `json:"intelligence"`
	Total        float64 `json:"total"`
}

// Get returns the value of a single attribute, 0 for unknown keys
func (s BaseStats) Get(key AttributeKey) float64 {
	switch key {
	case AttrKick:
		return s.Kick
	case AttrControl:
		return s.Control
	case AttrTechnique:
		return s.Technique
	case AttrPressure:
		return s.Pressure
	case AttrPhysical:
		return s.Physical
	case AttrAgility:
		return s.Agility
	case AttrIntelligence:
		return s.Intelligence
	}
	return 0
}

// With returns a copy of s with one attribute replaced. Total is left untouched.
func (s BaseStats) With(key AttributeKey, value float64) BaseStats {
	switch key {
	case AttrKick:
		s.Kick = value
	case AttrControl:
		s.Control = value
	case AttrTechnique:
		s.Technique = value
	case AttrPressure:
		s.Pressure = value
	case AttrPhysical:
		s.Physical = value
	case AttrAgility:
		s.Agility = value
	case AttrIntelligence:
		s.Intelligence = value
	}
	return s
}

// Sum adds the seven attributes
func (s BaseStats) Sum() float64 {
	return s.Kick + s.Control + s.Technique + s.Pressure + s.Physical + s.Agility + s.Intelligence
}

// PowerStats holds the derived combat metrics
type PowerStats struct {
	ShootAT    int `json:"shootAT"`
	FocusAT    int `json:"focusAT"`
	FocusDF    int `json:"focusDF"`
	WallDF     int `json:"wallDF"`
	ScrambleAT int `json:"scrambleAT"`
	ScrambleDF int `json:"scrambleDF"`
	KP         int `json:"kp"`
}

// Get returns the power stat addressed by its JSON key
func (p PowerStats) Get(key string) (int, bool) {
	switch key {
	case "shootAT":
		return p.ShootAT, true
	case "focusAT":
		return p.FocusAT, true
	case "focusDF":
		return p.FocusDF, true
	case "wallDF":
		return p.WallDF, true
	case "scrambleAT":
		return p.ScrambleAT, true
	case "scrambleDF":
		return p.ScrambleDF, true
	case "kp":
		return p.KP, true
	}
	return 0, false
}

// PositionCode is a pitch position
type PositionCode string

const (
	PositionFW PositionCode = "FW"
	PositionMF PositionCode = "MF"
	PositionDF PositionCode = "DF"
	PositionGK PositionCode = "GK"
)

// FormationSlot is one position of a tactical layout
type FormationSlot struct {
	ID               string         `json:"id"`
	Label            PositionCode   `json:"label"`
	Column           int            `json:"column"` // 1 = left, 5 = right
	Row              int            `json:"row"`    // 1 = attack, 6 = goalkeeper
	AllowedPositions []PositionCode `json:"allowedPositions"`
}

// FormationDefinition is a named arrangement of starter slots
type FormationDefinition struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Summary string          `json:"summary"`
	Slots   []FormationSlot `json:"slots"`
}

// SlotKind discriminates the slot taxonomy
type SlotKind string

const (
	SlotKindStarter     SlotKind = "starter"
	SlotKindReserve     SlotKind = "reserve"
	SlotKindManager     SlotKind = "manager"
	SlotKindCoordinator SlotKind = "coordinator"
)

// ConfigScope limits what a slot may be configured with
type ConfigScope string

const (
	ConfigScopeFull       ConfigScope = "full"
	ConfigScopeRarityOnly ConfigScope = "rarity-only"
)

// TeamBuilderSlot is a formation slot or an auxiliary roster slot.
// Position is empty for auxiliary slots.
type TeamBuilderSlot struct {
	ID               string         `json:"id"`
	Label            string         `json:"label"`
	Position         PositionCode   `json:"position,omitempty"`
	Column           int            `json:"column"`
	Row              int            `json:"row"`
	AllowedPositions []PositionCode `json:"allowedPositions,omitempty"`
	Kind             SlotKind       `json:"kind"`
	DisplayLabel     string         `json:"displayLabel,omitempty"`
	ConfigScope      ConfigScope    `json:"configScope"`
}

// SlotRarity is a multiplicative quality tier
type SlotRarity string

const (
	RarityNormal    SlotRarity = "normal"
	RarityGrowing   SlotRarity = "growing"
	RarityAdvanced  SlotRarity = "advanced"
	RarityTop       SlotRarity = "top"
	RarityLegendary SlotRarity = "legendary"
	RarityHero      SlotRarity = "hero"
)

// EquipmentCategory groups equipment items
type EquipmentCategory string

const (
	EquipmentBoots     EquipmentCategory = "boots"
	EquipmentBracelets EquipmentCategory = "bracelets"
	EquipmentPendants  EquipmentCategory = "pendants"
	EquipmentMisc      EquipmentCategory = "misc"
)

// EquipmentCategories lists the categories in canonical order
var EquipmentCategories = []EquipmentCategory{
	EquipmentBoots,
	EquipmentBracelets,
	EquipmentPendants,
	EquipmentMisc,
}

// SlotEquipments maps each category to an equipment id ("" = none)
type SlotEquipments map[EquipmentCategory]string

// SlotBean boosts one attribute. An empty Attribute means the bean is unused.
type SlotBean struct {
	Attribute AttributeKey `json:"attribute"`
	Value     int          `json:"value"`
}

// SlotBeans always has exactly three entries
type SlotBeans [3]SlotBean

// SlotConfig is the per-slot mutable configuration
type SlotConfig struct {
	Rarity     SlotRarity     `json:"rarity"`
	Equipments SlotEquipments `json:"equipments"`
	Beans      SlotBeans      `json:"beans"`
}

// SlotPassivePreset holds one passive and its value
type SlotPassivePreset struct {
	PassiveID string  `json:"passiveId"`
	Value     float64 `json:"value"`
}

// SlotPassives holds five preset passives plus one custom passive
type SlotPassives struct {
	Presets [5]SlotPassivePreset `json:"presets"`
	Custom  SlotPassivePreset    `json:"custom"`
}

// DisplayMode selects what a filled slot tile shows
type DisplayMode string

const (
	DisplayNickname   DisplayMode = "nickname"
	DisplayShootAT    DisplayMode = "shootAT"
	DisplayFocusAT    DisplayMode = "focusAT"
	DisplayFocusDF    DisplayMode = "focusDF"
	DisplayWallDF     DisplayMode = "wallDF"
	DisplayScrambleAT DisplayMode = "scrambleAT"
	DisplayScrambleDF DisplayMode = "scrambleDF"
	DisplayKP         DisplayMode = "kp"
)

// DisplayModes lists every display mode in picker order
var DisplayModes = []DisplayMode{
	DisplayNickname,
	DisplayShootAT,
	DisplayFocusAT,
	DisplayFocusDF,
	DisplayWallDF,
	DisplayScrambleAT,
	DisplayScrambleDF,
	DisplayKP,
}

// Valid reports whether m is a known display mode
func (m DisplayMode) Valid() bool {
	for _, mode := range DisplayModes {
		if mode == m {
			return true
		}
	}
	return false
}

// TeamBuilderAssignments maps slot ids to entity ids (nil = empty)
type TeamBuilderAssignments map[string]*int

// TeamBuilderSlotConfigs maps slot ids to their configuration
type TeamBuilderSlotConfigs map[string]SlotConfig

// TeamBuilderState is the persisted team snapshot
type TeamBuilderState struct {
	FormationID  string                  `json:"formationId"`
	Assignments  TeamBuilderAssignments  `json:"assignments"`
	SlotConfigs  TeamBuilderSlotConfigs  `json:"slotConfigs"`
	SlotPassives map[string]SlotPassives `json:"slotPassives,omitempty"`
	DisplayMode  DisplayMode             `json:"displayMode"`
}

// EntityID returns a pointer suitable for an assignment value
func EntityID(id int) *int {
	return &id
}

// Player is a dataset player record
type Player struct {
	ID       int        `json:"id"`
	Image    string     `json:"image"`
	Name     string     `json:"name"`
	Nickname string     `json:"nickname"`
	Game     string     `json:"game"`
	Position string     `json:"position"`
	Element  string     `json:"element"`
	Role     string     `json:"role"`
	AgeGroup string     `json:"ageGroup"`
	Year     string     `json:"year"`
	Gender   string     `json:"gender"`
	Stats    BaseStats  `json:"stats"`
	Power    PowerStats `json:"power"`
}

// Equipment is a dataset equipment item
type Equipment struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Category EquipmentCategory `json:"type"`
	Shop     string            `json:"shop"`
	Stats    BaseStats         `json:"stats"`
	Power    PowerStats        `json:"power"`
}

// Hissatsu is a special move record
type Hissatsu struct {
	ID      string   `json:"id"`
	Order   int      `json:"order"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Element string   `json:"element"`
	Shop    string   `json:"shop"`
	Extras  []string `json:"extras"`
	Power   float64  `json:"power"`
	Tension float64  `json:"tension"`
}

// SlotComputedStats is the stat breakdown of an occupied slot
type SlotComputedStats struct {
	Base             BaseStats                `json:"base"`
	Power            PowerStats               `json:"power"`
	EquipmentBonuses map[AttributeKey]float64 `json:"equipmentBonuses"`
	BeanBonuses      map[AttributeKey]float64 `json:"beanBonuses"`
}

// SlotAssignment is the derived, read-only view of one slot
type SlotAssignment struct {
	Slot     TeamBuilderSlot    `json:"slot"`
	Player   *Player            `json:"player"`
	Config   SlotConfig         `json:"config"`
	Computed *SlotComputedStats `json:"computed"`
}

// PlayersPreferences are the persisted players page filters
type PlayersPreferences struct {
	Search        string   `json:"search"`
	Element       string   `json:"element"`
	Position      string   `json:"position"`
	Role          string   `json:"role"`
	ViewMode      string   `json:"viewMode"` // "stats" or "power"
	SortKeys      []string `json:"sortKeys"`
	SortDirection string   `json:"sortDirection"` // "asc" or "desc"
	FavoritesOnly bool     `json:"favoritesOnly"`
}
