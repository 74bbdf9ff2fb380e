// Package dataset loads the embedded players, equipment and special move
// records and answers the lookup, filter and sort queries built on them.
package dataset

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
	"github.com/Billy-Davies-2/inazuma-guide/internal/stats"
)

//go:embed data
var dataFS embed.FS

// number accepts JSON numbers, numeric strings and "" (treated as 0)
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = number(stats.NormalizeStat(v))
	return nil
}

type rawPlayer struct {
	ID           int    `json:"Nº"`
	Image        string `json:"Image"`
	Name         string `json:"Name"`
	Nickname     string `json:"Nickname"`
	Game         string `json:"Game"`
	Position     string `json:"Position"`
	Element      string `json:"Element"`
	Kick         number `json:"Kick"`
	Control      number `json:"Control"`
	Technique    number `json:"Technique"`
	Pressure     number `json:"Pressure"`
	Physical     number `json:"Physical"`
	Agility      number `json:"Agility"`
	Intelligence number `json:"Intelligence"`
	Total        number `json:"Total"`
	AgeGroup     string `json:"Age group"`
	Year         string `json:"Year"`
	Gender       string `json:"Gender"`
	Role         string `json:"Role"`
}

type rawEquipment struct {
	ID           string `json:"id"`
	Name         string `json:"Name"`
	Kick         number `json:"Kick"`
	Control      number `json:"Control"`
	Technique    number `json:"Technique"`
	Pressure     number `json:"Pressure"`
	Physical     number `json:"Physical"`
	Intelligence number `json:"Intelligence"`
	Agility      number `json:"Agility"`
	Shop         string `json:"Shop"`
}

type rawHissatsu struct {
	N       *int   `json:"N"`
	Shop    string `json:"Shop"`
	Name    string `json:"Name"`
	Type    string `json:"Type"`
	Element string `json:"Element"`
	Extra   string `json:"Extra"`
	Power   number `json:"Power"`
	Tension number `json:"Tension"`
}

// Catalog is an immutable, indexed view over the dataset
type Catalog struct {
	players       []models.Player
	playersByID   map[int]int
	equipments    []models.Equipment
	equipmentByID map[string]int
	byCategory    map[models.EquipmentCategory][]models.Equipment
	hissatsu      []models.Hissatsu
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default loads the embedded dataset once
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load()
	})
	return defaultCatalog, defaultErr
}

// Load parses the embedded dataset
func Load() (*Catalog, error) {
	var players []rawPlayer
	if err := readJSON("data/players.json", &players); err != nil {
		return nil, err
	}

	equipments := map[models.EquipmentCategory][]rawEquipment{}
	for _, c := range models.EquipmentCategories {
		var items []rawEquipment
		if err := readJSON(path.Join("data", "equipments", string(c)+".json"), &items); err != nil {
			return nil, err
		}
		equipments[c] = items
	}

	var moves []rawHissatsu
	if err := readJSON("data/hissatsu.json", &moves); err != nil {
		return nil, err
	}

	return newCatalog(players, equipments, moves), nil
}

func readJSON(name string, v any) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// newCatalog normalizes raw records and builds the indexes
func newCatalog(players []rawPlayer, equipments map[models.EquipmentCategory][]rawEquipment, moves []rawHissatsu) *Catalog {
	c := &Catalog{
		playersByID:   make(map[int]int),
		equipmentByID: make(map[string]int),
		byCategory:    make(map[models.EquipmentCategory][]models.Equipment),
	}

	for _, raw := range players {
		if raw.Name == "???" {
			continue
		}
		p := normalizePlayer(raw)
		c.playersByID[p.ID] = len(c.players)
		c.players = append(c.players, p)
	}

	for _, category := range models.EquipmentCategories {
		for _, raw := range equipments[category] {
			e := normalizeEquipment(raw, category)
			c.equipmentByID[e.ID] = len(c.equipments)
			c.equipments = append(c.equipments, e)
			c.byCategory[category] = append(c.byCategory[category], e)
		}
		sortEquipmentByTotal(c.byCategory[category])
	}

	for i, raw := range moves {
		c.hissatsu = append(c.hissatsu, normalizeHissatsu(raw, i))
	}

	return c
}

func normalizePlayer(raw rawPlayer) models.Player {
	base := models.BaseStats{
		Kick:         float64(raw.Kick),
		Control:      float64(raw.Control),
		Technique:    float64(raw.Technique),
		Pressure:     float64(raw.Pressure),
		Physical:     float64(raw.Physical),
		Agility:      float64(raw.Agility),
		Intelligence: float64(raw.Intelligence),
		Total:        float64(raw.Total),
	}
	return models.Player{
		ID:       raw.ID,
		Image:    raw.Image,
		Name:     SanitizeAttribute(raw.Name),
		Nickname: SanitizeAttribute(raw.Nickname),
		Game:     SanitizeAttribute(raw.Game),
		Position: SanitizeAttribute(raw.Position),
		Element:  SanitizeAttribute(raw.Element),
		Role:     SanitizeAttribute(raw.Role),
		AgeGroup: SanitizeAttribute(raw.AgeGroup),
		Year:     SanitizeAttribute(raw.Year),
		Gender:   SanitizeAttribute(raw.Gender),
		Stats:    base,
		Power:    stats.ComputePower(base),
	}
}

func normalizeEquipment(raw rawEquipment, category models.EquipmentCategory) models.Equipment {
	base := models.BaseStats{
		Kick:         float64(raw.Kick),
		Control:      float64(raw.Control),
		Technique:    float64(raw.Technique),
		Pressure:     float64(raw.Pressure),
		Physical:     float64(raw.Physical),
		Agility:      float64(raw.Agility),
		Intelligence: float64(raw.Intelligence),
	}
	base.Total = base.Sum()
	return models.Equipment{
		ID:       raw.ID,
		Name:     SanitizeAttribute(raw.Name),
		Category: category,
		Shop:     SanitizeAttribute(raw.Shop),
		Stats:    base,
		Power:    stats.ComputePower(base),
	}
}

func normalizeHissatsu(raw rawHissatsu, index int) models.Hissatsu {
	id := fmt.Sprintf("hissatsu-%d", index)
	order := index + 1
	if raw.N != nil {
		id = fmt.Sprintf("hissatsu-%d", *raw.N)
		order = *raw.N
	}
	return models.Hissatsu{
		ID:      id,
		Order:   order,
		Name:    SanitizeAttribute(raw.Name),
		Type:    SanitizeAttribute(raw.Type),
		Element: SanitizeAttribute(raw.Element),
		Shop:    SanitizeAttribute(raw.Shop),
		Extras:  SplitExtras(raw.Extra),
		Power:   float64(raw.Power),
		Tension: float64(raw.Tension),
	}
}

// SplitExtras breaks an extras cell on / , ; | and · separators
func SplitExtras(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool {
		switch r {
		case '/', ',', ';', '|', '·':
			return true
		}
		return false
	})
	extras := []string{}
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			extras = append(extras, p)
		}
	}
	return extras
}

func sortEquipmentByTotal(items []models.Equipment) {
	col := newCollator()
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Stats.Total != items[j].Stats.Total {
			return items[i].Stats.Total > items[j].Stats.Total
		}
		return col.CompareString(items[i].Name, items[j].Name) < 0
	})
}

// Player looks up a player by id
func (c *Catalog) Player(id int) (models.Player, bool) {
	i, ok := c.playersByID[id]
	if !ok {
		return models.Player{}, false
	}
	return c.players[i], true
}

// Equipment looks up an equipment item by id
func (c *Catalog) Equipment(id string) (models.Equipment, bool) {
	i, ok := c.equipmentByID[id]
	if !ok {
		return models.Equipment{}, false
	}
	return c.equipments[i], true
}

// Players returns every player in dataset order
func (c *Catalog) Players() []models.Player {
	return append([]models.Player(nil), c.players...)
}

// Equipments returns every equipment item, grouped by category in canonical order
func (c *Catalog) Equipments() []models.Equipment {
	return append([]models.Equipment(nil), c.equipments...)
}

// EquipmentsByCategory returns one category sorted by total desc, then name
func (c *Catalog) EquipmentsByCategory(category models.EquipmentCategory) []models.Equipment {
	return append([]models.Equipment(nil), c.byCategory[category]...)
}

// Hissatsu returns every special move in dataset order
func (c *Catalog) Hissatsu() []models.Hissatsu {
	return append([]models.Hissatsu(nil), c.hissatsu...)
}
