package dataset

import (
	"sort"
	"strings"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
)

const (
	// All disables an exact-match filter
	All = "all"
	// Any disables the equipment attribute filter
	Any = "any"
	// NoExtras matches special moves without extras
	NoExtras = "none"

	SortAsc  = "asc"
	SortDesc = "desc"

	ViewStats = "stats"
	ViewPower = "power"
)

// PowerKeys lists the power metrics in display order
var PowerKeys = []string{"shootAT", "focusAT", "focusDF", "wallDF", "scrambleAT", "scrambleDF", "kp"}

// SortMetrics lists every metric a player or equipment item can be sorted by
func SortMetrics() []string {
	metrics := []string{"total"}
	for _, k := range models.AttributeKeys {
		metrics = append(metrics, string(k))
	}
	return append(metrics, PowerKeys...)
}

func validMetric(key string) bool {
	for _, m := range SortMetrics() {
		if m == key {
			return true
		}
	}
	return false
}

// metric reads a sort metric from a stat block. Unknown keys read 0.
func metric(base models.BaseStats, power models.PowerStats, key string) float64 {
	if key == "total" {
		return base.Total
	}
	if k := models.AttributeKey(key); k.Valid() {
		return base.Get(k)
	}
	if v, ok := power.Get(key); ok {
		return float64(v)
	}
	return 0
}

// DefaultPlayersPreferences returns the initial players page filters
func DefaultPlayersPreferences() models.PlayersPreferences {
	return models.PlayersPreferences{
		Search:        "",
		Element:       All,
		Position:      All,
		Role:          All,
		ViewMode:      ViewStats,
		SortKeys:      []string{"total"},
		SortDirection: SortDesc,
		FavoritesOnly: false,
	}
}

// NormalizePlayersPreferences heals persisted preferences field by field
func NormalizePlayersPreferences(p models.PlayersPreferences) models.PlayersPreferences {
	def := DefaultPlayersPreferences()
	out := p
	if strings.TrimSpace(out.Element) == "" {
		out.Element = def.Element
	}
	if strings.TrimSpace(out.Position) == "" {
		out.Position = def.Position
	}
	if strings.TrimSpace(out.Role) == "" {
		out.Role = def.Role
	}
	if out.ViewMode != ViewStats && out.ViewMode != ViewPower {
		out.ViewMode = def.ViewMode
	}
	if out.SortDirection != SortAsc && out.SortDirection != SortDesc {
		out.SortDirection = def.SortDirection
	}

	seen := map[string]bool{}
	keys := []string{}
	for _, k := range p.SortKeys {
		if validMetric(k) && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		keys = def.SortKeys
	}
	out.SortKeys = keys
	return out
}

// FilterPlayers applies the players page filters. favorites may be nil
// when FavoritesOnly is unset.
func FilterPlayers(players []models.Player, prefs models.PlayersPreferences, favorites map[int]bool) []models.Player {
	query := fold(strings.TrimSpace(prefs.Search))
	out := []models.Player{}
	for _, p := range players {
		if prefs.Element != "" && prefs.Element != All && p.Element != prefs.Element {
			continue
		}
		if prefs.Position != "" && prefs.Position != All && p.Position != prefs.Position {
			continue
		}
		if prefs.Role != "" && prefs.Role != All && p.Role != prefs.Role {
			continue
		}
		if prefs.FavoritesOnly && !favorites[p.ID] {
			continue
		}
		if query != "" && !strings.Contains(fold(p.Name), query) && !strings.Contains(fold(p.Nickname), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortPlayers orders players in place by the sum of the sort key metrics
func SortPlayers(players []models.Player, keys []string, direction string) {
	if len(keys) == 0 {
		keys = []string{"total"}
	}
	score := func(p models.Player) float64 {
		var sum float64
		for _, k := range keys {
			sum += metric(p.Stats, p.Power, k)
		}
		return sum
	}
	sort.SliceStable(players, func(i, j int) bool {
		a, b := score(players[i]), score(players[j])
		if direction == SortAsc {
			return a < b
		}
		return a > b
	})
}

// QueryPlayers filters then sorts a copy of the catalog's players
func (c *Catalog) QueryPlayers(prefs models.PlayersPreferences, favorites []int) []models.Player {
	prefs = NormalizePlayersPreferences(prefs)
	favs := make(map[int]bool, len(favorites))
	for _, id := range favorites {
		favs[id] = true
	}
	out := FilterPlayers(c.players, prefs, favs)
	SortPlayers(out, prefs.SortKeys, prefs.SortDirection)
	return out
}

var positionOrder = map[string]int{"GK": 0, "DF": 1, "MF": 2, "FW": 3}

// PickerPlayers returns the team builder picker list: by position, then total desc
func (c *Catalog) PickerPlayers() []models.Player {
	out := c.Players()
	rank := func(pos string) int {
		if r, ok := positionOrder[pos]; ok {
			return r
		}
		return len(positionOrder)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i].Position), rank(out[j].Position)
		if ri != rj {
			return ri < rj
		}
		return out[i].Stats.Total > out[j].Stats.Total
	})
	return out
}

// EquipmentQuery filters and sorts equipment
type EquipmentQuery struct {
	Category  models.EquipmentCategory `json:"type"`
	Shop      string                   `json:"shop"`
	Attribute string                   `json:"attribute"`
	Search    string                   `json:"search"`
	SortKey   string                   `json:"sortKey"`
	Direction string                   `json:"sortDirection"`
}

// QueryEquipments applies q to the catalog's equipment
func (c *Catalog) QueryEquipments(q EquipmentQuery) []models.Equipment {
	query := fold(strings.TrimSpace(q.Search))
	out := []models.Equipment{}
	for _, e := range c.equipments {
		if q.Category != "" && string(q.Category) != All && e.Category != q.Category {
			continue
		}
		if q.Shop != "" && q.Shop != All && e.Shop != q.Shop {
			continue
		}
		if q.Attribute != "" && q.Attribute != Any && metric(e.Stats, e.Power, q.Attribute) <= 0 {
			continue
		}
		if query != "" && !strings.Contains(fold(e.Name), query) {
			continue
		}
		out = append(out, e)
	}

	key := q.SortKey
	if !validMetric(key) {
		key = "total"
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := metric(out[i].Stats, out[i].Power, key), metric(out[j].Stats, out[j].Power, key)
		if q.Direction == SortAsc {
			return a < b
		}
		return a > b
	})
	return out
}

// HissatsuQuery filters and sorts special moves
type HissatsuQuery struct {
	Type      string `json:"type"`
	Element   string `json:"element"`
	Shop      string `json:"shop"`
	Extra     string `json:"extra"`
	Search    string `json:"search"`
	SortKey   string `json:"sortKey"`
	Direction string `json:"sortDirection"`
}

// HissatsuSortKeys lists the supported special move sort keys
var HissatsuSortKeys = []string{"order", "name", "type", "element", "shop", "power", "tension"}

// QueryHissatsu applies q to the catalog's special moves
func (c *Catalog) QueryHissatsu(q HissatsuQuery) []models.Hissatsu {
	query := fold(strings.TrimSpace(q.Search))
	out := []models.Hissatsu{}
	for _, h := range c.hissatsu {
		if q.Type != "" && q.Type != All && h.Type != q.Type {
			continue
		}
		if q.Element != "" && q.Element != All && h.Element != q.Element {
			continue
		}
		if q.Shop != "" && q.Shop != All && h.Shop != q.Shop {
			continue
		}
		if !matchExtra(h.Extras, q.Extra) {
			continue
		}
		if query != "" {
			haystack := fold(h.Name + " " + h.Shop + " " + strings.Join(h.Extras, " "))
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, h)
	}
	SortHissatsu(out, q.SortKey, q.Direction)
	return out
}

func matchExtra(extras []string, want string) bool {
	switch want {
	case "", All:
		return true
	case NoExtras:
		return len(extras) == 0
	}
	for _, e := range extras {
		if e == want {
			return true
		}
	}
	return false
}

// SortHissatsu orders moves in place. Numeric keys compare by value,
// text keys by case-folded locale order. Unknown keys sort by order.
func SortHissatsu(moves []models.Hissatsu, key, direction string) {
	col := newCollator()
	compare := func(a, b models.Hissatsu) int {
		switch key {
		case "name":
			return col.CompareString(fold(a.Name), fold(b.Name))
		case "type":
			return col.CompareString(fold(a.Type), fold(b.Type))
		case "element":
			return col.CompareString(fold(a.Element), fold(b.Element))
		case "shop":
			return col.CompareString(fold(a.Shop), fold(b.Shop))
		case "power":
			return cmpFloat(a.Power, b.Power)
		case "tension":
			return cmpFloat(a.Tension, b.Tension)
		}
		return cmpFloat(float64(a.Order), float64(b.Order))
	}
	sort.SliceStable(moves, func(i, j int) bool {
		c := compare(moves[i], moves[j])
		if direction == SortDesc {
			return c > 0
		}
		return c < 0
	})
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
