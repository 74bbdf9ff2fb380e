package dataset

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SanitizeAttribute trims v and maps blanks to "Unknown"
func SanitizeAttribute(v string) string {
	if t := strings.TrimSpace(v); t != "" {
		return t
	}
	return "Unknown"
}

func newCollator() *collate.Collator {
	return collate.New(language.English)
}

var folder = cases.Fold()

// fold case-folds s for substring search
func fold(s string) string {
	return folder.String(s)
}

// SortedUniqueOptions sanitizes, dedupes and sorts filter options in
// locale order.
func SortedUniqueOptions(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}
	for _, v := range values {
		v = SanitizeAttribute(v)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	col := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i], out[j]) < 0
	})
	return out
}

// PlayerOptions are the distinct element, position and role values
type PlayerOptions struct {
	Elements  []string `json:"elements"`
	Positions []string `json:"positions"`
	Roles     []string `json:"roles"`
}

// PlayerFilterOptions collects the players page filter choices
func (c *Catalog) PlayerFilterOptions() PlayerOptions {
	var elements, positions, roles []string
	for _, p := range c.players {
		elements = append(elements, p.Element)
		positions = append(positions, p.Position)
		roles = append(roles, p.Role)
	}
	return PlayerOptions{
		Elements:  SortedUniqueOptions(elements),
		Positions: SortedUniqueOptions(positions),
		Roles:     SortedUniqueOptions(roles),
	}
}

// HissatsuOptions are the distinct special move filter values
type HissatsuOptions struct {
	Types    []string `json:"types"`
	Elements []string `json:"elements"`
	Shops    []string `json:"shops"`
	Extras   []string `json:"extras"`
}

// HissatsuFilterOptions collects the special moves page filter choices
func (c *Catalog) HissatsuFilterOptions() HissatsuOptions {
	var types, elements, shops, extras []string
	for _, h := range c.hissatsu {
		types = append(types, h.Type)
		elements = append(elements, h.Element)
		shops = append(shops, h.Shop)
		extras = append(extras, h.Extras...)
	}
	return HissatsuOptions{
		Types:    SortedUniqueOptions(types),
		Elements: SortedUniqueOptions(elements),
		Shops:    SortedUniqueOptions(shops),
		Extras:   SortedUniqueOptions(extras),
	}
}

// EquipmentShops lists the distinct shops selling equipment
func (c *Catalog) EquipmentShops() []string {
	var shops []string
	for _, e := range c.equipments {
		shops = append(shops, e.Shop)
	}
	return SortedUniqueOptions(shops)
}
