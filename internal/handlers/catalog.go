package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Billy-Davies-2/inazuma-guide/internal/dataset"
	"github.com/Billy-Davies-2/inazuma-guide/internal/formations"
	"github.com/Billy-Davies-2/inazuma-guide/internal/logger"
	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
	"github.com/Billy-Davies-2/inazuma-guide/internal/slots"
	"github.com/Billy-Davies-2/inazuma-guide/internal/stats"
)

// GetMeta returns the static tables the team builder renders from
func (h *APIHandlers) GetMeta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"formations":          formations.All(),
		"extraSlots":          slots.ExtraSlots(),
		"displayModes":        models.DisplayModes,
		"rarities":            stats.Rarities(),
		"equipmentCategories": models.EquipmentCategories,
		"attributes":          models.AttributeKeys,
		"sortMetrics":         dataset.SortMetrics(),
		"maxBeanPoints":       stats.MaxBeanPoints,
		"maxPassiveValue":     stats.MaxPassiveValue,
		"gridColumns":         formations.GridColumns,
		"gridRows":            formations.GridRows,
	})
}

// ListFormations returns the formation catalog
func (h *APIHandlers) ListFormations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formations.All())
}

// hasAny reports whether q carries any of keys
func hasAny(q url.Values, keys ...string) bool {
	for _, k := range keys {
		if _, ok := q[k]; ok {
			return true
		}
	}
	return false
}

// playersPreferencesFromQuery overlays query parameters on the stored preferences
func playersPreferencesFromQuery(q url.Values, base models.PlayersPreferences) models.PlayersPreferences {
	p := base
	if q.Has("search") {
		p.Search = q.Get("search")
	}
	if q.Has("element") {
		p.Element = q.Get("element")
	}
	if q.Has("position") {
		p.Position = q.Get("position")
	}
	if q.Has("role") {
		p.Role = q.Get("role")
	}
	if q.Has("viewMode") {
		p.ViewMode = q.Get("viewMode")
	}
	if q.Has("sortKeys") {
		p.SortKeys = splitList(q.Get("sortKeys"))
	}
	if q.Has("sortDirection") {
		p.SortDirection = q.Get("sortDirection")
	}
	if q.Has("favoritesOnly") {
		v := strings.ToLower(q.Get("favoritesOnly"))
		p.FavoritesOnly = v == "1" || v == "true"
	}
	return p
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ListPlayers filters and sorts players. Without query parameters the
// stored players page preferences apply.
func (h *APIHandlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prefs := h.store.PlayersPreferences()
	if hasAny(q, "search", "element", "position", "role", "viewMode", "sortKeys", "sortDirection", "favoritesOnly") {
		prefs = dataset.NormalizePlayersPreferences(playersPreferencesFromQuery(q, prefs))
	}

	players := h.catalog.QueryPlayers(prefs, h.store.Favorites())
	logger.Debug("Listing players", "count", len(players), "sort_keys", prefs.SortKeys)
	writeJSON(w, http.StatusOK, map[string]any{
		"players":     players,
		"preferences": prefs,
		"total":       len(players),
	})
}

// PlayerOptions returns the players page filter choices
func (h *APIHandlers) PlayerOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.PlayerFilterOptions())
}

// PickerPlayers returns players in team builder picker order
func (h *APIHandlers) PickerPlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.PickerPlayers())
}

// PlayersPreferences reads (GET) or replaces (POST) the players page preferences
func (h *APIHandlers) PlayersPreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.store.PlayersPreferences())
	case http.MethodPost:
		var prefs models.PlayersPreferences
		if !decodeBody(w, r, &prefs) {
			return
		}
		saved, err := h.store.SavePlayersPreferences(prefs)
		if err != nil {
			logger.Error("Failed to save players preferences", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ListFavorites returns the favorite player ids
func (h *APIHandlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Favorites())
}

// ToggleFavorite adds or removes a favorite player
func (h *APIHandlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		PlayerID int `json:"playerId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.catalog.Player(req.PlayerID); !ok {
		http.Error(w, "unknown player", http.StatusNotFound)
		return
	}

	favorites, err := h.store.ToggleFavorite(req.PlayerID)
	if err != nil {
		logger.Error("Failed to toggle favorite", "error", err, "player_id", req.PlayerID)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"favorites":  favorites,
		"isFavorite": h.store.IsFavorite(req.PlayerID),
	})
}

// ListEquipments filters and sorts equipment. With only a type filter the
// category listing (total desc, then name) is returned.
func (h *APIHandlers) ListEquipments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := dataset.EquipmentQuery{
		Category:  models.EquipmentCategory(q.Get("type")),
		Shop:      q.Get("shop"),
		Attribute: q.Get("attribute"),
		Search:    q.Get("search"),
		SortKey:   q.Get("sortKey"),
		Direction: q.Get("sortDirection"),
	}

	if !hasAny(q, "shop", "attribute", "search", "sortKey", "sortDirection") {
		grouped := map[models.EquipmentCategory][]models.Equipment{}
		for _, c := range models.EquipmentCategories {
			if query.Category != "" && string(query.Category) != dataset.All && c != query.Category {
				continue
			}
			grouped[c] = h.catalog.EquipmentsByCategory(c)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"byType": grouped,
			"shops":  h.catalog.EquipmentShops(),
		})
		return
	}

	items := h.catalog.QueryEquipments(query)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

// ListHissatsu filters and sorts special moves
func (h *APIHandlers) ListHissatsu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	moves := h.catalog.QueryHissatsu(dataset.HissatsuQuery{
		Type:      q.Get("type"),
		Element:   q.Get("element"),
		Shop:      q.Get("shop"),
		Extra:     q.Get("extra"),
		Search:    q.Get("search"),
		SortKey:   q.Get("sortKey"),
		Direction: q.Get("sortDirection"),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"moves":   moves,
		"total":   len(moves),
		"options": h.catalog.HissatsuFilterOptions(),
	})
}
