package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Billy-Davies-2/inazuma-guide/internal/dataset"
	"github.com/Billy-Davies-2/inazuma-guide/internal/logger"
	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
	"github.com/Billy-Davies-2/inazuma-guide/internal/pubsub"
	"github.com/Billy-Davies-2/inazuma-guide/internal/share"
	"github.com/Billy-Davies-2/inazuma-guide/internal/teambuilder"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// keepaliveInterval is how often an idle event stream is pinged
var keepaliveInterval = 30 * time.Second

// APIHandlers contains all API handler methods
type APIHandlers struct {
	store        *teambuilder.Store
	catalog      *dataset.Catalog
	pubsub       *pubsub.PubSub
	shareBaseURL string
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(store *teambuilder.Store, catalog *dataset.Catalog, ps *pubsub.PubSub, shareBaseURL string) *APIHandlers {
	return &APIHandlers{
		store:        store,
		catalog:      catalog,
		pubsub:       ps,
		shareBaseURL: shareBaseURL,
	}
}

// Register mounts every API route on mux
func (h *APIHandlers) Register(mux *http.ServeMux) {
	// Team builder API
	mux.HandleFunc("/api/team/state", h.GetTeamState)
	mux.HandleFunc("/api/team/assignments", h.GetAssignments)
	mux.HandleFunc("/api/team/assign", h.AssignSlot)
	mux.HandleFunc("/api/team/clear-slot", h.ClearSlot)
	mux.HandleFunc("/api/team/formation", h.ChangeFormation)
	mux.HandleFunc("/api/team/slot-config", h.UpdateSlotConfig)
	mux.HandleFunc("/api/team/slot-passives", h.UpdateSlotPassives)
	mux.HandleFunc("/api/team/display-mode", h.ChangeDisplayMode)
	mux.HandleFunc("/api/team/clear", h.ClearTeam)
	mux.HandleFunc("/api/team/share", h.ShareTeam)
	mux.HandleFunc("/api/team/share/preview", h.PreviewShare)
	mux.HandleFunc("/api/team/import", h.ImportTeam)

	// Catalog API
	mux.HandleFunc("/api/meta", h.GetMeta)
	mux.HandleFunc("/api/formations", h.ListFormations)
	mux.HandleFunc("/api/players", h.ListPlayers)
	mux.HandleFunc("/api/players/options", h.PlayerOptions)
	mux.HandleFunc("/api/players/picker", h.PickerPlayers)
	mux.HandleFunc("/api/players/preferences", h.PlayersPreferences)
	mux.HandleFunc("/api/favorites", h.ListFavorites)
	mux.HandleFunc("/api/favorites/toggle", h.ToggleFavorite)
	mux.HandleFunc("/api/equipments", h.ListEquipments)
	mux.HandleFunc("/api/hissatsu", h.ListHissatsu)

	// SSE for realtime updates
	mux.HandleFunc("/api/events", h.EventsSSE)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Warn("Failed to decode request", "error", err, "path", r.URL.Path)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, teambuilder.ErrUnknownSlot),
		errors.Is(err, teambuilder.ErrInvalidDisplayMode),
		errors.Is(err, share.ErrInvalidCode):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *APIHandlers) writeState(w http.ResponseWriter, state models.TeamBuilderState, err error) {
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("Team update failed", "error", err)
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// GetTeamState returns the current team snapshot
func (h *APIHandlers) GetTeamState(w http.ResponseWriter, r *http.Request) {
	logger.Debug("Getting team state")
	writeJSON(w, http.StatusOK, h.store.State())
}

// AssignmentView is one projected slot plus the text its tile shows
type AssignmentView struct {
	models.SlotAssignment
	DisplayValue string `json:"displayValue"`
}

// TeamView is the render model of the team builder page
type TeamView struct {
	Formation   models.FormationDefinition `json:"formation"`
	DisplayMode models.DisplayMode         `json:"displayMode"`
	Filled      int                        `json:"filled"`
	Starters    []AssignmentView           `json:"starters"`
	Reserves    []AssignmentView           `json:"reserves"`
	Staff       []AssignmentView           `json:"staff"`
}

func (h *APIHandlers) teamView() TeamView {
	state := h.store.State()
	list := teambuilder.Project(state, teambuilder.SlotsFor(state), h.catalog)

	view := TeamView{
		Formation:   teambuilder.CurrentFormation(state),
		DisplayMode: state.DisplayMode,
		Filled:      teambuilder.CountFilled(list),
		Starters:    []AssignmentView{},
		Reserves:    []AssignmentView{},
		Staff:       []AssignmentView{},
	}
	for _, a := range list {
		v := AssignmentView{SlotAssignment: a, DisplayValue: teambuilder.DisplayValue(a, state.DisplayMode)}
		switch a.Slot.Kind {
		case models.SlotKindStarter:
			view.Starters = append(view.Starters, v)
		case models.SlotKindReserve:
			view.Reserves = append(view.Reserves, v)
		default:
			view.Staff = append(view.Staff, v)
		}
	}
	return view
}

// GetAssignments returns the projected slots grouped the way the page renders them
func (h *APIHandlers) GetAssignments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.teamView())
}

// AssignSlot places a player in a slot
func (h *APIHandlers) AssignSlot(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		SlotID   string `json:"slotId"`
		PlayerID int    `json:"playerId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.catalog.Player(req.PlayerID); !ok {
		http.Error(w, fmt.Sprintf("unknown player %d", req.PlayerID), http.StatusNotFound)
		return
	}

	logger.Info("Assigning player", "slot_id", req.SlotID, "player_id", req.PlayerID)
	state, err := h.store.Assign(req.SlotID, req.PlayerID)
	h.writeState(w, state, err)
}

// ClearSlot empties a slot
func (h *APIHandlers) ClearSlot(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		SlotID string `json:"slotId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := h.store.ClearSlot(req.SlotID)
	h.writeState(w, state, err)
}

// ChangeFormation switches the active formation
func (h *APIHandlers) ChangeFormation(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		FormationID string `json:"formationId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	logger.Info("Changing formation", "formation_id", req.FormationID)
	state, err := h.store.ChangeFormation(req.FormationID)
	h.writeState(w, state, err)
}

// UpdateSlotConfig merges rarity, equipment and beans into a slot's config
func (h *APIHandlers) UpdateSlotConfig(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		SlotID string `json:"slotId"`
		teambuilder.SlotConfigPatch
	}
	if !decodeBody(w, r, &req) {
		return
	}
	for category, id := range req.Equipments {
		if id == "" {
			continue
		}
		item, ok := h.catalog.Equipment(id)
		if !ok || item.Category != category {
			http.Error(w, fmt.Sprintf("unknown %s equipment %q", category, id), http.StatusBadRequest)
			return
		}
	}

	state, err := h.store.UpdateSlotConfig(req.SlotID, req.SlotConfigPatch)
	h.writeState(w, state, err)
}

// UpdateSlotPassives replaces a slot's passives
func (h *APIHandlers) UpdateSlotPassives(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		SlotID   string              `json:"slotId"`
		Passives models.SlotPassives `json:"passives"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := h.store.UpdateSlotPassives(req.SlotID, req.Passives)
	h.writeState(w, state, err)
}

// ChangeDisplayMode selects what slot tiles display
func (h *APIHandlers) ChangeDisplayMode(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		DisplayMode models.DisplayMode `json:"displayMode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := h.store.ChangeDisplayMode(req.DisplayMode)
	h.writeState(w, state, err)
}

// ClearTeam empties every slot
func (h *APIHandlers) ClearTeam(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	logger.Info("Clearing team")
	state, err := h.store.ClearTeam()
	h.writeState(w, state, err)
}

// ShareTeam returns a share code and link for the current team
func (h *APIHandlers) ShareTeam(w http.ResponseWriter, r *http.Request) {
	state := h.store.State()
	code, err := share.Encode(state)
	if err != nil {
		logger.Error("Failed to encode share code", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	link, err := share.BuildShareURL(h.shareBaseURL, state)
	if err != nil {
		logger.Error("Failed to build share url", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"code":    code,
		"url":     link,
		"summary": share.Preview(state),
	})
}

// PreviewShare decodes a code without importing it
func (h *APIHandlers) PreviewShare(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get(share.QueryKey)
	state, err := share.Decode(code)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	sum := share.Preview(state)
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": sum,
		"message": sum.String(),
	})
}

// ImportTeam replaces the current team with a shared one
func (h *APIHandlers) ImportTeam(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	shared, err := share.Decode(req.Code)
	if err != nil {
		logger.Warn("Rejected share code", "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	logger.Info("Importing shared team", "formation_id", shared.FormationID)
	state, err := h.store.Import(shared)
	h.writeState(w, state, err)
}

// EventsSSE provides Server-Sent Events for realtime updates
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	flush := func() {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	flush()

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				logger.Warn("Failed to marshal event", "error", err, "type", event.Type)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flush()
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-ticker.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flush()
		}
	}
}
