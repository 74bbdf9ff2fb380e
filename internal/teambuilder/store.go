package teambuilder

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Billy-Davies-2/inazuma-guide/internal/dal"
	"github.com/Billy-Davies-2/inazuma-guide/internal/dataset"
	"github.com/Billy-Davies-2/inazuma-guide/internal/logger"
	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
	"github.com/Billy-Davies-2/inazuma-guide/internal/pubsub"
	"github.com/Billy-Davies-2/inazuma-guide/internal/slots"
)

var (
	// ErrUnknownSlot is returned for slot ids outside the current formation and roster
	ErrUnknownSlot = errors.New("unknown slot")
	// ErrInvalidDisplayMode is returned for display modes outside the known set
	ErrInvalidDisplayMode = errors.New("invalid display mode")
)

// Publisher receives change notifications
type Publisher interface {
	Publish(pubsub.Event)
}

// Store is the state container: it owns the current snapshot, applies one
// reducer per mutation, persists the result and announces it.
type Store struct {
	mu          sync.RWMutex
	state       models.TeamBuilderState
	favorites   []int
	preferences models.PlayersPreferences
	dal         dal.TeamDAL
	events      Publisher
}

// NewStore hydrates the container from d. Missing or unreadable blobs fall
// back to defaults. events may be nil.
func NewStore(d dal.TeamDAL, events Publisher) *Store {
	s := &Store{
		state:       DefaultState(),
		favorites:   []int{},
		preferences: dataset.DefaultPlayersPreferences(),
		dal:         d,
		events:      events,
	}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	if s.dal == nil {
		return
	}

	if state, err := s.dal.LoadTeam(); err == nil {
		s.state = NormalizeState(*state)
	} else if !errors.Is(err, dal.ErrNotFound) {
		logger.Warn("Failed to load team state, using defaults", "error", err)
	}

	if ids, err := s.dal.LoadFavorites(); err == nil {
		s.favorites = normalizeFavorites(ids)
	} else if !errors.Is(err, dal.ErrNotFound) {
		logger.Warn("Failed to load favorites, using defaults", "error", err)
	}

	if prefs, err := s.dal.LoadPlayersPreferences(); err == nil {
		s.preferences = dataset.NormalizePlayersPreferences(*prefs)
	} else if !errors.Is(err, dal.ErrNotFound) {
		logger.Warn("Failed to load players preferences, using defaults", "error", err)
	}

	logger.Debug("Team store hydrated",
		"formation_id", s.state.FormationID,
		"assigned", CountAssigned(s.state.Assignments),
		"favorites", len(s.favorites),
	)
}

// State returns a copy of the current snapshot
func (s *Store) State() models.TeamBuilderState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Clone(s.state)
}

// Slots lists the slots of the current formation plus the auxiliary roster
func (s *Store) Slots() []models.TeamBuilderSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SlotsFor(s.state)
}

// Assignments projects the current snapshot
func (s *Store) Assignments(lookup Lookup) []models.SlotAssignment {
	s.mu.RLock()
	state := Clone(s.state)
	s.mu.RUnlock()
	return Project(state, SlotsFor(state), lookup)
}

func (s *Store) knownSlot(id string) bool {
	_, ok := slots.Find(SlotsFor(s.state), id)
	return ok
}

// apply runs one reducer under the write lock and persists the result.
// The snapshot only advances when persistence succeeds.
func (s *Store) apply(action string, payload map[string]any, slotID string, reduce func(models.TeamBuilderState) models.TeamBuilderState) (models.TeamBuilderState, error) {
	s.mu.Lock()
	if slotID != "" && !s.knownSlot(slotID) {
		s.mu.Unlock()
		return models.TeamBuilderState{}, fmt.Errorf("%w: %s", ErrUnknownSlot, slotID)
	}

	next := reduce(s.state)
	if s.dal != nil {
		if err := s.dal.SaveTeam(&next); err != nil {
			s.mu.Unlock()
			logger.Error("Failed to persist team state", "error", err, "action", action)
			return models.TeamBuilderState{}, fmt.Errorf("failed to persist team state: %w", err)
		}
	}
	s.state = next
	out := Clone(next)
	s.mu.Unlock()

	if payload == nil {
		payload = map[string]any{}
	}
	payload["action"] = action
	payload["formationId"] = out.FormationID
	if slotID != "" {
		payload["slotId"] = slotID
	}
	s.publish(pubsub.TeamUpdated, payload)

	logger.Debug("Team state updated", "action", action, "slot_id", slotID, "formation_id", out.FormationID)
	return out, nil
}

func (s *Store) publish(eventType string, payload map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Publish(pubsub.NewEvent(eventType, payload))
}

// Assign places entityID in slotID
func (s *Store) Assign(slotID string, entityID int) (models.TeamBuilderState, error) {
	return s.apply("assign", map[string]any{"entityId": entityID}, slotID, func(st models.TeamBuilderState) models.TeamBuilderState {
		return Assign(st, slotID, entityID)
	})
}

// ClearSlot empties slotID
func (s *Store) ClearSlot(slotID string) (models.TeamBuilderState, error) {
	return s.apply("clear-slot", nil, slotID, func(st models.TeamBuilderState) models.TeamBuilderState {
		return ClearSlot(st, slotID)
	})
}

// ChangeFormation switches layout
func (s *Store) ChangeFormation(formationID string) (models.TeamBuilderState, error) {
	return s.apply("change-formation", map[string]any{"requested": formationID}, "", func(st models.TeamBuilderState) models.TeamBuilderState {
		return ChangeFormation(st, formationID)
	})
}

// UpdateSlotConfig merges patch into the slot's config
func (s *Store) UpdateSlotConfig(slotID string, patch SlotConfigPatch) (models.TeamBuilderState, error) {
	return s.apply("update-slot-config", nil, slotID, func(st models.TeamBuilderState) models.TeamBuilderState {
		return UpdateSlotConfig(st, slotID, patch)
	})
}

// UpdateSlotPassives replaces the slot's passives
func (s *Store) UpdateSlotPassives(slotID string, passives models.SlotPassives) (models.TeamBuilderState, error) {
	return s.apply("update-slot-passives", nil, slotID, func(st models.TeamBuilderState) models.TeamBuilderState {
		return UpdateSlotPassives(st, slotID, passives)
	})
}

// ChangeDisplayMode rejects unknown modes instead of silently ignoring them
func (s *Store) ChangeDisplayMode(mode models.DisplayMode) (models.TeamBuilderState, error) {
	if !mode.Valid() {
		return models.TeamBuilderState{}, fmt.Errorf("%w: %q", ErrInvalidDisplayMode, mode)
	}
	return s.apply("change-display-mode", map[string]any{"displayMode": string(mode)}, "", func(st models.TeamBuilderState) models.TeamBuilderState {
		return ChangeDisplayMode(st, mode)
	})
}

// ClearTeam empties every slot
func (s *Store) ClearTeam() (models.TeamBuilderState, error) {
	return s.apply("clear-team", nil, "", ClearTeam)
}

// Import adopts a decoded shared snapshot
func (s *Store) Import(shared models.TeamBuilderState) (models.TeamBuilderState, error) {
	return s.apply("import", map[string]any{"filled": CountAssigned(shared.Assignments)}, "", func(st models.TeamBuilderState) models.TeamBuilderState {
		return ImportState(st, shared)
	})
}

// Favorites returns the favorite player ids in insertion order
func (s *Store) Favorites() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites)
}

// IsFavorite reports whether id is a favorite
func (s *Store) IsFavorite(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.favorites, id)
}

// ToggleFavorite adds id when absent and removes it otherwise
func (s *Store) ToggleFavorite(id int) ([]int, error) {
	s.mu.Lock()
	next := slices.Clone(s.favorites)
	if i := slices.Index(next, id); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next = append(next, id)
	}
	if s.dal != nil {
		if err := s.dal.SaveFavorites(next); err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("failed to persist favorites: %w", err)
		}
	}
	s.favorites = next
	out := slices.Clone(next)
	s.mu.Unlock()

	s.publish(pubsub.FavoritesUpdated, map[string]any{"playerId": id, "count": len(out)})
	return out, nil
}

// PlayersPreferences returns the players page preferences
func (s *Store) PlayersPreferences() models.PlayersPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.preferences
	p.SortKeys = slices.Clone(p.SortKeys)
	return p
}

// SavePlayersPreferences normalizes and persists prefs
func (s *Store) SavePlayersPreferences(prefs models.PlayersPreferences) (models.PlayersPreferences, error) {
	next := dataset.NormalizePlayersPreferences(prefs)

	s.mu.Lock()
	if s.dal != nil {
		if err := s.dal.SavePlayersPreferences(&next); err != nil {
			s.mu.Unlock()
			return models.PlayersPreferences{}, fmt.Errorf("failed to persist players preferences: %w", err)
		}
	}
	s.preferences = next
	s.mu.Unlock()

	s.publish(pubsub.PreferencesUpdated, nil)
	out := next
	out.SortKeys = slices.Clone(next.SortKeys)
	return out, nil
}

func normalizeFavorites(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
