package dal

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
)

// Storage keys. They match the keys the browser client writes to local storage.
const (
	TeamBuilderKey        = "inazuma-guide.team-builder.v1"
	FavoritesKey          = "inazuma-guide.favorites.v1"
	PlayersPreferencesKey = "inazuma-guide.players.v1"
)

// ErrNotFound is returned when nothing has been stored under a key yet
var ErrNotFound = errors.New("dal: not found")

// TeamDAL defines the interface for data access layer
type TeamDAL interface {
	LoadTeam() (*models.TeamBuilderState, error)
	SaveTeam(state *models.TeamBuilderState) error
	LoadFavorites() ([]int, error)
	SaveFavorites(ids []int) error
	LoadPlayersPreferences() (*models.PlayersPreferences, error)
	SavePlayersPreferences(prefs *models.PlayersPreferences) error
	Reset() error
	Close() error
}

// blobStore is the raw key-value layer every backend provides
type blobStore interface {
	get(key string) ([]byte, error)
	put(key string, value []byte) error
}

func loadJSON(s blobStore, key string, v any) error {
	data, err := s.get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func saveJSON(s blobStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.put(key, data)
}

// typed implements the TeamDAL accessors on top of a blobStore
type typed struct {
	store blobStore
}

func (t typed) LoadTeam() (*models.TeamBuilderState, error) {
	var state models.TeamBuilderState
	if err := loadJSON(t.store, TeamBuilderKey, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (t typed) SaveTeam(state *models.TeamBuilderState) error {
	if state == nil {
		return fmt.Errorf("team state is nil")
	}
	return saveJSON(t.store, TeamBuilderKey, state)
}

func (t typed) LoadFavorites() ([]int, error) {
	var ids []int
	if err := loadJSON(t.store, FavoritesKey, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (t typed) SaveFavorites(ids []int) error {
	if ids == nil {
		ids = []int{}
	}
	return saveJSON(t.store, FavoritesKey, ids)
}

func (t typed) LoadPlayersPreferences() (*models.PlayersPreferences, error) {
	var prefs models.PlayersPreferences
	if err := loadJSON(t.store, PlayersPreferencesKey, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (t typed) SavePlayersPreferences(prefs *models.PlayersPreferences) error {
	if prefs == nil {
		return fmt.Errorf("players preferences are nil")
	}
	return saveJSON(t.store, PlayersPreferencesKey, prefs)
}
