package fuzz

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Billy-Davies-2/inazuma-guide/internal/dal"
	"github.com/Billy-Davies-2/inazuma-guide/internal/dataset"
	"github.com/Billy-Davies-2/inazuma-guide/internal/handlers"
	"github.com/Billy-Davies-2/inazuma-guide/internal/logger"
	"github.com/Billy-Davies-2/inazuma-guide/internal/pubsub"
	"github.com/Billy-Davies-2/inazuma-guide/internal/share"
	"github.com/Billy-Davies-2/inazuma-guide/internal/slots"
	"github.com/Billy-Davies-2/inazuma-guide/internal/stats"
	"github.com/Billy-Davies-2/inazuma-guide/internal/teambuilder"
)

func init() {
	// Initialize logger for tests
	logger.Init("error")
}

type fixture struct {
	store *teambuilder.Store
	mux   *http.ServeMux
}

func newFixture(t *testing.T) fixture {
	catalog, err := dataset.Default()
	if err != nil {
		t.Fatalf("dataset.Default failed: %v", err)
	}
	ps := pubsub.New()
	store := teambuilder.NewStore(dal.NewMemoryDAL(), ps)
	mux := http.NewServeMux()
	handlers.NewAPIHandlers(store, catalog, ps, "http://localhost/team-builder").Register(mux)
	return fixture{store: store, mux: mux}
}

func (f fixture) post(target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func assertNoServerError(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code >= http.StatusInternalServerError {
		t.Fatalf("unexpected %d: %s", w.Code, w.Body.String())
	}
}

// FuzzHTTPAssign fuzzes the HTTP assign endpoint
func FuzzHTTPAssign(f *testing.F) {
	// Seed corpus with valid examples
	f.Add(`{"slotId":"delta-fw-center","playerId":42}`)
	f.Add(`{"slotId":"manager-slot","playerId":1}`)
	f.Add(`{"slotId":"nowhere","playerId":-1}`)
	f.Add(`{"slotId":42}`)

	f.Fuzz(func(t *testing.T, data string) {
		fx := newFixture(t)
		assertNoServerError(t, fx.post("/api/team/assign", data))
	})
}

// FuzzHTTPSlotConfig fuzzes slot configuration merges
func FuzzHTTPSlotConfig(f *testing.F) {
	// Seed corpus
	f.Add(`{"slotId":"delta-fw-center","rarity":"legendary","beans":[{"attribute":"kick","value":150}]}`)
	f.Add(`{"slotId":"reserve-1","equipments":{"boots":"boots-gale"}}`)
	f.Add(`{"slotId":"coordinator-1","beans":[{"attribute":"speed","value":1e308}]}`)
	f.Add(`{"slotId":"delta-gk","rarity":""}`)

	f.Fuzz(func(t *testing.T, data string) {
		fx := newFixture(t)
		assertNoServerError(t, fx.post("/api/team/slot-config", data))

		// Whatever got stored must stay inside the bean bounds
		for id, cfg := range fx.store.State().SlotConfigs {
			for _, bean := range cfg.Beans {
				if bean.Value < 0 || bean.Value > stats.MaxBeanPoints {
					t.Fatalf("slot %s holds out-of-range bean %+v", id, bean)
				}
			}
		}
	})
}

// FuzzHTTPSlotPassives fuzzes passive updates
func FuzzHTTPSlotPassives(f *testing.F) {
	// Seed corpus
	f.Add(`{"slotId":"delta-fw-center","passives":{"presets":[{"passiveId":"speed","value":12.5}],"custom":{"passiveId":"x","value":-4}}}`)
	f.Add(`{"slotId":"delta-gk","passives":{}}`)
	f.Add(`{"passives":null}`)

	f.Fuzz(func(t *testing.T, data string) {
		fx := newFixture(t)
		assertNoServerError(t, fx.post("/api/team/slot-passives", data))
	})
}

// FuzzHTTPImport fuzzes share code imports
func FuzzHTTPImport(f *testing.F) {
	// Seed corpus
	f.Add(`{"code":"not-a-valid-payload"}`)
	f.Add(`{"code":""}`)
	if code, err := share.Encode(teambuilder.DefaultState()); err == nil {
		f.Add(`{"code":"` + code + `"}`)
	}

	f.Fuzz(func(t *testing.T, data string) {
		fx := newFixture(t)
		before := fx.store.State()

		w := fx.post("/api/team/import", data)
		assertNoServerError(t, w)
		if w.Code != http.StatusOK && !cmp.Equal(before, fx.store.State(), cmpopts.EquateEmpty()) {
			t.Fatalf("rejected import changed the team")
		}
	})
}

// FuzzHTTPFormation fuzzes formation changes
func FuzzHTTPFormation(f *testing.F) {
	// Seed corpus
	f.Add(`{"formationId":"451-balanced"}`)
	f.Add(`{"formationId":""}`)
	f.Add(`{"formationId":"does-not-exist"}`)

	f.Fuzz(func(t *testing.T, data string) {
		fx := newFixture(t)
		w := fx.post("/api/team/formation", data)
		assertNoServerError(t, w)
		if w.Code != http.StatusOK {
			return
		}
		state := fx.store.State()
		if _, ok := state.Assignments[slots.ManagerSlotID]; !ok {
			t.Fatalf("formation change lost the auxiliary slots: %v", state.Assignments)
		}
	})
}
