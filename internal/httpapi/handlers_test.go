package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/smoralesdev/volley-panel/internal/api"
	"github.com/smoralesdev/volley-panel/internal/control"
	"github.com/smoralesdev/volley-panel/internal/geo"
	"github.com/smoralesdev/volley-panel/internal/hub"
	"github.com/smoralesdev/volley-panel/internal/model"
	"github.com/smoralesdev/volley-panel/internal/store"
)

// backendStub records requests and serves canned JSON per method+path.
type backendStub struct {
	mu       sync.Mutex
	requests []string
	handlers map[string]http.HandlerFunc
}

func newBackendStub() *backendStub {
	return &backendStub{handlers: map[string]http.HandlerFunc{}}
}

func (b *backendStub) on(method, path string, h http.HandlerFunc) {
	b.handlers[method+" "+path] = h
}

func (b *backendStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.requests = append(b.requests, key)
	b.mu.Unlock()
	if h, ok := b.handlers[key]; ok {
		h(w, r)
		return
	}
	http.NotFound(w, r)
}

func (b *backendStub) saw(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, got := range b.requests {
		if got == key {
			return true
		}
	}
	return false
}

func newTestRouter(t *testing.T, stub *backendStub) (http.Handler, *Deps) {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	db, err := store.Open(filepath.Join(t.TempDir(), "panel.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := zap.NewNop()
	client := api.NewClient(srv.URL, log)
	d := &Deps{
		API:   client,
		Geo:   geo.NewClient(log),
		Store: db,
		Log:   log,
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := hub.NewHub(ctx, client, control.DefaultRules(), log)
	return SetupRoutes(d, h), d
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMatchDetailRoutes(t *testing.T) {
	stub := newBackendStub()
	stub.on(http.MethodGet, "/api/matches/5/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Match{ID: 5, Location: "Caracas"})
	})
	stub.on(http.MethodPut, "/api/matches/5/", func(w http.ResponseWriter, r *http.Request) {
		var m model.Match
		json.NewDecoder(r.Body).Decode(&m)
		m.ID = 5
		json.NewEncoder(w).Encode(m)
	})
	stub.on(http.MethodDelete, "/api/matches/5/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	router, _ := newTestRouter(t, stub)

	rec := doRequest(t, router, http.MethodGet, "/api/matches/5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get match: status %d", rec.Code)
	}
	var got model.Match
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || got.Location != "Caracas" {
		t.Fatalf("get match body: %s (err %v)", rec.Body.String(), err)
	}

	rec = doRequest(t, router, http.MethodPut, "/api/matches/5", `{"location":"Valencia"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update match: status %d", rec.Code)
	}
	if !stub.saw("PUT /api/matches/5/") {
		t.Fatalf("update was not forwarded to the backend")
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/matches/5", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete match: status %d", rec.Code)
	}
	if !stub.saw("DELETE /api/matches/5/") {
		t.Fatalf("delete was not forwarded to the backend")
	}
}

func TestTeamAndPlayerDetailRoutes(t *testing.T) {
	stub := newBackendStub()
	stub.on(http.MethodGet, "/api/teams/3/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Team{ID: 3, Name: "Las Águilas"})
	})
	stub.on(http.MethodGet, "/api/players/11/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Player{ID: 11, Name: "Ana", JerseyNumber: 9})
	})
	router, _ := newTestRouter(t, stub)

	rec := doRequest(t, router, http.MethodGet, "/api/teams/3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get team: status %d", rec.Code)
	}
	var team model.Team
	if err := json.Unmarshal(rec.Body.Bytes(), &team); err != nil || team.Name != "Las Águilas" {
		t.Fatalf("get team body: %s (err %v)", rec.Body.String(), err)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/players/11", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get player: status %d", rec.Code)
	}
	var p model.Player
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil || p.JerseyNumber != 9 {
		t.Fatalf("get player body: %s (err %v)", rec.Body.String(), err)
	}
}

func TestSubmitTeam_ValidationBlocksBeforeBackend(t *testing.T) {
	stub := newBackendStub()
	router, _ := newTestRouter(t, stub)

	team := model.Team{Name: "Corto"}
	for i := 1; i <= 5; i++ {
		team.Players = append(team.Players, model.Player{
			Name: "J", JerseyNumber: i, Position: model.PosCentral, IsStarter: true,
		})
	}
	payload, _ := json.Marshal(team)

	rec := doRequest(t, router, http.MethodPost, "/api/teams", string(payload))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "el equipo debe tener al menos 6 jugadores") {
		t.Fatalf("expected the roster rule message, got %s", rec.Body.String())
	}
	if stub.saw("POST /api/teams/") {
		t.Fatalf("invalid team must not reach the backend")
	}
}

func TestMatchWeather_StoredEnrichmentPassesThrough(t *testing.T) {
	stub := newBackendStub()
	stub.on(http.MethodGet, "/api/matches/5/weather/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"temperature": 28.0, "condition": "Clear"})
	})
	router, _ := newTestRouter(t, stub)

	rec := doRequest(t, router, http.MethodGet, "/api/matches/5/weather", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Clear") {
		t.Fatalf("expected stored weather, got %s", rec.Body.String())
	}
}

func TestMatchWeather_FallsBackToForecastService(t *testing.T) {
	lat, lon := 10.48, -66.9
	stub := newBackendStub()
	// no stored enrichment for this match
	stub.on(http.MethodGet, "/api/matches/5/weather/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no weather stored"})
	})
	stub.on(http.MethodGet, "/api/matches/5/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":             5,
			"scheduled_date": "2025-07-12T14:00:00Z",
			"latitude":       lat,
			"longitude":      lon,
		})
	})

	temps := make([]float64, 24)
	codes := make([]int, 24)
	temps[14] = 30.5
	codes[14] = 2
	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"hourly": map[string]any{
				"temperature_2m": temps,
				"weathercode":    codes,
			},
		})
	}))
	defer forecast.Close()

	router, d := newTestRouter(t, stub)
	d.Geo.ForecastURL = forecast.URL

	rec := doRequest(t, router, http.MethodGet, "/api/matches/5/weather", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var got geo.Weather
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode weather: %v", err)
	}
	if got.Temperature != 30.5 || got.Condition != "Clear" {
		t.Fatalf("unexpected forecast: %+v", got)
	}
}

func TestMatchWeather_NoCoordinates(t *testing.T) {
	stub := newBackendStub()
	stub.on(http.MethodGet, "/api/matches/5/weather/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	stub.on(http.MethodGet, "/api/matches/5/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Match{ID: 5, Location: "Caracas"})
	})
	router, _ := newTestRouter(t, stub)

	rec := doRequest(t, router, http.MethodGet, "/api/matches/5/weather", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "el partido no tiene ubicación") {
		t.Fatalf("expected missing-location message, got %s", rec.Body.String())
	}
}
