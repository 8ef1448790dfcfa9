package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/smoralesdev/volley-panel/internal/api"
	"github.com/smoralesdev/volley-panel/internal/geo"
	"github.com/smoralesdev/volley-panel/internal/hub"
	"github.com/smoralesdev/volley-panel/internal/model"
	"github.com/smoralesdev/volley-panel/internal/roster"
	"github.com/smoralesdev/volley-panel/internal/store"
)

type Deps struct {
	API   *api.Client
	Geo   *geo.Client
	Store *store.Store
	Log   *zap.Logger
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func Login(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeError(d, w, http.StatusBadRequest, errors.New("bad json"))
			return
		}
		res, err := d.API.Login(r.Context(), creds)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		if err := d.Store.SaveSession(store.Session{Token: res.Token, User: res.User}); err != nil {
			d.Log.Warn("persist session failed", zap.Error(err))
		}
		writeJSON(w, http.StatusOK, res.User)
	}
}

func Register(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg api.Registration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			writeError(d, w, http.StatusBadRequest, errors.New("bad json"))
			return
		}
		res, err := d.API.Register(r.Context(), reg)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res.User)
	}
}

func Logout(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Best effort server-side; the local session goes away regardless.
		if err := d.API.Logout(r.Context()); err != nil {
			d.Log.Info("backend logout failed", zap.Error(err))
		}
		if err := d.Store.ClearSession(); err != nil {
			d.Log.Warn("clear session failed", zap.Error(err))
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SubmitTeam validates the roster before any request leaves the panel; a rule
// violation answers immediately with that rule's message.
func SubmitTeam(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var team model.Team
		if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
			writeError(d, w, http.StatusBadRequest, errors.New("bad json"))
			return
		}
		if err := roster.ValidateTeam(team); err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		created, err := d.API.CreateTeam(r.Context(), team)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateTeam(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		var team model.Team
		if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
			writeError(d, w, http.StatusBadRequest, errors.New("bad json"))
			return
		}
		if err := roster.ValidateTeam(team); err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		updated, err := d.API.UpdateTeam(r.Context(), id, team)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func ListTeams(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := d.API.ListTeams(r.Context(), r.URL.Query())
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, teams)
	}
}

func DeleteTeam(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		if err := d.API.DeleteTeam(r.Context(), id); err != nil {
			d.writeAPIError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func GetTeam(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		team, err := d.API.GetTeam(r.Context(), id)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, team)
	}
}

func GetPlayer(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		p, err := d.API.GetPlayer(r.Context(), id)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func DeletePlayer(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		if err := d.API.DeletePlayer(r.Context(), id); err != nil {
			d.writeAPIError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func SubmitTournament(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t model.Tournament
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(d, w, http.StatusBadRequest, errors.New("bad json"))
			return
		}
		if err := roster.ValidateTournament(t); err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		created, err := d.API.CreateTournament(r.Context(), t)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateTournament(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		var t model.Tournament
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(d, w, http.StatusBadRequest, errors.New("bad json"))
			return
		}
		if err := roster.ValidateTournament(t); err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		updated, err := d.API.UpdateTournament(r.Context(), id, t)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func ListTournaments(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := d.API.ListTournaments(r.Context(), r.URL.Query())
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ts)
	}
}

func DeleteTournament(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		if err := d.API.DeleteTournament(r.Context(), id); err != nil {
			d.writeAPIError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ListMatches(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := d.API.ListMatches(r.Context(), r.URL.Query())
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func CreateMatch(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m model.Match
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			writeError(d, w, http.StatusBadRequest, errors.New("bad json"))
			return
		}
		created, err := d.API.CreateMatch(r.Context(), m)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetMatch(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		m, err := d.API.GetMatch(r.Context(), id)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func UpdateMatch(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		var m model.Match
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			writeError(d, w, http.StatusBadRequest, errors.New("bad json"))
			return
		}
		updated, err := d.API.UpdateMatch(r.Context(), id, m)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteMatch(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		if err := d.API.DeleteMatch(r.Context(), id); err != nil {
			d.writeAPIError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MatchWeather serves the backend's stored enrichment when it has one, and
// otherwise asks the forecast service directly using the match coordinates.
func MatchWeather(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		info, err := d.API.MatchWeather(r.Context(), id)
		if err == nil {
			writeJSON(w, http.StatusOK, info)
			return
		}
		var se *api.StatusError
		if !errors.As(err, &se) || se.Code != http.StatusNotFound {
			d.writeAPIError(w, err)
			return
		}

		m, err := d.API.GetMatch(r.Context(), id)
		if err != nil {
			d.writeAPIError(w, err)
			return
		}
		if m.Latitude == nil || m.Longitude == nil {
			writeError(d, w, http.StatusNotFound, errors.New("el partido no tiene ubicación"))
			return
		}
		weather, err := d.Geo.Forecast(r.Context(), *m.Latitude, *m.Longitude, m.ScheduledDate)
		if err != nil {
			d.Log.Warn("forecast failed", zap.Int("match", id), zap.Error(err))
			writeError(d, w, http.StatusBadGateway, errors.New("pronóstico no disponible"))
			return
		}
		writeJSON(w, http.StatusOK, weather)
	}
}

// SearchLocations is the autocomplete for the match form, served by the
// third-party geocoder rather than the backend.
func SearchLocations(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			writeJSON(w, http.StatusOK, []geo.Location{})
			return
		}
		locations, err := d.Geo.SearchLocations(r.Context(), query)
		if err != nil {
			d.Log.Warn("geocoding failed", zap.String("query", query), zap.Error(err))
			writeError(d, w, http.StatusBadGateway, errors.New("geocoding unavailable"))
			return
		}
		writeJSON(w, http.StatusOK, locations)
	}
}

// OpenControl creates (or reuses) the control session for a match so that
// scoreboard clients can attach over the websocket.
func OpenControl(d *Deps, h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(d, w, http.StatusBadRequest, err)
			return
		}
		reply := make(chan hub.EnsureResult, 1)
		h.Inbox() <- hub.EnsureSession{MatchID: id, Reply: reply}
		res := <-reply
		if res.Err != nil {
			d.writeAPIError(w, res.Err)
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			MatchID int `json:"match_id"`
		}{MatchID: res.Session.MatchID()})
	}
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(d *Deps, w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}

// writeAPIError maps the gateway error taxonomy onto HTTP answers. A 401
// forces logout: the stored session is dropped before replying.
func (d *Deps) writeAPIError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		if clearErr := d.Store.ClearSession(); clearErr != nil {
			d.Log.Warn("clear session failed", zap.Error(clearErr))
		}
		d.API.ClearToken()
		writeError(d, w, http.StatusUnauthorized, errors.New("sesión expirada"))
	default:
		var se *api.StatusError
		var ne *api.NetworkError
		switch {
		case errors.As(err, &se):
			writeError(d, w, se.Code, errors.New(se.Message))
		case errors.As(err, &ne):
			writeError(d, w, http.StatusBadGateway, errors.New("backend no disponible"))
		default:
			writeError(d, w, http.StatusInternalServerError, err)
		}
	}
}
