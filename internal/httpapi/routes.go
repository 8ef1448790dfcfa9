package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smoralesdev/volley-panel/internal/hub"
	"github.com/smoralesdev/volley-panel/internal/ws"
)

func SetupRoutes(d *Deps, h *hub.Hub) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)

	r.Post("/api/login", Login(d))
	r.Post("/api/register", Register(d))
	r.Post("/api/logout", Logout(d))

	r.Get("/api/teams", ListTeams(d))
	r.Post("/api/teams", SubmitTeam(d))
	r.Get("/api/teams/{id}", GetTeam(d))
	r.Put("/api/teams/{id}", UpdateTeam(d))
	r.Delete("/api/teams/{id}", DeleteTeam(d))
	r.Get("/api/players/{id}", GetPlayer(d))
	r.Delete("/api/players/{id}", DeletePlayer(d))

	r.Get("/api/tournaments", ListTournaments(d))
	r.Post("/api/tournaments", SubmitTournament(d))
	r.Put("/api/tournaments/{id}", UpdateTournament(d))
	r.Delete("/api/tournaments/{id}", DeleteTournament(d))

	r.Get("/api/matches", ListMatches(d))
	r.Post("/api/matches", CreateMatch(d))
	r.Get("/api/matches/{id}", GetMatch(d))
	r.Put("/api/matches/{id}", UpdateMatch(d))
	r.Delete("/api/matches/{id}", DeleteMatch(d))
	r.Get("/api/matches/{id}/weather", MatchWeather(d))

	r.Get("/api/locations", SearchLocations(d))

	r.Post("/control/{id}", OpenControl(d, h))
	r.Get("/ws", ws.Handler(h))

	return r
}
