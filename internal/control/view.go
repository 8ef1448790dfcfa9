package control

import (
	"github.com/smoralesdev/volley-panel/internal/model"
)

// TeamView is one team's side of the panel: fixed six court slots, derived
// bench, authoritative counters.
type TeamView struct {
	Name             string          `json:"name"`
	SetsWon          int             `json:"sets_won"`
	Points           int             `json:"points"`
	TimeoutsUsed     int             `json:"timeouts_used"`
	TimeoutRemaining int             `json:"timeout_remaining_sec"`
	Lineup           []*model.Player `json:"lineup"`
	Bench            []model.Player  `json:"bench"`
}

// MatchView is the full snapshot state pushed to connected scoreboards.
type MatchView struct {
	MatchID    int               `json:"match_id"`
	Status     model.MatchStatus `json:"status"`
	CurrentSet int               `json:"current_set"`
	SetStarted bool              `json:"set_started"`
	SetElapsed int               `json:"set_elapsed_sec"`
	TeamA      TeamView          `json:"team_a"`
	TeamB      TeamView          `json:"team_b"`
	Sets       []model.Set       `json:"sets"`
}

type Snapshot struct {
	Version int
	Notice  string
	State   MatchView
}

// View is the test-only reflection of session internals.
type View struct {
	Version    int
	NumClients int
	State      MatchView
}
