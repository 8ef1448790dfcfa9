package model

import "time"

type MatchStatus string

const (
	StatusPending     MatchStatus = "pending"
	StatusLive        MatchStatus = "live"
	StatusFinished    MatchStatus = "finished"
	StatusSuspended   MatchStatus = "suspended"
	StatusRescheduled MatchStatus = "rescheduled"
)

type TeamSide string

const (
	TeamA TeamSide = "A"
	TeamB TeamSide = "B"
)

// Position codes as stored by the backend.
type Position string

const (
	PosCentral  Position = "CE"
	PosReceptor Position = "PR"
	PosArmador  Position = "AR"
	PosOpuesto  Position = "OP"
	PosLibero   Position = "LI"
)

type PlayerStatus string

const (
	PlayerActive    PlayerStatus = "Active"
	PlayerSuspended PlayerStatus = "Suspended"
	PlayerInjured   PlayerStatus = "Injured"
)

type PointType string

const (
	PointSpike         PointType = "spike"
	PointBlock         PointType = "block"
	PointAce           PointType = "ace"
	PointOpponentError PointType = "opponent_error"
)

type Player struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	JerseyNumber int          `json:"jersey_number"`
	Position     Position     `json:"position"`
	IsStarter    bool         `json:"is_starter"`
	Status       PlayerStatus `json:"status"`
}

type Team struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Gender  string   `json:"gender"`
	Coach   string   `json:"coach"`
	Staff   string   `json:"staff"`
	Players []Player `json:"players"`
}

type Set struct {
	SetNumber          int        `json:"set_number"`
	TeamAPoints        int        `json:"team_a_points"`
	TeamBPoints        int        `json:"team_b_points"`
	Completed          bool       `json:"completed"`
	TeamASubstitutions int        `json:"team_a_substitutions"`
	TeamBSubstitutions int        `json:"team_b_substitutions"`
	StartTime          *time.Time `json:"start_time,omitempty"`
}

// Winner compares point totals. ok is false on a tie, which a completed set
// can never report; callers must not announce a winner then.
func (s Set) Winner() (TeamSide, bool) {
	switch {
	case s.TeamAPoints > s.TeamBPoints:
		return TeamA, true
	case s.TeamBPoints > s.TeamAPoints:
		return TeamB, true
	default:
		return "", false
	}
}

type Match struct {
	ID            int         `json:"id"`
	TournamentID  int         `json:"tournament"`
	TeamA         Team        `json:"team_a"`
	TeamB         Team        `json:"team_b"`
	ScheduledDate time.Time   `json:"scheduled_date"`
	Location      string      `json:"location"`
	Latitude      *float64    `json:"latitude,omitempty"`
	Longitude     *float64    `json:"longitude,omitempty"`
	Status        MatchStatus `json:"status"`
	Sets          []Set       `json:"sets"`
	TeamASetsWon  int         `json:"team_a_sets_won"`
	TeamBSetsWon  int         `json:"team_b_sets_won"`
	TeamATimeouts int         `json:"team_a_timeouts"`
	TeamBTimeouts int         `json:"team_b_timeouts"`
}

func (m Match) Roster(side TeamSide) []Player {
	if side == TeamA {
		return m.TeamA.Players
	}
	return m.TeamB.Players
}

// Progress is the authoritative scoring view returned by the performance
// endpoint. The panel never derives these numbers locally.
type Progress struct {
	Status        MatchStatus `json:"status"`
	CurrentSet    int         `json:"current_set"`
	TeamASetsWon  int         `json:"team_a_sets_won"`
	TeamBSetsWon  int         `json:"team_b_sets_won"`
	TeamATimeouts int         `json:"team_a_timeouts"`
	TeamBTimeouts int         `json:"team_b_timeouts"`
	Sets          []Set       `json:"sets"`
}

// ActiveSet returns the set currently accepting points. At most one set is
// uncompleted at a time; server ordering guarantees it is the last one.
func (p Progress) ActiveSet() (Set, bool) {
	for _, s := range p.Sets {
		if !s.Completed {
			return s, true
		}
	}
	return Set{}, false
}

// CurrentSetData returns the set matching CurrentSet, falling back to the
// last known set when numbering is off.
func (p Progress) CurrentSetData() (Set, bool) {
	for _, s := range p.Sets {
		if s.SetNumber == p.CurrentSet {
			return s, true
		}
	}
	if len(p.Sets) > 0 {
		return p.Sets[len(p.Sets)-1], true
	}
	return Set{}, false
}

func (p Progress) TimeoutsUsed(side TeamSide) int {
	if side == TeamA {
		return p.TeamATimeouts
	}
	return p.TeamBTimeouts
}

func (p Progress) SetsWon(side TeamSide) int {
	if side == TeamA {
		return p.TeamASetsWon
	}
	return p.TeamBSetsWon
}

type Tournament struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Teams       []int      `json:"teams"`
}

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PerformanceDelta is the wire shape for scoring mutations. The same shape is
// PATCHed to add and sent with DELETE to revert; the backend subtracts the
// given (positive) amounts on revert.
type PerformanceDelta struct {
	PlayerID  int `json:"player_id"`
	SetNumber int `json:"set_number"`
	Points    int `json:"points"`
	Aces      int `json:"aces"`
	Assists   int `json:"assists"`
	Blocks    int `json:"blocks"`
}

// DeltaFor builds the performance delta for one scored point. Every point
// type counts one team point; aces and blocks also count the matching stat.
func DeltaFor(playerID, setNumber int, pt PointType) PerformanceDelta {
	d := PerformanceDelta{PlayerID: playerID, SetNumber: setNumber, Points: 1}
	switch pt {
	case PointAce:
		d.Aces = 1
	case PointBlock:
		d.Blocks = 1
	}
	return d
}

type Substitution struct {
	Team          TeamSide `json:"team"`
	PlayerIn      int      `json:"player_in"`
	PlayerOut     int      `json:"player_out"`
	PositionIndex int      `json:"position_index"`
}

func ParseTeamSide(s string) (TeamSide, bool) {
	switch s {
	case "A":
		return TeamA, true
	case "B":
		return TeamB, true
	default:
		return "", false
	}
}

func ParsePointType(s string) (PointType, bool) {
	switch PointType(s) {
	case PointSpike, PointBlock, PointAce, PointOpponentError:
		return PointType(s), true
	default:
		return "", false
	}
}
