package court

import (
	"errors"

	"github.com/smoralesdev/volley-panel/internal/model"
)

var ErrNotOnCourt = errors.New("el jugador no está en la cancha")
var ErrNotOnBench = errors.New("el jugador no está en la banca")
var ErrSamePlayer = errors.New("no se puede sustituir un jugador por sí mismo")

// SlotCount is fixed by the rules: three front, three back.
const SlotCount = 6

// Lineup is one team's on-court slots. A nil entry is an empty slot, which is
// display padding only, never a roster mutation.
type Lineup [SlotCount]*model.Player

// NewLineup places the roster's starters into the six slots in roster order,
// padding with empty slots when fewer than six starters are known and
// truncating any excess.
func NewLineup(roster []model.Player) Lineup {
	var l Lineup
	i := 0
	for _, p := range roster {
		if !p.IsStarter {
			continue
		}
		if i >= SlotCount {
			break
		}
		cp := p
		l[i] = &cp
		i++
	}
	return l
}

func (l Lineup) Contains(playerID int) bool {
	_, ok := l.Slot(playerID)
	return ok
}

// Slot returns the slot index currently occupied by the player.
func (l Lineup) Slot(playerID int) (int, bool) {
	for i, p := range l {
		if p != nil && p.ID == playerID {
			return i, true
		}
	}
	return 0, false
}

// Bench derives the players not occupying a court slot. It is recomputed from
// the roster on every use so it can never diverge from the lineup.
func Bench(roster []model.Player, l Lineup) []model.Player {
	bench := make([]model.Player, 0, len(roster))
	for _, p := range roster {
		if !l.Contains(p.ID) {
			bench = append(bench, p)
		}
	}
	return bench
}

// Substitute swaps a bench player into the slot held by a starter. The input
// lineup is not modified; callers keep it around to roll back if the backend
// rejects the substitution.
func Substitute(l Lineup, roster []model.Player, inID, outID int) (Lineup, int, error) {
	if inID == outID {
		return l, 0, ErrSamePlayer
	}
	slot, ok := l.Slot(outID)
	if !ok {
		return l, 0, ErrNotOnCourt
	}
	if l.Contains(inID) {
		return l, 0, ErrNotOnBench
	}
	var in *model.Player
	for _, p := range roster {
		if p.ID == inID {
			cp := p
			in = &cp
			break
		}
	}
	if in == nil {
		return l, 0, ErrNotOnBench
	}
	l[slot] = in
	return l, slot, nil
}

// PointEvent records one successfully posted scoring delta so that a revert
// targets the exact player and stat that scored, not an arbitrary starter.
type PointEvent struct {
	Team      model.TeamSide
	PlayerID  int
	Type      model.PointType
	SetNumber int
}

// PointLog is the per-match history of posted point events.
type PointLog struct {
	events []PointEvent
}

func (pl *PointLog) Push(e PointEvent) {
	pl.events = append(pl.events, e)
}

// PopLast removes and returns the team's most recent event.
func (pl *PointLog) PopLast(team model.TeamSide) (PointEvent, bool) {
	for i := len(pl.events) - 1; i >= 0; i-- {
		if pl.events[i].Team == team {
			e := pl.events[i]
			pl.events = append(pl.events[:i], pl.events[i+1:]...)
			return e, true
		}
	}
	return PointEvent{}, false
}

// Clear drops recorded events, used when a set closes and the backend owns
// all further corrections.
func (pl *PointLog) Clear() {
	pl.events = nil
}

func (pl *PointLog) Len() int { return len(pl.events) }
