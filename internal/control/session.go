// Package control hosts one actor per live match: the orchestrator of the
// match/set lifecycle. Every mutation goes to the backend first; on success
// the authoritative state is refetched in full. The one exception is
// substitution, which applies locally for responsiveness and rolls back if
// the backend rejects it.
package control

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/smoralesdev/volley-panel/internal/clock"
	"github.com/smoralesdev/volley-panel/internal/court"
	"github.com/smoralesdev/volley-panel/internal/model"
)

const (
	MaxTimeoutsPerSet      = 2
	MaxSubstitutionsPerSet = 6
	SetsToWinMatch         = 3
)

// Rules carries the timer lengths so tests can shrink them.
type Rules struct {
	TimeoutDuration time.Duration
	SetGracePeriod  time.Duration
	CallTimeout     time.Duration
}

func DefaultRules() Rules {
	return Rules{
		TimeoutDuration: 30 * time.Second,
		SetGracePeriod:  2 * time.Second,
		CallTimeout:     10 * time.Second,
	}
}

type teamState struct {
	lineup    court.Lineup
	confirmed court.Lineup
	timeout   *clock.Countdown
}

type Session struct {
	inbox   chan Msg
	matchID int
	backend Backend
	rules   Rules
	log     *zap.Logger

	match    model.Match
	progress model.Progress
	teamA    teamState
	teamB    teamState
	points   court.PointLog
	setClock *clock.Stopwatch
	grace    *clock.Countdown

	// transitioning is set while the set-complete grace window runs, so a
	// refetch during the window cannot retrigger it.
	transitioning bool
	// lastActiveSet is the set number that was accepting points at the
	// previous refetch; completion is detected when that set comes back
	// with its completed flag flipped.
	lastActiveSet int

	version int
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewSession fetches the match once and starts the actor loop. The fetched
// state is a mirror; it is discarded and rebuilt on every refetch.
func NewSession(parent context.Context, matchID int, backend Backend, rules Rules, log *zap.Logger) (*Session, error) {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:    make(chan Msg, 64),
		matchID:  matchID,
		backend:  backend,
		rules:    rules,
		log:      log,
		teamA:    teamState{timeout: clock.NewCountdown()},
		teamB:    teamState{timeout: clock.NewCountdown()},
		setClock: clock.NewStopwatch(),
		grace:    clock.NewCountdown(),
		clients:  make(map[string]chan Snapshot),
		ctx:      ctx,
		cancel:   cancel,
	}
	if err := s.refresh(); err != nil {
		cancel()
		return nil, fmt.Errorf("load match %d: %w", matchID, err)
	}
	go s.loop()
	return s, nil
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) MatchID() int { return s.matchID }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: s.version, State: s.view()}

			case Leave:
				// Close so the client's writer loop terminates. The entry may
				// already be gone if a full outbox got the client dropped.
				if ch, ok := s.clients[msg.ClientID]; ok {
					close(ch)
					delete(s.clients, msg.ClientID)
				}

			case FromClient:
				err := s.handle(msg.Cmd)
				if err != nil {
					s.log.Info("command rejected",
						zap.Int("match", s.matchID),
						zap.String("cmd", string(msg.Cmd.Type)),
						zap.Error(err))
				}
				if msg.Reply != nil {
					msg.Reply <- err
				}

			case timeoutEnded:
				s.broadcast("tiempo fuera finalizado")

			case graceEnded:
				s.finishSetTransition()

			case GetView:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.view(),
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handle(cmd Cmd) error {
	switch cmd.Type {
	case CmdStartMatch:
		return s.startMatch()
	case CmdEndMatch:
		return s.endMatch()
	case CmdStartSet:
		return s.startSet()
	case CmdEndSet:
		return s.endSet()
	case CmdAddPoint:
		return s.addPoint(cmd.Team, cmd.PlayerID, cmd.PointType)
	case CmdRevertPoint:
		return s.revertPoint(cmd.Team)
	case CmdRequestTimeout:
		return s.requestTimeout(cmd.Team)
	case CmdSubstitute:
		return s.substitute(cmd.Team, cmd.PlayerIn, cmd.PlayerOut)
	default:
		return ErrUnknownCommand
	}
}

func (s *Session) startMatch() error {
	ctx, cancel := s.callCtx()
	defer cancel()
	// The backend enforces the six-starters rule; a rejection leaves local
	// state untouched.
	if err := s.backend.StartMatch(ctx, s.matchID); err != nil {
		return err
	}
	if err := s.refresh(); err != nil {
		return err
	}
	s.setClock.Start(time.Now())
	s.broadcast("partido iniciado")
	return nil
}

func (s *Session) endMatch() error {
	ctx, cancel := s.callCtx()
	defer cancel()
	if err := s.backend.EndMatch(ctx, s.matchID); err != nil {
		return err
	}
	s.teamA.timeout.Stop()
	s.teamB.timeout.Stop()
	s.setClock.Reset()
	s.points.Clear()
	if err := s.refresh(); err != nil {
		return err
	}
	s.broadcast("partido finalizado")
	return nil
}

func (s *Session) startSet() error {
	if s.progress.Status != model.StatusLive {
		return ErrMatchNotLive
	}
	ctx, cancel := s.callCtx()
	defer cancel()
	if err := s.backend.StartSet(ctx, s.matchID); err != nil {
		return err
	}
	if err := s.refresh(); err != nil {
		return err
	}
	s.setClock.Start(time.Now())
	s.broadcast("")
	return nil
}

func (s *Session) endSet() error {
	if s.progress.Status != model.StatusLive {
		return ErrMatchNotLive
	}
	ctx, cancel := s.callCtx()
	defer cancel()
	if err := s.backend.EndSet(ctx, s.matchID); err != nil {
		return err
	}
	if err := s.refresh(); err != nil {
		return err
	}
	s.broadcast("")
	return nil
}

func (s *Session) addPoint(team model.TeamSide, playerID int, pt model.PointType) error {
	if playerID == 0 {
		return ErrNoPlayer
	}
	if s.progress.Status != model.StatusLive {
		return ErrMatchNotLive
	}
	if !s.team(team).lineup.Contains(playerID) {
		return court.ErrNotOnCourt
	}
	if _, ok := s.progress.ActiveSet(); !ok {
		return ErrSetNotActive
	}

	delta := model.DeltaFor(playerID, s.progress.CurrentSet, pt)
	ctx, cancel := s.callCtx()
	defer cancel()
	if err := s.backend.AddPerformance(ctx, s.matchID, delta); err != nil {
		return err
	}
	s.points.Push(court.PointEvent{
		Team:      team,
		PlayerID:  playerID,
		Type:      pt,
		SetNumber: delta.SetNumber,
	})
	if err := s.refresh(); err != nil {
		return err
	}
	s.broadcast("")
	return nil
}

// revertPoint undoes the team's most recent recorded point event. The event
// log identifies the exact scorer, so the inverse delta hits the same player
// and stat the original did.
func (s *Session) revertPoint(team model.TeamSide) error {
	if s.progress.Status != model.StatusLive {
		return ErrMatchNotLive
	}
	ev, ok := s.points.PopLast(team)
	if !ok {
		return ErrNothingToRevert
	}

	delta := model.DeltaFor(ev.PlayerID, ev.SetNumber, ev.Type)
	ctx, cancel := s.callCtx()
	defer cancel()
	if err := s.backend.RevertPerformance(ctx, s.matchID, delta); err != nil {
		// The event was not undone server-side; keep it replayable.
		s.points.Push(ev)
		return err
	}
	if err := s.refresh(); err != nil {
		return err
	}
	s.broadcast("")
	return nil
}

func (s *Session) requestTimeout(team model.TeamSide) error {
	if s.progress.Status != model.StatusLive {
		return ErrMatchNotLive
	}
	ts := s.team(team)
	if ts.timeout.Active() {
		return ErrTimeoutActive
	}
	if s.progress.TimeoutsUsed(team) >= MaxTimeoutsPerSet {
		return ErrTimeoutLimit
	}

	ctx, cancel := s.callCtx()
	defer cancel()
	if err := s.backend.Timeout(ctx, s.matchID, team); err != nil {
		return err
	}
	ts.timeout.Start(s.rules.TimeoutDuration, func() {
		select {
		case s.inbox <- timeoutEnded{Team: team}:
		case <-s.ctx.Done():
		}
	})
	if err := s.refresh(); err != nil {
		return err
	}
	s.broadcast("tiempo fuera iniciado")
	return nil
}

// substitute applies the swap locally first so the court reacts immediately,
// then confirms with the backend and rolls back on failure. Substitution is
// the only optimistic mutation in the panel.
func (s *Session) substitute(team model.TeamSide, playerIn, playerOut int) error {
	if s.progress.Status != model.StatusLive {
		return ErrMatchNotLive
	}
	if s.substitutionsUsed(team) >= MaxSubstitutionsPerSet {
		return ErrSubstitutionLimit
	}
	ts := s.team(team)
	roster := s.match.Roster(team)
	next, slot, err := court.Substitute(ts.lineup, roster, playerIn, playerOut)
	if err != nil {
		return err
	}
	ts.lineup = next
	s.broadcast("")

	ctx, cancel := s.callCtx()
	defer cancel()
	err = s.backend.Substitute(ctx, s.matchID, model.Substitution{
		Team:          team,
		PlayerIn:      playerIn,
		PlayerOut:     playerOut,
		PositionIndex: slot,
	})
	if err != nil {
		ts.lineup = ts.confirmed
		s.broadcast("cambio rechazado")
		return err
	}
	if err := s.refresh(); err != nil {
		return err
	}
	s.broadcast("cambio realizado")
	return nil
}

// refresh replaces the local mirror with the backend's authoritative state
// and arms the set-complete grace window when the active set just closed.
func (s *Session) refresh() error {
	ctx, cancel := s.callCtx()
	defer cancel()

	match, err := s.backend.GetMatch(ctx, s.matchID)
	if err != nil {
		return err
	}
	progress, err := s.backend.GetProgress(ctx, s.matchID)
	if err != nil {
		return err
	}

	s.match = match
	s.progress = progress
	s.teamA.lineup = court.NewLineup(match.TeamA.Players)
	s.teamA.confirmed = s.teamA.lineup
	s.teamB.lineup = court.NewLineup(match.TeamB.Players)
	s.teamB.confirmed = s.teamB.lineup

	active, hasActive := progress.ActiveSet()
	if progress.Status == model.StatusLive && hasActive {
		if active.StartTime != nil && !s.setClock.Running() {
			s.setClock.Start(*active.StartTime)
		}
	} else {
		s.setClock.Reset()
	}

	if s.lastActiveSet != 0 && !s.transitioning && progress.Status == model.StatusLive {
		for _, set := range progress.Sets {
			if set.SetNumber == s.lastActiveSet && set.Completed {
				s.announceSetWinner(set)
				break
			}
		}
	}
	if hasActive {
		s.lastActiveSet = active.SetNumber
	} else if !s.transitioning {
		s.lastActiveSet = 0
	}
	return nil
}

func (s *Session) announceSetWinner(set model.Set) {
	side, ok := set.Winner()
	if !ok {
		s.log.Warn("completed set has no winner",
			zap.Int("match", s.matchID), zap.Int("set", set.SetNumber))
		return
	}
	s.transitioning = true
	s.setClock.Reset()
	// a completed set's scores are immutable from the panel's side
	s.points.Clear()
	winner := s.match.TeamA.Name
	if side == model.TeamB {
		winner = s.match.TeamB.Name
	}
	notice := fmt.Sprintf("¡%s ha ganado el Set %d! (%d-%d)",
		winner, set.SetNumber, set.TeamAPoints, set.TeamBPoints)
	s.broadcast(notice)
	s.grace.Start(s.rules.SetGracePeriod, func() {
		select {
		case s.inbox <- graceEnded{}:
		case <-s.ctx.Done():
		}
	})
}

// finishSetTransition runs after the grace window: end the match when a team
// reached three sets, otherwise pick up the next set the backend opened.
func (s *Session) finishSetTransition() {
	s.transitioning = false
	if s.progress.TeamASetsWon >= SetsToWinMatch || s.progress.TeamBSetsWon >= SetsToWinMatch {
		if err := s.endMatch(); err != nil {
			s.log.Warn("auto end match failed", zap.Int("match", s.matchID), zap.Error(err))
		}
		return
	}
	if err := s.refresh(); err != nil {
		s.log.Warn("refresh after set failed", zap.Int("match", s.matchID), zap.Error(err))
		return
	}
	s.broadcast("")
}

func (s *Session) substitutionsUsed(team model.TeamSide) int {
	active, ok := s.progress.ActiveSet()
	if !ok {
		return 0
	}
	if team == model.TeamA {
		return active.TeamASubstitutions
	}
	return active.TeamBSubstitutions
}

func (s *Session) team(side model.TeamSide) *teamState {
	if side == model.TeamA {
		return &s.teamA
	}
	return &s.teamB
}

func (s *Session) view() MatchView {
	points := func(side model.TeamSide) int {
		set, ok := s.progress.CurrentSetData()
		if !ok {
			return 0
		}
		if side == model.TeamA {
			return set.TeamAPoints
		}
		return set.TeamBPoints
	}
	teamView := func(side model.TeamSide, t model.Team, ts *teamState) TeamView {
		return TeamView{
			Name:             t.Name,
			SetsWon:          s.progress.SetsWon(side),
			Points:           points(side),
			TimeoutsUsed:     s.progress.TimeoutsUsed(side),
			TimeoutRemaining: int(ts.timeout.Remaining().Seconds()),
			// Copy the slots: snapshots outlive the actor loop iteration that
			// built them, so they must not alias the live lineup array.
			Lineup: append([]*model.Player(nil), ts.lineup[:]...),
			Bench:  court.Bench(t.Players, ts.lineup),
		}
	}
	_, setStarted := s.progress.ActiveSet()
	return MatchView{
		MatchID:    s.matchID,
		Status:     s.progress.Status,
		CurrentSet: s.progress.CurrentSet,
		SetStarted: setStarted,
		SetElapsed: int(s.setClock.Elapsed().Seconds()),
		TeamA:      teamView(model.TeamA, s.match.TeamA, &s.teamA),
		TeamB:      teamView(model.TeamB, s.match.TeamB, &s.teamB),
		Sets:       s.progress.Sets,
	}
}

func (s *Session) broadcast(notice string) {
	s.version++
	snap := Snapshot{Version: s.version, Notice: notice, State: s.view()}
	for id, ch := range s.clients {
		select {
		case ch <- snap:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
		}
	}
}

func (s *Session) shutdown() {
	s.teamA.timeout.Stop()
	s.teamB.timeout.Stop()
	s.grace.Stop()
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Session) callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, s.rules.CallTimeout)
}
