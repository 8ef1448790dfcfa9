// Package hub is the registry actor mapping match IDs to live control
// sessions. Sessions are created on demand when a control client opens a
// match and shut down together with the hub.
package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/smoralesdev/volley-panel/internal/control"
)

type HubMsg interface{ isHubMsg() }

// EnsureResult carries the session or the load error back to the caller;
// opening a session fails when the match cannot be fetched.
type EnsureResult struct {
	Session *control.Session
	Err     error
}

type EnsureSession struct {
	MatchID int
	Reply   chan EnsureResult
}

type GetSession struct {
	MatchID int
	Reply   chan *control.Session
}

type RemoveSession struct {
	MatchID int
}

type ShutdownHub struct{}

func (EnsureSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox    chan HubMsg
	sessions map[int]*control.Session
	backend  control.Backend
	rules    control.Rules
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, backend control.Backend, rules control.Rules, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[int]*control.Session),
		backend:  backend,
		rules:    rules,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureSession:
				if s := h.sessions[msg.MatchID]; s != nil {
					msg.Reply <- EnsureResult{Session: s}
					break
				}
				s, err := control.NewSession(h.ctx, msg.MatchID, h.backend, h.rules, h.log)
				if err != nil {
					h.log.Warn("session open failed", zap.Int("match", msg.MatchID), zap.Error(err))
					msg.Reply <- EnsureResult{Err: err}
					break
				}
				h.sessions[msg.MatchID] = s
				msg.Reply <- EnsureResult{Session: s}

			case GetSession:
				msg.Reply <- h.sessions[msg.MatchID] // May be nil

			case RemoveSession:
				if s := h.sessions[msg.MatchID]; s != nil {
					s.Inbox() <- control.Shutdown{}
				}
				delete(h.sessions, msg.MatchID)

			case ShutdownHub:
				for _, s := range h.sessions {
					s.Inbox() <- control.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
			}
		}
	}
}
