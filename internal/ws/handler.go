package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"nhooyr.io/websocket"

	"github.com/smoralesdev/volley-panel/internal/control"
	"github.com/smoralesdev/volley-panel/internal/hub"
	"github.com/smoralesdev/volley-panel/internal/model"
	"github.com/smoralesdev/volley-panel/internal/types"
)

// Handler attaches one scoreboard/control client to a match session: commands
// in, versioned state snapshots out. The session must have been opened first
// via the HTTP surface.
func Handler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := strconv.Atoi(r.URL.Query().Get("match"))
		if err != nil {
			http.Error(w, "missing or invalid match id", http.StatusBadRequest)
			return
		}

		reply := make(chan *control.Session, 1)
		h.Inbox() <- hub.GetSession{MatchID: matchID, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "no open session for match", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan control.Snapshot, 8)
		clientID := randID(6)

		sess.Inbox() <- control.Join{ClientID: clientID, Outbox: out}
		defer func() { sess.Inbox() <- control.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				state := snap.State
				msg := types.ServerMessage{
					Type:    "StateSnapshot",
					Version: snap.Version,
					Notice:  snap.Notice,
					State:   &state,
				}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				writeError(r.Context(), conn, "unknown command")
				continue
			}

			errReply := make(chan error, 1)
			sess.Inbox() <- control.FromClient{Cmd: cmd, Reply: errReply}
			if cmdErr := <-errReply; cmdErr != nil {
				writeError(r.Context(), conn, cmdErr.Error())
			}
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: msg})
	wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}

func toCommand(m types.ClientMessage) (control.Cmd, bool) {
	needsTeam := map[string]bool{
		"AddPoint": true, "RevertPoint": true, "RequestTimeout": true, "Substitute": true,
	}
	var team model.TeamSide
	if needsTeam[m.Type] {
		t, ok := model.ParseTeamSide(m.Team)
		if !ok {
			return control.Cmd{}, false
		}
		team = t
	}

	switch m.Type {
	case "StartMatch":
		return control.Cmd{Type: control.CmdStartMatch}, true
	case "EndMatch":
		return control.Cmd{Type: control.CmdEndMatch}, true
	case "StartSet":
		return control.Cmd{Type: control.CmdStartSet}, true
	case "EndSet":
		return control.Cmd{Type: control.CmdEndSet}, true
	case "AddPoint":
		pt, ok := model.ParsePointType(m.PointType)
		if !ok {
			return control.Cmd{}, false
		}
		return control.Cmd{Type: control.CmdAddPoint, Team: team, PlayerID: m.PlayerID, PointType: pt}, true
	case "RevertPoint":
		return control.Cmd{Type: control.CmdRevertPoint, Team: team}, true
	case "RequestTimeout":
		return control.Cmd{Type: control.CmdRequestTimeout, Team: team}, true
	case "Substitute":
		return control.Cmd{Type: control.CmdSubstitute, Team: team, PlayerIn: m.PlayerIn, PlayerOut: m.PlayerOut}, true
	default:
		return control.Cmd{}, false
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
