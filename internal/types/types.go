package types

import "github.com/smoralesdev/volley-panel/internal/control"

// ClientMessage is a control command from a connected panel UI.
//
//	Type: "StartMatch" | "EndMatch" | "StartSet" | "EndSet" |
//	      "AddPoint" | "RevertPoint" | "RequestTimeout" | "Substitute"
//	Team: "A" | "B"
//	PointType: "spike" | "block" | "ace" | "opponent_error"
type ClientMessage struct {
	Type      string `json:"type"`
	Team      string `json:"team,omitempty"`
	PlayerID  int    `json:"player_id,omitempty"`
	PointType string `json:"point_type,omitempty"`
	PlayerIn  int    `json:"player_in,omitempty"`
	PlayerOut int    `json:"player_out,omitempty"`
}

type ServerMessage struct {
	Type    string             `json:"type"` // "StateSnapshot" | "Notice" | "Error"
	Version int                `json:"version,omitempty"`
	Notice  string             `json:"notice,omitempty"`
	State   *control.MatchView `json:"state,omitempty"`
	Error   string             `json:"error,omitempty"`
}
