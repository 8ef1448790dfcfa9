package control

import (
	"context"
	"errors"

	"github.com/smoralesdev/volley-panel/internal/model"
)

// Client-side guards. Any of these blocks the command before a single request
// is made; prior state is untouched.
var (
	ErrMatchNotLive      = errors.New("el partido no está en vivo")
	ErrNoPlayer          = errors.New("no se puede agregar punto sin jugador")
	ErrSetNotActive      = errors.New("no hay un set activo")
	ErrTimeoutActive     = errors.New("ya hay un tiempo fuera en curso")
	ErrTimeoutLimit      = errors.New("no quedan tiempos fuera disponibles en este set")
	ErrSubstitutionLimit = errors.New("no quedan sustituciones disponibles en este set")
	ErrNothingToRevert   = errors.New("no hay puntos para revertir en este equipo")
	ErrUnknownCommand    = errors.New("comando desconocido")
)

type CmdType string

const (
	CmdStartMatch     CmdType = "StartMatch"
	CmdEndMatch       CmdType = "EndMatch"
	CmdStartSet       CmdType = "StartSet"
	CmdEndSet         CmdType = "EndSet"
	CmdAddPoint       CmdType = "AddPoint"
	CmdRevertPoint    CmdType = "RevertPoint"
	CmdRequestTimeout CmdType = "RequestTimeout"
	CmdSubstitute     CmdType = "Substitute"
)

type Cmd struct {
	Type      CmdType
	Team      model.TeamSide
	PlayerID  int
	PointType model.PointType
	PlayerIn  int
	PlayerOut int
}

// Backend is the slice of the API gateway a control session drives. The
// concrete implementation is api.Client.
type Backend interface {
	GetMatch(ctx context.Context, id int) (model.Match, error)
	GetProgress(ctx context.Context, id int) (model.Progress, error)
	StartMatch(ctx context.Context, id int) error
	EndMatch(ctx context.Context, id int) error
	StartSet(ctx context.Context, id int) error
	EndSet(ctx context.Context, id int) error
	AddPerformance(ctx context.Context, id int, d model.PerformanceDelta) error
	RevertPerformance(ctx context.Context, id int, d model.PerformanceDelta) error
	Substitute(ctx context.Context, id int, sub model.Substitution) error
	Timeout(ctx context.Context, id int, team model.TeamSide) error
}

type Msg interface{ isSessionMsg() }

type Join struct {
	ClientID string
	Outbox   chan Snapshot
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

// FromClient carries a command plus a reply channel so the issuing client
// gets the guard or backend error, while state changes fan out as snapshots.
type FromClient struct {
	Cmd   Cmd
	Reply chan error
}

func (FromClient) isSessionMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// Internal timer fires re-enter the loop as messages so all state stays on
// the actor goroutine.
type timeoutEnded struct{ Team model.TeamSide }

func (timeoutEnded) isSessionMsg() {}

type graceEnded struct{}

func (graceEnded) isSessionMsg() {}
