// Package roster validates team and tournament forms before any request is
// made. Each rule has its own user-facing message so the UI can point at the
// exact field, never a generic error.
package roster

import (
	"errors"

	"github.com/smoralesdev/volley-panel/internal/model"
)

const (
	MinPlayers   = 6
	MaxPlayers   = 14
	StarterCount = 6
)

var (
	ErrTeamNameRequired   = errors.New("el nombre del equipo es obligatorio")
	ErrTooFewPlayers      = errors.New("el equipo debe tener al menos 6 jugadores")
	ErrTooManyPlayers     = errors.New("el equipo no puede tener más de 14 jugadores")
	ErrPlayerNameRequired = errors.New("cada jugador debe tener nombre")
	ErrJerseyRequired     = errors.New("cada jugador debe tener número de camiseta")
	ErrJerseyDuplicate    = errors.New("los números de camiseta deben ser únicos dentro del equipo")
	ErrStarterCount       = errors.New("el equipo debe tener exactamente 6 titulares")
	ErrStarterPosition    = errors.New("todo titular debe tener una posición asignada")
)

var (
	ErrTournamentNameRequired = errors.New("el nombre del torneo es obligatorio")
	ErrStartDateRequired      = errors.New("la fecha de inicio es obligatoria")
	ErrEndDateRequired        = errors.New("la fecha de fin es obligatoria")
	ErrEndBeforeStart         = errors.New("la fecha de fin no puede ser anterior a la de inicio")
)

// ValidateTeam enforces the roster invariants. It returns the first violated
// rule; a nil result means the team may be submitted.
func ValidateTeam(t model.Team) error {
	if t.Name == "" {
		return ErrTeamNameRequired
	}
	if len(t.Players) < MinPlayers {
		return ErrTooFewPlayers
	}
	if len(t.Players) > MaxPlayers {
		return ErrTooManyPlayers
	}
	seen := make(map[int]bool, len(t.Players))
	starters := 0
	for _, p := range t.Players {
		if p.Name == "" {
			return ErrPlayerNameRequired
		}
		if p.JerseyNumber <= 0 {
			return ErrJerseyRequired
		}
		if seen[p.JerseyNumber] {
			return ErrJerseyDuplicate
		}
		seen[p.JerseyNumber] = true
		if p.IsStarter {
			starters++
			if p.Position == "" {
				return ErrStarterPosition
			}
		}
	}
	if starters != StarterCount {
		return ErrStarterCount
	}
	return nil
}

func ValidateTournament(t model.Tournament) error {
	if t.Name == "" {
		return ErrTournamentNameRequired
	}
	if t.StartDate == nil {
		return ErrStartDateRequired
	}
	if t.EndDate == nil {
		return ErrEndDateRequired
	}
	if t.EndDate.Before(*t.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

// IsValidationError reports whether err is one of the form rules above, i.e.
// an error that must block submission without any network call.
func IsValidationError(err error) bool {
	for _, rule := range []error{
		ErrTeamNameRequired, ErrTooFewPlayers, ErrTooManyPlayers,
		ErrPlayerNameRequired, ErrJerseyRequired, ErrJerseyDuplicate,
		ErrStarterCount, ErrStarterPosition,
		ErrTournamentNameRequired, ErrStartDateRequired,
		ErrEndDateRequired, ErrEndBeforeStart,
	} {
		if errors.Is(err, rule) {
			return true
		}
	}
	return false
}
