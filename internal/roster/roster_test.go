package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smoralesdev/volley-panel/internal/model"
)

func validTeam() model.Team {
	t := model.Team{Name: "Las Águilas"}
	for i := 1; i <= 8; i++ {
		t.Players = append(t.Players, model.Player{
			Name:         "Jugadora",
			JerseyNumber: i,
			Position:     model.PosCentral,
			IsStarter:    i <= 6,
		})
	}
	return t
}

func TestValidateTeam(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*model.Team)
		wantErr error
	}{
		{
			name:   "valid team passes",
			mutate: func(*model.Team) {},
		},
		{
			name:    "missing name",
			mutate:  func(tm *model.Team) { tm.Name = "" },
			wantErr: ErrTeamNameRequired,
		},
		{
			name:    "five players",
			mutate:  func(tm *model.Team) { tm.Players = tm.Players[:5] },
			wantErr: ErrTooFewPlayers,
		},
		{
			name: "fifteen players",
			mutate: func(tm *model.Team) {
				for i := 9; i <= 15; i++ {
					tm.Players = append(tm.Players, model.Player{Name: "J", JerseyNumber: i})
				}
			},
			wantErr: ErrTooManyPlayers,
		},
		{
			name:    "player without name",
			mutate:  func(tm *model.Team) { tm.Players[3].Name = "" },
			wantErr: ErrPlayerNameRequired,
		},
		{
			name:    "player without jersey",
			mutate:  func(tm *model.Team) { tm.Players[3].JerseyNumber = 0 },
			wantErr: ErrJerseyRequired,
		},
		{
			name:    "duplicate jersey",
			mutate:  func(tm *model.Team) { tm.Players[4].JerseyNumber = tm.Players[2].JerseyNumber },
			wantErr: ErrJerseyDuplicate,
		},
		{
			name:    "five starters",
			mutate:  func(tm *model.Team) { tm.Players[5].IsStarter = false },
			wantErr: ErrStarterCount,
		},
		{
			name:    "seven starters",
			mutate:  func(tm *model.Team) { tm.Players[6].IsStarter = true },
			wantErr: ErrStarterCount,
		},
		{
			name:    "starter without position",
			mutate:  func(tm *model.Team) { tm.Players[0].Position = "" },
			wantErr: ErrStarterPosition,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			team := validTeam()
			tc.mutate(&team)
			err := ValidateTeam(team)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidateTournament(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	before := start.AddDate(0, 0, -1)

	cases := []struct {
		name    string
		in      model.Tournament
		wantErr error
	}{
		{
			name: "valid",
			in:   model.Tournament{Name: "Copa Verano", StartDate: &start, EndDate: &end},
		},
		{
			name:    "missing name",
			in:      model.Tournament{StartDate: &start, EndDate: &end},
			wantErr: ErrTournamentNameRequired,
		},
		{
			name:    "missing start date",
			in:      model.Tournament{Name: "Copa", EndDate: &end},
			wantErr: ErrStartDateRequired,
		},
		{
			name:    "missing end date",
			in:      model.Tournament{Name: "Copa", StartDate: &start},
			wantErr: ErrEndDateRequired,
		},
		{
			name:    "end before start",
			in:      model.Tournament{Name: "Copa", StartDate: &start, EndDate: &before},
			wantErr: ErrEndBeforeStart,
		},
		{
			name: "same day allowed",
			in:   model.Tournament{Name: "Copa", StartDate: &start, EndDate: &start},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTournament(tc.in)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrJerseyDuplicate))
	assert.True(t, IsValidationError(ErrEndBeforeStart))
	assert.False(t, IsValidationError(nil))
	assert.False(t, IsValidationError(assert.AnError))
}
