package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProgram(t *testing.T) {
	f := newFixture(t)

	p, err := f.programs.CreateProgram(f.ctx, f.host.ID, ProgramInput{
		Name:        "  Консультации  ",
		Duration:    30,
		AutoApprove: true,
		MeetingURL:  "https://meet.example.com/x",
		Limits:      LimitsInput{Daily: limit(3)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Консультации", p.Name)
	require.NotNil(t, p.MaxDaily)
	assert.Equal(t, 3, *p.MaxDaily)

	_, err = f.programs.CreateProgram(f.ctx, f.host.ID, ProgramInput{Name: "консультации"})
	assert.ErrorIs(t, err, ErrDuplicateProgram)
	assert.ErrorIs(t, err, ErrConflict)

	// У другого хоста то же имя допустимо
	_, err = f.programs.CreateProgram(f.ctx, f.otherHost.ID, ProgramInput{Name: "Консультации"})
	require.NoError(t, err)

	_, err = f.programs.CreateProgram(f.ctx, f.attendee.ID, ProgramInput{Name: "Свои"})
	assert.ErrorIs(t, err, ErrNotHost)
}

func TestCreateProgram_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		in   ProgramInput
	}{
		{"empty name", ProgramInput{Name: "   "}},
		{"negative duration", ProgramInput{Name: "x", Duration: -5}},
		{"bad url", ProgramInput{Name: "x", MeetingURL: "not a url"}},
		{"negative limit", ProgramInput{Name: "x", Limits: LimitsInput{Weekly: limit(-1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.programs.CreateProgram(f.ctx, f.host.ID, tt.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestProgram_DropInDropsApprovalAndLimits(t *testing.T) {
	f := newFixture(t)

	p, err := f.programs.CreateProgram(f.ctx, f.host.ID, ProgramInput{
		Name:        "Drop-in",
		IsDropIn:    true,
		AutoApprove: true,
		Limits:      LimitsInput{Daily: limit(2)},
	})
	require.NoError(t, err)
	assert.False(t, p.AutoApprove)
	assert.Nil(t, p.MaxDaily)

	_, err = f.programs.SetLimits(f.ctx, f.host.ID, p.ID, LimitsInput{Daily: limit(1)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateSettingsAndLimits(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30})

	updated, err := f.programs.UpdateSettings(f.ctx, f.host.ID, p.ID, ProgramSettings{
		Duration:         45,
		AutoApprove:      true,
		PhysicalLocation: "Room 5",
		Limits:           LimitsInput{Weekly: limit(4)},
	})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.Duration)
	assert.True(t, updated.AutoApprove)

	_, err = f.programs.UpdateSettings(f.ctx, f.otherHost.ID, p.ID, ProgramSettings{})
	assert.ErrorIs(t, err, ErrNotOwner)

	limited, err := f.programs.SetLimits(f.ctx, f.host.ID, p.ID, LimitsInput{Daily: limit(2), Monthly: limit(10)})
	require.NoError(t, err)
	assert.Nil(t, limited.MaxWeekly)

	got, err := f.programs.GetProgram(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *got.MaxDaily)
	assert.Equal(t, 10, *got.MaxMonthly)
	assert.Equal(t, "Room 5", got.PhysicalLocation)
}

func TestDeleteProgram_Cascades(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30})
	f.window(t, p.ID, "2025-03-10", "09:00", "10:00")

	assert.ErrorIs(t, f.programs.DeleteProgram(f.ctx, f.otherHost.ID, p.ID), ErrNotOwner)
	require.NoError(t, f.programs.DeleteProgram(f.ctx, f.host.ID, p.ID))

	_, err := f.programs.GetProgram(f.ctx, p.ID)
	assert.ErrorIs(t, err, ErrProgramNotFound)
	assert.Empty(t, f.hostAppointments(t))

	list, err := f.programs.ListHostPrograms(f.ctx, f.host.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
