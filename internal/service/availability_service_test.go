package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAvailability_SlicesAndDeleteCascades(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30, PhysicalLocation: "Room 204", AutoApprove: true})

	a, slots := f.window(t, p.ID, "2025-03-10", "09:00", "10:00")

	require.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].StartTime.String())
	assert.Equal(t, "09:30", slots[0].EndTime.String())
	assert.Equal(t, "09:30", slots[1].StartTime.String())
	assert.Equal(t, "10:00", slots[1].EndTime.String())
	for _, s := range slots {
		assert.Equal(t, model.AppointmentStatusPosted, s.Status)
		assert.Equal(t, a.ID, s.AvailabilityID)
		assert.Equal(t, "Room 204", s.PhysicalLocation)
	}
	assert.Len(t, f.hostAppointments(t), 2)

	require.NoError(t, f.availability.DeleteAvailability(f.ctx, f.host.ID, a.ID))
	assert.Empty(t, f.hostAppointments(t))
}

func TestCreateAvailability_NoSliceSingleSlot(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 0})

	_, slots := f.window(t, p.ID, "2025-03-10", "14:00", "15:00")

	require.Len(t, slots, 1)
	assert.Equal(t, "14:00", slots[0].StartTime.String())
	assert.Equal(t, "15:00", slots[0].EndTime.String())
}

func TestCreateAvailability_RemainderDropped(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 40})

	_, slots := f.window(t, p.ID, "2025-03-10", "09:00", "10:30")

	require.Len(t, slots, 2)
	assert.Equal(t, "10:20", slots[1].EndTime.String())
}

func TestCreateAvailability_DropInNotSliced(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30, IsDropIn: true})

	a, slots := f.window(t, p.ID, "2025-03-10", "09:00", "11:00")

	assert.Empty(t, slots)
	assert.Empty(t, f.hostAppointments(t))

	dropIns, err := f.availability.ListDropIns(f.ctx, f.host.ID)
	require.NoError(t, err)
	require.Len(t, dropIns, 1)
	assert.Equal(t, a.ID, dropIns[0].ID)
}

func TestCreateAvailability_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30})

	tests := []struct {
		name             string
		date, start, end string
		want             error
	}{
		{"bad date", "10.03.2025", "09:00", "10:00", ErrValidation},
		{"bad time", "2025-03-10", "9am", "10:00", ErrValidation},
		{"one digit hour", "2025-03-10", "9:00", "10:00", ErrValidation},
		{"one digit month", "2025-3-10", "09:00", "10:00", ErrValidation},
		{"missing end", "2025-03-10", "09:00", "", ErrValidation},
		{"end before start", "2025-03-10", "10:00", "09:00", ErrValidation},
		{"too short", "2025-03-10", "09:00", "09:20", ErrValidation},
		{"past date", "2025-02-28", "09:00", "10:00", ErrInPast},
		{"today but started", "2025-03-01", "08:30", "09:30", ErrInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.availability.CreateAvailability(f.ctx, f.host.ID, AvailabilityInput{
				ProgramID: p.ID, Date: tt.date, Start: tt.start, End: tt.end,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	assert.Empty(t, f.hostAppointments(t))
}

func TestCreateAvailability_TodayLaterIsAllowed(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30})

	_, slots := f.window(t, p.ID, "2025-03-01", "10:00", "10:30")
	assert.Len(t, slots, 1)
}

func TestCreateAvailability_MinWindowConfigurable(t *testing.T) {
	f := newFixture(t, func(p *Policy) { p.MinWindow = 0 })
	p := f.program(t, ProgramInput{Duration: 0})

	_, slots := f.window(t, p.ID, "2025-03-10", "09:00", "09:15")
	assert.Len(t, slots, 1)
}

func TestCreateAvailability_Authorization(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30})
	in := AvailabilityInput{ProgramID: p.ID, Date: "2025-03-10", Start: "09:00", End: "10:00"}

	_, _, err := f.availability.CreateAvailability(f.ctx, f.attendee.ID, in)
	assert.ErrorIs(t, err, ErrNotHost)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = f.availability.CreateAvailability(f.ctx, f.otherHost.ID, in)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, _, err = f.availability.CreateAvailability(f.ctx, 9999, in)
	assert.ErrorIs(t, err, ErrUserNotFound)

	in.ProgramID = 9999
	_, _, err = f.availability.CreateAvailability(f.ctx, f.host.ID, in)
	assert.ErrorIs(t, err, ErrProgramNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAvailability_Overlap(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 0})
	f.window(t, p.ID, "2025-03-10", "14:00", "15:00")

	_, _, err := f.availability.CreateAvailability(f.ctx, f.host.ID, AvailabilityInput{
		ProgramID: p.ID, Date: "2025-03-10", Start: "14:30", End: "15:30",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAvailabilityOverlap)
	assert.ErrorIs(t, err, ErrConflict)

	list, err := f.availability.ListProgramAvailability(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, f.hostAppointments(t), 1)

	// Касание границ не пересечение
	f.window(t, p.ID, "2025-03-10", "15:00", "16:00")
	// Другой день
	f.window(t, p.ID, "2025-03-11", "14:30", "15:30")
}

func TestCreateAvailability_OverlapScope(t *testing.T) {
	t.Run("program scope ignores other programs", func(t *testing.T) {
		f := newFixture(t)
		a := f.program(t, ProgramInput{Name: "A"})
		b := f.program(t, ProgramInput{Name: "B"})

		f.window(t, a.ID, "2025-03-10", "14:00", "15:00")
		f.window(t, b.ID, "2025-03-10", "14:30", "15:30")
	})

	t.Run("host scope compares all programs", func(t *testing.T) {
		f := newFixture(t, func(p *Policy) { p.OverlapScope = OverlapByHost })
		a := f.program(t, ProgramInput{Name: "A"})
		b := f.program(t, ProgramInput{Name: "B"})

		f.window(t, a.ID, "2025-03-10", "14:00", "15:00")
		_, _, err := f.availability.CreateAvailability(f.ctx, f.host.ID, AvailabilityInput{
			ProgramID: b.ID, Date: "2025-03-10", Start: "14:30", End: "15:30",
		})
		assert.ErrorIs(t, err, ErrAvailabilityOverlap)
	})
}

func TestCreateAvailability_BatchFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30})
	boom := errors.New("boom")
	f.store.InjectFailure("appointments.CreateBatch", boom)

	_, _, err := f.availability.CreateAvailability(f.ctx, f.host.ID, AvailabilityInput{
		ProgramID: p.ID, Date: "2025-03-10", Start: "09:00", End: "10:00",
	})
	require.ErrorIs(t, err, boom)

	list, err := f.availability.ListProgramAvailability(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.hostAppointments(t))
}

func TestDeactivateReactivate(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30, AutoApprove: true})
	a, slots := f.window(t, p.ID, "2025-03-10", "09:00", "10:00")

	// Бронь не должна пострадать от выключения окна
	_, err := f.reservation.Reserve(f.ctx, slots[0].ID, f.attendee.ID, "")
	require.NoError(t, err)

	got, err := f.availability.DeactivateAvailability(f.ctx, f.host.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AvailabilityStatusInactive, got.Status)
	assert.Equal(t, model.AppointmentStatusReserved, f.appointment(t, slots[0].ID).Status)
	assert.Equal(t, model.AppointmentStatusInactive, f.appointment(t, slots[1].ID).Status)

	got, err = f.availability.DeactivateAvailability(f.ctx, f.host.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AvailabilityStatusInactive, got.Status)

	got, err = f.availability.ReactivateAvailability(f.ctx, f.host.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AvailabilityStatusActive, got.Status)
	assert.Equal(t, model.AppointmentStatusPosted, f.appointment(t, slots[1].ID).Status)
	assert.Equal(t, model.AppointmentStatusReserved, f.appointment(t, slots[0].ID).Status)

	got, err = f.availability.ReactivateAvailability(f.ctx, f.host.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AvailabilityStatusActive, got.Status)
	assert.Equal(t, model.AppointmentStatusPosted, f.appointment(t, slots[1].ID).Status)
}

func TestReactivate_GatedByQuota(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30, AutoApprove: true, Limits: LimitsInput{Daily: limit(1)}})
	a, slots := f.window(t, p.ID, "2025-03-10", "09:00", "10:00")

	_, err := f.reservation.Reserve(f.ctx, slots[0].ID, f.attendee.ID, "")
	require.NoError(t, err)

	// Лимит заполнен: каскад выключил окно
	list, err := f.availability.ListProgramAvailability(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.AvailabilityStatusInactive, list[0].Status)

	_, err = f.availability.ReactivateAvailability(f.ctx, f.host.ID, a.ID)
	var qe *QuotaError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "daily meeting limit reached", qe.Error())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, model.AppointmentStatusInactive, f.appointment(t, slots[1].ID).Status)
}

func TestReactivate_RejectsOverlapWithNewWindow(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 0})
	a, _ := f.window(t, p.ID, "2025-03-10", "14:00", "15:00")

	_, err := f.availability.DeactivateAvailability(f.ctx, f.host.ID, a.ID)
	require.NoError(t, err)
	f.window(t, p.ID, "2025-03-10", "14:30", "15:30")

	_, err = f.availability.ReactivateAvailability(f.ctx, f.host.ID, a.ID)
	assert.ErrorIs(t, err, ErrAvailabilityOverlap)
}

func TestAvailability_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30})
	a, _ := f.window(t, p.ID, "2025-03-10", "09:00", "10:00")

	_, err := f.availability.DeactivateAvailability(f.ctx, f.otherHost.ID, a.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, f.availability.DeleteAvailability(f.ctx, f.otherHost.ID, a.ID), ErrNotOwner)
	assert.ErrorIs(t, f.availability.DeleteAvailability(f.ctx, f.host.ID, 9999), ErrAvailabilityNotFound)
}

func TestListHostAvailability(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30})
	dropIn := f.program(t, ProgramInput{Name: "Drop-in", IsDropIn: true})
	f.window(t, p.ID, "2025-03-10", "09:00", "10:00")
	f.window(t, dropIn.ID, "2025-03-12", "14:00", "16:00")
	f.window(t, p.ID, "2025-03-17", "09:00", "10:00")

	from, to := timewindow.WeekRange(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	list, err := f.availability.ListHostAvailability(f.ctx, f.host.ID, from, to)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.availability.ListHostAvailability(f.ctx, f.otherHost.ID, from, to)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReplaceProgramAvailability(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30})
	f.window(t, p.ID, "2025-03-10", "09:00", "10:00")

	created, err := f.availability.ReplaceProgramAvailability(f.ctx, f.host.ID, p.ID, []AvailabilityInput{
		{Date: "2025-03-11", Start: "09:00", End: "09:30"},
		{Date: "2025-03-12", Start: "13:00", End: "14:00"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	list, err := f.availability.ListProgramAvailability(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03-11", timewindow.FormatDate(list[0].Date))
	assert.Len(t, f.hostAppointments(t), 3)
}

func TestReplaceProgramAvailability_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{Duration: 30})
	original, _ := f.window(t, p.ID, "2025-03-10", "09:00", "10:00")

	_, err := f.availability.ReplaceProgramAvailability(f.ctx, f.host.ID, p.ID, []AvailabilityInput{
		{Date: "2025-03-11", Start: "09:00", End: "10:00"},
		{Date: "2025-03-11", Start: "09:30", End: "10:30"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAvailabilityOverlap)
	assert.Contains(t, err.Error(), "availability #2")

	list, err := f.availability.ListProgramAvailability(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, original.ID, list[0].ID)
	assert.Len(t, f.hostAppointments(t), 2)
}
