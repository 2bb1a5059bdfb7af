package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentTransitions(t *testing.T) {
	assert.True(t, AppointmentStatusPosted.CanTransition(AppointmentStatusReserved))
	assert.True(t, AppointmentStatusPosted.CanTransition(AppointmentStatusPending))
	assert.True(t, AppointmentStatusPending.CanTransition(AppointmentStatusRejected))
	assert.True(t, AppointmentStatusReserved.CanTransition(AppointmentStatusPosted))
	assert.True(t, AppointmentStatusInactive.CanTransition(AppointmentStatusPosted))

	assert.False(t, AppointmentStatusReserved.CanTransition(AppointmentStatusRejected))
	assert.False(t, AppointmentStatusRejected.CanTransition(AppointmentStatusPosted))
	assert.False(t, AppointmentStatusInactive.CanTransition(AppointmentStatusReserved))
	assert.False(t, AppointmentStatus("booked").CanTransition(AppointmentStatusPosted))
}

func TestAppointmentTerminal(t *testing.T) {
	for _, s := range []AppointmentStatus{
		AppointmentStatusRejected, AppointmentStatusCanceled,
		AppointmentStatusCompleted, AppointmentStatusMissed,
	} {
		assert.True(t, s.IsTerminal(), s)
	}
	assert.False(t, AppointmentStatusPosted.IsTerminal())
	assert.False(t, AppointmentStatus("unknown").IsTerminal())
}

func TestAppointmentStatusesWhere(t *testing.T) {
	assert.Equal(t,
		[]AppointmentStatus{AppointmentStatusPending, AppointmentStatusReserved},
		AppointmentStatusesWhere(AppointmentStatus.CountsTowardQuota))
	assert.Equal(t,
		[]AppointmentStatus{AppointmentStatusRejected, AppointmentStatusCanceled, AppointmentStatusCompleted, AppointmentStatusMissed},
		AppointmentStatusesWhere(AppointmentStatus.IsTerminal))
	assert.True(t, AppointmentStatusInactive.Valid())
	assert.False(t, AppointmentStatus("booked").Valid())
}

func TestParticipantOf(t *testing.T) {
	attendee := int64(7)
	a := &Appointment{HostID: 3, AttendeeID: &attendee}

	assert.Equal(t, ParticipantHost, a.ParticipantOf(3))
	assert.Equal(t, ParticipantAttendee, a.ParticipantOf(7))
	assert.Equal(t, ParticipantNone, a.ParticipantOf(9))
	assert.Equal(t, ParticipantNone, (&Appointment{HostID: 3}).ParticipantOf(7))
}
