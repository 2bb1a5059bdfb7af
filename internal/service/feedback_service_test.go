package service

import (
	"testing"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFeedback(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, ProgramInput{AutoApprove: true})
	_, slots := f.window(t, p.ID, "2025-03-10", "14:00", "15:00")
	_, err := f.reservation.Reserve(f.ctx, slots[0].ID, f.attendee.ID, "")
	require.NoError(t, err)
	id := slots[0].ID

	_, err = f.feedback.SubmitFeedback(f.ctx, id, f.attendee.ID, FeedbackInput{Rating: 5})
	assert.ErrorIs(t, err, ErrValidation)

	f.feedback.clock = timewindow.FixedClock{T: time.Date(2025, 3, 10, 16, 0, 0, 0, pacific)}

	_, err = f.feedback.SubmitFeedback(f.ctx, id, f.attendee.ID, FeedbackInput{Rating: 6})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.feedback.SubmitFeedback(f.ctx, id, f.attendee2.ID, FeedbackInput{Rating: 4})
	assert.ErrorIs(t, err, ErrNotParticipant)

	fb, err := f.feedback.SubmitFeedback(f.ctx, id, f.attendee.ID, FeedbackInput{Rating: 5, Notes: "полезно"})
	require.NoError(t, err)
	require.NotNil(t, fb.AttendeeRating)
	assert.Equal(t, 5, *fb.AttendeeRating)
	assert.Nil(t, fb.HostRating)

	fb, err = f.feedback.SubmitFeedback(f.ctx, id, f.host.ID, FeedbackInput{Rating: 4, Notes: "пришёл вовремя"})
	require.NoError(t, err)
	require.NotNil(t, fb.HostRating)
	assert.Equal(t, 4, *fb.HostRating)
	assert.Equal(t, 5, *fb.AttendeeRating)
	assert.Equal(t, "полезно", fb.AttendeeNotes)

	fb, err = f.feedback.SubmitFeedback(f.ctx, id, f.attendee.ID, FeedbackInput{Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, *fb.AttendeeRating)
	assert.Equal(t, 4, *fb.HostRating)

	got, err := f.feedback.GetFeedback(f.ctx, id, f.host.ID)
	require.NoError(t, err)
	assert.Equal(t, fb.ID, got.ID)
}
