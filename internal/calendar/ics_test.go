package calendar

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestBuildICS(t *testing.T) {
	start := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
	e := Event{
		UID:         "appt-7@officehours",
		Summary:     "Консультация",
		Description: "Вопросы по курсу",
		Location:    "Room 204",
		Start:       start,
		End:         start.Add(time.Hour),
		Organizer:   "host@example.com",
		Attendees:   []string{"ann@example.com"},
	}

	data, err := BuildICS(e)
	require.NoError(t, err)

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 1)

	uid, err := events[0].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "appt-7@officehours", uid)

	gotStart, err := events[0].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.True(t, start.Equal(gotStart))

	assert.Len(t, events[0].Props.Values(ical.PropAttendee), 1)
}

func TestTokenRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "token.json")
	tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}

	require.NoError(t, SaveToken(file, tok))
	got, err := LoadToken(file)
	require.NoError(t, err)
	assert.Equal(t, "r", got.RefreshToken)
}

func TestLoadToken_Missing(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
