package service

import (
	"testing"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.RegisterUser(f.ctx, 5001, "ann", "Ann", "Lee", "ru")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAttendee, u.Role)

	again, err := f.users.RegisterUser(f.ctx, 5001, "ann_new", "Ann", "Lee", "en")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "ann_new", again.Username)

	stored, err := f.users.GetByTelegramID(f.ctx, 5001)
	require.NoError(t, err)
	assert.Equal(t, "en", stored.LanguageCode)
}

func TestMakeHostAndEmail(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.MakeHost(f.ctx, f.attendee.ID)
	require.NoError(t, err)
	assert.True(t, u.IsHost())

	admin, err := f.users.MakeHost(f.ctx, f.admin.ID)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	_, err = f.users.MakeHost(f.ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.users.SetEmail(f.ctx, f.attendee.ID, "not-an-email")
	assert.ErrorIs(t, err, ErrValidation)

	u, err = f.users.SetEmail(f.ctx, f.attendee.ID, " ann@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
}
