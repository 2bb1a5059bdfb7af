package memory

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) (*model.User, *model.Program) {
	t.Helper()
	ctx := context.Background()

	host := &model.User{TelegramID: 1, Role: model.RoleHost}
	require.NoError(t, s.Users().Create(ctx, host))
	p := &model.Program{HostID: host.ID, Name: "p"}
	require.NoError(t, s.Programs().Create(ctx, p))
	return host, p
}

func TestInTx_RollbackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	host, p := seed(t, s)
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx repository.Store) error {
		a := &model.Availability{HostID: host.ID, ProgramID: p.ID, Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}
		require.NoError(t, tx.Availabilities().Create(ctx, a))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := s.Availabilities().ListByProgram(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInTx_CommitAndNested(t *testing.T) {
	s := New()
	ctx := context.Background()
	host, p := seed(t, s)

	err := s.InTx(ctx, func(tx repository.Store) error {
		a := &model.Availability{HostID: host.ID, ProgramID: p.ID, Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}
		if err := tx.Availabilities().Create(ctx, a); err != nil {
			return err
		}
		return tx.InTx(ctx, func(inner repository.Store) error {
			return inner.Appointments().CreateBatch(ctx, []*model.Appointment{{
				HostID: host.ID, ProgramID: p.ID, AvailabilityID: a.ID,
				Date: a.Date, Status: model.AppointmentStatusPosted,
			}})
		})
	})
	require.NoError(t, err)

	n, err := s.Appointments().CountByHost(ctx, host.ID,
		[]model.AppointmentStatus{model.AppointmentStatusPosted},
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInjectFailure_FiresOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")
	s.InjectFailure("users.Create", boom)

	assert.ErrorIs(t, s.Users().Create(ctx, &model.User{TelegramID: 5}), boom)
	assert.NoError(t, s.Users().Create(ctx, &model.User{TelegramID: 5}))
}

func TestProgramDuplicateName(t *testing.T) {
	s := New()
	ctx := context.Background()
	host, _ := seed(t, s)

	err := s.Programs().Create(ctx, &model.Program{HostID: host.ID, Name: "P"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestLocks_RecordedInOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	user, _ := seed(t, s)

	err := s.InTx(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Users().LockByID(ctx, user.ID))
		a, err := tx.Appointments().GetForUpdate(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, a)
		return errors.New("rollback")
	})
	require.Error(t, err)

	// Журнал переживает откат; несуществующая встреча не блокируется
	assert.Equal(t, []string{"user:" + strconv.FormatInt(user.ID, 10)}, s.Locks())
	assert.Error(t, s.Users().LockByID(ctx, 999))

	s.ResetLocks()
	assert.Empty(t, s.Locks())
}
