package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/calendar"
	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/notify"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
	"github.com/Freeeeeet/officehours_bot/internal/repository/memory"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pacific = time.FixedZone("UTC-08:00", -8*60*60)

// 2025-03-01 суббота, 2025-03-10 понедельник
var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, pacific)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

type fakeSyncer struct {
	upserts []calendar.Event
	removed []string
}

func (f *fakeSyncer) Upsert(_ context.Context, e calendar.Event) (string, error) {
	f.upserts = append(f.upserts, e)
	return "evt-" + e.UID, nil
}

func (f *fakeSyncer) Remove(_ context.Context, eventID string) error {
	f.removed = append(f.removed, eventID)
	return nil
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	notifier *recordingNotifier
	syncer   *fakeSyncer

	availability *AvailabilityService
	reservation  *ReservationService
	programs     *ProgramService
	users        *UserService
	comments     *CommentService
	feedback     *FeedbackService

	host      *model.User
	otherHost *model.User
	attendee  *model.User
	attendee2 *model.User
	admin     *model.User
}

func newFixture(t *testing.T, policy ...func(*Policy)) *fixture {
	t.Helper()

	p := DefaultPolicy()
	for _, fn := range policy {
		fn(&p)
	}

	logger := zap.NewNop()
	store := memory.New()
	clock := timewindow.FixedClock{T: testNow}
	quota := NewQuotaEngine(logger)

	f := &fixture{
		ctx:      context.Background(),
		store:    store,
		notifier: &recordingNotifier{},
		syncer:   &fakeSyncer{},
	}
	f.availability = NewAvailabilityService(store, quota, clock, p, logger)
	f.reservation = NewReservationService(store, quota, clock, p, f.notifier, f.syncer, logger)
	f.programs = NewProgramService(store, logger)
	f.users = NewUserService(store, []int64{900}, logger)
	f.comments = NewCommentService(store, logger)
	f.feedback = NewFeedbackService(store, clock, logger)

	f.host = f.user(t, 100, model.RoleHost)
	f.otherHost = f.user(t, 101, model.RoleHost)
	f.attendee = f.user(t, 200, model.RoleAttendee)
	f.attendee2 = f.user(t, 201, model.RoleAttendee)
	f.admin = f.user(t, 900, model.RoleAdmin)
	return f
}

func (f *fixture) user(t *testing.T, telegramID int64, role model.Role) *model.User {
	t.Helper()
	u := &model.User{
		TelegramID: telegramID,
		FirstName:  "user",
		Email:      "user@example.com",
		Role:       role,
	}
	require.NoError(t, f.store.Users().Create(f.ctx, u))
	return u
}

func (f *fixture) program(t *testing.T, in ProgramInput) *model.Program {
	t.Helper()
	if in.Name == "" {
		in.Name = "Office hours"
	}
	p, err := f.programs.CreateProgram(f.ctx, f.host.ID, in)
	require.NoError(t, err)
	return p
}

func (f *fixture) window(t *testing.T, programID int64, date, start, end string) (*model.Availability, []*model.Appointment) {
	t.Helper()
	a, slots, err := f.availability.CreateAvailability(f.ctx, f.host.ID, AvailabilityInput{
		ProgramID: programID,
		Date:      date,
		Start:     start,
		End:       end,
	})
	require.NoError(t, err)
	return a, slots
}

func (f *fixture) appointment(t *testing.T, id int64) *model.Appointment {
	t.Helper()
	a, err := f.store.Appointments().GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a
}

func (f *fixture) hostAppointments(t *testing.T) []*model.Appointment {
	t.Helper()
	list, err := f.store.Appointments().List(f.ctx, repository.AppointmentFilter{HostID: &f.host.ID})
	require.NoError(t, err)
	return list
}

func limit(n int) *int { return &n }
