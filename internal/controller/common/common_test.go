package common

import (
	"fmt"
	"testing"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/scheduling"
	"github.com/Freeeeeet/officehours_bot/internal/service"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&service.QuotaError{Scope: scheduling.ScopeWeek}, "на эту неделю"},
		{fmt.Errorf("reserve: %w", &service.QuotaError{Scope: scheduling.ScopeDay}), "на этот день"},
		{fmt.Errorf("%w: status reserved", service.ErrSlotUnavailable), "уже недоступен"},
		{service.ErrInPast, "уже прошли"},
		{fmt.Errorf("%w: invalid Date", service.ErrValidation), "Некорректные данные: invalid Date"},
		{fmt.Errorf("availability #2: %w", fmt.Errorf("%w: window too short", service.ErrValidation)), "Некорректные данные: window too short"},
		{service.ErrNotHost, "/becomehost"},
		{fmt.Errorf("%w 7", service.ErrProgramNotFound), "Программа не найдена"},
		{ErrRateLimited, "Слишком много попыток"},
		{fmt.Errorf("boom"), "Произошла ошибка"},
	}
	for _, tt := range tests {
		assert.Contains(t, ErrorMessage(tt.err), tt.want, tt.err.Error())
	}
}

func TestParseIDFromCallback(t *testing.T) {
	id, err := ParseIDFromCallback(CallbackData(CallbackBook, 42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"book", "book:", "book:x", "book:-1", "book:0"} {
		_, err := ParseIDFromCallback(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, []string{"1", "2025-03-10", "09:00"}, CommandArgs("/avail  1 2025-03-10\t09:00"))
	assert.Empty(t, CommandArgs("/programs"))
	assert.Nil(t, CommandArgs(""))

	id, err := ParseID("#15")
	require.NoError(t, err)
	assert.Equal(t, int64(15), id)
}

func TestParseOptionalLimit(t *testing.T) {
	v, err := ParseOptionalLimit("-")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseOptionalLimit("3")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 3, *v)

	_, err = ParseOptionalLimit("-2")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFormatting(t *testing.T) {
	three := 3
	p := &model.Program{ID: 5, Name: "Go", Duration: 30, AutoApprove: true, MaxWeekly: &three}
	assert.Equal(t, "день -, неделя 3, месяц -", FormatLimits(p))
	assert.Contains(t, FormatProgram(p), "Слоты по 30 мин")

	a := &model.Appointment{
		ID:        9,
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: timewindow.NewTimeOfDay(9, 0),
		EndTime:   timewindow.NewTimeOfDay(9, 30),
		Status:    model.AppointmentStatusPending,
		Program:   p,
	}
	assert.Equal(t, "10.03 09:00-09:30", FormatSlot(a))
	card := FormatAppointment(a)
	assert.Contains(t, card, "10.03.2025 (Пн)")
	assert.Contains(t, card, "Ожидает подтверждения")

	kb := NewKeyboard()
	assert.Nil(t, kb.Build())
	assert.NotNil(t, kb.Row(Button("x", CallbackNoop)).Build())
}
