package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/officehours_bot/internal/scheduling"
	"github.com/Freeeeeet/officehours_bot/internal/service"
)

// Ошибки уровня бота
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid command format")
	ErrRateLimited   = errors.New("too many attempts")
	ErrNotRegistered = errors.New("user is not registered")
	ErrBadInviteCode = errors.New("invalid invite code")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var quotaErr *service.QuotaError
	if errors.As(err, &quotaErr) {
		return fmt.Sprintf("❌ У ведущего исчерпан лимит встреч %s. Выберите другое время.", ScopeText(quotaErr.Scope))
	}

	switch {
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат команды. Справка: /help"
	case errors.Is(err, ErrRateLimited):
		return "⏳ Слишком много попыток. Подождите минуту."
	case errors.Is(err, ErrNotRegistered), errors.Is(err, service.ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, ErrBadInviteCode):
		return "❌ Неверный код приглашения"

	case errors.Is(err, service.ErrInPast):
		return "❌ Дата или время уже прошли"
	case errors.Is(err, service.ErrValidation):
		return "❌ Некорректные данные: " + detail(err)

	case errors.Is(err, service.ErrAvailabilityOverlap):
		return "❌ Окно пересекается с уже существующим"
	case errors.Is(err, service.ErrSlotUnavailable):
		return "❌ Этот слот уже недоступен"
	case errors.Is(err, service.ErrDuplicateProgram):
		return "❌ Программа с таким названием уже есть"
	case errors.Is(err, service.ErrInvalidTransition):
		return "❌ Действие недоступно для встречи в текущем статусе"
	case errors.Is(err, service.ErrConflict):
		return "❌ Конфликт с текущим состоянием, обновите данные"

	case errors.Is(err, service.ErrNotHost):
		return "❌ Эта команда доступна только ведущим. Стать ведущим: /becomehost"
	case errors.Is(err, service.ErrNotAttendee):
		return "❌ Записываться на встречи могут только участники"
	case errors.Is(err, service.ErrNotParticipant), errors.Is(err, service.ErrNotOwner), errors.Is(err, service.ErrForbidden):
		return "❌ Нет доступа"

	case errors.Is(err, service.ErrProgramNotFound):
		return "❌ Программа не найдена"
	case errors.Is(err, service.ErrAvailabilityNotFound):
		return "❌ Окно доступности не найдено"
	case errors.Is(err, service.ErrAppointmentNotFound):
		return "❌ Встреча не найдена"
	case errors.Is(err, service.ErrCommentNotFound):
		return "❌ Комментарий не найден"
	case errors.Is(err, service.ErrNotFound):
		return "❌ Не найдено"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// ScopeText окно лимита в родительном падеже
func ScopeText(s scheduling.Scope) string {
	switch s {
	case scheduling.ScopeDay:
		return "на этот день"
	case scheduling.ScopeWeek:
		return "на эту неделю"
	case scheduling.ScopeMonth:
		return "на этот месяц"
	default:
		return ""
	}
}

// detail текст ошибки валидации без префикса класса
func detail(err error) string {
	msg := err.Error()
	prefix := service.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
