package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/officehours_bot/internal/controller/common"
	"github.com/Freeeeeet/officehours_bot/internal/controller/state"
	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}
	// Команды обрабатываются своими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	st, data := h.stateManager.Take(telegramID)

	switch st {
	case state.StateReserveNotes:
		appointmentID, _ := data[state.KeyAppointmentID].(int64)
		h.Reserve(ctx, b, update.Message.Chat.ID, telegramID, appointmentID, strings.TrimSpace(update.Message.Text))
	default:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🤔 Не понимаю. Список команд: /help", nil)
	}
}

// StartReservation показывает выбранный слот и просит тему встречи
func (h *Handlers) StartReservation(ctx context.Context, b *bot.Bot, chatID, telegramID, appointmentID int64) {
	user, err := h.svc.Users.GetByTelegramID(ctx, telegramID)
	if err != nil || user == nil {
		h.sendError(ctx, b, chatID, common.ErrNotRegistered)
		return
	}

	appt, err := h.svc.Reservations.GetAppointment(ctx, appointmentID, user.ID)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	if appt.Status != model.AppointmentStatusPosted {
		h.sendError(ctx, b, chatID, service.ErrSlotUnavailable)
		return
	}

	h.stateManager.Begin(telegramID, state.StateReserveNotes, map[string]any{
		state.KeyAppointmentID: appointmentID,
	})

	kb := common.NewKeyboard().
		Row(common.Button("⏭ Без темы", common.CallbackData(common.CallbackSkipNotes, appointmentID)))
	h.sendMessage(ctx, b, chatID,
		common.FormatAppointment(appt)+"\n\n✍️ Напишите тему встречи одним сообщением или нажмите «Без темы».\nОтмена: /cancel",
		kb.Build())
}

// Reserve бронирует слот за пользователем и сообщает результат обеим сторонам
func (h *Handlers) Reserve(ctx context.Context, b *bot.Bot, chatID, telegramID, appointmentID int64, notes string) {
	user, err := h.svc.Users.GetByTelegramID(ctx, telegramID)
	if err != nil || user == nil {
		h.sendError(ctx, b, chatID, common.ErrNotRegistered)
		return
	}

	allowed, err := h.limiter.Allow(ctx, fmt.Sprintf("reserve:%d", user.ID))
	if err != nil {
		h.logger.Warn("Rate limiter failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	if !allowed {
		h.sendError(ctx, b, chatID, common.ErrRateLimited)
		return
	}

	result, err := h.svc.Reservations.Reserve(ctx, appointmentID, user.ID, notes)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	appt := result.Appointment

	switch appt.Status {
	case model.AppointmentStatusReserved:
		text := "✅ Встреча забронирована!\n\n" + common.FormatAppointment(appt)
		if !result.Notified {
			text += "\n\n⚠️ Не удалось отправить приглашение, проверьте /email"
		}
		h.sendMessage(ctx, b, chatID, text, nil)
	case model.AppointmentStatusPending:
		h.sendMessage(ctx, b, chatID, "⏳ Заявка отправлена ведущему. Мы сообщим, когда ведущий ответит.\n\n"+common.FormatAppointment(appt), nil)
		h.NotifyUser(ctx, b, appt.HostID,
			fmt.Sprintf("📥 Новая заявка от %s\n\n%s", user.DisplayName(), common.FormatAppointment(appt)),
			DecisionKeyboard(appt.ID))
	}
}
