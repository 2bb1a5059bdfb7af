package callbacks

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

// ReservationFlow диалог бронирования, реализуется обработчиками команд
type ReservationFlow interface {
	StartReservation(ctx context.Context, b *bot.Bot, chatID, telegramID, appointmentID int64)
	Reserve(ctx context.Context, b *bot.Bot, chatID, telegramID, appointmentID int64, notes string)
	NotifyUser(ctx context.Context, b *bot.Bot, userID int64, text string, markup models.ReplyMarkup)
}

// Handler обрабатывает нажатия inline кнопок
type Handler struct {
	svc          common.Services
	flow         ReservationFlow
	stateManager *state.Manager
	logger       *zap.Logger
}

func NewHandler(svc common.Services, flow ReservationFlow, stateManager *state.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		svc:          svc,
		flow:         flow,
		stateManager: stateManager,
		logger:       logger,
	}
}

// HandleCallbackQuery распределяет callback query по обработчикам
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}
	data := callback.Data

	h.logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("telegram_id", callback.From.ID))

	if data == common.CallbackNoop {
		answer(ctx, b, callback.ID, "")
		return
	}

	prefix, _, _ := strings.Cut(data, ":")
	id, err := common.ParseIDFromCallback(data)
	if err != nil {
		h.logger.Warn("Malformed callback data", zap.String("data", data))
		answerAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	switch prefix + ":" {
	case common.CallbackBook:
		answer(ctx, b, callback.ID, "")
		h.flow.StartReservation(ctx, b, chatID(callback), callback.From.ID, id)
	case common.CallbackSkipNotes:
		h.handleSkipNotes(ctx, b, callback, id)
	case common.CallbackApprove:
		h.handleDecision(ctx, b, callback, id, service.Approve)
	case common.CallbackReject:
		h.handleDecision(ctx, b, callback, id, service.Reject)
	case common.CallbackCancel:
		h.handleCancel(ctx, b, callback, id)
	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		answerAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
	}
}

// handleSkipNotes бронирует без темы, если диалог ещё ждёт этот слот
func (h *Handler) handleSkipNotes(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, appointmentID int64) {
	pendingID, ok := h.stateManager.GetInt64(callback.From.ID, state.KeyAppointmentID)
	if !ok || pendingID != appointmentID || h.stateManager.GetState(callback.From.ID) != state.StateReserveNotes {
		answerAlert(ctx, b, callback.ID, "⌛ Выбор устарел, выберите слот заново: /slots")
		return
	}
	h.stateManager.ClearState(callback.From.ID)

	answer(ctx, b, callback.ID, "")
	removeKeyboard(ctx, b, callback)
	h.flow.Reserve(ctx, b, chatID(callback), callback.From.ID, appointmentID, "")
}

func (h *Handler) handleDecision(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, appointmentID int64, decision service.ApprovalDecision) {
	host, ok := h.loadUser(ctx, b, callback)
	if !ok {
		return
	}

	appt, err := h.svc.Reservations.Decide(ctx, appointmentID, host.ID, decision)
	if err != nil {
		h.logger.Info("Decision rejected",
			zap.Int64("appointment_id", appointmentID),
			zap.Int64("host_id", host.ID),
			zap.Error(err))
		answerAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}
	removeKeyboard(ctx, b, callback)

	if decision == service.Approve {
		answer(ctx, b, callback.ID, "✅ Подтверждено")
		// Участник получает приглашение через общий канал уведомлений
		return
	}

	answer(ctx, b, callback.ID, "🚫 Отклонено")
	if appt.AttendeeID != nil {
		h.flow.NotifyUser(ctx, b, *appt.AttendeeID,
			fmt.Sprintf("🚫 Заявка на %s отклонена ведущим. Выберите другое время.", common.FormatSlot(appt)), nil)
	}
}

func (h *Handler) handleCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, appointmentID int64) {
	user, ok := h.loadUser(ctx, b, callback)
	if !ok {
		return
	}

	// Слот нужен для текста уведомления: после отмены участник у встречи уже не указан
	before, err := h.svc.Reservations.GetAppointment(ctx, appointmentID, user.ID)
	if err != nil {
		answerAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	result, err := h.svc.Reservations.Cancel(ctx, appointmentID, user.ID)
	if err != nil {
		answerAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}
	answer(ctx, b, callback.ID, "❌ Встреча отменена")
	removeKeyboard(ctx, b, callback)

	counterpart := result.HostID
	who := "участником"
	if result.CanceledBy == model.ParticipantHost {
		counterpart = result.AttendeeID
		who = "ведущим"
	}
	h.flow.NotifyUser(ctx, b, counterpart,
		fmt.Sprintf("❌ Встреча %s отменена %s", common.FormatSlot(before), who), nil)
}

func (h *Handler) loadUser(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) (*model.User, bool) {
	user, err := h.svc.Users.GetByTelegramID(ctx, callback.From.ID)
	if err != nil {
		h.logger.Error("Failed to load user", zap.Int64("telegram_id", callback.From.ID), zap.Error(err))
		answerAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return nil, false
	}
	if user == nil {
		answerAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrNotRegistered))
		return nil, false
	}
	return user, true
}
