package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/officehours_bot/internal/controller/common"
	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/render"
	"github.com/Freeeeeet/officehours_bot/internal/service"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleNewProgram /newprogram <мин> <auto|manual|dropin> <название>
func (h *Handlers) HandleNewProgram(ctx context.Context, b *bot.Bot, update *models.Update) {
	host, ok := h.requireHost(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := common.CommandArgs(update.Message.Text)
	if len(args) < 3 {
		h.sendError(ctx, b, chatID, common.ErrInvalidFormat)
		return
	}
	duration, err := strconv.Atoi(args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, fmt.Errorf("%w: duration %q", common.ErrInvalidFormat, args[0]))
		return
	}

	in := service.ProgramInput{
		Name:     strings.Join(args[2:], " "),
		Duration: duration,
	}
	switch args[1] {
	case "auto":
		in.AutoApprove = true
	case "manual":
	case "dropin":
		in.IsDropIn = true
	default:
		h.sendError(ctx, b, chatID, fmt.Errorf("%w: mode %q", common.ErrInvalidFormat, args[1]))
		return
	}

	program, err := h.svc.Programs.CreateProgram(ctx, host.ID, in)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	h.sendMessage(ctx, b, chatID, "✅ Программа создана\n\n"+common.FormatProgram(program), nil)
}

// HandlePrograms /programs
func (h *Handlers) HandlePrograms(ctx context.Context, b *bot.Bot, update *models.Update) {
	host, ok := h.requireHost(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	programs, err := h.svc.Programs.ListHostPrograms(ctx, host.ID)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	if len(programs) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 У вас пока нет программ. Создать: /newprogram", nil)
		return
	}

	parts := make([]string, 0, len(programs))
	for _, p := range programs {
		parts = append(parts, common.FormatProgram(p))
	}
	h.sendMessage(ctx, b, chatID, "📚 Ваши программы:\n\n"+strings.Join(parts, "\n\n"), nil)
}

// HandleLimits /limits <программа> <день> <неделя> <месяц>
func (h *Handlers) HandleLimits(ctx context.Context, b *bot.Bot, update *models.Update) {
	host, ok := h.requireHost(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := common.CommandArgs(update.Message.Text)
	if len(args) != 4 {
		h.sendError(ctx, b, chatID, common.ErrInvalidFormat)
		return
	}
	programID, err := common.ParseID(args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	var limits service.LimitsInput
	for i, dst := range []**int{&limits.Daily, &limits.Weekly, &limits.Monthly} {
		v, err := common.ParseOptionalLimit(args[i+1])
		if err != nil {
			h.sendError(ctx, b, chatID, err)
			return
		}
		*dst = v
	}

	program, err := h.svc.Programs.SetLimits(ctx, host.ID, programID, limits)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	h.sendMessage(ctx, b, chatID, "✅ Лимиты обновлены: "+common.FormatLimits(program), nil)
}

// HandleAvail /avail <программа> <дата> <начало> <конец>
func (h *Handlers) HandleAvail(ctx context.Context, b *bot.Bot, update *models.Update) {
	host, ok := h.requireHost(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := common.CommandArgs(update.Message.Text)
	if len(args) != 4 {
		h.sendError(ctx, b, chatID, common.ErrInvalidFormat)
		return
	}
	programID, err := common.ParseID(args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	availability, slots, err := h.svc.Availability.CreateAvailability(ctx, host.ID, service.AvailabilityInput{
		ProgramID: programID,
		Date:      args[1],
		Start:     args[2],
		End:       args[3],
	})
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.logger.Info("Availability added via bot",
		zap.Int64("host_id", host.ID),
		zap.Int64("availability_id", availability.ID),
		zap.Int("slots", len(slots)))

	text := fmt.Sprintf("✅ Окно добавлено\n%s\nСлотов: %d", common.FormatAvailability(availability), len(slots))
	h.sendMessage(ctx, b, chatID, text, nil)
}

// HandleWindows /windows <программа>
func (h *Handlers) HandleWindows(ctx context.Context, b *bot.Bot, update *models.Update) {
	host, ok := h.requireHost(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := common.CommandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, common.ErrInvalidFormat)
		return
	}
	programID, err := common.ParseID(args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	program, err := h.svc.Programs.GetProgram(ctx, programID)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	if program.HostID != host.ID {
		h.sendError(ctx, b, chatID, service.ErrNotOwner)
		return
	}

	list, err := h.svc.Availability.ListProgramAvailability(ctx, programID)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	if len(list) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 У программы нет окон", nil)
		return
	}

	lines := make([]string, 0, len(list))
	for _, a := range list {
		lines = append(lines, common.FormatAvailability(a))
	}
	h.sendMessage(ctx, b, chatID, "🗓 Окна программы "+program.Name+":\n\n"+strings.Join(lines, "\n"), nil)
}

// HandleDeactivate /deactivate <окно>
func (h *Handlers) HandleDeactivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.changeAvailability(ctx, b, update, func(hostID, id int64) (string, error) {
		a, err := h.svc.Availability.DeactivateAvailability(ctx, hostID, id)
		if err != nil {
			return "", err
		}
		return "⚪ Окно выключено\n" + common.FormatAvailability(a), nil
	})
}

// HandleActivate /activate <окно>
func (h *Handlers) HandleActivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.changeAvailability(ctx, b, update, func(hostID, id int64) (string, error) {
		a, err := h.svc.Availability.ReactivateAvailability(ctx, hostID, id)
		if err != nil {
			return "", err
		}
		return "🟢 Окно снова доступно\n" + common.FormatAvailability(a), nil
	})
}

// HandleDeleteAvailability /delavail <окно>
func (h *Handlers) HandleDeleteAvailability(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.changeAvailability(ctx, b, update, func(hostID, id int64) (string, error) {
		if err := h.svc.Availability.DeleteAvailability(ctx, hostID, id); err != nil {
			return "", err
		}
		return fmt.Sprintf("🗑 Окно #%d удалено вместе со слотами", id), nil
	})
}

func (h *Handlers) changeAvailability(ctx context.Context, b *bot.Bot, update *models.Update, apply func(hostID, id int64) (string, error)) {
	host, ok := h.requireHost(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := common.CommandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, common.ErrInvalidFormat)
		return
	}
	id, err := common.ParseID(args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	text, err := apply(host.ID, id)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	h.sendMessage(ctx, b, chatID, text, nil)
}

// HandlePending /pending: заявки с кнопками подтверждения
func (h *Handlers) HandlePending(ctx context.Context, b *bot.Bot, update *models.Update) {
	host, ok := h.requireHost(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	list, err := h.svc.Reservations.ListHostAppointments(ctx, host.ID, service.ViewPending)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	if len(list) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 Нет заявок, ожидающих подтверждения", nil)
		return
	}

	for _, a := range list {
		h.sendMessage(ctx, b, chatID, common.FormatAppointment(a), DecisionKeyboard(a.ID))
	}
}

// DecisionKeyboard кнопки подтверждения заявки для хоста
func DecisionKeyboard(appointmentID int64) models.ReplyMarkup {
	return common.NewKeyboard().
		Row(
			common.Button("✅ Подтвердить", common.CallbackData(common.CallbackApprove, appointmentID)),
			common.Button("🚫 Отклонить", common.CallbackData(common.CallbackReject, appointmentID)),
		).
		Build()
}

// HandleWeek /week [дата]: картинка с сеткой недели
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	host, ok := h.requireHost(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	day := h.today()
	if args := common.CommandArgs(update.Message.Text); len(args) > 0 {
		d, err := timewindow.ParseDate(args[0])
		if err != nil {
			h.sendError(ctx, b, chatID, fmt.Errorf("%w: date %q", common.ErrInvalidFormat, args[0]))
			return
		}
		day = d
	}

	from, to := timewindow.WeekRange(day)
	list, err := h.svc.Reservations.ListHostSchedule(ctx, host.ID, from, to)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	windows, err := h.svc.Availability.ListHostAvailability(ctx, host.ID, from, to)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	labels := make(map[int64]string, len(list))
	for _, a := range list {
		if a.Attendee != nil {
			labels[a.ID] = a.Attendee.DisplayName()
		}
	}

	image, err := render.WeekImage(day, h.clock.Now(), list, labels)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	caption := fmt.Sprintf("🗓 Неделя %s - %s\nОкон: %d\n%s", from.Format("02.01"), to.Format("02.01"), len(windows), weekSummary(list))
	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(image)},
		Caption: caption,
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func weekSummary(list []*model.Appointment) string {
	counts := map[model.AppointmentStatus]int{}
	for _, a := range list {
		counts[a.Status]++
	}
	return fmt.Sprintf("Свободно: %d, забронировано: %d, ожидает: %d",
		counts[model.AppointmentStatusPosted],
		counts[model.AppointmentStatusReserved],
		counts[model.AppointmentStatusPending])
}
