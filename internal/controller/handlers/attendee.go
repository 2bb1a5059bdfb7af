package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/officehours_bot/internal/controller/common"
	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/service"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// maxSlotButtons ограничение Telegram на размер клавиатуры с запасом
const maxSlotButtons = 40

// HandleSlots /slots <программа> [дата]
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireUser(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := common.CommandArgs(update.Message.Text)
	if len(args) < 1 || len(args) > 2 {
		h.sendError(ctx, b, chatID, common.ErrInvalidFormat)
		return
	}
	programID, err := common.ParseID(args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	from := h.today()
	if len(args) == 2 {
		if from, err = timewindow.ParseDate(args[1]); err != nil {
			h.sendError(ctx, b, chatID, fmt.Errorf("%w: date %q", common.ErrInvalidFormat, args[1]))
			return
		}
	}
	to := from.AddDate(0, 0, slotsHorizon)

	program, err := h.svc.Programs.GetProgram(ctx, programID)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	if program.IsDropIn {
		h.sendDropIns(ctx, b, chatID, program)
		return
	}

	slots, err := h.svc.Reservations.ListAvailableSlots(ctx, programID, from, to)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	if len(slots) == 0 {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("📭 Нет свободных слотов %s - %s", from.Format("02.01"), to.Format("02.01")), nil)
		return
	}

	kb := common.NewKeyboard()
	for i, s := range slots {
		if i == maxSlotButtons {
			break
		}
		kb.Row(common.Button("🕐 "+common.FormatSlot(s), common.CallbackData(common.CallbackBook, s.ID)))
	}

	text := fmt.Sprintf("📚 %s\nСвободных слотов: %d. Выберите время:", program.Name, len(slots))
	if len(slots) > maxSlotButtons {
		text += fmt.Sprintf("\n(показаны первые %d, уточните дату: /slots %d ГГГГ-ММ-ДД)", maxSlotButtons, programID)
	}
	h.sendMessage(ctx, b, chatID, text, kb.Build())
}

// sendDropIns у drop-in программ нет слотов, показываем окна
func (h *Handlers) sendDropIns(ctx context.Context, b *bot.Bot, chatID int64, program *model.Program) {
	list, err := h.svc.Availability.ListDropIns(ctx, program.HostID)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	var lines []string
	for _, a := range list {
		if a.ProgramID == program.ID && !a.Date.Before(h.today()) {
			lines = append(lines, common.FormatAvailability(a))
		}
	}
	if len(lines) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 Ближайших открытых часов нет", nil)
		return
	}

	text := "🚪 " + program.Name + ": приходите без записи\n"
	if program.PhysicalLocation != "" {
		text += "📍 " + program.PhysicalLocation + "\n"
	}
	h.sendMessage(ctx, b, chatID, text+"\n"+strings.Join(lines, "\n"), nil)
}

// HandleMyBookings /mybookings [past|pending]
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	view := service.ViewUpcoming
	title := "📅 Предстоящие встречи"
	if args := common.CommandArgs(update.Message.Text); len(args) > 0 {
		switch args[0] {
		case "past":
			view, title = service.ViewPast, "🗂 Прошедшие встречи"
		case "pending":
			view, title = service.ViewPending, "⏳ Ожидают подтверждения"
		default:
			h.sendError(ctx, b, chatID, common.ErrInvalidFormat)
			return
		}
	}

	var list []*model.Appointment
	var err error
	if user.IsHost() {
		list, err = h.svc.Reservations.ListHostAppointments(ctx, user.ID, view)
	} else {
		list, err = h.svc.Reservations.ListAttendeeAppointments(ctx, user.ID, view)
	}
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	if len(list) == 0 {
		h.sendMessage(ctx, b, chatID, title+": нет", nil)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("%s: %d", title, len(list)), nil)
	for _, a := range list {
		var markup models.ReplyMarkup
		if view != service.ViewPast {
			markup = common.NewKeyboard().
				Row(common.Button("❌ Отменить", common.CallbackData(common.CallbackCancel, a.ID))).
				Build()
		}
		h.sendMessage(ctx, b, chatID, common.FormatAppointment(a), markup)
	}
}

// HandleComment /comment <встреча> <текст>
func (h *Handlers) HandleComment(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := common.CommandArgs(update.Message.Text)
	if len(args) < 2 {
		h.sendError(ctx, b, chatID, common.ErrInvalidFormat)
		return
	}
	appointmentID, err := common.ParseID(args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	comment, err := h.svc.Comments.AddComment(ctx, appointmentID, user.ID, strings.Join(args[1:], " "))
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("💬 Комментарий #%d добавлен", comment.ID), nil)
}

// HandleComments /comments <встреча>
func (h *Handlers) HandleComments(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := common.CommandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, common.ErrInvalidFormat)
		return
	}
	appointmentID, err := common.ParseID(args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	comments, err := h.svc.Comments.ListComments(ctx, appointmentID, user.ID)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	if len(comments) == 0 {
		h.sendMessage(ctx, b, chatID, "💬 Комментариев нет", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("💬 Комментарии:\n")
	for _, c := range comments {
		author := "участник"
		if c.AuthorID == user.ID {
			author = "вы"
		}
		fmt.Fprintf(&sb, "\n#%d %s (%s):\n%s\n", c.ID, c.CreatedAt.In(h.clock.Now().Location()).Format("02.01 15:04"), author, c.Text)
	}
	h.sendMessage(ctx, b, chatID, sb.String(), nil)
}

// HandleFeedback /feedback <встреча> <1-5> [заметки]
func (h *Handlers) HandleFeedback(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := common.CommandArgs(update.Message.Text)
	if len(args) < 2 {
		h.sendError(ctx, b, chatID, common.ErrInvalidFormat)
		return
	}
	appointmentID, err := common.ParseID(args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		h.sendError(ctx, b, chatID, fmt.Errorf("%w: rating %q", common.ErrInvalidFormat, args[1]))
		return
	}

	_, err = h.svc.Feedback.SubmitFeedback(ctx, appointmentID, user.ID, service.FeedbackInput{
		Rating: rating,
		Notes:  strings.Join(args[2:], " "),
	})
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	h.sendMessage(ctx, b, chatID, "⭐ Спасибо за отзыв!", nil)
}
