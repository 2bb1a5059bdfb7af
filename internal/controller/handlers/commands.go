package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/officehours_bot/internal/controller/common"
	"github.com/Freeeeeet/officehours_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Для участников:\n" +
	"/slots <программа> [дата] - свободные слоты\n" +
	"/mybookings [past|pending] - мои встречи\n" +
	"/comment <встреча> <текст> - комментарий к встрече\n" +
	"/comments <встреча> - комментарии встречи\n" +
	"/feedback <встреча> <1-5> [заметки] - отзыв после встречи\n" +
	"/email <адрес> - почта для приглашений в календарь\n" +
	"/cancel - прервать текущий диалог\n\n" +
	"Для ведущих:\n" +
	"/becomehost [код] - стать ведущим\n" +
	"/newprogram <мин> <auto|manual|dropin> <название> - создать программу\n" +
	"/programs - мои программы\n" +
	"/limits <программа> <день> <неделя> <месяц> - лимиты встреч (- без лимита)\n" +
	"/avail <программа> <ГГГГ-ММ-ДД> <ЧЧ:ММ> <ЧЧ:ММ> - добавить окно\n" +
	"/windows <программа> - окна программы\n" +
	"/deactivate <окно>, /activate <окно>, /delavail <окно>\n" +
	"/pending - заявки на подтверждение\n" +
	"/week [дата] - расписание недели картинкой"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	user, err := h.svc.Users.RegisterUser(ctx, from.ID, from.Username, from.FirstName, from.LastName, from.LanguageCode)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	text := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот записи на консультации (office hours).\n"+
			"Ведущие публикуют окна, участники бронируют слоты.\n\n%s",
		user.DisplayName(), helpText,
	)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleCancel прерывает текущий диалог
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	if st, _ := h.stateManager.Take(update.Message.From.ID); st == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.", nil)
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.", nil)
}

// HandleBecomeHost /becomehost [код]
func (h *Handlers) HandleBecomeHost(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	if user.IsHost() {
		h.sendMessage(ctx, b, chatID, "ℹ️ Вы уже ведущий. Создайте программу: /newprogram", nil)
		return
	}

	if h.inviteCode != "" {
		args := common.CommandArgs(update.Message.Text)
		if len(args) != 1 || args[0] != h.inviteCode {
			h.logger.Warn("Host invite code rejected", zap.Int64("user_id", user.ID))
			h.sendError(ctx, b, chatID, common.ErrBadInviteCode)
			return
		}
	}

	user, err := h.svc.Users.MakeHost(ctx, user.ID)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	if !user.IsHost() {
		h.sendMessage(ctx, b, chatID, "ℹ️ Роль администратора не меняется.", nil)
		return
	}

	h.sendMessage(ctx, b, chatID,
		"🎓 Теперь вы ведущий!\n\n"+
			"1. Создайте программу: /newprogram 30 auto Консультация\n"+
			"2. Добавьте окно: /avail <программа> 2025-03-10 09:00 12:00", nil)
}

// HandleEmail /email <адрес>
func (h *Handlers) HandleEmail(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := common.CommandArgs(update.Message.Text)
	if len(args) != 1 {
		if user.Email != "" {
			h.sendMessage(ctx, b, chatID, "📧 Текущий адрес: "+user.Email, nil)
			return
		}
		h.sendError(ctx, b, chatID, common.ErrInvalidFormat)
		return
	}

	if _, err := h.svc.Users.SetEmail(ctx, user.ID, args[0]); err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	h.sendMessage(ctx, b, chatID, "✅ Адрес сохранён. Приглашения будут приходить на "+args[0], nil)
}
