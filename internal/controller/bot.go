package controller

import (
	"context"

	"github.com/Freeeeeet/officehours_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/officehours_bot/internal/controller/common"
	"github.com/Freeeeeet/officehours_bot/internal/controller/handlers"
	"github.com/Freeeeeet/officehours_bot/internal/controller/state"
	"github.com/Freeeeeet/officehours_bot/internal/ratelimit"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	svc common.Services,
	limiter ratelimit.Limiter,
	clock timewindow.Clock,
	hostInviteCode string,
	logger *zap.Logger,
) *BotController {
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(svc, limiter, stateManager, clock, hostInviteCode, logger)
	callbackHandler := callbacks.NewHandler(svc, cmdHandlers, stateManager, logger)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

type command struct {
	name        string
	description string
	handler     bot.HandlerFunc
}

func (c *BotController) commands() []command {
	h := c.handlers
	return []command{
		{"start", "🚀 Начать работу с ботом", h.HandleStart},
		{"help", "❓ Справка по командам", h.HandleHelp},
		{"slots", "🕐 Свободные слоты программы", h.HandleSlots},
		{"mybookings", "📅 Мои встречи", h.HandleMyBookings},
		{"comment", "💬 Комментарий к встрече", h.HandleComment},
		{"comments", "💬 Комментарии встречи", h.HandleComments},
		{"feedback", "⭐ Отзыв о встрече", h.HandleFeedback},
		{"email", "📧 Почта для приглашений", h.HandleEmail},
		{"cancel", "✖️ Прервать диалог", h.HandleCancel},
		{"becomehost", "🎓 Стать ведущим", h.HandleBecomeHost},
		{"newprogram", "➕ Создать программу (ведущий)", h.HandleNewProgram},
		{"programs", "📚 Мои программы (ведущий)", h.HandlePrograms},
		{"limits", "📈 Лимиты встреч (ведущий)", h.HandleLimits},
		{"avail", "🗓 Добавить окно (ведущий)", h.HandleAvail},
		{"windows", "🗂 Окна программы (ведущий)", h.HandleWindows},
		{"deactivate", "⚪ Выключить окно (ведущий)", h.HandleDeactivate},
		{"activate", "🟢 Включить окно (ведущий)", h.HandleActivate},
		{"delavail", "🗑 Удалить окно (ведущий)", h.HandleDeleteAvailability},
		{"pending", "⏳ Заявки (ведущий)", h.HandlePending},
		{"week", "🖼 Расписание недели (ведущий)", h.HandleWeek},
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	for _, cmd := range c.commands() {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, cmd.name, bot.MatchTypeCommandStartOnly, cmd.handler)
	}

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// HandleDefault получает сообщения, не подошедшие ни к одной команде (ответы в диалогах)
func (c *BotController) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.handlers.HandleTextMessage(ctx, b, update)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	cmds := c.commands()
	menu := make([]models.BotCommand, 0, len(cmds))
	for _, cmd := range cmds {
		menu = append(menu, models.BotCommand{Command: cmd.name, Description: cmd.description})
	}

	if _, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: menu}); err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set", zap.Int("count", len(menu)))
	return nil
}

// Start запускает long polling и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot")
	c.bot.Start(ctx)
}
