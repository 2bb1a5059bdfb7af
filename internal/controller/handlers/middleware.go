package handlers

import (
	"context"

	"github.com/Freeeeeet/officehours_bot/internal/controller/common"
	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireUser находит зарегистрированного отправителя сообщения.
// При ошибке сам отвечает пользователю и возвращает false.
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	user, err := h.svc.Users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return nil, false
	}
	if user == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrNotRegistered)
		return nil, false
	}
	return user, true
}

// requireHost то же, что requireUser, но только для хостов
func (h *Handlers) requireHost(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return nil, false
	}
	if !user.IsHost() {
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrNotHost)
		return nil, false
	}
	return user, true
}
