package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/officehours_bot/internal/controller/common"
	"github.com/Freeeeeet/officehours_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendError переводит ошибку в текст для пользователя.
// Ошибки, не относящиеся к классам сервиса, логируются как сбои.
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	if !isExpected(err) {
		h.logger.Error("Request failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	h.sendMessage(ctx, b, chatID, common.ErrorMessage(err), nil)
}

// NotifyUser пишет пользователю по внутреннему id. Ошибки только логируются.
func (h *Handlers) NotifyUser(ctx context.Context, b *bot.Bot, userID int64, text string, markup models.ReplyMarkup) {
	user, err := h.svc.Users.GetByID(ctx, userID)
	if err != nil {
		h.logger.Warn("Failed to load user for notification", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	// В личном чате chat id совпадает с telegram id
	h.sendMessage(ctx, b, user.TelegramID, text, markup)
}

func isExpected(err error) bool {
	for _, kind := range []error{
		service.ErrValidation, service.ErrConflict, service.ErrNotFound, service.ErrForbidden,
		common.ErrInvalidFormat, common.ErrRateLimited, common.ErrNotRegistered, common.ErrBadInviteCode,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
