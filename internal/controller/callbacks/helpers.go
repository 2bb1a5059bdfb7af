package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// answer отвечает на callback query (без alert)
func answer(ctx context.Context, b *bot.Bot, callbackID, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
}

// answerAlert отвечает всплывающим окном
func answerAlert(ctx context.Context, b *bot.Bot, callbackID, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// chatID чат исходного сообщения; для старых сообщений Telegram его не присылает
func chatID(callback *models.CallbackQuery) int64 {
	if callback.Message.Message != nil {
		return callback.Message.Message.Chat.ID
	}
	return callback.From.ID
}

// removeKeyboard убирает кнопки, чтобы действие нельзя было повторить
func removeKeyboard(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := callback.Message.Message
	if msg == nil {
		return
	}
	b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})
}
