package notify

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramSender часть API бота, нужная для уведомлений
type TelegramSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
}

type TelegramNotifier struct {
	bot TelegramSender
}

func NewTelegramNotifier(b TelegramSender) *TelegramNotifier {
	return &TelegramNotifier{bot: b}
}

func (n *TelegramNotifier) Notify(ctx context.Context, msg Message) error {
	text := fmt.Sprintf("<b>%s</b>\n\n%s", html.EscapeString(msg.Subject), html.EscapeString(msg.Body))

	for _, r := range msg.To {
		if r.TelegramChatID == 0 {
			continue
		}

		_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    r.TelegramChatID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			return fmt.Errorf("send telegram message to %d: %w", r.TelegramChatID, err)
		}

		if a := msg.Attachment; a != nil {
			_, err = n.bot.SendDocument(ctx, &bot.SendDocumentParams{
				ChatID: r.TelegramChatID,
				Document: &models.InputFileUpload{
					Filename: a.Filename,
					Data:     bytes.NewReader(a.Data),
				},
			})
			if err != nil {
				return fmt.Errorf("send telegram document to %d: %w", r.TelegramChatID, err)
			}
		}
	}

	return nil
}
