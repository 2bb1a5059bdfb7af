// Package notify доставляет подтверждения встреч участникам.
package notify

import (
	"context"
	"errors"
)

// Recipient адресат уведомления; незаполненные каналы пропускаются
type Recipient struct {
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	TelegramChatID int64  `json:"telegram_chat_id,omitempty"`
}

type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

type Message struct {
	To         []Recipient `json:"to"`
	Subject    string      `json:"subject"`
	Body       string      `json:"body"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Nop ничего не отправляет
type Nop struct{}

func (Nop) Notify(context.Context, Message) error { return nil }

// Multi рассылает сообщение через все каналы и собирает ошибки
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
