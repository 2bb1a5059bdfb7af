package common

import "github.com/go-telegram/bot/models"

// Keyboard упрощает создание inline клавиатур
type Keyboard struct {
	rows [][]models.InlineKeyboardButton
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Row добавляет ряд кнопок; пустой ряд пропускается
func (k *Keyboard) Row(buttons ...models.InlineKeyboardButton) *Keyboard {
	if len(buttons) > 0 {
		k.rows = append(k.rows, buttons)
	}
	return k
}

func (k *Keyboard) Empty() bool { return len(k.rows) == 0 }

// Build возвращает nil для пустой клавиатуры, чтобы не слать пустой reply_markup
func (k *Keyboard) Build() models.ReplyMarkup {
	if k.Empty() {
		return nil
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: k.rows}
}

func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: callbackData}
}
