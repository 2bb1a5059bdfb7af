package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() Message {
	return Message{
		To: []Recipient{
			{Name: "Ann", Email: "ann@example.com", TelegramChatID: 11},
			{Name: "Host", TelegramChatID: 22},
		},
		Subject: "Встреча подтверждена",
		Body:    "15.01.2026 14:00",
		Attachment: &Attachment{
			Filename:    "meeting.ics",
			ContentType: "text/calendar",
			Data:        []byte("BEGIN:VCALENDAR"),
		},
	}
}

type failingNotifier struct{ err error }

func (f failingNotifier) Notify(context.Context, Message) error { return f.err }

type countingNotifier struct{ calls int }

func (c *countingNotifier) Notify(context.Context, Message) error {
	c.calls++
	return nil
}

func TestMulti_CallsAllAndJoinsErrors(t *testing.T) {
	first := errors.New("first")
	counter := &countingNotifier{}

	err := Multi{failingNotifier{err: first}, counter, Nop{}}.Notify(context.Background(), testMessage())

	require.Error(t, err)
	assert.ErrorIs(t, err, first)
	assert.Equal(t, 1, counter.calls)
}

func TestSMTPNotifier_SendsOnlyToEmails(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "localhost", Port: 1025, From: "bot@example.com"})

	var gotTo []string
	var gotBody []byte
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "localhost:1025", addr)
		assert.Equal(t, "bot@example.com", from)
		gotTo = to
		gotBody = msg
		return nil
	}

	require.NoError(t, n.Notify(context.Background(), testMessage()))
	assert.Equal(t, []string{"ann@example.com"}, gotTo)
	assert.Contains(t, string(gotBody), "multipart/mixed")
	assert.Contains(t, string(gotBody), `filename="meeting.ics"`)
}

func TestSMTPNotifier_NoEmailRecipients(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "localhost", Port: 25})
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}

	msg := testMessage()
	msg.To = []Recipient{{TelegramChatID: 1}}
	assert.NoError(t, n.Notify(context.Background(), msg))
}

type fakeSender struct {
	messages  []int64
	documents []int64
}

func (f *fakeSender) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	f.messages = append(f.messages, p.ChatID.(int64))
	return &models.Message{}, nil
}

func (f *fakeSender) SendDocument(_ context.Context, p *bot.SendDocumentParams) (*models.Message, error) {
	f.documents = append(f.documents, p.ChatID.(int64))
	return &models.Message{}, nil
}

func TestTelegramNotifier_SendsTextAndDocument(t *testing.T) {
	sender := &fakeSender{}

	require.NoError(t, NewTelegramNotifier(sender).Notify(context.Background(), testMessage()))
	assert.Equal(t, []int64{11, 22}, sender.messages)
	assert.Equal(t, []int64{11, 22}, sender.documents)
}

type fakeWriter struct{ msgs []kafka.Message }

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestKafkaNotifier_PublishesEvent(t *testing.T) {
	w := &fakeWriter{}

	require.NoError(t, NewKafkaNotifier(w, "notifications").Notify(context.Background(), testMessage()))
	require.Len(t, w.msgs, 1)

	m := w.msgs[0]
	assert.Equal(t, "notifications", m.Topic)
	assert.Equal(t, []byte("ann@example.com"), m.Key)

	var ev notificationEvent
	require.NoError(t, json.Unmarshal(m.Value, &ev))
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "Встреча подтверждена", ev.Subject)
	assert.True(t, bytes.Equal([]byte("BEGIN:VCALENDAR"), ev.Attachment.Data))
}
