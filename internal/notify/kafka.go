package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MessageWriter *kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaNotifier публикует уведомления в топик для внешних рассыльщиков
type KafkaNotifier struct {
	writer MessageWriter
	topic  string
	now    func() time.Time
}

type notificationEvent struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Message
}

// NewKafkaWriter создаёт writer для списка брокеров через запятую
func NewKafkaWriter(brokers string) *kafka.Writer {
	var list []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			list = append(list, b)
		}
	}
	return &kafka.Writer{
		Addr:     kafka.TCP(list...),
		Balancer: &kafka.Hash{},
	}
}

func NewKafkaNotifier(writer MessageWriter, topic string) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, topic: topic, now: time.Now}
}

func (n *KafkaNotifier) Notify(ctx context.Context, msg Message) error {
	event := notificationEvent{
		EventID:    uuid.NewString(),
		OccurredAt: n.now().UTC(),
		Message:    msg,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	key := event.EventID
	if len(msg.To) > 0 && msg.To[0].Email != "" {
		key = msg.To[0].Email
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Topic: n.topic,
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte("appointment.notification")},
		},
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
