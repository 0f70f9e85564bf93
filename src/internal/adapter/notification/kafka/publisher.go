package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher delivers notifications to a topic keyed by recipient, so every
// message for one user lands on the same partition in order.
type Publisher struct {
	writer messageWriter
	topic  string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		topic: topic,
	}
}

func (p *Publisher) SendToUser(ctx context.Context, recipient string, notification domain.Notification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(recipient),
		Value: data,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(notification.Action)},
			{Key: "kind", Value: []byte(notification.Kind)},
		},
	})
	if err != nil {
		logger.Error("kafka publisher write failed", err, logger.Fields{
			"topic":     p.topic,
			"recipient": recipient,
		})
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
