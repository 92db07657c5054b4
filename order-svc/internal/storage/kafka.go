package storage

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/domain"
)

const OrdersTopic = "orders"

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// PublishEvent keys messages by order id so one order's events stay ordered
// within a partition.
func (p *KafkaPublisher) PublishEvent(ctx context.Context, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
}
