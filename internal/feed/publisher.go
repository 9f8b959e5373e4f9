package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Publisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewPublisher(topic string, log *zap.Logger, brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, log: log}
}

// Publish keys messages by product id so all events for one product stay
// ordered on a single partition.
func (p *Publisher) Publish(ctx context.Context, event ProductEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal product event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Product.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write product event: %w", err)
	}

	p.log.Debug("product event published",
		zap.String("type", string(event.Type)),
		zap.String("product_id", event.Product.ID),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
