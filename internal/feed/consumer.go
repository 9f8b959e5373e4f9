package feed

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Consumer struct {
	reducer *Reducer
	reader  *kafka.Reader
	log     *zap.Logger
}

func NewConsumer(reducer *Reducer, topic, groupID string, log *zap.Logger, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reducer: reducer, reader: reader, log: log}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.Error("closing kafka reader", zap.Error(err))
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.log.Error("reading product event", zap.Error(err))
		return
	}

	var event ProductEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		c.log.Error("parsing product event", zap.Error(err))
		return
	}

	if event.Product.ID == "" {
		c.log.Warn("product event without product id, skipping")
		return
	}

	c.reducer.Apply(event)
}
