package kafka

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventHandler processes one decoded event.  A non-nil error leaves the
// message uncommitted so another fetch retries it.
type EventHandler func(ctx context.Context, env *EventEnvelope) error

// Consumer reads refresh events in a consumer group and dispatches them to a
// handler.
type Consumer struct {
	reader  ReaderInterface
	handler EventHandler
	log     logging.Logger
}

// NewConsumer subscribes to topic within the configured group.
func NewConsumer(cfg config.KafkaConfig, topic string, handler EventHandler, log logging.Logger) *Consumer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	groupID := cfg.GroupID
	if groupID == "" {
		groupID = config.DefaultKafkaGroupID
	}
	startOffset := kafka.LastOffset
	if cfg.AutoOffsetReset == "earliest" {
		startOffset = kafka.FirstOffset
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        groupID,
		Topic:          topic,
		StartOffset:    startOffset,
		MinBytes:       1,
		MaxBytes:       10 * 1024 * 1024,
		CommitInterval: 0, // explicit commits only
		MaxWait:        time.Second,
	})
	return &Consumer{reader: reader, handler: handler, log: log.Named("consumer")}
}

// NewConsumerWithReader wires an existing reader, for tests.
func NewConsumerWithReader(reader ReaderInterface, handler EventHandler, log logging.Logger) *Consumer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Consumer{reader: reader, handler: handler, log: log}
}

// Run consumes until ctx is cancelled or the reader closes.  Undecodable
// messages are committed and dropped; handler failures leave the offset
// uncommitted for redelivery.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		env, err := ParseEnvelope(msg.Value)
		if err != nil {
			c.log.Warn("dropping undecodable event",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err))
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return err
			}
			continue
		}

		if err := c.handler(ctx, env); err != nil {
			c.log.Error("event handler failed",
				logging.String("event_id", env.EventID),
				logging.String("event_type", env.EventType),
				logging.Err(err))
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// Close shuts the group reader down.
func (c *Consumer) Close() error { return c.reader.Close() }

//Personal.AI order the ending
