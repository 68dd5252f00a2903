package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes refresh events.  Messages are keyed by session so one
// session's events stay ordered within a partition.
type Producer struct {
	writer WriterInterface
	source string
	log    logging.Logger
}

// NewProducer builds a producer over the configured brokers.  source names
// the publishing service in the event envelope.
func NewProducer(cfg config.KafkaConfig, source string, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	retries := cfg.ProducerRetries
	if retries <= 0 {
		retries = 3
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		MaxAttempts:            retries + 1,
		BatchSize:              batchSize,
		BatchTimeout:           time.Second,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: cfg.AutoCreateTopics,
	}
	return &Producer{writer: writer, source: source, log: log.Named("producer")}
}

// NewProducerWithWriter wires an existing writer, for tests.
func NewProducerWithWriter(writer WriterInterface, source string, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Producer{writer: writer, source: source, log: log}
}

func (p *Producer) publish(ctx context.Context, topic string, session int, env *EventEnvelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to marshal event envelope")
	}
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.Itoa(session)),
		Value: value,
		Time:  env.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
			{Key: "source_service", Value: []byte(p.source)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, fmt.Sprintf("failed to publish to %s", topic))
	}
	p.log.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_id", env.EventID),
		logging.Int("session", session))
	return nil
}

// PublishRefreshRequested asks a worker to rebuild one session.
func (p *Producer) PublishRefreshRequested(ctx context.Context, session int, incremental bool) error {
	env, err := NewEventEnvelope(TopicRefreshRequested, p.source, RefreshRequestedPayload{
		Session:     session,
		Incremental: incremental,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.publish(ctx, TopicRefreshRequested, session, env)
}

// PublishStatsBuilt announces a finished build.
func (p *Producer) PublishStatsBuilt(ctx context.Context, payload StatsBuiltPayload) error {
	env, err := NewEventEnvelope(TopicStatsBuilt, p.source, payload)
	if err != nil {
		return err
	}
	return p.publish(ctx, TopicStatsBuilt, payload.Session, env)
}

// Close flushes and releases the writer.
func (p *Producer) Close() error { return p.writer.Close() }

//Personal.AI order the ending
