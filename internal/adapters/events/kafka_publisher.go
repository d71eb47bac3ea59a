package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/SscSPs/expense_fx_engine/internal/core/ports/gateways"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaRatePublisher publishes monthly rate writes as JSON messages keyed by currency pair.
type KafkaRatePublisher struct {
	writer MessageWriter
}

// NewKafkaRatePublisher creates a publisher writing to topic on brokers.
func NewKafkaRatePublisher(brokers []string, topic string) *KafkaRatePublisher {
	return NewKafkaRatePublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	})
}

// NewKafkaRatePublisherWithWriter creates a publisher over an existing writer.
func NewKafkaRatePublisherWithWriter(writer MessageWriter) *KafkaRatePublisher {
	return &KafkaRatePublisher{writer: writer}
}

var _ gateways.RateEventPublisher = (*KafkaRatePublisher)(nil)

// PublishRateEvent writes one message. Events for the same pair land on the same partition.
func (k *KafkaRatePublisher) PublishRateEvent(ctx context.Context, event domain.RateEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode rate event: %w", err)
	}

	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(domain.PairKey(event.Rate.FromCurrency, event.Rate.ToCurrency)),
		Value: value,
		Time:  occurred,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish rate event: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (k *KafkaRatePublisher) Close() error {
	return k.writer.Close()
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

var _ gateways.RateEventPublisher = NoopPublisher{}

func (NoopPublisher) PublishRateEvent(context.Context, domain.RateEvent) error {
	return nil
}
