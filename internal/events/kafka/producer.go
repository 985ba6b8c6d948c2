package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CloudEvent is the envelope for every event this service publishes,
// per CloudEvents v1.0.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data,omitempty"`
}

// Publisher is what services see; the Kafka producer and the no-op
// publisher both satisfy it.
type Publisher interface {
	Publish(ctx context.Context, eventType string, subject string, data interface{}) error
	Close() error
}

// Producer publishes CloudEvents to a Kafka topic via a sarama
// synchronous producer.
type Producer struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
	topic    string
	source   string
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		logger:   logger.Named("kafka_producer"),
		topic:    topic,
		source:   "/auth-service",
	}, nil
}

func (p *Producer) Publish(ctx context.Context, eventType string, subject string, data interface{}) error {
	event := CloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          p.source,
		Subject:         subject,
		ID:              uuid.NewString(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(subject),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}

	p.logger.Debug("event published",
		zap.String("type", eventType),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}

var _ Publisher = (*Producer)(nil)

// NopPublisher discards events. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, interface{}) error { return nil }
func (NopPublisher) Close() error                                               { return nil }

var _ Publisher = NopPublisher{}
