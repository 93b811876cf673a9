package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher publishes widget lifecycle messages. Implementations must
// be safe for concurrent use and must not block request handling.
type Publisher interface {
	Publish(ctx context.Context, eventType, tenantKey string, payload interface{}) error
	Close()
}

// Config holds Kafka producer settings
type Config struct {
	Brokers  []string
	ClientID string
	Topic    string
}

// Message is the wire envelope for lifecycle messages
type Message struct {
	Type      string          `json:"type"`
	TenantKey string          `json:"tenant_key"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	EmittedAt time.Time       `json:"emitted_at"`
}

// Producer publishes lifecycle messages via franz-go
type Producer struct {
	client *kgo.Client
	topic  string
	onErr  func(error)
}

// NewProducer creates a Kafka producer. onErr receives async delivery
// failures; pass nil to drop them.
func NewProducer(cfg *Config, onErr func(error)) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.ProducerBatchCompression(kgo.Lz4Compression()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	if onErr == nil {
		onErr = func(error) {}
	}

	return &Producer{client: client, topic: cfg.Topic, onErr: onErr}, nil
}

// Publish emits a lifecycle message asynchronously. Delivery failures
// surface through onErr; the request path never waits on the broker.
func (p *Producer) Publish(ctx context.Context, eventType, tenantKey string, payload interface{}) error {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		raw = b
	}

	value, err := json.Marshal(Message{
		Type:      eventType,
		TenantKey: tenantKey,
		Payload:   raw,
		EmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(tenantKey),
		Value: value,
	}

	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.onErr(err)
		}
	})
	return nil
}

// Close flushes pending records and closes the client
func (p *Producer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}

// NoopPublisher drops all messages; used when Kafka is disabled
type NoopPublisher struct{}

// NewNoopPublisher returns a publisher that discards everything
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish discards the message
func (*NoopPublisher) Publish(context.Context, string, string, interface{}) error {
	return nil
}

// Close is a no-op
func (*NoopPublisher) Close() {}
