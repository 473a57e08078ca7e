package email

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer enqueues email for delivery. Callers use it best-effort: a failed
// enqueue must not fail the business operation that triggered the email.
type Producer interface {
	// Enqueue hands off a single message for delivery.
	Enqueue(ctx context.Context, msg Message) error
	// Close releases resources. Safe to call if already closed.
	Close() error
}

// KafkaProducer implements Producer by writing messages to a Kafka topic; a
// worker consumes the topic and performs the actual delivery.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer creates a producer writing email messages to topic.
// Returns nil if brokers or topic are unset; callers should fall back to
// synchronous delivery then. Call Close when shutting down.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaProducer{writer: writer}
}

// Enqueue serializes the message as JSON and writes it to the topic, keyed by
// recipient so retries for one address stay ordered.
func (p *KafkaProducer) Enqueue(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(msg.To),
		Value: payload,
	})
}

// Close closes the Kafka writer.
func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// SyncProducer implements Producer by delivering immediately through the
// client. Used when Kafka is not configured.
type SyncProducer struct {
	client *MailpitClient
	logger *zap.Logger
}

func NewSyncProducer(client *MailpitClient, logger *zap.Logger) *SyncProducer {
	return &SyncProducer{client: client, logger: logger}
}

func (p *SyncProducer) Enqueue(ctx context.Context, msg Message) error {
	if err := p.client.Send(ctx, msg); err != nil {
		p.logger.Warn("synchronous email delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return err
	}
	return nil
}

func (p *SyncProducer) Close() error { return nil }
