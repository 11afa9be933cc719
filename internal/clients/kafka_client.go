package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

const (
	KAFKA_PRODUCE_RETRIES  = 3
	KAFKA_FLUSH_TIMEOUT_MS = 5000
)

// KafkaProducer is the subset of *kafka.Producer the publisher uses.
type KafkaProducer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

type KafkaPublisher struct {
	Producer KafkaProducer
	Topic    string
}

func NewKafkaPublisher(broker, topic string) (*KafkaPublisher, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", broker),
		slog.String("topic", topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &KafkaPublisher{Producer: p, Topic: topic}, nil
}

// Publish produces one message and blocks until the broker acknowledges it.
func (k *KafkaPublisher) Publish(ctx context.Context, key, value []byte) error {
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.Topic, Partition: kafka.PartitionAny},
		Key:            key,
		Value:          value,
	}

	deliveryChan := make(chan kafka.Event, 1)
	var err error
	for i := 0; i < KAFKA_PRODUCE_RETRIES; i++ {
		err = k.Producer.Produce(msg, deliveryChan)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		// local queue is full; let the producer drain
		k.Producer.Flush(100)
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce after %d attempts: %w", KAFKA_PRODUCE_RETRIES, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(REQUEST_TIMEOUT):
		return fmt.Errorf("[KafkaClient] delivery report not received within %s", REQUEST_TIMEOUT)
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaClient] unexpected delivery event: %v", e)
		}
		if m.TopicPartition.Error != nil {
			slog.Error("[KafkaClient] Delivery failed",
				slog.String("topic", k.Topic),
				slog.String("error", m.TopicPartition.Error.Error()))
			return fmt.Errorf("[KafkaClient] delivery failed: %w", m.TopicPartition.Error)
		}
		slog.Debug("[KafkaClient] Message delivered",
			slog.String("topic", k.Topic),
			slog.Int("partition", int(m.TopicPartition.Partition)),
			slog.String("offset", m.TopicPartition.Offset.String()))
	}
	return nil
}

func (k *KafkaPublisher) Close() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if remaining := k.Producer.Flush(KAFKA_FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	k.Producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}
