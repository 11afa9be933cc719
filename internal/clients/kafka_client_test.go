package clients

import (
	"context"
	"errors"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	produced    []*kafka.Message
	failures    int
	deliveryErr error
	flushes     int
	closed      bool
}

func (f *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	if f.failures > 0 {
		f.failures--
		return kafka.NewError(kafka.ErrQueueFull, "queue full", false)
	}
	f.produced = append(f.produced, msg)
	report := *msg
	report.TopicPartition.Error = f.deliveryErr
	go func() { deliveryChan <- &report }()
	return nil
}

func (f *fakeProducer) Flush(int) int {
	f.flushes++
	return 0
}

func (f *fakeProducer) Close() { f.closed = true }

func TestKafkaPublisher_Publish(t *testing.T) {
	fp := &fakeProducer{}
	k := &KafkaPublisher{Producer: fp, Topic: "sentiment-results"}

	require.NoError(t, k.Publish(context.Background(), []byte("run-1"), []byte(`{"index":0}`)))
	require.Len(t, fp.produced, 1)
	assert.Equal(t, "sentiment-results", *fp.produced[0].TopicPartition.Topic)
	assert.Equal(t, []byte("run-1"), fp.produced[0].Key)
}

func TestKafkaPublisher_RetriesFullQueue(t *testing.T) {
	fp := &fakeProducer{failures: 2}
	k := &KafkaPublisher{Producer: fp, Topic: "t"}

	require.NoError(t, k.Publish(context.Background(), nil, []byte("v")))
	assert.Equal(t, 2, fp.flushes)
	assert.Len(t, fp.produced, 1)
}

func TestKafkaPublisher_GivesUpAfterRetries(t *testing.T) {
	fp := &fakeProducer{failures: KAFKA_PRODUCE_RETRIES}
	k := &KafkaPublisher{Producer: fp, Topic: "t"}

	assert.Error(t, k.Publish(context.Background(), nil, []byte("v")))
	assert.Empty(t, fp.produced)
}

func TestKafkaPublisher_DeliveryFailure(t *testing.T) {
	deliveryErr := errors.New("broker down")
	fp := &fakeProducer{deliveryErr: deliveryErr}
	k := &KafkaPublisher{Producer: fp, Topic: "t"}

	err := k.Publish(context.Background(), nil, []byte("v"))
	assert.ErrorIs(t, err, deliveryErr)
}

func TestKafkaPublisher_Close(t *testing.T) {
	fp := &fakeProducer{}
	k := &KafkaPublisher{Producer: fp, Topic: "t"}
	k.Close()
	assert.True(t, fp.closed)
	assert.Equal(t, 1, fp.flushes)
}
