package events

import (
	"context"
	"errors"
	"fleet-charging-service/internal/domain"
	"fleet-charging-service/internal/platform/obs"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher announces completed runs on a Kafka topic, keyed by run id.
type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher: no brokers configured")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher: topic must be non-empty")
	}

	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (p *KafkaPublisher) PublishRun(ctx context.Context, run domain.ChargingRun) (err error) {
	defer obs.Time(ctx, "events.kafka.PublishRun")(&err)

	value, err := encodeRun(run)
	if err != nil {
		return fmt.Errorf("publish run %s: encode: %w", run.ID, err)
	}

	if err := p.w.WriteMessages(ctx, kafka.Message{Key: []byte(run.ID), Value: value}); err != nil {
		return fmt.Errorf("publish run %s: %w", run.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }
