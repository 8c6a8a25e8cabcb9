package events

import (
	"context"
	"fmt"
	"log"
	"time"

	"aesthetx/internal/kafka"

	"github.com/google/uuid"
)

// Publisher delivers domain events. Publishing is best effort: callers log
// failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, topic, eventType, key string, payload any) error
}

// NewEnvelope wraps a payload with the event metadata.
func NewEnvelope(producer, eventType, correlationID string, payload any) (Envelope, error) {
	body, err := kafka.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       body,
	}, nil
}

// KafkaPublisher sends envelopes through the shared producer, keyed so
// that all events of one order land on the same partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	name     string
}

func NewKafkaPublisher(producer *kafka.Producer, name string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, name: name}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, eventType, key string, payload any) error {
	env, err := NewEnvelope(p.name, eventType, key, payload)
	if err != nil {
		return err
	}
	value, err := kafka.Marshal(env)
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, topic, []byte(key), value); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

// LogPublisher is used when no brokers are configured. Events are logged
// and dropped.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, topic, eventType, key string, _ any) error {
	log.Printf("event %s for %s dropped (no kafka brokers configured, topic %s)", eventType, key, topic)
	return nil
}
