package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"aesthetx/internal/events"
	"aesthetx/internal/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// Service turns domain events into transactional email.
type Service struct {
	mailer Mailer
	from   string
}

func NewService(mailer Mailer, from string) *Service {
	return &Service{mailer: mailer, from: from}
}

// HandleMessage is the consumer handler. A returned error makes the consumer
// retry the message; malformed or rejected messages are logged and dropped.
func (s *Service) HandleMessage(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		log.Printf("dropping malformed event on %s at offset %d: %v", m.Topic, m.Offset, err)
		return nil
	}
	return s.Handle(ctx, env)
}

func (s *Service) Handle(ctx context.Context, env events.Envelope) error {
	msg, err := s.compose(env)
	if err != nil {
		log.Printf("dropping event %s (%s): %v", env.EventID, env.EventType, err)
		return nil
	}
	if msg == nil {
		return nil
	}
	if msg.To == "" {
		log.Printf("event %s (%s) has no recipient", env.EventID, env.EventType)
		return nil
	}

	if err := s.mailer.Send(ctx, *msg); errors.Is(err, ErrRejected) {
		log.Printf("dropping event %s (%s): %v", env.EventID, env.EventType, err)
		return nil
	} else if err != nil {
		return fmt.Errorf("send %s email: %w", env.EventType, err)
	}
	log.Printf("📧 sent %q to %s", msg.Subject, msg.To)
	return nil
}

func (s *Service) compose(env events.Envelope) (*Message, error) {
	var (
		msg Message
		err error
	)
	switch env.EventType {
	case events.EventUserSignedUp:
		p, perr := kafka.UnwrapPayload[events.UserSignedUpPayload](env.Payload)
		if perr != nil {
			return nil, perr
		}
		msg, err = WelcomeMessage(s.from, p)
	case events.EventOrderPlaced:
		p, perr := kafka.UnwrapPayload[events.OrderPlacedPayload](env.Payload)
		if perr != nil {
			return nil, perr
		}
		msg, err = OrderConfirmationMessage(s.from, p)
	case events.EventOrderStatusChanged:
		p, perr := kafka.UnwrapPayload[events.OrderStatusChangedPayload](env.Payload)
		if perr != nil {
			return nil, perr
		}
		msg, err = StatusUpdateMessage(s.from, p)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
