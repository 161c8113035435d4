// Package events publishes lifecycle and booking events. Publishing is
// fire-and-forget: a broker failure is logged and never fails the request
// that produced the event.
package events

import (
	"context"

	"kairooms/pkg/kafka"
	kafkaconfig "kairooms/pkg/kafka/config"
	"kairooms/pkg/logger"
)

const (
	TypeUserRegistered    = "user.registered"
	TypeUserVerified      = "user.verified"
	TypeUserApproved      = "user.approved"
	TypeBookingCreated    = "booking.created"
	TypeBookingInviteSent = "booking.invite_sent"
)

type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload any)
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

// NewKafkaPublisher builds a publisher over the shared producer, or a no-op
// publisher when no brokers are configured.
func NewKafkaPublisher(cfg *kafkaconfig.Config, topic, source string, log *logger.Logger) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		log.Info("Kafka brokers not configured, events disabled")
		return NopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg, topic)
	if err != nil {
		return nil, err
	}

	log.Info("Kafka event publisher initialized", "topic", topic)
	return &kafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, key, eventType string, payload any) {
	msg := kafka.NewMessage(key, eventType, p.source, payload)
	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops events. Used when brokers are unset and in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) {}
func (NopPublisher) Close() error                                 { return nil }
