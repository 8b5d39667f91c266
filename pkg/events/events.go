// Package events defines the change notifications emitted after every
// successful write. Consumers treat them as invalidation signals only and
// re-read the store for the authoritative state.
package events

import (
	"context"

	"bookly/pkg/kafka"
	kafka_config "bookly/pkg/kafka/config"
)

const (
	KindAppointmentBooked  = "appointment.booked"
	KindAppointmentDeleted = "appointment.deleted"
	KindConfigUpdated      = "config.updated"

	// ConfigKey partitions configuration changes separately from any
	// calendar date.
	ConfigKey = "config"
)

type Change struct {
	Kind          string `json:"kind"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	AppointmentID string `json:"appointment_id,omitempty"`
}

// Publisher emits Changes. Writes must not fail because notification
// delivery failed, so implementations are expected to be used best-effort.
type Publisher interface {
	PublishChange(ctx context.Context, change Change) error
}

// KafkaPublisher publishes changes to the appointments topic, keyed by the
// affected date.
type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *KafkaPublisher) PublishChange(ctx context.Context, change Change) error {
	key := change.Date
	if key == "" {
		key = ConfigKey
	}

	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(change).
		WithEventType(change.Kind).
		WithSource(p.source).
		Build()
	if err != nil {
		return err
	}

	return p.producer.Publish(ctx, msg)
}

// Topic returns the topic KafkaPublisher writes to.
func (p *KafkaPublisher) Topic() string {
	return kafka_config.TopicAppointments
}
