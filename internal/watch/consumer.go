package watch

import (
	"context"

	"bookly/pkg/events"
	"bookly/pkg/kafka"
	"bookly/pkg/logger"
)

// ChangeHandler adapts the hub to the consumer loop. It decodes change
// events and turns appointment changes into hub notifications.
func ChangeHandler(hub *Hub, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var change events.Change
		if err := msg.DecodeValue(&change); err != nil {
			// Malformed events are logged and committed, not retried.
			log.Warn("discarding undecodable change event",
				"key", msg.Key,
				"event_type", msg.EventType(),
				"error", err)
			return nil
		}

		switch change.Kind {
		case events.KindAppointmentBooked, events.KindAppointmentDeleted:
			hub.Notify(ctx, change.Date)
		case events.KindConfigUpdated:
			// Configuration changes do not alter stored appointments, so
			// watchers have nothing to re-read.
		default:
			log.Warn("discarding change event of unknown kind", "kind", change.Kind)
		}
		return nil
	}
}
