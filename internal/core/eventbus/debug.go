package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger logs bus activity to logger. Published events are
// logged at debug level with the task they concern, drops at warn, and
// subscriber panics at error.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		logger.Debug().Str("event", string(event)).Str("task_id", taskOf(payload)).Msg("event published")
	})
	bus.OnDrop(func(event Event, payload any) {
		logger.Warn().Str("event", string(event)).Str("task_id", taskOf(payload)).Msg("event dropped, buffer full")
	})
	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().Str("event", string(event)).Str("panic", fmt.Sprint(recovered)).Msg("subscriber panicked")
	})
}

func taskOf(payload any) string {
	switch p := payload.(type) {
	case TaskCreatedPayload:
		return p.Task.ID
	case TaskUpdatedPayload:
		return p.Task.ID
	case TaskDeletedPayload:
		return p.TaskID
	case ItemRatedPayload:
		return p.TaskID
	}
	return ""
}
