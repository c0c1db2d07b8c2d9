// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within assess.
package eventbus

import "github.com/colonyops/assess/internal/core/assessment"

// Event names an event type.
type Event string

// Keep list sorted A-Z.
const (
	EventItemRated   Event = "item.rated"
	EventTaskCreated Event = "task.created"
	EventTaskDeleted Event = "task.deleted"
	EventTaskUpdated Event = "task.updated"
)

// TaskCreatedPayload is emitted when a new task is created.
type TaskCreatedPayload struct {
	Task assessment.Task
}

// TaskUpdatedPayload is emitted when a task's fields or status change.
type TaskUpdatedPayload struct {
	Task assessment.Task
}

// TaskDeletedPayload is emitted when a task is deleted.
type TaskDeletedPayload struct {
	TaskID string
}

// ItemRatedPayload is emitted when a checklist item is updated.
type ItemRatedPayload struct {
	TaskID string
	Item   assessment.Item
}
