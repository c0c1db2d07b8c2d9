// Package assessment defines the data model shared by every part of assess:
// templates, tasks, checklist items, results, and the Store contract that the
// local and remote backends implement.
package assessment

import (
	"errors"
	"time"
)

var (
	// ErrValidation is returned when a request is missing required fields or
	// carries an unknown enum value.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a task, item, or template id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("backend unavailable")
)

// Status is the lifecycle state of a Task.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Template describes an assessment standard. Templates are immutable once seeded.
type Template struct {
	ID          string `json:"id"          yaml:"id"`
	Name        string `json:"name"        yaml:"name"`
	Standard    string `json:"standard"    yaml:"standard"`
	Description string `json:"description" yaml:"description"`
	Dimensions  int    `json:"dimensions"  yaml:"dimensions"`
	Items       int    `json:"items"       yaml:"items"`
	Levels      string `json:"levels"      yaml:"levels"`

	// DimensionNames lays out templates that have no built-in dimension
	// table. Empty means the table for ID is used.
	DimensionNames []string `json:"dimension_names,omitempty" yaml:"dimension_names"`
}

// Task is one self-assessment run against a Template.
type Task struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Organization string    `json:"organization"`
	TemplateID   string    `json:"template_id"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TaskDraft carries the caller-supplied fields for a new Task.
type TaskDraft struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	TemplateID   string `json:"template_id"`
}

// TaskPatch is a partial update of a Task. A nil field is left untouched.
type TaskPatch struct {
	Name         *string `json:"name,omitempty"`
	Organization *string `json:"organization,omitempty"`
	Status       *Status `json:"status,omitempty"`
}

// Apply merges the patch into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Organization != nil {
		t.Organization = *p.Organization
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

// Stats counts tasks by status.
type Stats struct {
	TotalTasks      int `json:"total_tasks"`
	CompletedTasks  int `json:"completed_tasks"`
	InProgressTasks int `json:"in_progress_tasks"`
}

// StatsOf derives Stats from a full task list.
func StatsOf(tasks []Task) Stats {
	st := Stats{TotalTasks: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusCompleted:
			st.CompletedTasks++
		case StatusInProgress:
			st.InProgressTasks++
		}
	}
	return st
}
