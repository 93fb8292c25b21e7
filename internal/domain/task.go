package domain

import "time"

// Task is the persisted task record. UserID is never serialized.
type Task struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	Completed   bool       `json:"completed" db:"completed"`
	UserID      int64      `json:"-" db:"user_id"`
}

// NewTask holds the client-settable fields of a task being created.
type NewTask struct {
	Title       string
	Description *string
	DueDate     *time.Time
}

// TaskPatch describes a partial update. Only fields present in the
// request are applied; nullable columns may be explicitly cleared.
type TaskPatch struct {
	Title       *string
	Description Field[string]
	DueDate     Field[time.Time]
	Completed   *bool
}

// Empty reports whether the patch carries no fields at all.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && !p.Description.Set && !p.DueDate.Set && p.Completed == nil
}

// Apply returns a copy of t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description.Set {
		t.Description = p.Description.Ptr()
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Ptr()
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// InUTC returns t converted to UTC, or nil. Due dates are reported in UTC
// whatever offset they were written with.
func InUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// TaskEvent is broadcast to event stream subscribers after a write.
type TaskEvent struct {
	Type   string `json:"type"`
	TaskID int64  `json:"task_id"`
	Task   *Task  `json:"task,omitempty"`
}
