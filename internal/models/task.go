package models

import "time"

// TaskPriority represents the priority of a learning task
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Task represents one learning activity tracked for a user
type Task struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	UserID      string       `json:"userId" gorm:"column:user_id;not null;index"`
	Title       string       `json:"title" gorm:"not null"`
	Subject     string       `json:"subject"`
	Description string       `json:"description"`
	DueDate     *time.Time   `json:"dueDate" gorm:"column:due_date;index"`
	Completed   bool         `json:"completed" gorm:"not null;default:false"`
	CompletedAt *time.Time   `json:"completedAt" gorm:"column:completed_at;index"`
	Priority    TaskPriority `json:"priority" gorm:"not null;default:'medium'"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// SetCompleted moves the task between the pending and completed states.
// completedAt is stamped on the false->true transition and cleared on the way back;
// setting the current state again is a no-op.
func (t *Task) SetCompleted(completed bool, now time.Time) {
	if t.Completed == completed {
		return
	}
	t.Completed = completed
	if completed {
		ts := now
		t.CompletedAt = &ts
		return
	}
	t.CompletedAt = nil
}

// HasSubject reports whether the task carries a non-empty subject label.
// Handlers trim subjects on write, so stored values carry no surrounding spaces.
func (t Task) HasSubject() bool {
	return t.Subject != ""
}
