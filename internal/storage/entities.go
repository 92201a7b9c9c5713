package storage

import "time"

// Task is the persisted shape of a task. Enum-typed fields travel as
// plain strings; the store converts to and from model types.
type Task struct {
	ID           string
	Title        string
	Description  string
	Completed    bool
	Category     string
	Priority     string
	DueDate      *time.Time
	Recurrence   string
	Attachments  []string
	ReminderSet  bool
	ReminderTime *time.Time
	CreatedAt    time.Time
	LastModified time.Time
}

type Category struct {
	ID    string
	Name  string
	Color string
}

type Subtask struct {
	ID           string
	ParentID     string
	Title        string
	Completed    bool
	CreatedAt    time.Time
	LastModified time.Time
}
