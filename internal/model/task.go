package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority   = errors.New("model: invalid task priority")
	ErrInvalidRecurrence = errors.New("model: invalid task recurrence")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting: high before medium before low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// Task is the central entity. Category holds a Category name, not an id,
// with "" meaning uncategorized; deleting a category detaches its tasks
// rather than deleting them. ReminderTime is only meaningful while
// ReminderSet is true and both fields change together.
type Task struct {
	ID           string
	Title        string
	Description  string
	Completed    bool
	Category     string
	Priority     Priority
	DueDate      *time.Time
	Recurrence   Recurrence
	Attachments  []string
	ReminderSet  bool
	ReminderTime *time.Time
	CreatedAt    time.Time
	LastModified time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if !t.Recurrence.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrence, t.Recurrence)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.LastModified.IsZero() {
		return errors.New("model: task last_modified is required")
	}
	if t.ReminderSet && t.ReminderTime == nil {
		return errors.New("model: reminder_time is required when reminder is set")
	}
	if !t.ReminderSet && t.ReminderTime != nil {
		return errors.New("model: reminder_time must be nil when reminder is not set")
	}
	return nil
}

// Clone returns a deep copy so snapshot consumers never alias the
// store's backing slices.
func (t Task) Clone() Task {
	out := t
	if t.Attachments != nil {
		out.Attachments = append([]string(nil), t.Attachments...)
	}
	if t.DueDate != nil {
		due := *t.DueDate
		out.DueDate = &due
	}
	if t.ReminderTime != nil {
		at := *t.ReminderTime
		out.ReminderTime = &at
	}
	return out
}
