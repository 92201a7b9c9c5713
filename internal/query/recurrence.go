package query

import (
	"time"

	"github.com/sandeepkv93/todod/internal/model"
)

// NextOccurrence reports the next due instant implied by a task's
// recurrence, for display only: completing a recurring task never
// regenerates a task instance. The anchor is the due date when set,
// otherwise now. Returns false for non-recurring tasks.
func NextOccurrence(t model.Task, now time.Time) (time.Time, bool) {
	if t.Recurrence == model.RecurrenceNone || !t.Recurrence.IsValid() {
		return time.Time{}, false
	}
	anchor := now
	if t.DueDate != nil {
		anchor = *t.DueDate
	}
	next := anchor
	for !next.After(now) {
		switch t.Recurrence {
		case model.RecurrenceDaily:
			next = next.AddDate(0, 0, 1)
		case model.RecurrenceWeekly:
			next = next.AddDate(0, 0, 7)
		case model.RecurrenceMonthly:
			next = next.AddDate(0, 1, 0)
		}
	}
	return next, true
}
