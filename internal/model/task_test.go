package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	task := Task{
		ID:           "task-1",
		Title:        "Write the quarterly report",
		Priority:     PriorityHigh,
		Recurrence:   RecurrenceNone,
		CreatedAt:    now,
		LastModified: now,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateInvalidEnums(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	task := Task{
		ID:           "task-1",
		Title:        "Bad enums",
		Priority:     Priority("urgent"),
		Recurrence:   RecurrenceNone,
		CreatedAt:    now,
		LastModified: now,
	}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}

	task.Priority = PriorityMedium
	task.Recurrence = Recurrence("fortnightly")
	err = task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidRecurrence) {
		t.Fatalf("expected ErrInvalidRecurrence, got: %v", err)
	}
}

func TestTaskValidateReminderPairing(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	task := Task{
		ID:           "task-1",
		Title:        "Reminder pairing",
		Priority:     PriorityLow,
		Recurrence:   RecurrenceDaily,
		ReminderSet:  true,
		CreatedAt:    now,
		LastModified: now,
	}
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for reminder set without time")
	}

	at := now.Add(time.Hour)
	task.ReminderTime = &at
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid paired reminder, got: %v", err)
	}

	task.ReminderSet = false
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for reminder time without reminder set")
	}
}

func TestTaskCloneDoesNotAlias(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	due := now.Add(48 * time.Hour)
	task := Task{
		ID:           "task-1",
		Title:        "Clone me",
		Priority:     PriorityMedium,
		Recurrence:   RecurrenceNone,
		DueDate:      &due,
		Attachments:  []string{"https://example.com/a.png"},
		CreatedAt:    now,
		LastModified: now,
	}
	clone := task.Clone()
	clone.Attachments[0] = "changed"
	*clone.DueDate = clone.DueDate.Add(time.Hour)

	if task.Attachments[0] != "https://example.com/a.png" {
		t.Fatalf("clone aliased attachments: %v", task.Attachments)
	}
	if !task.DueDate.Equal(due) {
		t.Fatalf("clone aliased due date: %v", task.DueDate)
	}
}

func TestPriorityRankOrder(t *testing.T) {
	if PriorityHigh.Rank() >= PriorityMedium.Rank() || PriorityMedium.Rank() >= PriorityLow.Rank() {
		t.Fatalf("unexpected rank order: high=%d medium=%d low=%d",
			PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}
}
