package store

import (
	"context"
	"strings"
	"time"

	"github.com/sandeepkv93/todod/internal/model"
	"github.com/sandeepkv93/todod/internal/storage"
)

// TaskInput carries the caller-settable fields for task creation.
// Priority defaults to medium and Recurrence to none when left zero.
type TaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    model.Priority
	DueDate     *time.Time
	Recurrence  model.Recurrence
	Completed   bool
}

// TaskPatch is a partial update. Nil pointer fields are left untouched.
// Reminder fields are deliberately absent: SetReminder/RemoveReminder
// change them as a pair.
type TaskPatch struct {
	Title        string
	Description  *string
	Category     *string
	Priority     *model.Priority
	DueDate      *time.Time
	ClearDueDate bool
	Recurrence   *model.Recurrence
	Completed    *bool
}

func (s *Store) CreateTask(ctx context.Context, in TaskInput) (model.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.Task{}, validationErr("task title must not be empty")
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !in.Priority.IsValid() {
		return model.Task{}, validationErr("invalid priority %q", in.Priority)
	}
	if in.Recurrence == "" {
		in.Recurrence = model.RecurrenceNone
	}
	if !in.Recurrence.IsValid() {
		return model.Task{}, validationErr("invalid recurrence %q", in.Recurrence)
	}

	now := s.now()
	task := model.Task{
		ID:           s.newID(),
		Title:        in.Title,
		Description:  in.Description,
		Completed:    in.Completed,
		Category:     in.Category,
		Priority:     in.Priority,
		DueDate:      cloneTime(in.DueDate),
		Recurrence:   in.Recurrence,
		CreatedAt:    now,
		LastModified: now,
	}
	s.tasks = append(s.tasks, task)

	if s.repo != nil {
		if err := s.repo.CreateTask(ctx, taskToStorage(task)); err != nil {
			return task.Clone(), persistenceErr(err, "persist task %s", task.ID)
		}
	}
	return task.Clone(), nil
}

func (s *Store) UpdateTask(ctx context.Context, id string, patch TaskPatch) (model.Task, error) {
	idx := s.taskIndex(id)
	if idx < 0 {
		return model.Task{}, notFoundErr("task %s", id)
	}

	next := s.tasks[idx].Clone()
	if patch.Title != "" {
		next.Title = patch.Title
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if patch.Priority != nil {
		if !patch.Priority.IsValid() {
			return model.Task{}, validationErr("invalid priority %q", *patch.Priority)
		}
		next.Priority = *patch.Priority
	}
	if patch.ClearDueDate {
		next.DueDate = nil
	} else if patch.DueDate != nil {
		next.DueDate = cloneTime(patch.DueDate)
	}
	if patch.Recurrence != nil {
		if !patch.Recurrence.IsValid() {
			return model.Task{}, validationErr("invalid recurrence %q", *patch.Recurrence)
		}
		next.Recurrence = *patch.Recurrence
	}
	if patch.Completed != nil {
		next.Completed = *patch.Completed
	}
	next.LastModified = s.now()

	s.tasks[idx] = next
	return s.finishTaskMutation(ctx, next)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	idx := s.taskIndex(id)
	if idx < 0 {
		return notFoundErr("task %s", id)
	}
	// Subtasks are left in place: callers that want them gone invoke
	// DeleteSubtasksForTask explicitly.
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)

	if s.repo != nil {
		if err := s.repo.DeleteTask(ctx, id); err != nil && err != storage.ErrNotFound {
			return persistenceErr(err, "delete task %s", id)
		}
	}
	return nil
}

func (s *Store) ToggleTaskCompletion(ctx context.Context, id string) (model.Task, error) {
	idx := s.taskIndex(id)
	if idx < 0 {
		return model.Task{}, notFoundErr("task %s", id)
	}
	s.tasks[idx].Completed = !s.tasks[idx].Completed
	s.tasks[idx].LastModified = s.now()
	return s.finishTaskMutation(ctx, s.tasks[idx])
}

func (s *Store) AddAttachment(ctx context.Context, taskID, uri string) (model.Task, error) {
	if strings.TrimSpace(uri) == "" {
		return model.Task{}, validationErr("attachment uri must not be empty")
	}
	idx := s.taskIndex(taskID)
	if idx < 0 {
		return model.Task{}, notFoundErr("task %s", taskID)
	}
	s.tasks[idx].Attachments = append(s.tasks[idx].Attachments, uri)
	s.tasks[idx].LastModified = s.now()
	return s.finishTaskMutation(ctx, s.tasks[idx])
}

func (s *Store) RemoveAttachment(ctx context.Context, taskID, uri string) (model.Task, error) {
	idx := s.taskIndex(taskID)
	if idx < 0 {
		return model.Task{}, notFoundErr("task %s", taskID)
	}
	task := &s.tasks[idx]
	at := -1
	for i, existing := range task.Attachments {
		if existing == uri {
			at = i
			break
		}
	}
	if at < 0 {
		// Nothing changed, so lastModified stays put.
		return task.Clone(), nil
	}
	task.Attachments = append(task.Attachments[:at], task.Attachments[at+1:]...)
	if len(task.Attachments) == 0 {
		task.Attachments = nil
	}
	task.LastModified = s.now()
	return s.finishTaskMutation(ctx, *task)
}

func (s *Store) SetReminder(ctx context.Context, taskID string, at time.Time) (model.Task, error) {
	if at.IsZero() {
		return model.Task{}, validationErr("reminder time must not be zero")
	}
	idx := s.taskIndex(taskID)
	if idx < 0 {
		return model.Task{}, notFoundErr("task %s", taskID)
	}
	when := at
	s.tasks[idx].ReminderSet = true
	s.tasks[idx].ReminderTime = &when
	s.tasks[idx].LastModified = s.now()
	return s.finishTaskMutation(ctx, s.tasks[idx])
}

func (s *Store) RemoveReminder(ctx context.Context, taskID string) (model.Task, error) {
	idx := s.taskIndex(taskID)
	if idx < 0 {
		return model.Task{}, notFoundErr("task %s", taskID)
	}
	s.tasks[idx].ReminderSet = false
	s.tasks[idx].ReminderTime = nil
	s.tasks[idx].LastModified = s.now()
	return s.finishTaskMutation(ctx, s.tasks[idx])
}

func (s *Store) finishTaskMutation(ctx context.Context, task model.Task) (model.Task, error) {
	if s.repo != nil {
		if err := s.repo.UpdateTask(ctx, taskToStorage(task)); err != nil {
			return task.Clone(), persistenceErr(err, "persist task %s", task.ID)
		}
	}
	return task.Clone(), nil
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	at := *v
	return &at
}
