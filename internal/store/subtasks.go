package store

import (
	"context"
	"strings"

	"github.com/sandeepkv93/todod/internal/model"
	"github.com/sandeepkv93/todod/internal/storage"
)

func (s *Store) AddSubtask(ctx context.Context, parentID, title string) (model.Subtask, error) {
	if strings.TrimSpace(title) == "" {
		return model.Subtask{}, validationErr("subtask title must not be empty")
	}
	if s.taskIndex(parentID) < 0 {
		return model.Subtask{}, notFoundErr("task %s", parentID)
	}

	now := s.now()
	sub := model.Subtask{
		ID:           s.newID(),
		ParentID:     parentID,
		Title:        title,
		CreatedAt:    now,
		LastModified: now,
	}
	s.subtasks = append(s.subtasks, sub)

	if s.repo != nil {
		if err := s.repo.CreateSubtask(ctx, storage.Subtask(sub)); err != nil {
			return sub, persistenceErr(err, "persist subtask %s", sub.ID)
		}
	}
	return sub, nil
}

func (s *Store) UpdateSubtask(ctx context.Context, id, title string) (model.Subtask, error) {
	if strings.TrimSpace(title) == "" {
		return model.Subtask{}, validationErr("subtask title must not be empty")
	}
	idx := s.subtaskIndex(id)
	if idx < 0 {
		return model.Subtask{}, notFoundErr("subtask %s", id)
	}
	s.subtasks[idx].Title = title
	s.subtasks[idx].LastModified = s.now()
	return s.finishSubtaskMutation(ctx, s.subtasks[idx])
}

func (s *Store) ToggleSubtaskCompletion(ctx context.Context, id string) (model.Subtask, error) {
	idx := s.subtaskIndex(id)
	if idx < 0 {
		return model.Subtask{}, notFoundErr("subtask %s", id)
	}
	s.subtasks[idx].Completed = !s.subtasks[idx].Completed
	s.subtasks[idx].LastModified = s.now()
	return s.finishSubtaskMutation(ctx, s.subtasks[idx])
}

func (s *Store) DeleteSubtask(ctx context.Context, id string) error {
	idx := s.subtaskIndex(id)
	if idx < 0 {
		return notFoundErr("subtask %s", id)
	}
	s.subtasks = append(s.subtasks[:idx], s.subtasks[idx+1:]...)

	if s.repo != nil {
		if err := s.repo.DeleteSubtask(ctx, id); err != nil && err != storage.ErrNotFound {
			return persistenceErr(err, "delete subtask %s", id)
		}
	}
	return nil
}

// DeleteSubtasksForTask removes every subtask referencing the given
// task id and reports how many were removed. Deleting a task does NOT
// invoke this; a caller that wants the children gone calls it next to
// the parent delete. The parent may already be gone.
func (s *Store) DeleteSubtasksForTask(ctx context.Context, parentID string) (int, error) {
	kept := s.subtasks[:0]
	var removed []string
	for _, sub := range s.subtasks {
		if sub.ParentID == parentID {
			removed = append(removed, sub.ID)
			continue
		}
		kept = append(kept, sub)
	}
	s.subtasks = kept

	if s.repo != nil {
		for _, id := range removed {
			if err := s.repo.DeleteSubtask(ctx, id); err != nil && err != storage.ErrNotFound {
				return len(removed), persistenceErr(err, "delete subtask %s", id)
			}
		}
	}
	return len(removed), nil
}

func (s *Store) finishSubtaskMutation(ctx context.Context, sub model.Subtask) (model.Subtask, error) {
	if s.repo != nil {
		if err := s.repo.UpdateSubtask(ctx, storage.Subtask(sub)); err != nil {
			return sub, persistenceErr(err, "persist subtask %s", sub.ID)
		}
	}
	return sub, nil
}
