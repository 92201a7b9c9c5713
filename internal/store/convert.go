package store

import (
	"github.com/sandeepkv93/todod/internal/model"
	"github.com/sandeepkv93/todod/internal/storage"
)

func taskFromStorage(in storage.Task) model.Task {
	return model.Task{
		ID:           in.ID,
		Title:        in.Title,
		Description:  in.Description,
		Completed:    in.Completed,
		Category:     in.Category,
		Priority:     model.Priority(in.Priority),
		DueDate:      in.DueDate,
		Recurrence:   model.Recurrence(in.Recurrence),
		Attachments:  in.Attachments,
		ReminderSet:  in.ReminderSet,
		ReminderTime: in.ReminderTime,
		CreatedAt:    in.CreatedAt,
		LastModified: in.LastModified,
	}
}

func taskToStorage(in model.Task) storage.Task {
	return storage.Task{
		ID:           in.ID,
		Title:        in.Title,
		Description:  in.Description,
		Completed:    in.Completed,
		Category:     in.Category,
		Priority:     string(in.Priority),
		DueDate:      in.DueDate,
		Recurrence:   string(in.Recurrence),
		Attachments:  in.Attachments,
		ReminderSet:  in.ReminderSet,
		ReminderTime: in.ReminderTime,
		CreatedAt:    in.CreatedAt,
		LastModified: in.LastModified,
	}
}
