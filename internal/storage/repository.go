package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// MetaLastSynced is the meta key the sync stub writes.
const MetaLastSynced = "last_synced"

// Repository is the durable store for the entity collections. List
// methods return rows in insertion order so the in-memory store can be
// rebuilt exactly as it was.
type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context) ([]Task, error)

	CreateCategory(ctx context.Context, in Category) error
	UpdateCategory(ctx context.Context, in Category) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)

	CreateSubtask(ctx context.Context, in Subtask) error
	UpdateSubtask(ctx context.Context, in Subtask) error
	DeleteSubtask(ctx context.Context, id string) error
	ListSubtasks(ctx context.Context) ([]Subtask, error)

	SetMeta(ctx context.Context, key, value string) error
	GetMeta(ctx context.Context, key string) (string, error)
}
