// Package store is the mutation engine: every change to tasks,
// categories and subtasks goes through a Store, which keeps the
// collections in memory as the source of truth and writes through to a
// storage.Repository after each mutation.
//
// A Store is owned by a single goroutine. The scheduling model is
// cooperative (one command at a time), so methods take no internal
// locks; callers that want concurrent access must serialize it
// themselves.
package store

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/todod/internal/model"
	"github.com/sandeepkv93/todod/internal/storage"
)

type Store struct {
	repo storage.Repository

	now   func() time.Time
	newID func() string
	pick  func(n int) int

	tasks      []model.Task
	categories []model.Category
	subtasks   []model.Subtask
	lastSynced *time.Time
}

type Option func(*Store)

// WithClock fixes the instant used for createdAt/lastModified stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDSource replaces the uuid generator, for deterministic tests.
func WithIDSource(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithColorPick replaces the pseudo-random palette index pick used when
// a category is created without a color.
func WithColorPick(pick func(n int) int) Option {
	return func(s *Store) { s.pick = pick }
}

// New builds a store over the given repository. A nil repository is
// allowed and yields a purely in-memory store.
func New(repo storage.Repository, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
		pick:  rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collections with the repository's
// contents. Called once at process start, before any mutation.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return persistenceErr(err, "load tasks")
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return persistenceErr(err, "load categories")
	}
	subtasks, err := s.repo.ListSubtasks(ctx)
	if err != nil {
		return persistenceErr(err, "load subtasks")
	}

	s.tasks = make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		s.tasks = append(s.tasks, taskFromStorage(t))
	}
	s.categories = make([]model.Category, 0, len(categories))
	for _, c := range categories {
		s.categories = append(s.categories, model.Category(c))
	}
	s.subtasks = make([]model.Subtask, 0, len(subtasks))
	for _, sub := range subtasks {
		s.subtasks = append(s.subtasks, model.Subtask(sub))
	}

	s.lastSynced = nil
	raw, err := s.repo.GetMeta(ctx, storage.MetaLastSynced)
	if err == nil {
		at, parseErr := time.Parse(time.RFC3339Nano, raw)
		if parseErr != nil {
			return persistenceErr(parseErr, "parse last_synced")
		}
		s.lastSynced = &at
	} else if err != storage.ErrNotFound {
		return persistenceErr(err, "load last_synced")
	}
	return nil
}

// Sync is a stub: it records the current instant as the last sync time
// and performs no network I/O.
func (s *Store) Sync(ctx context.Context) (time.Time, error) {
	at := s.now()
	s.lastSynced = &at
	if s.repo != nil {
		if err := s.repo.SetMeta(ctx, storage.MetaLastSynced, at.Format(time.RFC3339Nano)); err != nil {
			return at, persistenceErr(err, "persist last_synced")
		}
	}
	return at, nil
}

func (s *Store) LastSynced() *time.Time {
	if s.lastSynced == nil {
		return nil
	}
	at := *s.lastSynced
	return &at
}

// Tasks returns a snapshot of the task collection in insertion order.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out
}

func (s *Store) Task(id string) (model.Task, error) {
	idx := s.taskIndex(id)
	if idx < 0 {
		return model.Task{}, notFoundErr("task %s", id)
	}
	return s.tasks[idx].Clone(), nil
}

func (s *Store) Categories() []model.Category {
	return append([]model.Category(nil), s.categories...)
}

func (s *Store) Category(id string) (model.Category, error) {
	idx := s.categoryIndex(id)
	if idx < 0 {
		return model.Category{}, notFoundErr("category %s", id)
	}
	return s.categories[idx], nil
}

// CategoryByName resolves the denormalized join key tasks carry.
func (s *Store) CategoryByName(name string) (model.Category, bool) {
	for _, c := range s.categories {
		if c.Name == name {
			return c, true
		}
	}
	return model.Category{}, false
}

func (s *Store) Subtasks() []model.Subtask {
	return append([]model.Subtask(nil), s.subtasks...)
}

// SubtasksFor returns the subtasks referencing the given task id, in
// insertion order. The parent does not have to exist: subtasks survive
// their parent until deleted explicitly.
func (s *Store) SubtasksFor(parentID string) []model.Subtask {
	out := make([]model.Subtask, 0)
	for _, sub := range s.subtasks {
		if sub.ParentID == parentID {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Store) taskIndex(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) categoryIndex(id string) int {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) subtaskIndex(id string) int {
	for i := range s.subtasks {
		if s.subtasks[i].ID == id {
			return i
		}
	}
	return -1
}
