package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sandeepkv93/todod/internal/storage"
)

// failingRepo rejects every operation, standing in for a full disk or
// a locked database file.
type failingRepo struct {
	err error
}

func (r failingRepo) CreateTask(context.Context, storage.Task) error { return r.err }
func (r failingRepo) UpdateTask(context.Context, storage.Task) error { return r.err }
func (r failingRepo) DeleteTask(context.Context, string) error       { return r.err }
func (r failingRepo) ListTasks(context.Context) ([]storage.Task, error) {
	return nil, r.err
}

func (r failingRepo) CreateCategory(context.Context, storage.Category) error { return r.err }
func (r failingRepo) UpdateCategory(context.Context, storage.Category) error { return r.err }
func (r failingRepo) DeleteCategory(context.Context, string) error           { return r.err }
func (r failingRepo) ListCategories(context.Context) ([]storage.Category, error) {
	return nil, r.err
}

func (r failingRepo) CreateSubtask(context.Context, storage.Subtask) error { return r.err }
func (r failingRepo) UpdateSubtask(context.Context, storage.Subtask) error { return r.err }
func (r failingRepo) DeleteSubtask(context.Context, string) error          { return r.err }
func (r failingRepo) ListSubtasks(context.Context) ([]storage.Subtask, error) {
	return nil, r.err
}

func (r failingRepo) SetMeta(context.Context, string, string) error { return r.err }
func (r failingRepo) GetMeta(context.Context, string) (string, error) {
	return "", r.err
}

func newFailingStore(t *testing.T, cause error) *Store {
	t.Helper()
	clock := newTestClock()
	seq := 0
	return New(failingRepo{err: cause},
		WithClock(clock.Now),
		WithIDSource(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithColorPick(func(n int) int { return 0 }),
	)
}

func TestCreateTaskSurvivesPersistenceFailure(t *testing.T) {
	cause := errors.New("disk full")
	s := newFailingStore(t, cause)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, TaskInput{Title: "Risky"})
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if !IsPersistence(err) {
		t.Fatalf("expected persistence kind, got: %v", err)
	}
	if IsValidation(err) || IsNotFound(err) || IsConflict(err) {
		t.Fatalf("error matched more than one kind: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("error should wrap the repository cause, got: %v", err)
	}

	// The mutation stands: the error reports a durability problem, not
	// a rejected change.
	if task.ID == "" || task.Title != "Risky" {
		t.Fatalf("mutated task not returned alongside the error: %#v", task)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Fatalf("in-memory state lost the mutation: %#v", tasks)
	}
}

func TestToggleSurvivesPersistenceFailure(t *testing.T) {
	cause := errors.New("database is locked")
	s := newFailingStore(t, cause)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, TaskInput{Title: "Flaky disk"})
	if !IsPersistence(err) {
		t.Fatalf("create: expected persistence kind, got: %v", err)
	}

	toggled, err := s.ToggleTaskCompletion(ctx, task.ID)
	if !IsPersistence(err) {
		t.Fatalf("toggle: expected persistence kind, got: %v", err)
	}
	if !toggled.Completed {
		t.Fatalf("returned task should carry the toggle: %#v", toggled)
	}
	got, lookupErr := s.Task(task.ID)
	if lookupErr != nil {
		t.Fatalf("lookup: %v", lookupErr)
	}
	if !got.Completed {
		t.Fatal("in-memory task lost the toggle")
	}
}

func TestCascadeSurvivesPersistenceFailure(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	cat, err := s.AddCategory(ctx, "Work", "#112233")
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	task, err := s.CreateTask(ctx, TaskInput{Title: "Report", Category: "Work"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Swap in a failing repository after the healthy seed.
	s.repo = failingRepo{err: errors.New("disk full")}

	if err := s.DeleteCategory(ctx, cat.ID); !IsPersistence(err) {
		t.Fatalf("expected persistence kind, got: %v", err)
	}
	if _, err := s.Category(cat.ID); !IsNotFound(err) {
		t.Fatalf("category should be gone in memory, got: %v", err)
	}
	got, err := s.Task(task.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Category != "" {
		t.Fatalf("task should be detached despite the write failure: %#v", got)
	}
}
