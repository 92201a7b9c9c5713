package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/sandeepkv93/todod/internal/model"
	"github.com/sandeepkv93/todod/internal/storage"
)

func setupPersistentStore(t *testing.T) (*Store, *storage.SQLiteRepository) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "todod.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.MigrateUp(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	clock := newTestClock()
	seq := 0
	s := New(repo,
		WithClock(clock.Now),
		WithIDSource(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithColorPick(func(n int) int { return 4 }),
	)
	return s, repo
}

func TestPersistRestoreRoundTrip(t *testing.T) {
	s, repo := setupPersistentStore(t)
	ctx := context.Background()

	if _, err := s.AddCategory(ctx, "Work", "#FF0000"); err != nil {
		t.Fatalf("add category: %v", err)
	}
	due := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	task, err := s.CreateTask(ctx, TaskInput{
		Title:       "Report",
		Description: "Quarterly numbers",
		Category:    "Work",
		Priority:    model.PriorityHigh,
		DueDate:     &due,
		Recurrence:  model.RecurrenceWeekly,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := s.AddAttachment(ctx, task.ID, "https://example.com/chart.png"); err != nil {
		t.Fatalf("add attachment: %v", err)
	}
	remindAt := due.Add(-2 * time.Hour)
	if _, err := s.SetReminder(ctx, task.ID, remindAt); err != nil {
		t.Fatalf("set reminder: %v", err)
	}
	if _, err := s.AddSubtask(ctx, task.ID, "Collect data"); err != nil {
		t.Fatalf("add subtask: %v", err)
	}
	if _, err := s.Sync(ctx); err != nil {
		t.Fatalf("sync: %v", err)
	}

	restored := New(repo)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if !reflect.DeepEqual(s.Tasks(), restored.Tasks()) {
		t.Fatalf("tasks did not round-trip:\n before: %#v\n after:  %#v", s.Tasks(), restored.Tasks())
	}
	if !reflect.DeepEqual(s.Categories(), restored.Categories()) {
		t.Fatalf("categories did not round-trip: %#v", restored.Categories())
	}
	if !reflect.DeepEqual(s.Subtasks(), restored.Subtasks()) {
		t.Fatalf("subtasks did not round-trip: %#v", restored.Subtasks())
	}
	if got := restored.LastSynced(); got == nil || !got.Equal(*s.LastSynced()) {
		t.Fatalf("last synced did not round-trip: %v", got)
	}
}

func TestCascadePersistsAcrossRestart(t *testing.T) {
	s, repo := setupPersistentStore(t)
	ctx := context.Background()

	cat, err := s.AddCategory(ctx, "Work", "#FF0000")
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	task, err := s.CreateTask(ctx, TaskInput{Title: "Report", Category: "Work", Priority: model.PriorityHigh})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := s.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	restored := New(repo)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := restored.Task(task.ID)
	if err != nil {
		t.Fatalf("task after restart: %v", err)
	}
	if got.Category != "" {
		t.Fatalf("detach not durable: %q", got.Category)
	}
	if len(restored.Categories()) != 0 {
		t.Fatal("deleted category resurfaced after restart")
	}
}

func TestTimeInstantsSurviveRestart(t *testing.T) {
	s, repo := setupPersistentStore(t)
	ctx := context.Background()

	loc := time.FixedZone("UTC-3", -3*3600)
	due := time.Date(2026, 4, 1, 20, 15, 30, 500000000, loc)
	task, err := s.CreateTask(ctx, TaskInput{Title: "Cross-zone due date", DueDate: &due})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	restored := New(repo)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := restored.Task(task.ID)
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("due instant changed across restart: want %v, got %v", due, got.DueDate)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) || !got.LastModified.Equal(task.LastModified) {
		t.Fatalf("stamps changed across restart: %#v", got)
	}
}
