package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "todod-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestTaskCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-03-02T09:00:00Z")
	due := parseRFC3339(t, "2026-03-05T17:00:00Z")

	task := Task{
		ID:           "task-1",
		Title:        "Write the report",
		Description:  "Quarterly numbers",
		Category:     "Work",
		Priority:     "high",
		DueDate:      &due,
		Recurrence:   "none",
		Attachments:  []string{"https://example.com/chart.png"},
		CreatedAt:    created,
		LastModified: created,
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	listed, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 task, got %d", len(listed))
	}
	got := listed[0]
	if got.Title != task.Title || got.Category != "Work" || got.Priority != "high" {
		t.Fatalf("unexpected task: %#v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("due date did not round-trip: %v", got.DueDate)
	}
	if len(got.Attachments) != 1 || got.Attachments[0] != "https://example.com/chart.png" {
		t.Fatalf("attachments did not round-trip: %v", got.Attachments)
	}

	task.Title = "Write the report v2"
	task.Completed = true
	task.LastModified = created.Add(time.Hour)
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("update task: %v", err)
	}
	listed, err = repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if !listed[0].Completed || listed[0].Title != "Write the report v2" {
		t.Fatalf("update not visible: %#v", listed[0])
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if err := repo.DeleteTask(ctx, task.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestTaskTimeRoundTripPreservesInstant(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	loc := time.FixedZone("UTC+5", 5*3600)
	created := time.Date(2026, 3, 2, 14, 30, 45, 123456789, loc)
	rem := created.Add(26 * time.Hour)

	task := Task{
		ID:           "task-tz",
		Title:        "Timezone round trip",
		Priority:     "medium",
		Recurrence:   "weekly",
		ReminderSet:  true,
		ReminderTime: &rem,
		CreatedAt:    created,
		LastModified: created,
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	listed, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	got := listed[0]
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at instant changed: want %v, got %v", created, got.CreatedAt)
	}
	if got.ReminderTime == nil || !got.ReminderTime.Equal(rem) {
		t.Fatalf("reminder_time instant changed: want %v, got %v", rem, got.ReminderTime)
	}
	if !got.ReminderSet {
		t.Fatal("reminder_set did not round-trip")
	}
}

func TestListTasksPreservesInsertionOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-03-02T09:00:00Z")

	// Same created_at on purpose: insertion order must come from the
	// table, not the timestamp.
	for _, id := range []string{"task-a", "task-b", "task-c"} {
		err := repo.CreateTask(ctx, Task{
			ID: id, Title: id, Priority: "low", Recurrence: "none",
			CreatedAt: now, LastModified: now,
		})
		if err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	listed, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(listed) != 3 || listed[0].ID != "task-a" || listed[1].ID != "task-b" || listed[2].ID != "task-c" {
		t.Fatalf("unexpected order: %#v", listed)
	}
}

func TestCategoryCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	cat := Category{ID: "cat-1", Name: "Work", Color: "#FF0000"}
	if err := repo.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}

	cat.Name = "Office"
	cat.Color = "#00FF00"
	if err := repo.UpdateCategory(ctx, cat); err != nil {
		t.Fatalf("update category: %v", err)
	}

	list, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Office" || list[0].Color != "#00FF00" {
		t.Fatalf("unexpected category list: %#v", list)
	}

	if err := repo.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if err := repo.DeleteCategory(ctx, cat.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestSubtaskCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-03-02T09:00:00Z")

	sub := Subtask{ID: "sub-1", ParentID: "task-1", Title: "Outline", CreatedAt: now, LastModified: now}
	if err := repo.CreateSubtask(ctx, sub); err != nil {
		t.Fatalf("create subtask: %v", err)
	}

	sub.Title = "Outline sections"
	sub.Completed = true
	sub.LastModified = now.Add(time.Minute)
	if err := repo.UpdateSubtask(ctx, sub); err != nil {
		t.Fatalf("update subtask: %v", err)
	}

	list, err := repo.ListSubtasks(ctx)
	if err != nil {
		t.Fatalf("list subtasks: %v", err)
	}
	if len(list) != 1 || !list[0].Completed || list[0].Title != "Outline sections" {
		t.Fatalf("unexpected subtask list: %#v", list)
	}

	if err := repo.DeleteSubtask(ctx, sub.ID); err != nil {
		t.Fatalf("delete subtask: %v", err)
	}
	if err := repo.DeleteSubtask(ctx, sub.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.GetMeta(ctx, MetaLastSynced); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing meta, got: %v", err)
	}

	if err := repo.SetMeta(ctx, MetaLastSynced, "2026-03-02T09:00:00Z"); err != nil {
		t.Fatalf("set meta: %v", err)
	}
	if err := repo.SetMeta(ctx, MetaLastSynced, "2026-03-03T09:00:00Z"); err != nil {
		t.Fatalf("overwrite meta: %v", err)
	}

	got, err := repo.GetMeta(ctx, MetaLastSynced)
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if got != "2026-03-03T09:00:00Z" {
		t.Fatalf("unexpected meta value: %q", got)
	}
}
