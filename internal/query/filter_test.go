package query

import (
	"testing"
	"time"

	"github.com/sandeepkv93/todod/internal/model"
)

func fixture(t *testing.T) []model.Task {
	t.Helper()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mk := func(i int, title, category string, priority model.Priority, completed bool) model.Task {
		at := base.Add(time.Duration(i) * time.Minute)
		return model.Task{
			ID: title, Title: title, Category: category, Priority: priority,
			Completed: completed, Recurrence: model.RecurrenceNone,
			CreatedAt: at, LastModified: at,
		}
	}
	return []model.Task{
		mk(0, "report", "Work", model.PriorityHigh, false),
		mk(1, "groceries", "Home", model.PriorityMedium, false),
		mk(2, "invoices", "Work", model.PriorityMedium, true),
		mk(3, "standup notes", "Work", model.PriorityLow, false),
		mk(4, "dentist", "", model.PriorityHigh, true),
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []model.Task, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestFilterNoPredicatesPassesEverything(t *testing.T) {
	tasks := fixture(t)
	got := Filter{}.Apply(tasks)
	assertIDs(t, got, "report", "groceries", "invoices", "standup notes", "dentist")
}

func TestFilterCompletion(t *testing.T) {
	tasks := fixture(t)
	assertIDs(t, Filter{Completion: CompletionActive}.Apply(tasks), "report", "groceries", "standup notes")
	assertIDs(t, Filter{Completion: CompletionCompleted}.Apply(tasks), "invoices", "dentist")
	assertIDs(t, Filter{Completion: CompletionAll}.Apply(tasks), "report", "groceries", "invoices", "standup notes", "dentist")
}

func TestFilterCompositionIsIntersection(t *testing.T) {
	tasks := fixture(t)
	got := Filter{Completion: CompletionActive, Category: "Work"}.Apply(tasks)
	assertIDs(t, got, "report", "standup notes")

	got = Filter{Completion: CompletionActive, Category: "Work", Priority: model.PriorityLow}.Apply(tasks)
	assertIDs(t, got, "standup notes")

	got = Filter{Category: "Work", Priority: model.PriorityHigh}.Apply(tasks)
	assertIDs(t, got, "report")
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	tasks := fixture(t)
	_ = Filter{Completion: CompletionCompleted}.Apply(tasks)
	assertIDs(t, tasks, "report", "groceries", "invoices", "standup notes", "dentist")
}
