// Package query derives views from a task snapshot: filter, then sort,
// then optionally aggregate. Everything here is a pure function of its
// inputs; nothing mutates the snapshot.
package query

import "github.com/sandeepkv93/todod/internal/model"

type Completion string

const (
	CompletionAll       Completion = "all"
	CompletionActive    Completion = "active"
	CompletionCompleted Completion = "completed"
)

// Filter keeps a task only when every active predicate matches. Empty
// fields deactivate their predicate, following the repository's list
// filters.
type Filter struct {
	Completion Completion
	Category   string
	Priority   model.Priority
}

func (f Filter) matches(t model.Task) bool {
	switch f.Completion {
	case CompletionActive:
		if t.Completed {
			return false
		}
	case CompletionCompleted:
		if !t.Completed {
			return false
		}
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	return true
}

// Apply returns the tasks passing the filter, preserving snapshot order.
func (f Filter) Apply(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out
}
