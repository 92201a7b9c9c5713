package query

import (
	"sort"

	"github.com/sandeepkv93/todod/internal/model"
)

type SortKey string

const (
	SortByDueDate   SortKey = "dueDate"
	SortByPriority  SortKey = "priority"
	SortByCreatedAt SortKey = "createdAt"
)

// Sort returns a new slice ordered by the requested key. All orders are
// stable: tasks the key considers equal keep their snapshot order.
//
//   - dueDate: ascending; tasks without a due date sort after every
//     task that has one.
//   - priority: high, then medium, then low.
//   - createdAt: descending, newest first.
//
// An unknown key returns the snapshot order unchanged.
func Sort(tasks []model.Task, key SortKey) []model.Task {
	out := append([]model.Task(nil), tasks...)
	switch key {
	case SortByDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	case SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case SortByCreatedAt:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}
