package query

import (
	"time"

	"github.com/sandeepkv93/todod/internal/model"
)

// UncategorizedBucket is the per-category stats key for tasks with no
// category.
const UncategorizedBucket = "Uncategorized"

type DayBucket struct {
	Date      time.Time // midnight, local to now's location
	Created   int
	Completed int
}

type Stats struct {
	Total      int
	Completed  int
	Active     int
	Overdue    int
	ByPriority map[model.Priority]int
	ByCategory map[string]int
	Week       []DayBucket // Monday through Sunday of now's week
}

// Aggregate computes dashboard statistics from a task snapshot. A task
// is overdue when it is not completed and its due date is before now.
// The weekly histogram buckets by calendar date in now's location;
// completions are attributed to the day of the task's last
// modification, the instant of the completion toggle for a task whose
// final mutation was completing it.
func Aggregate(tasks []model.Task, now time.Time) Stats {
	stats := Stats{
		ByPriority: make(map[model.Priority]int),
		ByCategory: make(map[string]int),
		Week:       make([]DayBucket, 7),
	}

	monday := startOfWeek(now)
	for i := range stats.Week {
		stats.Week[i].Date = monday.AddDate(0, 0, i)
	}

	for _, t := range tasks {
		stats.Total++
		if t.Completed {
			stats.Completed++
		} else {
			stats.Active++
			if t.DueDate != nil && t.DueDate.Before(now) {
				stats.Overdue++
			}
		}
		stats.ByPriority[t.Priority]++

		bucket := t.Category
		if bucket == "" {
			bucket = UncategorizedBucket
		}
		stats.ByCategory[bucket]++

		if i, ok := weekIndex(monday, t.CreatedAt.In(now.Location())); ok {
			stats.Week[i].Created++
		}
		if t.Completed {
			if i, ok := weekIndex(monday, t.LastModified.In(now.Location())); ok {
				stats.Week[i].Completed++
			}
		}
	}
	return stats
}

// startOfWeek returns midnight of the Monday of now's week.
func startOfWeek(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	offset := (int(midnight.Weekday()) + 6) % 7 // Monday = 0
	return midnight.AddDate(0, 0, -offset)
}

// weekIndex compares calendar dates rather than durations so DST
// transitions cannot shift a day into the wrong bucket.
func weekIndex(monday, at time.Time) (int, bool) {
	y, m, d := at.Date()
	for i := 0; i < 7; i++ {
		dy, dm, dd := monday.AddDate(0, 0, i).Date()
		if y == dy && m == dm && d == dd {
			return i, true
		}
	}
	return 0, false
}
