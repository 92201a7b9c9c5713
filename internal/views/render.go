// Package views renders tasks, categories and statistics for the
// terminal. Category colors come straight from the stored hex values.
package views

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/todod/internal/model"
	"github.com/sandeepkv93/todod/internal/query"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	priorityStyle = map[model.Priority]lipgloss.Style{
		model.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		model.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		model.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func categoryChip(name, color string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	return style.Render("@" + name)
}

type TaskListData struct {
	Title      string
	Tasks      []model.Task
	Categories []model.Category
	Now        time.Time
}

func RenderTaskList(data TaskListData) string {
	colors := make(map[string]string, len(data.Categories))
	for _, cat := range data.Categories {
		colors[cat.Name] = cat.Color
	}

	var b strings.Builder
	title := data.Title
	if title == "" {
		title = "tasks"
	}
	b.WriteString(headerStyle.Render(title) + "\n")
	if len(data.Tasks) == 0 {
		b.WriteString(dimStyle.Render("(no tasks)"))
		return b.String()
	}
	for _, task := range data.Tasks {
		b.WriteString(renderTaskLine(task, colors, data.Now) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTaskLine(task model.Task, colors map[string]string, now time.Time) string {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}

	title := task.Title
	if task.Completed {
		title = doneStyle.Render(title)
	}

	parts := []string{box, priorityGlyph(task.Priority), shortID(task.ID), title}
	if task.Category != "" {
		parts = append(parts, categoryChip(task.Category, colors[task.Category]))
	}
	if task.DueDate != nil {
		due := "due " + task.DueDate.Format("2006-01-02")
		if !task.Completed && task.DueDate.Before(now) {
			due = overdueStyle.Render(due + " (overdue)")
		} else {
			due = dimStyle.Render(due)
		}
		parts = append(parts, due)
	}
	if task.Recurrence != model.RecurrenceNone {
		parts = append(parts, dimStyle.Render("every "+string(task.Recurrence)))
	}
	if task.ReminderSet {
		parts = append(parts, dimStyle.Render("⏰"))
	}
	return strings.Join(parts, " ")
}

func priorityGlyph(p model.Priority) string {
	glyph := map[model.Priority]string{
		model.PriorityHigh:   "!!!",
		model.PriorityMedium: " !!",
		model.PriorityLow:    "  !",
	}[p]
	if style, ok := priorityStyle[p]; ok {
		return style.Render(glyph)
	}
	return glyph
}

func shortID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return dimStyle.Render(id)
}

type TaskDetailData struct {
	Task     model.Task
	Category *model.Category
	Subtasks []model.Subtask
	Next     *time.Time
	Now      time.Time
}

func RenderTaskDetail(data TaskDetailData) string {
	task := data.Task
	var b strings.Builder
	b.WriteString(renderTaskLine(task, categoryColorMap(data.Category), data.Now) + "\n")

	if task.Description != "" {
		b.WriteString(RenderMarkdown(task.Description) + "\n")
	}
	if data.Next != nil {
		b.WriteString(dimStyle.Render("next occurrence: "+data.Next.Format("2006-01-02")) + "\n")
	}
	if task.ReminderSet && task.ReminderTime != nil {
		b.WriteString(dimStyle.Render("reminder: "+task.ReminderTime.Format("2006-01-02 15:04")) + "\n")
	}
	if len(task.Attachments) > 0 {
		b.WriteString("attachments:\n")
		for _, uri := range task.Attachments {
			b.WriteString("  - " + uri + "\n")
		}
	}
	if len(data.Subtasks) > 0 {
		b.WriteString("subtasks:\n")
		b.WriteString(RenderSubtasks(data.Subtasks) + "\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("created %s · modified %s",
		task.CreatedAt.Format("2006-01-02 15:04"),
		task.LastModified.Format("2006-01-02 15:04"))))
	return strings.TrimRight(b.String(), "\n")
}

func categoryColorMap(cat *model.Category) map[string]string {
	if cat == nil {
		return nil
	}
	return map[string]string{cat.Name: cat.Color}
}

func RenderSubtasks(subtasks []model.Subtask) string {
	if len(subtasks) == 0 {
		return dimStyle.Render("(no subtasks)")
	}
	lines := make([]string, 0, len(subtasks))
	for _, sub := range subtasks {
		box := "[ ]"
		title := sub.Title
		if sub.Completed {
			box = "[x]"
			title = doneStyle.Render(title)
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s", box, shortID(sub.ID), title))
	}
	return strings.Join(lines, "\n")
}

func RenderCategories(categories []model.Category) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("categories") + "\n")
	if len(categories) == 0 {
		b.WriteString(dimStyle.Render("(no categories)"))
		return b.String()
	}
	for _, cat := range categories {
		b.WriteString(fmt.Sprintf("%s %s %s\n", shortID(cat.ID), categoryChip(cat.Name, cat.Color), dimStyle.Render(cat.Color)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderStats(stats query.Stats) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("stats") + "\n")
	b.WriteString(fmt.Sprintf("total: %d  completed: %d  active: %d  overdue: %s\n",
		stats.Total, stats.Completed, stats.Active,
		overdueStyle.Render(fmt.Sprintf("%d", stats.Overdue))))

	b.WriteString("by priority:\n")
	for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		b.WriteString(fmt.Sprintf("  %-6s %d\n", p, stats.ByPriority[p]))
	}

	b.WriteString("by category:\n")
	names := make([]string, 0, len(stats.ByCategory))
	for name := range stats.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(fmt.Sprintf("  %-12s %d\n", name, stats.ByCategory[name]))
	}

	b.WriteString("this week:\n")
	for _, day := range stats.Week {
		b.WriteString(fmt.Sprintf("  %s %-3s %s %s\n",
			day.Date.Format("2006-01-02"),
			day.Date.Format("Mon"),
			bar("+", day.Created),
			bar("#", day.Completed)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func bar(glyph string, n int) string {
	if n == 0 {
		return dimStyle.Render("·")
	}
	return strings.Repeat(glyph, n)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
