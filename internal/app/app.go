// Package app wires the store, query pipeline, attachment cache and
// reminder scheduler behind the command language.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sandeepkv93/todod/internal/cache"
	"github.com/sandeepkv93/todod/internal/commands"
	"github.com/sandeepkv93/todod/internal/config"
	"github.com/sandeepkv93/todod/internal/model"
	"github.com/sandeepkv93/todod/internal/notify"
	"github.com/sandeepkv93/todod/internal/query"
	"github.com/sandeepkv93/todod/internal/scheduler"
	"github.com/sandeepkv93/todod/internal/storage"
	"github.com/sandeepkv93/todod/internal/store"
	"github.com/sandeepkv93/todod/internal/views"
)

type App struct {
	cfg      config.Config
	repo     *storage.SQLiteRepository
	store    *store.Store
	cache    *cache.Cache
	notifier notify.Notifier
	calendar notify.Calendar
	logger   *slog.Logger
	now      func() time.Time
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("prepare data directories: %w", err)
	}

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	if err := storage.MigrateUp(repo.DB()); err != nil {
		repo.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	st := store.New(repo)
	if err := st.Load(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("load store: %w", err)
	}

	attachments, err := cache.New(cfg.CacheDir, cache.WithTTL(cfg.CacheTTL))
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("open attachment cache: %w", err)
	}

	var notifier notify.Notifier = notify.LogNotifier{Logger: logger}
	if cfg.DesktopNotifications {
		notifier = notify.DesktopNotifier{}
	}

	return &App{
		cfg:      cfg,
		repo:     repo,
		store:    st,
		cache:    attachments,
		notifier: notifier,
		calendar: notify.LogNotifier{Logger: logger},
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (a *App) Close() error {
	return a.repo.Close()
}

// Run parses and executes one command line, returning the rendered
// output.
func (a *App) Run(ctx context.Context, line string) (string, error) {
	cmd, err := commands.Parse(line)
	if err != nil {
		return "", err
	}
	res, err := commands.Execute(cmd, a.handlers(ctx))
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func (a *App) handlers(ctx context.Context) commands.Handlers {
	return commands.Handlers{
		Add:    func(args commands.AddArgs) (commands.Result, error) { return a.add(ctx, args) },
		Done:   func(args commands.DoneArgs) (commands.Result, error) { return a.done(ctx, args) },
		Remove: func(args commands.RemoveArgs) (commands.Result, error) { return a.remove(ctx, args) },
		List:   func(args commands.ListArgs) (commands.Result, error) { return a.list(args) },
		Show:   func(args commands.ShowArgs) (commands.Result, error) { return a.show(ctx, args) },
		Stats:  func() (commands.Result, error) { return a.stats() },
		Cat:    func(args commands.CatArgs) (commands.Result, error) { return a.cat(ctx, args) },
		Sub:    func(args commands.SubArgs) (commands.Result, error) { return a.sub(ctx, args) },
		Remind: func(args commands.RemindArgs) (commands.Result, error) { return a.remind(ctx, args) },
		Attach: func(args commands.AttachArgs) (commands.Result, error) { return a.attach(ctx, args) },
		Sync:   func() (commands.Result, error) { return a.sync(ctx) },
		Watch:  func() (commands.Result, error) { return a.watch(ctx) },
	}
}

func (a *App) add(ctx context.Context, args commands.AddArgs) (commands.Result, error) {
	if args.Category != "" {
		if _, ok := a.store.CategoryByName(args.Category); !ok {
			cat, err := a.store.AddCategory(ctx, args.Category, "")
			if err != nil {
				return commands.Result{}, err
			}
			a.logger.Info("created category", "name", cat.Name, "color", cat.Color)
		}
	}

	task, err := a.store.CreateTask(ctx, store.TaskInput{
		Title:      args.Title,
		Category:   args.Category,
		Priority:   model.Priority(args.Priority),
		DueDate:    args.DueDate,
		Recurrence: model.Recurrence(args.Recurrence),
	})
	if err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("added %s: %s", task.ID, task.Title)}, nil
}

func (a *App) done(ctx context.Context, args commands.DoneArgs) (commands.Result, error) {
	task, err := a.store.ToggleTaskCompletion(ctx, args.ID)
	if err != nil {
		return commands.Result{}, err
	}
	state := "active"
	if task.Completed {
		state = "completed"
	}
	return commands.Result{Message: fmt.Sprintf("%s is now %s", task.ID, state)}, nil
}

func (a *App) remove(ctx context.Context, args commands.RemoveArgs) (commands.Result, error) {
	if err := a.store.DeleteTask(ctx, args.ID); err != nil {
		return commands.Result{}, err
	}
	msg := "removed " + args.ID
	if args.WithSubtasks {
		n, err := a.store.DeleteSubtasksForTask(ctx, args.ID)
		if err != nil {
			return commands.Result{}, err
		}
		msg = fmt.Sprintf("%s and %d subtasks", msg, n)
	}
	return commands.Result{Message: msg}, nil
}

func (a *App) list(args commands.ListArgs) (commands.Result, error) {
	filter := query.Filter{
		Completion: query.Completion(args.Completion),
		Category:   args.Category,
		Priority:   model.Priority(args.Priority),
	}
	tasks := filter.Apply(a.store.Tasks())
	tasks = query.Sort(tasks, sortKeyFor(args.SortBy))

	out := views.RenderTaskList(views.TaskListData{
		Title:      listTitle(args),
		Tasks:      tasks,
		Categories: a.store.Categories(),
		Now:        a.now(),
	})
	return commands.Result{Message: out}, nil
}

func sortKeyFor(by string) query.SortKey {
	switch by {
	case "due":
		return query.SortByDueDate
	case "priority":
		return query.SortByPriority
	case "created":
		return query.SortByCreatedAt
	default:
		return ""
	}
}

func listTitle(args commands.ListArgs) string {
	parts := []string{"tasks"}
	if args.Completion != "" && args.Completion != "all" {
		parts = append(parts, args.Completion)
	}
	if args.Category != "" {
		parts = append(parts, "@"+args.Category)
	}
	if args.Priority != "" {
		parts = append(parts, "!"+args.Priority)
	}
	return strings.Join(parts, " ")
}

func (a *App) show(ctx context.Context, args commands.ShowArgs) (commands.Result, error) {
	task, err := a.store.Task(args.ID)
	if err != nil {
		return commands.Result{}, err
	}

	var category *model.Category
	if task.Category != "" {
		if cat, ok := a.store.CategoryByName(task.Category); ok {
			category = &cat
		}
	}

	now := a.now()
	var next *time.Time
	if at, ok := query.NextOccurrence(task, now); ok {
		next = &at
	}

	// Attachments resolve through the cache so remote files open from
	// local copies; a failed fetch falls back to the original URI.
	resolved := make([]string, len(task.Attachments))
	for i, uri := range task.Attachments {
		resolved[i] = a.cache.Resolve(ctx, uri)
	}
	display := task.Clone()
	display.Attachments = resolved

	out := views.RenderTaskDetail(views.TaskDetailData{
		Task:     display,
		Category: category,
		Subtasks: a.store.SubtasksFor(task.ID),
		Next:     next,
		Now:      now,
	})
	return commands.Result{Message: out}, nil
}

func (a *App) stats() (commands.Result, error) {
	stats := query.Aggregate(a.store.Tasks(), a.now())
	return commands.Result{Message: views.RenderStats(stats)}, nil
}

func (a *App) cat(ctx context.Context, args commands.CatArgs) (commands.Result, error) {
	switch args.Action {
	case commands.CatAdd:
		cat, err := a.store.AddCategory(ctx, args.Name, args.Color)
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("added category %s: %s %s", cat.ID, cat.Name, cat.Color)}, nil
	case commands.CatRename:
		cat, err := a.store.UpdateCategory(ctx, args.ID, args.Name, args.Color)
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("renamed category %s to %s", cat.ID, cat.Name)}, nil
	case commands.CatRemove:
		if err := a.store.DeleteCategory(ctx, args.ID); err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: "removed category " + args.ID}, nil
	case commands.CatList:
		return commands.Result{Message: views.RenderCategories(a.store.Categories())}, nil
	default:
		return commands.Result{}, fmt.Errorf("unknown category action %q", args.Action)
	}
}

func (a *App) sub(ctx context.Context, args commands.SubArgs) (commands.Result, error) {
	switch args.Action {
	case commands.SubAdd:
		sub, err := a.store.AddSubtask(ctx, args.ID, args.Title)
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("added subtask %s: %s", sub.ID, sub.Title)}, nil
	case commands.SubDone:
		sub, err := a.store.ToggleSubtaskCompletion(ctx, args.ID)
		if err != nil {
			return commands.Result{}, err
		}
		state := "active"
		if sub.Completed {
			state = "completed"
		}
		return commands.Result{Message: fmt.Sprintf("%s is now %s", sub.ID, state)}, nil
	case commands.SubRemove:
		if err := a.store.DeleteSubtask(ctx, args.ID); err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: "removed subtask " + args.ID}, nil
	case commands.SubList:
		if _, err := a.store.Task(args.ID); err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: views.RenderSubtasks(a.store.SubtasksFor(args.ID))}, nil
	default:
		return commands.Result{}, fmt.Errorf("unknown subtask action %q", args.Action)
	}
}

func (a *App) remind(ctx context.Context, args commands.RemindArgs) (commands.Result, error) {
	if args.Clear {
		task, err := a.store.RemoveReminder(ctx, args.TaskID)
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: "cleared reminder on " + task.ID}, nil
	}
	task, err := a.store.SetReminder(ctx, args.TaskID, args.At)
	if err != nil {
		return commands.Result{}, err
	}

	// A reminder on a dated task also gets a calendar event spanning
	// reminder to due date. Calendar failures never undo the reminder.
	if task.DueDate != nil {
		end := *task.DueDate
		if !end.After(args.At) {
			end = args.At.Add(time.Hour)
		}
		if err := a.calendar.CreateEvent(task.Title, task.Description, args.At, end); err != nil {
			a.logger.Warn("calendar event failed", "task", task.ID, "error", err)
		}
	}
	return commands.Result{Message: fmt.Sprintf("reminder on %s at %s", task.ID, args.At.Format(time.RFC3339))}, nil
}

func (a *App) attach(ctx context.Context, args commands.AttachArgs) (commands.Result, error) {
	if args.Remove {
		task, err := a.store.RemoveAttachment(ctx, args.TaskID, args.URI)
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("%s has %d attachments", task.ID, len(task.Attachments))}, nil
	}
	task, err := a.store.AddAttachment(ctx, args.TaskID, args.URI)
	if err != nil {
		return commands.Result{}, err
	}
	local := a.cache.Resolve(ctx, args.URI)
	return commands.Result{Message: fmt.Sprintf("attached %s to %s (cached at %s)", args.URI, task.ID, local)}, nil
}

func (a *App) sync(ctx context.Context) (commands.Result, error) {
	at, err := a.store.Sync(ctx)
	if err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: "synced at " + at.Format(time.RFC3339)}, nil
}

// watch schedules every pending reminder and delivers notifications
// until the context is cancelled.
func (a *App) watch(ctx context.Context) (commands.Result, error) {
	if err := a.cache.EvictExpired(); err != nil {
		a.logger.Warn("cache eviction failed", "error", err)
	}

	engine := scheduler.NewEngine(a.cfg.SchedulerBuffer)
	now := a.now()
	scheduled := 0
	for _, task := range a.store.Tasks() {
		if !task.ReminderSet || task.ReminderTime == nil || !task.ReminderTime.After(now) {
			continue
		}
		err := engine.Schedule(scheduler.Notification{
			TaskID: task.ID,
			Title:  task.Title,
			Body:   reminderBody(task),
			FireAt: *task.ReminderTime,
		})
		if err != nil {
			a.logger.Warn("schedule failed", "task", task.ID, "error", err)
			continue
		}
		scheduled++
	}

	engine.Start()
	defer engine.Stop()
	a.logger.Info("watching reminders", "scheduled", scheduled)

	for {
		select {
		case <-ctx.Done():
			return commands.Result{Message: fmt.Sprintf("stopped watching, %d reminders still pending", engine.Pending())}, nil
		case n := <-engine.C():
			if err := a.notifier.Notify(n.Title, n.Body, n.FireAt); err != nil {
				a.logger.Warn("notification failed", "task", n.TaskID, "error", err)
			}
		}
	}
}

func reminderBody(task model.Task) string {
	if task.DueDate != nil {
		return "due " + task.DueDate.Format("2006-01-02")
	}
	return task.Description
}
