// Package notify holds the outward-facing collaborator interfaces for
// reminder delivery. Implementations may fail independently of any
// task mutation; failures are reported, never propagated back into the
// store.
package notify

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Notifier schedules or shows a local notification.
type Notifier interface {
	Notify(title, body string, fireAt time.Time) error
}

// Calendar creates a calendar event for a task.
type Calendar interface {
	CreateEvent(title, notes string, start, end time.Time) error
}

// LogNotifier is the default Notifier: it writes the notification to
// the structured log instead of the OS notification center.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

func (n LogNotifier) Notify(title, body string, fireAt time.Time) error {
	n.logger().Info("reminder",
		"title", title,
		"body", body,
		"fire_at", fireAt.Format(time.RFC3339),
	)
	return nil
}

// DesktopNotifier shells out to the platform notification command.
// Platforms without one are a silent no-op.
type DesktopNotifier struct{}

func (DesktopNotifier) Notify(title, body string, fireAt time.Time) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", title, body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(body), escapeAppleScript(title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func (n LogNotifier) CreateEvent(title, notes string, start, end time.Time) error {
	n.logger().Info("calendar event",
		"title", title,
		"notes", notes,
		"start", start.Format(time.RFC3339),
		"end", end.Format(time.RFC3339),
	)
	return nil
}
