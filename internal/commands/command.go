// Package commands parses the todod command language and dispatches
// parsed commands to caller-supplied handlers.
//
// add accepts inline markers anywhere after the verb: !low/!medium/
// !high set priority, @Name sets the category, due:2006-01-02 sets the
// due date, every:daily|weekly|monthly sets recurrence. Remaining
// tokens form the title.
package commands

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeRemove Type = "rm"
	TypeList   Type = "list"
	TypeShow   Type = "show"
	TypeStats  Type = "stats"
	TypeCat    Type = "cat"
	TypeSub    Type = "sub"
	TypeRemind Type = "remind"
	TypeAttach Type = "attach"
	TypeSync   Type = "sync"
	TypeWatch  Type = "watch"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalidArg(format string, args ...any) *CommandError {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

type AddArgs struct {
	Title      string
	Category   string
	Priority   string
	Recurrence string
	DueDate    *time.Time
}

type DoneArgs struct {
	ID string
}

type RemoveArgs struct {
	ID           string
	WithSubtasks bool
}

type ListArgs struct {
	Completion string // "", "active", "completed", "all"
	Category   string
	Priority   string
	SortBy     string // "", "due", "priority", "created"
}

type ShowArgs struct {
	ID string
}

type CatAction string

const (
	CatAdd    CatAction = "add"
	CatRename CatAction = "mv"
	CatRemove CatAction = "rm"
	CatList   CatAction = "ls"
)

type CatArgs struct {
	Action CatAction
	ID     string
	Name   string
	Color  string
}

type SubAction string

const (
	SubAdd    SubAction = "add"
	SubDone   SubAction = "done"
	SubRemove SubAction = "rm"
	SubList   SubAction = "ls"
)

type SubArgs struct {
	Action SubAction
	ID     string // subtask id for done/rm, task id for add/ls
	Title  string
}

type RemindArgs struct {
	TaskID string
	Clear  bool
	At     time.Time
}

type AttachArgs struct {
	TaskID string
	URI    string
	Remove bool
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *DoneArgs
	Remove *RemoveArgs
	List   *ListArgs
	Show   *ShowArgs
	Cat    *CatArgs
	Sub    *SubArgs
	Remind *RemindArgs
	Attach *AttachArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeRemove:
		return parseRemove(input, args)
	case TypeList:
		return parseList(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeStats:
		return Command{Type: TypeStats, Raw: input}, nil
	case TypeCat:
		return parseCat(input, args)
	case TypeSub:
		return parseSub(input, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypeAttach:
		return parseAttach(input, args)
	case TypeSync:
		return Command{Type: TypeSync, Raw: input}, nil
	case TypeWatch:
		return Command{Type: TypeWatch, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalidArg("add requires a title")
	}
	out := AddArgs{}
	title := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(arg, "!"):
			switch lower {
			case "!low", "!medium", "!high":
				out.Priority = strings.TrimPrefix(lower, "!")
			default:
				return Command{}, invalidArg("unknown priority marker %s", arg)
			}
		case strings.HasPrefix(arg, "@") && len(arg) > 1:
			out.Category = strings.TrimPrefix(arg, "@")
		case strings.HasPrefix(lower, "due:"):
			at, err := parseDayOrInstant(arg[len("due:"):])
			if err != nil {
				return Command{}, invalidArg("bad due date %q", arg)
			}
			out.DueDate = &at
		case strings.HasPrefix(lower, "every:"):
			switch lower[len("every:"):] {
			case "daily", "weekly", "monthly":
				out.Recurrence = lower[len("every:"):]
			default:
				return Command{}, invalidArg("unknown recurrence %s", arg)
			}
		default:
			title = append(title, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(title, " "))
	if out.Title == "" {
		return Command{}, invalidArg("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalidArg("done requires a task id")
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{ID: args[0]}}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalidArg("rm requires a task id")
	}
	out := RemoveArgs{ID: args[0]}
	for _, arg := range args[1:] {
		if strings.EqualFold(arg, "subtasks") {
			out.WithSubtasks = true
			continue
		}
		return Command{}, invalidArg("unknown rm argument %s", arg)
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &out}, nil
}

func parseList(raw string, args []string) (Command, error) {
	out := ListArgs{}
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case lower == "active" || lower == "completed" || lower == "all":
			out.Completion = lower
		case strings.HasPrefix(lower, "cat:"):
			out.Category = arg[len("cat:"):]
		case strings.HasPrefix(lower, "pri:"):
			out.Priority = lower[len("pri:"):]
		case strings.HasPrefix(lower, "by:"):
			key := lower[len("by:"):]
			switch key {
			case "due", "priority", "created":
				out.SortBy = key
			default:
				return Command{}, invalidArg("unknown sort key %s", arg)
			}
		default:
			return Command{}, invalidArg("unknown list argument %s", arg)
		}
	}
	return Command{Type: TypeList, Raw: raw, List: &out}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalidArg("show requires a task id")
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{ID: args[0]}}, nil
}

func parseCat(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalidArg("cat requires an action: add, mv, rm, ls")
	}
	action := CatAction(strings.ToLower(args[0]))
	rest := args[1:]
	out := CatArgs{Action: action}
	switch action {
	case CatAdd:
		if len(rest) == 0 {
			return Command{}, invalidArg("cat add requires a name")
		}
		out.Name = rest[0]
		if len(rest) > 1 {
			out.Color = rest[1]
		}
	case CatRename:
		if len(rest) < 2 {
			return Command{}, invalidArg("cat mv requires an id and a new name")
		}
		out.ID = rest[0]
		out.Name = rest[1]
		if len(rest) > 2 {
			out.Color = rest[2]
		}
	case CatRemove:
		if len(rest) != 1 {
			return Command{}, invalidArg("cat rm requires an id")
		}
		out.ID = rest[0]
	case CatList:
	default:
		return Command{}, invalidArg("unknown cat action %s", args[0])
	}
	return Command{Type: TypeCat, Raw: raw, Cat: &out}, nil
}

func parseSub(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalidArg("sub requires an action: add, done, rm, ls")
	}
	action := SubAction(strings.ToLower(args[0]))
	rest := args[1:]
	out := SubArgs{Action: action}
	switch action {
	case SubAdd:
		if len(rest) < 2 {
			return Command{}, invalidArg("sub add requires a task id and a title")
		}
		out.ID = rest[0]
		out.Title = strings.Join(rest[1:], " ")
	case SubDone, SubRemove:
		if len(rest) != 1 {
			return Command{}, invalidArg("sub %s requires a subtask id", action)
		}
		out.ID = rest[0]
	case SubList:
		if len(rest) != 1 {
			return Command{}, invalidArg("sub ls requires a task id")
		}
		out.ID = rest[0]
	default:
		return Command{}, invalidArg("unknown sub action %s", args[0])
	}
	return Command{Type: TypeSub, Raw: raw, Sub: &out}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) == 2 && strings.EqualFold(args[0], "clear") {
		return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{TaskID: args[1], Clear: true}}, nil
	}
	if len(args) != 2 {
		return Command{}, invalidArg("remind requires a task id and a time, or: remind clear <id>")
	}
	at, err := parseDayOrInstant(args[1])
	if err != nil {
		return Command{}, invalidArg("bad reminder time %q", args[1])
	}
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{TaskID: args[0], At: at}}, nil
}

func parseAttach(raw string, args []string) (Command, error) {
	if len(args) == 3 && strings.EqualFold(args[0], "rm") {
		return Command{Type: TypeAttach, Raw: raw, Attach: &AttachArgs{TaskID: args[1], URI: args[2], Remove: true}}, nil
	}
	if len(args) != 2 {
		return Command{}, invalidArg("attach requires a task id and a uri, or: attach rm <id> <uri>")
	}
	return Command{Type: TypeAttach, Raw: raw, Attach: &AttachArgs{TaskID: args[0], URI: args[1]}}, nil
}

func parseDayOrInstant(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if at, err := time.Parse(layout, value); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", value)
}
