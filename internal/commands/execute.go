package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(DoneArgs) (Result, error)
	Remove func(RemoveArgs) (Result, error)
	List   func(ListArgs) (Result, error)
	Show   func(ShowArgs) (Result, error)
	Stats  func() (Result, error)
	Cat    func(CatArgs) (Result, error)
	Sub    func(SubArgs) (Result, error)
	Remind func(RemindArgs) (Result, error)
	Attach func(AttachArgs) (Result, error)
	Sync   func() (Result, error)
	Watch  func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	missing := func(name string) (Result, error) {
		return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
	}
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return missing("done")
		}
		return handlers.Done(*cmd.Done)
	case TypeRemove:
		if handlers.Remove == nil {
			return missing("rm")
		}
		return handlers.Remove(*cmd.Remove)
	case TypeList:
		if handlers.List == nil {
			return missing("list")
		}
		return handlers.List(*cmd.List)
	case TypeShow:
		if handlers.Show == nil {
			return missing("show")
		}
		return handlers.Show(*cmd.Show)
	case TypeStats:
		if handlers.Stats == nil {
			return missing("stats")
		}
		return handlers.Stats()
	case TypeCat:
		if handlers.Cat == nil {
			return missing("cat")
		}
		return handlers.Cat(*cmd.Cat)
	case TypeSub:
		if handlers.Sub == nil {
			return missing("sub")
		}
		return handlers.Sub(*cmd.Sub)
	case TypeRemind:
		if handlers.Remind == nil {
			return missing("remind")
		}
		return handlers.Remind(*cmd.Remind)
	case TypeAttach:
		if handlers.Attach == nil {
			return missing("attach")
		}
		return handlers.Attach(*cmd.Attach)
	case TypeSync:
		if handlers.Sync == nil {
			return missing("sync")
		}
		return handlers.Sync()
	case TypeWatch:
		if handlers.Watch == nil {
			return missing("watch")
		}
		return handlers.Watch()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
