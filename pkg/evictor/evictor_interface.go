package evictor

import "fmt"

// Action tells the evictor what to do with a holder once found. Callers
// escalate by re-invoking with a stronger action: warn, then terminate, then
// kill.
type Action int

const (
	ActionWarn Action = iota
	ActionTerminate
	ActionKill
)

func (a Action) String() string {
	switch a {
	case ActionWarn:
		return "warn"
	case ActionTerminate:
		return "terminate"
	case ActionKill:
		return "kill"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction maps a command-line argument to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "0", "warn":
		return ActionWarn, nil
	case "1", "term", "terminate":
		return ActionTerminate, nil
	case "2", "kill":
		return ActionKill, nil
	}
	return ActionWarn, fmt.Errorf("unknown action %q", s)
}

// HolderEvictor scans the process table for holders of a mount point and
// applies the requested action to each. The scan is a single advisory pass:
// it has no error channel, and holders appearing after it returns are the
// caller's problem (retry with a stronger action).
type HolderEvictor interface {
	EvictHolders(mountPoint string, action Action)
}
