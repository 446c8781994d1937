package executor

import (
	"fmt"
)

// NewExecutor creates the executor for mode.
//
// Supported modes:
//   - "serial" - one goroutine, no lock
//   - "mutex" - one exclusive lock around every operation
//   - "rwlock" - one read-write lock, shared for Member
func NewExecutor(mode Mode) (Executor, error) {
	switch mode {
	case ModeSerial:
		return NewSerial(), nil
	case ModeMutex:
		return NewMutex(), nil
	case ModeRWLock:
		return NewRWLock(), nil
	default:
		return nil, fmt.Errorf("unknown executor mode: %s", mode)
	}
}

// NewExecutorFromString creates an executor from a mode name.
//
// This is a convenience wrapper around ParseMode and NewExecutor.
func NewExecutorFromString(mode string) (Executor, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return NewExecutor(m)
}

// IsValidMode returns true if s names a supported mode.
func IsValidMode(s string) bool {
	_, err := ParseMode(s)
	return err == nil
}

// Description provides documentation for a mode.
type Description struct {
	Mode        Mode
	Name        string
	Description string
}

// GetDescription returns documentation for mode, or nil if unknown.
func GetDescription(mode Mode) *Description {
	switch mode {
	case ModeSerial:
		return &Description{
			Mode:        ModeSerial,
			Name:        "Serial",
			Description: "One goroutine applies the full workload with no locking. Baseline for the locked modes.",
		}
	case ModeMutex:
		return &Description{
			Mode:        ModeMutex,
			Name:        "Mutex",
			Description: "One exclusive lock guards the whole set; every operation, lookups included, runs alone.",
		}
	case ModeRWLock:
		return &Description{
			Mode:        ModeRWLock,
			Name:        "Read-Write Lock",
			Description: "One read-write lock guards the whole set; lookups share it, inserts and deletes hold it exclusively.",
		}
	default:
		return nil
	}
}
