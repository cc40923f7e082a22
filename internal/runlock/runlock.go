// Package runlock keeps two processes from running the rollover at the same
// time. The lock is a file holding "pid|unix_timestamp"; a lock whose owner
// is no longer a running habitify process is stale and gets reclaimed.
package runlock

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/logger"
)

var (
	tempDirFunc     = os.TempDir
	getpidFunc      = os.Getpid
	findProcessFunc = ps.FindProcess
)

// ErrLocked is returned when another live process holds the lock
var ErrLocked = stderrors.New("rollover is already running")

// DefaultPath is the lock file used when none is configured
func DefaultPath() string {
	return filepath.Join(tempDirFunc(), constants.RunLockFileName)
}

// Owner describes the holder recorded in a lock file
type Owner struct {
	PID   int
	Since time.Time
}

// State is what Inspect found at a lock path
type State struct {
	Exists bool
	Owner  Owner
	// Alive is true when the recorded process is a running habitify process
	Alive bool
}

// Lock is a held run lock
type Lock struct {
	path string
	pid  int
}

// Acquire takes the lock at path, reclaiming it once if it is stale
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	pid := getpidFunc()
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d|%d", pid, time.Now().Unix())
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lock file: %w", stderrors.Join(werr, cerr))
			}
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		state, err := Inspect(path)
		if err != nil {
			return nil, err
		}
		if state.Exists && state.Alive && state.Owner.PID != pid {
			return nil, fmt.Errorf("%w (pid %d since %s)", ErrLocked, state.Owner.PID,
				state.Owner.Since.Format(time.RFC3339))
		}

		logger.Warn("Reclaiming stale run lock", "path", path, "pid", state.Owner.PID)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock file: %w", err)
		}
	}
	return nil, ErrLocked
}

// Release removes the lock file if it still belongs to this lock
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	owner, err := readOwner(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if owner.PID != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// Path returns the lock file location
func (l *Lock) Path() string {
	return l.path
}

// Inspect reports the lock file state without modifying it. A malformed
// file reads as an existing lock with no live owner.
func Inspect(path string) (State, error) {
	owner, err := readOwner(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		var perr *parseError
		if stderrors.As(err, &perr) {
			return State{Exists: true}, nil
		}
		return State{}, err
	}
	return State{Exists: true, Owner: owner, Alive: isRunning(owner.PID)}, nil
}

type parseError struct {
	msg string
}

func (e *parseError) Error() string {
	return e.msg
}

func readOwner(path string) (Owner, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Owner{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Owner{}, &parseError{"lock file is malformed"}
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Owner{}, &parseError{"invalid process ID in lock file"}
	}
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Owner{}, &parseError{"invalid timestamp in lock file"}
	}
	return Owner{PID: pid, Since: time.Unix(ts, 0)}, nil
}

func isRunning(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.RunLockExecutable)
}
