// Package session derives the collision-free scratch address for the current
// terminal's context.
//
// The identity of a terminal session is the pair (parent process id, parent
// process start time). Process ids are recycled by the kernel, so an id alone
// would let an unrelated later process inherit a stale terminal's scratch
// state; pairing it with the start time pins the address to one lifetime
// instance of the parent process.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// TermPIDEnv overrides the parent pid lookup, for embedding and tests.
const TermPIDEnv = "FRS_TERM_PID"

// ConfigError reports that session identity could not be resolved. This is a
// configuration problem and is always fatal; there is no fallback address.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return "session: " + e.Reason
	}
	return fmt.Sprintf("session: %s: %v", e.Reason, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Identity is one terminal session's identity.
type Identity struct {
	PID       int
	StartTime uint64
}

// ProcessInfo supplies the process facts identity is derived from. It exists
// so the resolver can be exercised with fabricated inputs.
type ProcessInfo interface {
	// ParentPID returns the numeric id standing for the calling terminal.
	ParentPID() (int, error)
	// StartTime returns the kernel-reported start time of pid, in clock
	// ticks since boot.
	StartTime(pid int) (uint64, error)
}

// OSProcessInfo reads process facts from the live system: the FRS_TERM_PID
// environment variable when set, otherwise the real parent pid, and the
// start time from /proc/<pid>/stat.
type OSProcessInfo struct{}

func (OSProcessInfo) ParentPID() (int, error) {
	if raw := os.Getenv(TermPIDEnv); raw != "" {
		pid, err := strconv.Atoi(raw)
		if err != nil {
			return 0, &ConfigError{Reason: fmt.Sprintf("invalid %s value %q", TermPIDEnv, raw), Err: err}
		}
		return pid, nil
	}
	return os.Getppid(), nil
}

func (OSProcessInfo) StartTime(pid int) (uint64, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return 0, &ConfigError{Reason: fmt.Sprintf("read process table entry for pid %d", pid), Err: err}
	}
	return parseStartTime(string(data))
}

// parseStartTime extracts field 22 (starttime) of a /proc/<pid>/stat line.
// The comm field may contain spaces and parentheses, so fields are counted
// after the last closing paren.
func parseStartTime(stat string) (uint64, error) {
	idx := strings.LastIndexByte(stat, ')')
	if idx < 0 {
		return 0, &ConfigError{Reason: "malformed stat record"}
	}
	fields := strings.Fields(stat[idx+1:])
	// fields[0] is field 3 (state); starttime is field 22.
	const startIdx = 22 - 3
	if len(fields) <= startIdx {
		return 0, &ConfigError{Reason: fmt.Sprintf("stat record has %d fields after comm, want at least %d", len(fields), startIdx+1)}
	}
	v, err := strconv.ParseUint(fields[startIdx], 10, 64)
	if err != nil {
		return 0, &ConfigError{Reason: "parse starttime field", Err: err}
	}
	return v, nil
}

// Resolve derives the session identity from info.
func Resolve(info ProcessInfo) (Identity, error) {
	pid, err := info.ParentPID()
	if err != nil {
		return Identity{}, err
	}
	start, err := info.StartTime(pid)
	if err != nil {
		return Identity{}, err
	}
	return Identity{PID: pid, StartTime: start}, nil
}

// ScratchPath maps an identity deterministically to the scratch file holding
// that session's ephemeral context.
func ScratchPath(dir string, id Identity) string {
	return filepath.Join(dir, fmt.Sprintf("%d.%d.json", id.PID, id.StartTime))
}

// Resolver memoizes the scratch path for the lifetime of the calling
// process; the path is computed at most once and never invalidated.
type Resolver struct {
	Info ProcessInfo
	Dir  string

	once sync.Once
	path string
	err  error
}

// Path returns the memoized scratch path for the current session.
func (r *Resolver) Path() (string, error) {
	r.once.Do(func() {
		id, err := Resolve(r.Info)
		if err != nil {
			r.err = err
			return
		}
		r.path = ScratchPath(r.Dir, id)
	})
	return r.path, r.err
}
