package session_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/frs/internal/session"
)

// fakeInfo supplies fabricated process facts and counts lookups.
type fakeInfo struct {
	pid   int
	start uint64
	err   error
	calls int
}

func (f *fakeInfo) ParentPID() (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.pid, nil
}

func (f *fakeInfo) StartTime(int) (uint64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.start, nil
}

func TestResolve_HappyPath(t *testing.T) {
	c := qt.New(t)

	id, err := session.Resolve(&fakeInfo{pid: 4321, start: 99})
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, session.Identity{PID: 4321, StartTime: 99})
}

func TestScratchPath_Distinctness(t *testing.T) {
	c := qt.New(t)

	a := session.ScratchPath("/tmp", session.Identity{PID: 100, StartTime: 7})
	b := session.ScratchPath("/tmp", session.Identity{PID: 100, StartTime: 8})
	d := session.ScratchPath("/tmp", session.Identity{PID: 101, StartTime: 7})

	// Distinct (pid, start time) pairs map to distinct addresses; the same
	// pair always maps to the same one.
	c.Assert(a, qt.Not(qt.Equals), b)
	c.Assert(a, qt.Not(qt.Equals), d)
	c.Assert(b, qt.Not(qt.Equals), d)
	c.Assert(session.ScratchPath("/tmp", session.Identity{PID: 100, StartTime: 7}), qt.Equals, a)
	c.Assert(a, qt.Equals, "/tmp/100.7.json")
}

func TestResolver_Memoizes(t *testing.T) {
	c := qt.New(t)

	info := &fakeInfo{pid: 55, start: 1000}
	r := &session.Resolver{Info: info, Dir: "/scratch"}

	first, err := r.Path()
	c.Assert(err, qt.IsNil)
	second, err := r.Path()
	c.Assert(err, qt.IsNil)

	c.Assert(first, qt.Equals, second)
	c.Assert(first, qt.Equals, "/scratch/55.1000.json")
	c.Assert(info.calls, qt.Equals, 1)
}

func TestResolver_FailureIsSticky(t *testing.T) {
	c := qt.New(t)

	info := &fakeInfo{err: errors.New("no process table")}
	r := &session.Resolver{Info: info, Dir: "/scratch"}

	_, err := r.Path()
	c.Assert(err, qt.ErrorMatches, "no process table")
	_, err = r.Path()
	c.Assert(err, qt.ErrorMatches, "no process table")
	c.Assert(info.calls, qt.Equals, 1)
}

func TestOSProcessInfo_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("env override wins", func(c *qt.C) {
		c.Setenv(session.TermPIDEnv, "777")
		pid, err := session.OSProcessInfo{}.ParentPID()
		c.Assert(err, qt.IsNil)
		c.Assert(pid, qt.Equals, 777)
	})

	c.Run("start time of a live process", func(c *qt.C) {
		start, err := session.OSProcessInfo{}.StartTime(os.Getpid())
		c.Assert(err, qt.IsNil)
		c.Assert(start > 0, qt.IsTrue)
	})
}

func TestOSProcessInfo_EdgeCases(t *testing.T) {
	c := qt.New(t)

	c.Run("malformed env override is a configuration error", func(c *qt.C) {
		c.Setenv(session.TermPIDEnv, "not-a-pid")
		_, err := session.OSProcessInfo{}.ParentPID()
		var cfgErr *session.ConfigError
		c.Assert(errors.As(err, &cfgErr), qt.IsTrue)
	})

	c.Run("dead pid is a configuration error", func(c *qt.C) {
		// Max pid on Linux is bounded well below this.
		_, err := session.OSProcessInfo{}.StartTime(1 << 30)
		var cfgErr *session.ConfigError
		c.Assert(errors.As(err, &cfgErr), qt.IsTrue)
		c.Assert(err, qt.ErrorMatches, fmt.Sprintf("session: read process table entry for pid %d: .*", 1<<30))
	})
}
