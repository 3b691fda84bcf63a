package mcp

// White-box testing required: the tool handlers are registered as closures
// over the service and are not reachable through the public NewServer API,
// so they are exercised directly against a hermetic service.

import (
	"context"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/go-ports/frs/internal/config"
	"github.com/go-ports/frs/internal/service"
)

type fakeInfo struct{}

func (fakeInfo) ParentPID() (int, error) { return 12345, nil }
func (fakeInfo) StartTime(int) (uint64, error) { return 67890, nil }

func newTestService(c *qt.C) *service.Service {
	c.Setenv(config.ScratchDirEnv, c.TempDir())

	svc, err := service.New(service.Options{
		StateHome:   c.TempDir(),
		ProcessInfo: fakeInfo{},
	})
	c.Assert(err, qt.IsNil)
	return svc
}

func callReq(args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textOf(c *qt.C, res *mcplib.CallToolResult) string {
	c.Assert(res.Content, qt.HasLen, 1)
	text, ok := mcplib.AsTextContent(res.Content[0])
	c.Assert(ok, qt.IsTrue)
	return text.Text
}

func TestNewServer_HappyPath(t *testing.T) {
	c := qt.New(t)

	s := NewServer(newTestService(c))
	c.Assert(s, qt.IsNotNil)
}

func TestHandleCompose_HappyPath(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(c)

	res, err := handleCompose(context.Background(), svc, callReq(map[string]any{
		"builder": "workdir",
		"args":    []any{"/tmp"},
	}))
	c.Assert(err, qt.IsNil)
	c.Assert(res.IsError, qt.IsFalse)

	out := textOf(c, res)
	c.Assert(out, qt.Contains, `"steps":1`)
	c.Assert(out, qt.Contains, `"is_dirty":true`)
}

func TestHandleCompose_UnknownBuilder(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(c)

	res, err := handleCompose(context.Background(), svc, callReq(map[string]any{
		"builder": "teleport",
	}))
	c.Assert(err, qt.IsNil)
	c.Assert(res.IsError, qt.IsTrue)
}

func TestHandleRunAndPrompt_HappyPath(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(c)

	_, err := handleCompose(context.Background(), svc, callReq(map[string]any{
		"builder": "workdir",
		"args":    []any{"/tmp"},
	}))
	c.Assert(err, qt.IsNil)

	res, err := handleRun(context.Background(), svc, callReq(map[string]any{
		"command": "ls -la",
	}))
	c.Assert(err, qt.IsNil)
	script := textOf(c, res)
	c.Assert(strings.Contains(script, "(cd /tmp;\n ls -la)"), qt.IsTrue)
	c.Assert(script, qt.Contains, "# FRS_META=")

	res, err = handlePrompt(context.Background(), svc, callReq(nil))
	c.Assert(err, qt.IsNil)
	c.Assert(textOf(c, res), qt.Equals, "(default) wd(..tmp)")
}

func TestHandleSaveInspect_HappyPath(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(c)

	_, err := handleCompose(context.Background(), svc, callReq(map[string]any{
		"builder": "env",
		"args":    []any{"FOO", "bar"},
	}))
	c.Assert(err, qt.IsNil)

	res, err := handleSave(context.Background(), svc, callReq(map[string]any{
		"namespace": "team",
		"name":      "build",
	}))
	c.Assert(err, qt.IsNil)
	c.Assert(res.IsError, qt.IsFalse)

	res, err = handleInspect(context.Background(), svc, callReq(map[string]any{
		"namespace": "team",
		"name":      "build",
	}))
	c.Assert(err, qt.IsNil)
	out := textOf(c, res)
	c.Assert(out, qt.Contains, "# name: team::build")
	c.Assert(out, qt.Contains, "# $ env(FOO)")
}
