// Package mcp provides the stdio MCP server exposing context composition
// tools for coding agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/frs/internal/buildinfo"
	"github.com/go-ports/frs/internal/models"
	"github.com/go-ports/frs/internal/render"
	"github.com/go-ports/frs/internal/service"
)

var builders = []string{"workdir", "path", "env", "command", "docker", "context", "empty"}

const composeDescription = `Apply one composition operation to the current shell context. Operations wrap the context's command template from the outside in: the first applied operation becomes the outermost shell wrapper and the final command the innermost term. "context" activates a previously saved context and "empty" resets to a fresh one.`

const runDescription = `Render the current shell context as an executable script with the given command substituted as the innermost term. The script is returned, never executed.`

// NewServer creates and registers all frs tools on a new MCP server. It is
// separate from Serve so tests can obtain a configured server without
// committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("frs", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server, blocking until stdin closes. The server
// shares the session identity of the process it runs in, so an embedder sets
// FRS_TERM_PID to pin the session it composes for.
func Serve(_ context.Context) error {
	svc, err := service.New(service.Options{})
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	return mcpserver.ServeStdio(NewServer(svc))
}

func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("frs_compose",
		mcp.WithDescription(composeDescription),
		mcp.WithString("builder",
			mcp.Description("Operation to apply."),
			mcp.Enum(builders...),
			mcp.Required(),
		),
		mcp.WithArray("args",
			mcp.Description("Operation arguments: workdir/path/docker take one, env takes key and value, context takes namespace and name, command takes the command words, empty takes none."),
			mcp.WithStringItems(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCompose(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("frs_run",
		mcp.WithDescription(runDescription),
		mcp.WithString("command",
			mcp.Description("Final command to substitute for the placeholder."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRun(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("frs_save",
		mcp.WithDescription("Save the current shell context under a namespace and name for later activation."),
		mcp.WithString("namespace",
			mcp.Description("Namespace to save into (default \"default\")."),
		),
		mcp.WithString("name",
			mcp.Description("Name to save as."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSave(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("frs_inspect",
		mcp.WithDescription("Show a saved context, or the current session context when namespace and name are omitted."),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the context (default \"default\")."),
		),
		mcp.WithString("name",
			mcp.Description("Name of the context (default \"default\", the current session)."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleInspect(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("frs_prompt",
		mcp.WithDescription("Render the compact prompt fragment for the current session context."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handlePrompt(ctx, svc, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleCompose(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	builder := req.GetString("builder", "")
	args := req.GetStringSlice("args", make([]string, 0))

	next, err := svc.Compose(builder, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"name":     next.DisplayName(),
		"is_dirty": next.Meta.IsDirty,
		"steps":    len(next.Meta.StepLog),
		"template": next.Template,
	})
}

func handleRun(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command := req.GetString("command", "")

	ctx, err := svc.Current()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	script, err := render.Script(ctx, command)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(script), nil
}

func handleSave(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	namespace := req.GetString("namespace", models.DefaultNamespace)
	name := req.GetString("name", "")

	saved, err := svc.SaveAs(namespace, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"name":  saved.DisplayName(),
		"steps": len(saved.Meta.StepLog),
	})
}

func handleInspect(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	namespace := req.GetString("namespace", models.DefaultNamespace)
	name := req.GetString("name", models.DefaultNamespace)

	ctx, err := svc.InspectTarget(namespace, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(render.Inspect(ctx, render.Plain())), nil
}

func handlePrompt(_ context.Context, svc *service.Service, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, err := svc.Current()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(render.Prompt(ctx, render.Plain())), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
