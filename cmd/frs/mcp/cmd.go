// Package mcpcmd implements the `frs mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/frs/cmd/frs/shared"
	"github.com/go-ports/frs/internal/mcp"
)

// Command implements `frs mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Run the stdio MCP server exposing context tools",
		Long: `Run a Model Context Protocol server over stdio. Set FRS_TERM_PID in the
server's environment to pin which terminal session it composes for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcp.Serve(cmd.Context())
		},
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }
