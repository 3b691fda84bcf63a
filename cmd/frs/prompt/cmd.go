// Package promptcmd implements the `frs prompt` command.
package promptcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/frs/cmd/frs/shared"
	"github.com/go-ports/frs/internal/render"
	"github.com/go-ports/frs/internal/service"
)

// Command implements `frs prompt`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the prompt command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "prompt",
		Short: "Print a compact prompt fragment for the current context",
		Long: `Print the current context as a single-line fragment for embedding in a
shell prompt, e.g. PS1='$(frs prompt) \$ '. No trailing newline is emitted.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := service.New(service.Options{StateHome: c.ctx.StateHome})
	if err != nil {
		return err
	}

	ctx, err := svc.Current()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), render.Prompt(ctx, svc.Palette))
	return nil
}
