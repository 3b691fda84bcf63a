// Package runcmd implements the `frs run` command.
package runcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/frs/cmd/frs/shared"
	"github.com/go-ports/frs/internal/render"
	"github.com/go-ports/frs/internal/service"
)

// Command implements `frs run`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	show bool
}

// New creates the run command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "run <command...>",
		Short: "Render the current context as an executable script",
		Long: `Render the current context's template with the given command substituted
as the innermost term. The script is printed, never executed; feed it to a
shell, e.g. eval "$(frs run make test)".`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.BoolVar(&c.show, "show", false, "Also echo the script to stderr")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := service.New(service.Options{StateHome: c.ctx.StateHome})
	if err != nil {
		return err
	}

	ctx, err := svc.Current()
	if err != nil {
		return err
	}

	script, err := render.Script(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if c.show {
		fmt.Fprint(cmd.ErrOrStderr(), script)
	}
	fmt.Fprint(cmd.OutOrStdout(), script)
	return nil
}
