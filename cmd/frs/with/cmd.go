// Package withcmd implements the `frs with` command.
package withcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/frs/cmd/frs/shared"
	"github.com/go-ports/frs/internal/models"
	"github.com/go-ports/frs/internal/service"
)

// Command implements `frs with`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	namespace string
}

// New creates the with command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "with <builder> [args...]",
		Short: "Apply a composition operation to the current context",
		Long: `Apply one composition operation to the current terminal's context.

Builders:
  workdir <dir>        enter <dir> before the final command
  path <dir>           extend PATH with <dir>
  env <key> <value>    export <key>=<value>
  command <words...>   run the given command first
  docker <container>   run the final command inside <container>
  context <name>       activate a saved context (see --namespace)
  empty                reset to a fresh context`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.namespace, "namespace", models.DefaultNamespace, "Namespace for the context builder")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	builder, rest := args[0], args[1:]

	// The context builder addresses a saved record by (namespace, name);
	// the namespace travels as a flag, the name as the positional argument.
	if builder == "context" {
		if len(rest) != 1 {
			return fmt.Errorf("builder %q takes a context name", builder)
		}
		rest = []string{c.namespace, rest[0]}
	}

	svc, err := service.New(service.Options{StateHome: c.ctx.StateHome})
	if err != nil {
		return err
	}

	next, err := svc.Compose(builder, rest)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "context %s now has %d step(s)\n", next.DisplayName(), len(next.Meta.StepLog))
	return nil
}
