// Package savecmd implements the `frs save` command.
package savecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/frs/cmd/frs/shared"
	"github.com/go-ports/frs/internal/models"
	"github.com/go-ports/frs/internal/service"
)

// Command implements `frs save`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	namespace string
}

// New creates the save command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current context under a name",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.namespace, "namespace", models.DefaultNamespace, "Namespace to save into")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := service.New(service.Options{StateHome: c.ctx.StateHome})
	if err != nil {
		return err
	}

	saved, err := svc.SaveAs(c.namespace, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d step(s))\n", saved.DisplayName(), len(saved.Meta.StepLog))
	return nil
}
