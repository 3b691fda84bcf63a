// Package inspectcmd implements the `frs inspect` command.
package inspectcmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yalp/jsonpath"

	"github.com/go-ports/frs/cmd/frs/shared"
	"github.com/go-ports/frs/internal/models"
	"github.com/go-ports/frs/internal/render"
	"github.com/go-ports/frs/internal/service"
)

// Command implements `frs inspect`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	namespace string
	query     string
}

// New creates the inspect command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "inspect [name]",
		Short: "Show a context in detail",
		Long: `Show a context's provenance, environment snapshot and template.
Without a name, shows the current terminal's context.`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.namespace, "namespace", models.DefaultNamespace, "Namespace of the context")
	f.StringVar(&c.query, "query", "", "JSONPath query over the context record instead of the pretty view (e.g. $.meta.step_log[0].description)")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	name := models.DefaultNamespace
	if len(args) == 1 {
		name = args[0]
	}

	svc, err := service.New(service.Options{StateHome: c.ctx.StateHome})
	if err != nil {
		return err
	}

	ctx, err := svc.InspectTarget(c.namespace, name)
	if err != nil {
		return err
	}

	if c.query != "" {
		return c.runQuery(cmd, ctx)
	}

	fmt.Fprint(cmd.OutOrStdout(), render.Inspect(ctx, svc.Palette))
	return nil
}

// runQuery evaluates a JSONPath expression against the encoded record.
func (c *Command) runQuery(cmd *cobra.Command, ctx *models.Context) error {
	encoded, err := models.Encode(ctx)
	if err != nil {
		return err
	}
	var record any
	if err := json.Unmarshal(encoded, &record); err != nil {
		return fmt.Errorf("inspect: reparse record: %w", err)
	}

	value, err := jsonpath.Read(record, c.query)
	if err != nil {
		return fmt.Errorf("inspect: query %q: %w", c.query, err)
	}

	if s, ok := value.(string); ok {
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	}
	out, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("inspect: encode query result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
