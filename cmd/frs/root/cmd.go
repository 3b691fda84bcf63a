// Package rootcmd wires the root cobra.Command for the frs CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	inspectcmd "github.com/go-ports/frs/cmd/frs/inspect"
	mcpcmd "github.com/go-ports/frs/cmd/frs/mcp"
	promptcmd "github.com/go-ports/frs/cmd/frs/prompt"
	runcmd "github.com/go-ports/frs/cmd/frs/run"
	savecmd "github.com/go-ports/frs/cmd/frs/save"
	"github.com/go-ports/frs/cmd/frs/shared"
	withcmd "github.com/go-ports/frs/cmd/frs/with"
	"github.com/go-ports/frs/internal/buildinfo"
)

// New creates and returns the root cobra.Command for the frs CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "frs",
		Short:         "frs — compose reusable shell command contexts",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.StateHome, "state-home", "",
		"Override the named-context directory (default: $FRS_STATE_DIR env → config → ~/.config/frs/context)",
	)

	root.AddCommand(
		withcmd.New(ctx).Cmd(),
		runcmd.New(ctx).Cmd(),
		savecmd.New(ctx).Cmd(),
		inspectcmd.New(ctx).Cmd(),
		promptcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
	)

	return root
}
