package cmd

import (
	"context"

	"github.com/kdeps/photofind/pkg/environment"
	"github.com/kdeps/photofind/pkg/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewRootCommand returns the root command with all subcommands attached.
func NewRootCommand(ctx context.Context, fs afero.Fs, env *environment.Environment, logger *logging.Logger) *cobra.Command {
	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:   "photofind",
		Short: "Photo library search and report delivery service.",
		Long: `Photofind serves filename and metadata search over a flat directory of
image files, and can render a search result into a report delivered as a
mail attachment through an external relay.`,
	}
	rootCmd.AddCommand(NewServeCommand(ctx, fs, env, logger))

	return rootCmd
}
