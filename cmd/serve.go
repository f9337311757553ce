package cmd

import (
	"context"

	"github.com/kdeps/photofind/pkg/api"
	"github.com/kdeps/photofind/pkg/environment"
	"github.com/kdeps/photofind/pkg/logging"
	"github.com/kdeps/photofind/pkg/mail"
	"github.com/kdeps/photofind/pkg/photo"
	"github.com/kdeps/photofind/pkg/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the 'serve' command and wires the pipeline.
func NewServeCommand(_ context.Context, fs afero.Fs, env *environment.Environment, logger *logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Example: "$ photofind serve",
		Short:   "Start the photo search API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			generator := report.NewGenerator(fs, env.ReportsDir, logger)
			relay := mail.NewClient(fs, env.MailRelayURL, logger)
			service := photo.NewService(fs, env.PhotosFolder, generator, relay, logger)

			server := api.NewServer(env, service, logger)
			return server.Run()
		},
	}
}
