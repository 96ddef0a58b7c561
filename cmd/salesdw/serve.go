package main

import (
	"github.com/smallbiznis/salesdw/internal/pipeline"
	"github.com/smallbiznis/salesdw/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var noSchedule bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pipeline on its schedule and expose the ops server",
		Long: `serve starts the ops HTTP server (/health, /metrics, /runs) and, unless
--no-schedule is set, runs the pipeline immediately and then on every
schedule_interval from pipeline.yml.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			options := []fx.Option{
				coreModules(opts),
				server.Module,
			}
			if !noSchedule {
				options = append(options, fx.Invoke(pipeline.StartScheduler))
			}
			app := fx.New(options...)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSchedule, "no-schedule", false, "only serve the ops endpoints; runs are triggered with POST /runs")
	return cmd
}
