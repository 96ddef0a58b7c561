package main

import (
	"context"
	"errors"
	"fmt"

	pipelinedomain "github.com/smallbiznis/salesdw/internal/pipeline/domain"
	"github.com/spf13/cobra"
)

var errRunFailed = errors.New("run failed")

func newRunCmd(opts *rootOptions) *cobra.Command {
	var phases []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one pipeline run and print its summary",
		Example: `  # Full run with the configured phases
  salesdw run

  # Only re-merge the dimensions and reload facts
  salesdw run --phase customer --phase product --phase facts`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var runner pipelinedomain.Service
			return runApp(cmd.Context(), opts, func(ctx context.Context) error {
				var (
					summary pipelinedomain.Summary
					err     error
				)
				if len(phases) > 0 {
					selected, parseErr := pipelinedomain.ParsePhases(phases)
					if parseErr != nil {
						return parseErr
					}
					summary, err = runner.RunPhases(ctx, selected)
				} else {
					summary, err = runner.RunOnce(ctx)
				}
				if summary.RunID != "" {
					renderSummary(cmd.OutOrStdout(), summary)
				}
				if err != nil {
					return err
				}
				if !summary.Success() {
					failed, _ := summary.FailedPhase()
					return fmt.Errorf("%w: phase %s", errRunFailed, failed.Phase)
				}
				return nil
			}, &runner)
		},
	}

	cmd.Flags().StringSliceVar(&phases, "phase", nil, "phase to run, repeatable (default: phases from pipeline.yml)")
	return cmd
}
