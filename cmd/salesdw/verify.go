package main

import (
	"context"
	"errors"

	referencedomain "github.com/smallbiznis/salesdw/internal/reference/domain"
	"github.com/spf13/cobra"
)

var errVerifyFailed = errors.New("reference dimensions are invalid")

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the status and calendar dimensions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var reference referencedomain.Service
			return runApp(cmd.Context(), opts, func(ctx context.Context) error {
				statuses, err := reference.VerifyStatuses(ctx)
				if err != nil {
					return err
				}
				calendar, err := reference.VerifyCalendar(ctx)
				if err != nil {
					return err
				}
				renderVerify(cmd.OutOrStdout(), statuses, calendar)
				if !statuses.Success || !calendar.Success {
					return errVerifyFailed
				}
				return nil
			}, &reference)
		},
	}
}
