package main

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/salesdw/internal/clock"
	referencedomain "github.com/smallbiznis/salesdw/internal/reference/domain"
	"github.com/spf13/cobra"
)

const seedDateLayout = "2006-01-02"

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the status and calendar dimensions",
		Long: `seed inserts the default order statuses and one calendar row per day in
[--from, --to]. Existing rows are left untouched, so seeding is safe to repeat.`,
		Example: `  salesdw seed --from 2024-01-01 --to 2026-12-31`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := seedRange(from, to, time.Now())
			if err != nil {
				return err
			}

			var reference referencedomain.Service
			return runApp(cmd.Context(), opts, func(ctx context.Context) error {
				statuses, err := reference.SeedStatuses(ctx)
				if err != nil {
					return err
				}
				calendar, err := reference.SeedCalendar(ctx, start, end)
				if err != nil {
					return err
				}
				renderSeed(cmd.OutOrStdout(), statuses, calendar)
				return nil
			}, &reference)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first calendar day, YYYY-MM-DD (default: Jan 1 of last year)")
	cmd.Flags().StringVar(&to, "to", "", "last calendar day, YYYY-MM-DD (default: Dec 31 of next year)")
	return cmd
}

// seedRange resolves the calendar range flags. The default covers last year
// through next year around now.
func seedRange(from, to string, now time.Time) (time.Time, time.Time, error) {
	today := clock.DateOf(now)
	start := time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(today.Year()+1, time.December, 31, 0, 0, 0, 0, time.UTC)

	var err error
	if from != "" {
		if start, err = time.Parse(seedDateLayout, from); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from %q: %w", from, err)
		}
	}
	if to != "" {
		if end, err = time.Parse(seedDateLayout, to); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to %q: %w", to, err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is before %s", referencedomain.ErrInvalidDateRange, end.Format(seedDateLayout), start.Format(seedDateLayout))
	}
	return start, end, nil
}
