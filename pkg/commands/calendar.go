package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/commands/options"
	"tableflip.dev/journally/pkg/runner/calendar"
)

func addCalendar(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	months := 1

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show which days of the month have entries.",
		Example: `
journally calendar
journally calendar --on 2024-3-1 --months 3
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			day, err := oo.GetOn()
			if err != nil {
				return err
			}
			env, err := openEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			s := calendar.Calendar{
				Service: env.Service(),
				Printer: printerFor(env, false),
				Month:   day.Start(),
				Months:  months,
			}
			return s.Do(context.Background())
		},
	}

	options.AddOnArgs(cmd, oo)
	cmd.Flags().IntVar(&months, "months", 1, "Number of months to show, starting at --on.")

	topLevel.AddCommand(cmd)
}
