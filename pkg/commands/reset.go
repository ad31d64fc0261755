package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/runner/reset"
)

func addReset(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase today's conversation and fetch fresh starters.",
		Example: `
journally reset
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, err := openEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := context.Background()
			client, err := env.Client(ctx)
			if err != nil {
				return err
			}
			s := reset.Reset{
				Session: env.Session(client),
				Printer: printerFor(env, false),
			}
			return s.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
