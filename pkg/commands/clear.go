package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/runner/clear"
)

func addClear(topLevel *cobra.Command) {
	yes := false

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every day in the journal.",
		Example: `
journally clear
journally clear --yes
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, err := openEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			s := clear.Clear{
				Service: env.Service(),
				Printer: printerFor(env, false),
				Yes:     yes,
			}
			return s.Do(context.Background())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")

	topLevel.AddCommand(cmd)
}
