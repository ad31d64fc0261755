package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/commands/options"
	"tableflip.dev/journally/pkg/runner/usage"
)

func addUsage(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show how many model calls are left today.",
		Example: `
journally usage
journally usage --json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer env.Close()

			s := usage.Usage{
				Gate:    env.Gate,
				Printer: printerFor(env, false),
				JSON:    output.JSON,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
