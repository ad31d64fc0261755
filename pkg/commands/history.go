package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/commands/options"
	"tableflip.dev/journally/pkg/runner/history"
)

func addHistory(topLevel *cobra.Command) {
	ho := &options.HistoryOptions{}
	oo := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent days and how much was said.",
		Example: `
journally history
journally history --window 1mo
journally history --window 2w --on 2024-3-31 --json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			until, err := oo.GetOn()
			if err != nil {
				return output.HandleError(err)
			}
			env, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer env.Close()

			s := history.History{
				Service: env.Service(),
				Printer: printerFor(env, false),
				Window:  ho.Window,
				Until:   until,
				JSON:    output.JSON,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddHistoryArgs(cmd, ho)
	options.AddOnArgs(cmd, oo)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
