package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/commands/options"
	"tableflip.dev/journally/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the conversation for a day.",
		Example: `
journally show
journally show --on yesterday
journally show --on 2024-3-9 --json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			day, err := oo.GetOn()
			if err != nil {
				return output.HandleError(err)
			}
			env, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer env.Close()

			s := show.Show{
				Service: env.Service(),
				Printer: printerFor(env, io.ShowID),
				Day:     day,
				JSON:    output.JSON,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddOnArgs(cmd, oo)
	registerOnCompletion(cmd)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
