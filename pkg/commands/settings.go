package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/commands/options"
	"tableflip.dev/journally/pkg/runner/settings"
	prefs "tableflip.dev/journally/pkg/settings"
)

func addSettings(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	var user, bot string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the emojis shown beside each turn.",
		Example: `
journally settings
journally settings --user 🐶 --bot 4
journally settings -i
`,
		ValidArgs: prefs.Choices,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer env.Close()

			s := settings.Settings{
				Settings:    env.Settings,
				Printer:     printerFor(env, false),
				User:        user,
				Bot:         bot,
				Interactive: i.Interactive,
				JSON:        output.JSON,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Emoji for your turns, or its number in the list.")
	cmd.Flags().StringVar(&bot, "bot", "", "Emoji for the assistant's turns, or its number in the list.")
	for _, name := range []string{"user", "bot"} {
		_ = cmd.RegisterFlagCompletionFunc(name, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return prefs.Choices, cobra.ShellCompDirectiveNoFileComp
		})
	}
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
