package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/commands/options"
	"tableflip.dev/journally/pkg/runner/chat"
)

func addChat(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to today's journal.",
		Long: `Open today's conversation. With a message, send it and print the reply.
Without one, chat until /quit. /reset starts the day over.`,
		Example: `
journally chat
journally chat "Today was long but the walk home helped."
`,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			s := chat.Chat{
				Session: env.Session(client),
				Printer: printerFor(env, io.ShowID),
				Message: strings.Join(args, " "),
			}
			return s.Do(ctx)
		},
	}

	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
