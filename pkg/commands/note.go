package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/commands/options"
	"tableflip.dev/journally/pkg/runner/note"
)

func addNote(topLevel *cobra.Command) {
	oo := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:   "note [text]",
		Short: "Add a line to a day without asking the model.",
		Example: `
journally note "Called mom."
journally note --on yesterday "Forgot to mention the rain."
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("note text is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
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

			s := note.Note{
				Service: env.Service(),
				Printer: printerFor(env, false),
				Day:     day,
				Text:    strings.Join(args, " "),
			}
			return s.Do(context.Background())
		},
	}

	options.AddOnArgs(cmd, oo)
	registerOnCompletion(cmd)

	topLevel.AddCommand(cmd)
}
