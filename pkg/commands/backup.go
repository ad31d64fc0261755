package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/runner/backup"
)

func addExport(topLevel *cobra.Command) {
	file := ""

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every day to a JSON file.",
		Example: `
journally export --file journal.json
journally export > journal.json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, err := openEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			s := backup.Export{
				Service: env.Service(),
				Printer: printerFor(env, false),
				File:    file,
			}
			return s.Do(context.Background())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Destination file; stdout when empty.")

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	file := ""
	overwrite := false

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load days from a JSON export.",
		Long: `Load days from a JSON export made by journally export, or from the
dictionary the iOS app stored under journalEntries.`,
		Example: `
journally import --file journal.json
journally import --overwrite < journal.json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, err := openEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			s := backup.Import{
				Service:   env.Service(),
				Printer:   printerFor(env, false),
				File:      file,
				Overwrite: overwrite,
			}
			return s.Do(context.Background())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Source file; stdin when empty.")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace days that already have a conversation.")

	topLevel.AddCommand(cmd)
}
