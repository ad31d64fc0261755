package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/journally/pkg/commands/options"
)

var (
	output  = &options.OutputOptions{}
	logging = &options.LoggingOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "journally",
		Short: base.Wrap80("A daily journal that talks back. One conversation per day, a few model calls per day."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddLoggingArgs(cmd, logging)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addChat(topLevel)
	addReset(topLevel)
	addShow(topLevel)
	addNote(topLevel)
	addCalendar(topLevel)
	addHistory(topLevel)
	addUsage(topLevel)
	addClear(topLevel)
	addSettings(topLevel)
	addWatch(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
