package options

import (
	"github.com/spf13/cobra"
)

// HistoryOptions
type HistoryOptions struct {
	Window string
}

func AddHistoryArgs(cmd *cobra.Command, o *HistoryOptions) {
	cmd.Flags().StringVarP(&o.Window, "window", "w", "1w",
		`How far back to look, example: --window=3d, --window=2w or --window=1mo.`)
}
