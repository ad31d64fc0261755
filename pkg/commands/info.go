package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/journally/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the journal and where it is stored.",
		Example: `
journally info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, err := openEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			s := info.Info{
				Config:  env.Config,
				Service: env.Service(),
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
