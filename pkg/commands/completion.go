package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(journally completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(journally completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func registerOnCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("on", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return dayCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// dayCompletions lists stored days, newest first, that start with toComplete.
func dayCompletions(toComplete string) []string {
	env, err := openEnv()
	if err != nil {
		return nil
	}
	defer env.Close()

	days, err := env.Service().Days(context.Background())
	if err != nil {
		return nil
	}
	var out []string
	for _, word := range []string{"today", "yesterday"} {
		if strings.HasPrefix(word, toComplete) {
			out = append(out, word)
		}
	}
	for i := len(days) - 1; i >= 0; i-- {
		if s := days[i].String(); strings.HasPrefix(s, toComplete) {
			out = append(out, s)
		}
	}
	return out
}
