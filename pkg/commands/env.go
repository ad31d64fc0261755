package commands

import (
	"github.com/fatih/color"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/printers"
)

// openEnv opens the configured journal. Callers Close it.
func openEnv() (*app.Env, error) {
	return app.Open(nil)
}

func printerFor(env *app.Env, showID bool) *printers.PrettyPrint {
	return &printers.PrettyPrint{
		Out:    color.Output,
		Emojis: env.Settings.Emojis(),
		ShowID: showID,
	}
}
