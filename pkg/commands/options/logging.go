package options

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// LoggingOptions
type LoggingOptions struct {
	Level      string
	WithCaller bool
}

func AddLoggingArgs(cmd *cobra.Command, o *LoggingOptions) {
	cmd.PersistentFlags().StringVar(&o.Level, "log-level", "warn",
		"Log level: trace, debug, info, warn, error.")
	cmd.PersistentFlags().BoolVar(&o.WithCaller, "with-caller", false,
		"Include the caller in log lines.")
}

// Setup configures the global logger to write to stderr.
func (o *LoggingOptions) Setup() error {
	lvl := zerolog.WarnLevel
	if o.Level != "" {
		l, err := zerolog.ParseLevel(o.Level)
		if err != nil {
			return err
		}
		lvl = l
	}
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().
		Timestamp()
	if o.WithCaller {
		logger = logger.Caller()
	}
	log.Logger = logger.Logger()
	return nil
}
