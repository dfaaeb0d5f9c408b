package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-queries/internal/config"
	"github.com/i474232898/weather-queries/internal/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "weather-queries",
		Short:         "Resolve locations, fetch weather and manage stored queries.",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newExportCommand())

	return root
}

// loadConfig reads the environment and applies the configured log level.
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warnf("invalid LOG_LEVEL %q, keeping info: %v", cfg.LogLevel, err)
	}
	return cfg, nil
}
