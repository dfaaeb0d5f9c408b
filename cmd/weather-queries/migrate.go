package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-queries/internal/config"
	"github.com/i474232898/weather-queries/internal/logger"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DBDriver == config.DriverMemory {
				return fmt.Errorf("nothing to migrate for DB_DRIVER=%s", cfg.DBDriver)
			}

			ctx, cancel := context.WithTimeout(commandContext(cmd), time.Minute)
			defer cancel()

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			logger.WithFields(logger.Fields{"driver": cfg.DBDriver}).Info("schema is up to date")
			return st.Close()
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
