package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-queries/internal/export"
)

func newExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored observation to stdout.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !export.ValidFormat(format) {
				return fmt.Errorf("--fmt must be one of: %s, %s", export.FormatCSV, export.FormatJSON)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(commandContext(cmd), time.Minute)
			defer cancel()

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			rows, err := newService(cfg, st).Export(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == export.FormatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(export.Records(rows))
			}
			return export.WriteCSV(out, rows)
		},
	}
	cmd.Flags().StringVar(&format, "fmt", export.FormatCSV, "Output format: csv or json.")

	return cmd
}
