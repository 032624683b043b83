package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/kyoto-flow-api/internal/service"
	"github.com/noah-isme/kyoto-flow-api/pkg/config"
	"github.com/noah-isme/kyoto-flow-api/pkg/logger"
)

func exportCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the itinerary as ics, csv, pdf or json",
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := service.ParseExportFormat(format)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logr, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logr.Sync() //nolint:errcheck

			// One-shot exports skip the weather cache.
			cfg.Weather.CacheEnabled = false
			a, err := buildApp(cmd.Context(), cfg, logr)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.exporter.Render(exportFormat, a.itinerary.Title(), a.itinerary.Snapshot())
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(result.Body)
				return err
			}
			if err := os.WriteFile(out, result.Body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			logr.Info("export written", zap.String("path", out), zap.String("format", string(exportFormat)), zap.Int("bytes", len(result.Body)))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "ics", "ics, csv, pdf or json")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}
