package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/noah-isme/kyoto-flow-api/api/swagger"
)

// @title Kyoto Flow API
// @version 1.0.0
// @description Trip itinerary viewer and editor
// @BasePath /api/v1
// @schemes http

func main() {
	rootCmd := &cobra.Command{
		Use:           "itinerary-api",
		Short:         "Trip itinerary service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
