package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	schemaPath string
	debugLog   bool
)

var rootCmd = &cobra.Command{
	Use:   "gmti-panel",
	Short: "GMTI radar-simulation control panel",
	Long:  "gmti-panel drives an external radar-simulation engine: start and stop it, submit scenario configurations, and watch the detection snapshots it produces.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/panel.yaml", "Path to panel configuration YAML")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "schemas/panel.cue", "Path to CUE schema file")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(batchCmd)
}
