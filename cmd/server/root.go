package main

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd runs serve when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "poster-api",
	Short: "Poster HTTP API server",
	Long:  `Serves the Poster HTTP API and its OpenAPI document.`,
	RunE:  runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); environment variables use the APP_ prefix")
}
