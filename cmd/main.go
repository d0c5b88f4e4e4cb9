package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "auvbridge",
	Short: "Turn operator commands into validated AUV mission configurations",
	Long: `auvbridge asks a hosted language model for a mission configuration,
validates the answer against the vehicle's safety envelope and falls back
to the default configuration whenever anything goes wrong.

Available subcommands:
  serve    - Run the HTTP bridge
  generate - Produce one configuration from a command and a sensor snapshot
  demo     - Run the sample mission sequence`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment from this file (default: .env if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(demoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
