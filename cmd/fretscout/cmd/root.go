// Package cmd implements the CLI commands for the fretscout server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fretscout",
	Short: "Scout guitar listings for good deals",
	Long: "FretScout searches guitar listings, scores each one against the " +
		"going rate for comparable instruments, and fires alerts when a " +
		"saved search matches. Without eBay credentials it runs in demo " +
		"mode on sample listings.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
