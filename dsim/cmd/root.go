// Package cmd provides the command-line interface for dsim.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dsim",
	Short: "dsim runs detector simulations built on the dsim action framework.",
	Long: `dsim runs detector simulations built on the dsim action framework. ` +
		`The run subcommand executes a demo simulation that exercises ` +
		`per-fiber run actions, shared actions, and run tracing.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
