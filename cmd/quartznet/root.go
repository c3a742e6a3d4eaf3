package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quartznet",
	Short: "quartznet - File-Driven Job Scheduler",
	Long: `quartznet runs a cron scheduler whose jobs are declared in external
job-definition files (XML or YAML). Files can live on disk, in search
paths, or behind HTTP, and are re-loaded when they change.`,
	Version: Version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
}
