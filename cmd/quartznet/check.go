package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moerwald/quartznet/internal/jobdef"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <job-file>...",
	Short: "Validate job-definition files",
	Long: `Parse and validate one or more job-definition files (XML or YAML)
without scheduling anything.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failed := false
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Printf("❌ %s: %v\n", path, err)
				failed = true
				continue
			}
			doc, err := jobdef.Parse(path, data)
			if err != nil {
				fmt.Printf("❌ %s: %v\n", path, err)
				failed = true
				continue
			}
			fmt.Printf("✅ %s: %d jobs, %d triggers\n", path, len(doc.Jobs), len(doc.Triggers))
		}
		if failed {
			os.Exit(1)
		}
	},
}
