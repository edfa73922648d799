package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "todo",
		Short: "Todo - an LLM-assisted personal task list",
		Long: `Todo manages a personal task list backed by a single JSON file.

Task time estimates and day summaries are delegated to Anthropic's API, with
an AIMon instruction-adherence check guarding the estimation output. Email
reminders go out through Amazon SES.`,
		RunE:          runList, // Default action lists tasks
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
