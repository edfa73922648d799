package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <description>",
	Short: "Estimate hours for a task description",
	Long: `Runs the estimation pipeline without creating a task: the description goes
to the model, the raw response is scored by the adherence detector, and one
stricter retry is allowed before falling back to 1.0.`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize today's workload",
	RunE:  runSummarize,
}

func runEstimate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	hours := a.estimator.Estimate(cmd.Context(), args[0])
	fmt.Printf("%.1f\n", hours)
	return nil
}

func runSummarize(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	tasks := a.store.DueToday(time.Now())
	fmt.Println(a.summarizer.SummarizeDay(cmd.Context(), tasks))
	return nil
}
