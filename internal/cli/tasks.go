package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aimonlabs/intelligent-todo-app/internal/task"
)

var (
	addDue      string
	addHours    float64
	addPriority string
	listStatus  string
)

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a task",
	Long: `Adds a task to the list. When --hours is not given, the time estimate is
delegated to the LLM estimation pipeline (falling back to 1.0 if unavailable).`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runList,
}

var completeCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (RFC3339 or YYYY-MM-DD[ HH:MM]; naive values use the configured timezone)")
	addCmd.Flags().Float64Var(&addHours, "hours", 0, "Estimated hours (omit to let the model estimate)")
	addCmd.Flags().StringVar(&addPriority, "priority", "", "Priority (high, medium, low)")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (pending, in_progress, completed, past_due)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	description := args[0]

	var due *time.Time
	if addDue != "" {
		ts, err := task.ParseDueDate(addDue)
		if err != nil {
			return err
		}
		due = &ts
	}

	hours := addHours
	if !cmd.Flags().Changed("hours") {
		hours = a.estimator.Estimate(cmd.Context(), description)
	}

	t := task.New(description, due, hours)
	t.Priority = addPriority
	if _, err := a.store.Create(t); err != nil {
		return err
	}

	fmt.Printf("Added %s (estimated %.1f hours)\n", t.ID, t.EstimatedHours)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	status := task.Status(listStatus)
	switch status {
	case "", task.StatusPending, task.StatusInProgress, task.StatusCompleted, task.StatusPastDue:
	default:
		return fmt.Errorf("unknown status %q", listStatus)
	}

	tasks := a.store.List(status)
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	now := time.Now()
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		due := ""
		if t.DueDate != nil {
			due = ", due " + t.DueDate.In(task.DefaultLocation()).Format("2006-01-02 15:04")
		}
		fmt.Printf("[%s] %s  %s (%.1fh%s) [%s]\n", mark, t.ID[:8], t.Description, t.EstimatedHours, due, t.StatusAt(now))
	}
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	t, err := a.store.Complete(resolveID(a, args[0]))
	if err != nil {
		return err
	}
	fmt.Printf("Completed: %s\n", t.Description)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	if !a.store.Delete(resolveID(a, args[0])) {
		return task.ErrNotFound
	}
	fmt.Println("Deleted.")
	return nil
}

// resolveID accepts the ID prefixes the list command prints.
func resolveID(a *app, prefix string) string {
	if len(prefix) >= 36 {
		return prefix
	}
	for _, t := range a.store.List("") {
		if len(t.ID) >= len(prefix) && t.ID[:len(prefix)] == prefix {
			return t.ID
		}
	}
	return prefix
}
