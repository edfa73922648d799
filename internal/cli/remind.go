package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var remindOnce bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the reminder loop",
	Long: `Checks due dates against their remind-at thresholds and sends email
reminders through Amazon SES. Tasks are not re-reminded within 12 hours.

By default this runs the background loop until interrupted; --once performs a
single pass and exits.`,
	RunE: runRemind,
}

func init() {
	remindCmd.Flags().BoolVar(&remindOnce, "once", false, "Perform a single reminder pass and exit")
}

func runRemind(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	if !a.email.Enabled() {
		fmt.Fprintln(os.Stderr, "warning: email sending disabled (set EMAIL_SENDER and AWS credentials); reminders will only be logged")
	}

	if remindOnce {
		sent := a.reminders.CheckOnce(cmd.Context(), time.Now())
		fmt.Printf("Sent %d reminder(s)\n", sent)
		return nil
	}

	a.reminders.Start()
	defer a.reminders.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
