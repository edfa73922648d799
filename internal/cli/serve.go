package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aimonlabs/intelligent-todo-app/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	Long: `Serves the REST API the dashboard consumes. The reminder loop runs in the
background for as long as the server is up.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides web.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	addr := a.cfg.Web.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	a.reminders.Start()
	defer a.reminders.Stop()

	srv := web.NewServer(a.store, a.estimator, a.summarizer, rootCmd.Version)
	fmt.Printf("Serving dashboard on %s\n", addr)
	return srv.Run(addr)
}
