package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aimonlabs/intelligent-todo-app/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment and configuration health",
	Long:  `Runs diagnostic checks and reports pass/fail for each feature's prerequisites.`,
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	passed := 0
	failed := 0

	check := func(name string, ok bool, detail string) {
		if ok {
			fmt.Printf("  ✓ %s\n", name)
			passed++
		} else {
			fmt.Printf("  ✗ %s: %s\n", name, detail)
			failed++
		}
	}

	cfg, cfgErr := config.Load()

	fmt.Println("Configuration:")
	check("config readable", cfgErr == nil, fmt.Sprint(cfgErr))
	check("global config file", exists(config.GlobalConfigPath()), "run: todo config init")
	if cfgErr != nil {
		return nil
	}

	fmt.Println()
	fmt.Println("Storage:")
	dir := filepath.Dir(cfg.Storage.Path)
	check("storage directory writable", writable(dir), fmt.Sprintf("cannot write to %s", dir))
	check("task file", exists(cfg.Storage.Path), fmt.Sprintf("will be created at %s on first use", cfg.Storage.Path))

	fmt.Println()
	fmt.Println("Time estimation (Anthropic):")
	check("ANTHROPIC_API_KEY", cfg.Anthropic.APIKey != "", "estimation will fall back to 1.0")
	fmt.Printf("  → model: %s\n", cfg.Anthropic.Model)

	fmt.Println()
	fmt.Println("Adherence checking (AIMon):")
	check("AIMON_API_KEY", cfg.AIMon.APIKey != "", "adherence checks will fail open")

	fmt.Println()
	fmt.Println("Email reminders (Amazon SES):")
	check("sender address", cfg.Email.Sender != "", "set EMAIL_SENDER or email.sender")
	check("recipient address", cfg.Email.Recipient != "", "set TODO_USER_EMAIL or email.recipient")
	fmt.Printf("  → region: %s\n", cfg.Email.Region)

	fmt.Println()
	fmt.Println("Timezone:")
	_, tzErr := time.LoadLocation(cfg.Timezone)
	check(fmt.Sprintf("timezone %q", cfg.Timezone), tzErr == nil, "naive timestamps will use UTC")

	fmt.Println()
	fmt.Printf("%d passed, %d failed\n", passed, failed)
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writable(dir string) bool {
	if dir == "" || dir == "." {
		dir, _ = os.Getwd()
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
