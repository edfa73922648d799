package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/aimonlabs/intelligent-todo-app/internal/adherence"
	"github.com/aimonlabs/intelligent-todo-app/internal/config"
	"github.com/aimonlabs/intelligent-todo-app/internal/email"
	"github.com/aimonlabs/intelligent-todo-app/internal/estimate"
	"github.com/aimonlabs/intelligent-todo-app/internal/llm"
	"github.com/aimonlabs/intelligent-todo-app/internal/reminder"
	"github.com/aimonlabs/intelligent-todo-app/internal/summary"
	"github.com/aimonlabs/intelligent-todo-app/internal/task"
)

// app holds the wired services every command draws from. Everything is
// constructed once here and passed down explicitly; there is no package
// state beyond the command tree itself.
type app struct {
	cfg        *config.Config
	logger     *log.Logger
	store      *task.Store
	llm        *llm.Client
	estimator  *estimate.Estimator
	summarizer *summary.Summarizer
	email      *email.Service
	reminders  *reminder.Service
}

// newApp loads configuration and wires the service graph. Missing
// credentials are warnings, not errors: estimation falls back to defaults
// and email sending stays disabled.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	if loc, err := time.LoadLocation(cfg.Timezone); err != nil {
		logger.Printf("warning: unknown timezone %q, using UTC", cfg.Timezone)
	} else {
		task.SetDefaultLocation(loc)
	}

	if cfg.Anthropic.APIKey == "" {
		logger.Printf("warning: ANTHROPIC_API_KEY not set; time estimation will fall back to defaults")
	}
	if cfg.AIMon.APIKey == "" {
		logger.Printf("warning: AIMON_API_KEY not set; adherence checks will fail open")
	}

	store, err := task.NewStore(cfg.Storage.Path, logger)
	if err != nil {
		return nil, err
	}

	llmClient := llm.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
	checker := adherence.NewClient(cfg.AIMon.APIKey)
	estimator := estimate.New(llmClient, checker, logger,
		estimate.WithMiddleware(estimate.Logging(logger)))

	emailSvc := email.NewService(ctx, cfg.Email.Region, cfg.Email.Sender, logger)
	reminders := reminder.New(store, emailSvc, cfg.Email.Recipient,
		time.Duration(cfg.Reminder.IntervalSeconds)*time.Second, logger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		llm:        llmClient,
		estimator:  estimator,
		summarizer: summary.New(llmClient, logger),
		email:      emailSvc,
		reminders:  reminders,
	}, nil
}
