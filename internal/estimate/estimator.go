// Package estimate composes the LLM estimation call, the instruction
// adherence check, and the retry/fallback contract into a single
// estimate-producing operation.
package estimate

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/aimonlabs/intelligent-todo-app/internal/adherence"
)

const (
	// maxRetries bounds adherence-triggered retries; one stricter attempt.
	maxRetries = 1

	// defaultHours is the hard fallback: the caller always gets a usable
	// number, trading accuracy for availability.
	defaultHours = 1.0

	// fallbackResponse substitutes for the raw LLM output when the call
	// itself fails. It flows through the adherence check like any response.
	fallbackResponse = "1.0"

	// strictSuffix sharpens the retried prompt after a flagged violation.
	strictSuffix = "\n\nPLEASE ONLY OUTPUT a numeric estimate value of less than 3. No text, units, or commentary."
)

// estimationInstructions is the fixed list the adherence detector scores the
// raw response against.
var estimationInstructions = []string{
	"Respond only with a numeric value (e.g., 1.5).",
	"Do not include the word 'hours' or any units.",
	"Do not include any explanation, description, or justification.",
	"Keep the numeric value in the range 0 to 4.0",
}

// CompletionClient produces a raw estimation response for a prompt, plus the
// full prompt text used (the adherence-check context).
type CompletionClient interface {
	EstimateTaskTime(ctx context.Context, text string) (promptContext, response string, err error)
}

// Checker scores a generated text against a list of instructions.
type Checker interface {
	Check(ctx context.Context, contextText, generated string, instructions []string) (*adherence.Verdict, error)
}

// Estimator is the estimation orchestrator.
type Estimator struct {
	client  CompletionClient
	checker Checker
	logger  *log.Logger
	call    EstimateCall
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithMiddleware wraps the estimation network call with the given layers,
// outermost first.
func WithMiddleware(mw ...Middleware) Option {
	return func(e *Estimator) {
		e.call = Chain(e.call, mw...)
	}
}

// New creates an estimator around a completion client and adherence checker.
func New(client CompletionClient, checker Checker, logger *log.Logger, opts ...Option) *Estimator {
	if logger == nil {
		logger = log.Default()
	}
	e := &Estimator{
		client:  client,
		checker: checker,
		logger:  logger,
	}
	e.call = client.EstimateTaskTime
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns the estimated hours for a task description. It never
// fails: LLM errors substitute a neutral response, checker errors fail open,
// and exhausted retries fall back to the default.
func (e *Estimator) Estimate(ctx context.Context, description string) float64 {
	prompt := description

	for attempt := 0; attempt <= maxRetries; attempt++ {
		e.logger.Printf("[attempt %d] estimating time for task: %q", attempt+1, description)

		promptContext, response, err := e.call(ctx, prompt)
		if err != nil {
			// The call failure itself does not consume the retry; the
			// sentinel flows through the adherence check like any response.
			e.logger.Printf("estimation call failed: %v (substituting %s)", err, fallbackResponse)
			response = fallbackResponse
		}
		e.logger.Printf("model response: %q", response)

		violations := e.checkAdherence(ctx, promptContext, response, description)

		if len(violations) == 0 {
			value, perr := strconv.ParseFloat(strings.TrimSpace(response), 64)
			if perr == nil {
				return value
			}
			// A malformed numeric string is terminal even with retry budget
			// left; only flagged violations re-enter the loop.
			e.logger.Printf("could not parse response to float: %q: %v", response, perr)
			break
		}

		prompt = description + strictSuffix
	}

	e.logger.Printf("max retries reached, defaulting to %.1f for task: %q", defaultHours, description)
	return defaultHours
}

// checkAdherence runs the detector and fails open: an unreachable checker is
// treated as zero violations.
func (e *Estimator) checkAdherence(ctx context.Context, promptContext, response, description string) []adherence.Violation {
	verdict, err := e.checker.Check(ctx, promptContext, response, estimationInstructions)
	if err != nil {
		e.logger.Printf("adherence check failed: %v (proceeding as if clean)", err)
		return nil
	}

	if len(verdict.Violations) > 0 {
		e.logger.Printf("adherence flagged %d issue(s) for task: %q", len(verdict.Violations), description)
		for _, v := range verdict.Violations {
			e.logger.Printf("- instruction: %s", v.Instruction)
			e.logger.Printf("  reason: %s", v.Explanation)
		}
	} else {
		e.logger.Printf("no instruction violations for task: %q", description)
	}
	return verdict.Violations
}

// Instructions returns the fixed instruction list, exposed for diagnostics.
func Instructions() []string {
	out := make([]string, len(estimationInstructions))
	copy(out, estimationInstructions)
	return out
}
