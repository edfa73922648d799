// Package summary produces the natural-language digest of a day's workload.
package summary

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aimonlabs/intelligent-todo-app/internal/task"
)

const (
	// NoTasksMessage is returned for an empty day without any external call.
	NoTasksMessage = "You have no tasks scheduled for today. Enjoy the breathing room!"

	// apologyMessage is the degraded result when the LLM call fails.
	apologyMessage = "Sorry, I couldn't put together a summary of your day right now."
)

// DayClient is the single LLM operation the summarizer needs.
type DayClient interface {
	SummarizeDay(ctx context.Context, digest string) (string, error)
}

// Summarizer builds the day digest and sends it through the LLM once, with
// no validation pass and no retry.
type Summarizer struct {
	client DayClient
	logger *log.Logger
}

// New creates a summarizer.
func New(client DayClient, logger *log.Logger) *Summarizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Summarizer{client: client, logger: logger}
}

// SummarizeDay returns a short summary of today's tasks. Empty input
// short-circuits; any failure degrades to a fixed apology.
func (s *Summarizer) SummarizeDay(ctx context.Context, tasks []task.Task) string {
	if len(tasks) == 0 {
		return NoTasksMessage
	}

	text, err := s.client.SummarizeDay(ctx, BuildDigest(tasks))
	if err != nil {
		s.logger.Printf("day summary call failed: %v", err)
		return apologyMessage
	}
	return strings.TrimSpace(text)
}

// BuildDigest renders the bullet-style task list sent to the model.
func BuildDigest(tasks []task.Task) string {
	var b strings.Builder
	b.WriteString("Here are today's tasks:\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s (estimated %.1f hours)\n", t.Description, t.EstimatedHours)
	}
	return b.String()
}
