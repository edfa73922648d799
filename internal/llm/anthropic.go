// Package llm wraps the Anthropic Messages API calls the todo application
// delegates cognition to: task time estimation and the day summary.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com/v1/messages"
	anthropicVersion    = "2023-06-01"
	anthropicMaxRetries = 3
	anthropicInitDelay  = 1 * time.Second

	// DefaultModel is used when the config does not name one.
	DefaultModel = "claude-3-opus-20240229"

	estimateMaxTokens = 50
	summaryMaxTokens  = 300

	estimateSystemPrompt = "You are a helpful assistant that estimates how long tasks take to complete. Respond only with the number of hours."
	summarySystemPrompt  = "You are a friendly productivity assistant. Given today's task list, write a short, encouraging summary of the day's workload in two or three sentences."
)

// estimatePromptTemplate is the fixed instruction template the task text is
// embedded into. The retried, stricter prompt passes through the same
// template rather than a rebuilt one.
const estimatePromptTemplate = `Based on the following task description, estimate how many hours it would take an average person to complete.
Please respond with just a number representing hours (can be a decimal).

Task: %s

Estimated hours:`

// Client calls the Anthropic Messages API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// NewClient creates a client for the Anthropic Messages API. An empty API
// key is allowed; calls then fail fast and callers degrade to defaults.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: anthropicBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// EstimateTaskTime sends the fixed estimation prompt built from text and
// returns the full prompt (as adherence-check context) plus the raw response.
func (c *Client) EstimateTaskTime(ctx context.Context, text string) (string, string, error) {
	prompt := fmt.Sprintf(estimatePromptTemplate, text)
	response, err := c.complete(ctx, estimateSystemPrompt, prompt, estimateMaxTokens)
	if err != nil {
		return prompt, "", err
	}
	return prompt, response, nil
}

// SummarizeDay sends the day digest with the productivity-assistant system
// prompt and returns the trimmed response.
func (c *Client) SummarizeDay(ctx context.Context, digest string) (string, error) {
	response, err := c.complete(ctx, summarySystemPrompt, digest, summaryMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	req := messagesRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: 0.0,
		System:      system,
		Messages: []message{
			{Role: "user", Content: user},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < anthropicMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * anthropicInitDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("x-api-key", c.apiKey)
		httpReq.Header.Set("anthropic-version", anthropicVersion)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("Anthropic API error (%d): %s", resp.StatusCode, string(respBody))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var apiResp messagesResponse
		if err := json.Unmarshal(respBody, &apiResp); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(apiResp.Content) == 0 {
			return "", fmt.Errorf("empty response content")
		}
		return apiResp.Content[0].Text, nil
	}

	return "", fmt.Errorf("max retries (%d) exceeded: %w", anthropicMaxRetries, lastErr)
}
