// Package adherence wraps the AIMon instruction-adherence detector, the
// independently scored safety net over the estimation model's free-form
// output.
package adherence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

const (
	aimonBaseURL    = "https://pbe-api.aimon.ai/v2/inference/detect"
	aimonMaxRetries = 3
	aimonInitDelay  = 1 * time.Second

	detectorName = "default"
	explainMode  = "negatives_only"
)

// Violation is an instruction the detector judged not followed.
type Violation struct {
	Instruction string
	Explanation string
}

// Verdict is the detector's judgment over one generated text.
type Verdict struct {
	Score      float64
	Violations []Violation
}

// Client calls the AIMon detect API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type detectPayload struct {
	Context       string       `json:"context"`
	GeneratedText string       `json:"generated_text"`
	Instructions  []string     `json:"instructions"`
	Config        detectConfig `json:"config"`
}

type detectConfig struct {
	InstructionAdherence adherenceConfig `json:"instruction_adherence"`
}

type adherenceConfig struct {
	DetectorName string `json:"detector_name"`
	Explain      string `json:"explain"`
}

type detectResult struct {
	InstructionAdherence struct {
		Score            float64 `json:"score"`
		InstructionsList []struct {
			Instruction string `json:"instruction"`
			Label       bool   `json:"label"`
			Explanation string `json:"explanation"`
		} `json:"instructions_list"`
	} `json:"instruction_adherence"`
}

// NewClient creates a client for the AIMon detect API. An empty API key is
// allowed; Check then fails and the orchestrator fails open.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: aimonBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Check runs the instruction-adherence detector over (context, generated,
// instructions) and returns the verdict. A violation is any instruction
// whose label came back false.
func (c *Client) Check(ctx context.Context, contextText, generated string, instructions []string) (*Verdict, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("AIMON_API_KEY not set")
	}

	payload := []detectPayload{{
		Context:       contextText,
		GeneratedText: generated,
		Instructions:  instructions,
		Config: detectConfig{
			InstructionAdherence: adherenceConfig{
				DetectorName: detectorName,
				Explain:      explainMode,
			},
		},
	}}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < aimonMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * aimonInitDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
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
			lastErr = fmt.Errorf("AIMon API error (%d): %s", resp.StatusCode, string(respBody))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return nil, lastErr
		}

		var results []detectResult
		if err := json.Unmarshal(respBody, &results); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("empty detect response")
		}

		ia := results[0].InstructionAdherence
		verdict := &Verdict{Score: ia.Score}
		for _, inst := range ia.InstructionsList {
			if !inst.Label {
				verdict.Violations = append(verdict.Violations, Violation{
					Instruction: inst.Instruction,
					Explanation: inst.Explanation,
				})
			}
		}
		return verdict, nil
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", aimonMaxRetries, lastErr)
}
