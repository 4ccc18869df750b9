// Package openai provides a text-generation adapter using the OpenAI
// Responses API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scandoc-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.TextGenerator = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTimeout     = 120 * time.Second
	DefaultTemperature = 0.2
)

// Conservative client-side rate limit against the paid API.
const (
	defaultRequestsPerSecond = 2.0
	defaultBurstSize         = 4
)

// Config holds configuration for the OpenAI text-generation client.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for compatible endpoints.
	BaseURL string

	// Model is the model identifier sent with each request (default: gpt-4o-mini).
	Model string

	// Temperature is the sampling temperature. Low by default so output
	// leans deterministic, though determinism is not guaranteed.
	Temperature float64

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration
}

// Client invokes the OpenAI Responses endpoint one prompt at a time.
//
// SummarizeOne converts every failure into an in-band "(error: ...)" string
// instead of returning an error: a single failed chunk call must not abort a
// whole map-reduce summarisation run.
type Client struct {
	client      *http.Client
	limiter     *rate.Limiter
	baseURL     string
	apiKey      string
	model       string
	temperature float64
}

// responsesRequest is the Responses API request format.
type responsesRequest struct {
	Model       string  `json:"model"`
	Input       string  `json:"input"`
	Temperature float64 `json:"temperature"`
}

// responsesResponse is the Responses API response format.
// Absent or null fields are treated as empty, never as failure.
type responsesResponse struct {
	ID     string `json:"id"`
	Output []struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewClient creates a new OpenAI text-generation client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:     rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurstSize),
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// SummarizeOne sends a single prompt and returns the response text.
// Never returns an error: failures come back as "(error: <message>)" and an
// empty successful response as "(empty)".
func (c *Client) SummarizeOne(ctx context.Context, prompt string) string {
	text, err := c.respond(ctx, prompt)
	if err != nil {
		logger.Warn("openai call failed: %v", err)
		return fmt.Sprintf("(error: %s)", err.Error())
	}
	if text == "" {
		return "(empty)"
	}
	return text
}

// respond performs one Responses API call and extracts the joined text.
func (c *Client) respond(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	reqBody := responsesRequest{
		Model:       c.model,
		Input:       prompt,
		Temperature: c.temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/responses",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed responsesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s", parsed.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	// Concatenate fragments in server-provided order.
	var fragments []string
	for _, item := range parsed.Output {
		for _, content := range item.Content {
			fragments = append(fragments, content.Text)
		}
	}

	return strings.TrimSpace(strings.Join(fragments, "\n")), nil
}

// ModelName returns the model identifier being used.
func (c *Client) ModelName() string {
	return c.model
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("openai: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
