// Package anthropic provides a text-generation adapter using the Anthropic
// Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scandoc-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.TextGenerator = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.anthropic.com"
	DefaultModel       = "claude-3-5-haiku-latest"
	DefaultTimeout     = 120 * time.Second
	DefaultTemperature = 0.2

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"

	// maxTokens caps completion length. Summaries are short; this leaves
	// plenty of headroom.
	maxTokens = 2048
)

// Config holds configuration for the Anthropic text-generation client.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model identifier sent with each request.
	Model string

	// Temperature is the sampling temperature.
	Temperature float64

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration
}

// Client invokes the Anthropic Messages endpoint one prompt at a time.
// Like the other generators, failures are reported in-band.
type Client struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
}

// message is the Anthropic message format.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates a new Anthropic text-generation client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
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
		logger.Warn("anthropic call failed: %v", err)
		return fmt.Sprintf("(error: %s)", err.Error())
	}
	if text == "" {
		return "(empty)"
	}
	return text
}

// respond performs one Messages API call and extracts the joined text.
func (c *Client) respond(ctx context.Context, prompt string) (string, error) {
	reqBody := messagesRequest{
		Model:       c.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", parsed.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}

	var fragments []string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			fragments = append(fragments, block.Text)
		}
	}

	return strings.TrimSpace(strings.Join(fragments, "\n")), nil
}

// ModelName returns the model identifier being used.
func (c *Client) ModelName() string {
	return c.model
}

// Ping validates the API key with a minimal single-token request. Anthropic
// has no unauthenticated models endpoint, so a tiny real call is the
// cheapest key check available.
func (c *Client) Ping(ctx context.Context) error {
	reqBody := messagesRequest{
		Model:     c.model,
		Messages:  []message{{Role: "user", Content: "ping"}},
		MaxTokens: 1,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("anthropic: marshal ping request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("anthropic: failed to create ping request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("anthropic: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("anthropic: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
