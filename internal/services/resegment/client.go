// Package resegment talks to the chat-completion service that reorganizes
// flat transcript text into a sectioned S-expression document.
package resegment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 120 * time.Second
	defaultTemperature = 0.4
	defaultMaxTokens   = 4096
)

const systemPrompt = `You reorganize a flat transcript into labeled sections.
Respond with a single S-expression of the form
(document (section "Label" "node text" ("node text" "subnode text" ...) ...) ...)
covering every input line exactly once, in order. Respond with the
S-expression only.`

// Config captures the runtime settings required to talk to the service.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	MaxTokens      int
	TimeoutSeconds int
}

// Client wraps the resegmentation chat-completion API. Calls are blocking
// and are not retried; a failed resegmentation surfaces to the caller.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a resegmentation client from configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Resegment sends the flattened transcript text and returns the raw
// S-expression response. Params may override model, temperature, and
// max_tokens per call.
func (c *Client) Resegment(ctx context.Context, text string, params map[string]any) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("resegment: text required")
	}
	if strings.TrimSpace(c.cfg.BaseURL) == "" {
		return "", errors.New("resegment: base URL required")
	}

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	if model, ok := params["model"].(string); ok && model != "" {
		payload.Model = model
	}
	if temperature, ok := params["temperature"].(float64); ok {
		payload.Temperature = temperature
	}
	if maxTokens, ok := params["max_tokens"].(int); ok && maxTokens > 0 {
		payload.MaxTokens = maxTokens
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("resegment: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("resegment: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("resegment: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("resegment: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("resegment: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("resegment: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("resegment: api error: %s", strings.TrimSpace(parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("resegment: empty choices")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("resegment: empty content")
	}
	return stripCodeFence(content), nil
}

// stripCodeFence unwraps responses the model wrapped in a markdown fence.
func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	body := strings.TrimPrefix(content, "```")
	if newline := strings.Index(body, "\n"); newline >= 0 {
		body = body[newline+1:]
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
