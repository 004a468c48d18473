package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Jxnis/sui-portfolio-analysis-agent/core"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "meta-llama/llama-3.3-70b-instruct:free"
	defaultAppName = "Token Portfolio Analyzer"

	defaultTemperature float32 = 0.7
)

// Config describes the OpenRouter endpoint and caller identity. It is
// process configuration, passed in explicitly at construction.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	AppURL      string
	AppName     string
	Temperature float32
}

// Client issues streamed chat-completion requests against an
// OpenRouter-compatible API.
type Client struct {
	cfg Config
	// No overall timeout: completions stream for as long as the model
	// talks. Cancellation comes from the request context.
	httpClient *http.Client
}

// NewClient creates a completion client, filling unset config fields with
// the service defaults.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	if strings.TrimSpace(cfg.AppName) == "" {
		cfg.AppName = defaultAppName
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	return &Client{cfg: cfg, httpClient: &http.Client{}}
}

// UpstreamError is a non-success response from the completion API. The body
// is kept for server-side logging; it is never forwarded to end users.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion API returned status %d: %s", e.StatusCode, e.Body)
}

// StreamChatCompletion opens a streamed completion with systemPrompt
// prepended to the caller's history. History order is preserved and the
// caller's messages are never mutated. On success the raw response body is
// returned for the reframer to consume; the caller owns closing it.
func (c *Client) StreamChatCompletion(ctx context.Context, systemPrompt string, history []core.Message) (io.ReadCloser, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	payload, err := json.Marshal(openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("HTTP-Referer", c.cfg.AppURL)
	req.Header.Set("X-Title", c.cfg.AppName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return resp.Body, nil
}
