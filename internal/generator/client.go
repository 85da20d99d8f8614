// Package generator provides the HTTP client that produces fresh answers
// when every cache tier misses. It speaks the OpenAI-compatible
// chat-completions shape, with:
// - Request marshaling
// - Retries with exponential backoff on 429/5xx
// - Standardized error surfacing via core.APIError
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"nutribot/internal/core"
)

// systemPrompt frames every generation as a nutrition-assistant answer.
const systemPrompt = "You are a friendly, practical nutrition assistant. Give specific, " +
	"actionable food and habit advice. Keep answers under 150 words and never prescribe " +
	"medical treatment."

// Config holds configuration for the generator client.
type Config struct {
	// BaseURL is the API base URL (e.g. https://api.openai.com/v1).
	BaseURL string

	// APIKey is sent as a bearer token.
	APIKey string

	// Model is the model identifier to request.
	Model string

	// Retry configuration
	MaxRetries     int           // Maximum number of retry attempts (default: 3)
	InitialBackoff time.Duration // Initial backoff duration (default: 1s)

	// Timeout bounds each HTTP attempt (default: 30s).
	Timeout time.Duration
}

// Client implements core.Generator against an OpenAI-compatible endpoint.
// Retries live here, inside the generator; the cache orchestrator itself
// never retries a failed generation.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// New creates a generator client. BaseURL, APIKey, and Model are required.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("generator base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generator API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("generator model is required")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}, nil
}

// chatRequest is the outbound chat-completions payload.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generate implements core.Generator.
func (c *Client) Generate(ctx context.Context, query, userID string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generation request: %w", err)
	}

	var lastErr error
	backoff := c.cfg.InitialBackoff

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		text, retryable, err := c.attempt(ctx, payload)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}

	return "", fmt.Errorf("generation failed after %d attempts: %w", c.cfg.MaxRetries+1, lastErr)
}

// attempt performs one HTTP round trip. The second return value reports
// whether the failure is worth retrying (429 or 5xx).
func (c *Client) attempt(ctx context.Context, payload []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors are retryable.
		return "", true, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		message := gjson.GetBytes(body, "error.message").String()
		if message == "" {
			message = fmt.Sprintf("upstream returned status %d", resp.StatusCode)
		}
		return "", retryable, core.NewGeneratorError(message, nil)
	}

	text := gjson.GetBytes(body, "choices.0.message.content").String()
	if text == "" {
		return "", false, core.NewGeneratorError("upstream returned an empty completion", nil)
	}
	return text, false, nil
}
