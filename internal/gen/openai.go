package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
)

// HTTPConfig configures the OpenAI-compatible chat-completions backend.
type HTTPConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
}

// HTTPClient generates dialogue via an OpenAI-compatible /chat/completions
// endpoint (non-streaming). Any server speaking that dialect works, including
// local runtimes.
type HTTPClient struct {
	client *http.Client
	cfg    HTTPConfig

	// unavailable flips after a connection-level failure and is cleared by the
	// next successful call; Available() is a cheap hint, not a probe.
	unavailable atomic.Bool
}

func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 700
	}
	return &HTTPClient{
		// No client-level timeout: each call carries its own deadline.
		client: &http.Client{},
		cfg:    cfg,
	}
}

func (c *HTTPClient) Available() bool { return !c.unavailable.Load() }

func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.cfg.Model) == "" {
		return "", fmt.Errorf("%w: model is not configured", ErrUnavailable)
	}

	reqBody := chatRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.classifyTransportErr(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if resp.StatusCode >= http.StatusInternalServerError {
			c.unavailable.Store(true)
			return "", fmt.Errorf("%w: status %s: %s", ErrUnavailable, resp.Status, strings.TrimSpace(string(body)))
		}
		return "", fmt.Errorf("%w: status %s: %s", ErrMalformed, resp.Status, strings.TrimSpace(string(body)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrMalformed, err)
	}
	c.unavailable.Store(false)

	if len(out.Choices) == 0 {
		return "", ErrEmpty
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

func (c *HTTPClient) classifyTransportErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	c.unavailable.Store(true)
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

var _ Client = (*HTTPClient)(nil)
