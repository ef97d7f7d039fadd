package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.groq.com/openai/v1/chat/completions"

type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
	Delay       time.Duration
	// RequestsPerMinute caps outgoing calls; 0 disables the limit.
	RequestsPerMinute int
}

type groqClient struct {
	opts       Options
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Entry
}

// NewGroqClient creates a client for any OpenAI-compatible chat endpoint,
// Groq by default.
func NewGroqClient(opts Options, log *logrus.Entry) Completer {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = "llama-3.3-70b-versatile"
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return &groqClient{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    limiter,
		log:        log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete retries transport failures, 429 and 5xx responses up to
// MaxRetries times with a fixed delay.
func (c *groqClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.opts.APIKey == "" {
		return "", ErrNoAPIKey
	}

	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		out, err := c.send(ctx, system, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.log.Warnf("⚠️ LLM attempt %d/%d failed: %v", attempt, c.opts.MaxRetries, err)

		if attempt < c.opts.MaxRetries {
			select {
			case <-time.After(c.opts.Delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("llm request failed after %d attempts: %w", c.opts.MaxRetries, lastErr)
}

func (c *groqClient) send(ctx context.Context, system, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: c.opts.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, Body: string(bodyBytes)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("no choices returned from llm API")
	}
	return chatResp.Choices[0].Message.Content, nil
}
