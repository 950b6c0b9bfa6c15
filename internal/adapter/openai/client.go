// Package openai implements domain.Generator against an OpenAI-compatible
// chat completions endpoint. Any provider speaking the same wire format
// works; the endpoint URL and model name come from configuration.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/observability"
)

// Client calls the generation API. A circuit breaker fails fast after
// repeated transport or status failures so scheduled runs do not pile up
// behind a dead endpoint; a fast failure still surfaces as
// ErrGenerationUnavailable.
type Client struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a generation client. apiURL is the complete chat
// completions endpoint, not a base URL.
func NewClient(apiKey, apiURL, model string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "llm-api",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
		metrics: metrics,
		logger:  logger,
	}
}

// Generate sends the prompt and returns the raw content of the first choice.
// The key is checked per call, not at startup, so a service booted without
// one still serves read endpoints.
func (c *Client) Generate(ctx context.Context, prompt domain.Prompt) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: LLM_API_KEY is not set", domain.ErrGenerationUnavailable)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrGenerationUnavailable, err)
	}

	c.logger.Info("calling generation api", "url", c.apiURL, "model", c.model)
	c.logger.Debug("generation prompt built", "prompt_bytes", len(prompt.User))

	start := time.Now()
	respBody, err := c.doRequest(ctx, body)
	c.metrics.LLMDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.LLMRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.metrics.LLMRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: decode response envelope: %v", domain.ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		c.metrics.LLMRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: response has no choices", domain.ErrMalformedResponse)
	}

	c.metrics.LLMRequests.WithLabelValues("success").Inc()
	return []byte(parsed.Choices[0].Message.Content), nil
}

// doRequest runs the HTTP exchange through the circuit breaker. Only
// transport errors and non-200 statuses count as breaker failures; a 200
// with a bad body is the provider being wrong, not down.
func (c *Client) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("generation request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("generation API error: status %d: %s", resp.StatusCode, respBody)
		}
		return respBody, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	return result.([]byte), nil
}

// Chat completions wire types.

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message chatMessage `json:"message"`
}
