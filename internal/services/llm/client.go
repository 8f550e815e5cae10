package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cadenza/internal/services"
)

const (
	defaultBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultHTTPTimeout    = 60 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryAttempts  = 3
	jsonResponseType      = "json_object"
)

// Config captures the runtime settings required to talk to the completion service.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// Options are the per-request sampling parameters. Zero MaxTokens and TopP
// leave the provider defaults in place.
type Options struct {
	// System is an optional system message sent before the prompt.
	System      string
	MaxTokens   int
	Temperature float64
	TopP        float64
	// Stream must be false; the pipeline consumes whole responses.
	Stream bool
	// JSON asks the provider for a JSON object response.
	JSON bool
}

// Completion is one successful completion.
type Completion struct {
	Response  string
	LatencyMS int64
	Model     string
}

// Completer is the completion-service seam used by the pipeline.
type Completer interface {
	Complete(ctx context.Context, prompt, model string, opts Options) (Completion, error)
}

var _ Completer = (*Client)(nil)

// Client wraps an OpenRouter-compatible chat completion API.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
	now              func() time.Time
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

// WithRetryMaxAttempts overrides the default retry count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithClock overrides the clock used for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient constructs a completion client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			Referer:        strings.TrimSpace(cfg.Referer),
			Title:          strings.TrimSpace(cfg.Title),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// DefaultModel returns the model used when a request names none.
func (c *Client) DefaultModel() string {
	return c.cfg.Model
}

// Complete sends prompt to model (or the configured default) and returns the
// response text. All failures carry services.ErrAIService.
func (c *Client) Complete(ctx context.Context, prompt, model string, opts Options) (Completion, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Completion{}, services.Wrap(services.ErrAIService, "llm", "complete", "prompt required", nil)
	}
	if c.cfg.APIKey == "" {
		return Completion{}, services.Wrap(services.ErrAIService, "llm", "complete", "api key required", nil)
	}
	if opts.Stream {
		return Completion{}, services.Wrap(services.ErrAIService, "llm", "complete", "streaming responses are not supported", nil)
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = c.cfg.Model
	}

	payload := chatCompletionRequest{
		Model:       model,
		Messages:    buildMessages(opts.System, prompt),
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.JSON {
		payload.ResponseFormat = map[string]string{"type": jsonResponseType}
	}

	started := c.now()
	content, served, err := c.completionContentWithRetry(ctx, payload, "llm complete")
	latency := c.now().Sub(started)
	if err != nil {
		return Completion{}, services.Wrap(services.ErrAIService, "llm", "complete", fmt.Sprintf("model %s", model), err)
	}
	if served == "" {
		served = model
	}
	return Completion{Response: content, LatencyMS: latency.Milliseconds(), Model: served}, nil
}

// HealthCheck issues a fast ping to verify the API key and model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	completion, err := c.Complete(ctx, `Respond with {"ok":true}`, "", Options{
		System: "You must respond with JSON only.",
		JSON:   true,
	})
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON(completion.Response, &parsed); err != nil {
		return fmt.Errorf("llm health: %w", err)
	}
	if !parsed.OK {
		return errors.New("llm health: unexpected response")
	}
	return nil
}

func buildMessages(system, prompt string) []chatMessage {
	messages := make([]chatMessage, 0, 2)
	if system = strings.TrimSpace(system); system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	return append(messages, chatMessage{Role: "user", Content: prompt})
}
