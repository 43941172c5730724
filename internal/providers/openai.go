package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const OpenAIName = "openai"

// OpenAIConfig holds configuration for an OpenAI-compatible server.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // optional, for self-hosted OpenAI-compatible endpoints
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client // optional (tests)
	Logger     *slog.Logger
}

// OpenAIClient implements Client over the official SDK. Retries are disabled
// at the SDK layer; the pipeline owns retry policy.
type OpenAIClient struct {
	client  openai.Client
	baseURL string
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewOpenAIClient creates a client for OpenAI or any OpenAI-compatible server.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string { return OpenAIName }

// Check verifies the API is reachable and the configured model exists.
func (c *OpenAIClient) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ollamaCheckTimeout)
	defer cancel()

	if _, err := c.client.Models.Get(ctx, c.model); err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return &ConnectionError{URL: c.urlForErrors(), Model: c.model, Err: err}
		}
		return &ConnectionError{URL: c.urlForErrors(), Err: err}
	}
	return nil
}

// Generate issues one blocking, non-streaming chat completion.
func (c *OpenAIClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	reqID := req.RequestID
	if reqID == "" {
		reqID = uuid.New().String()
	}
	model := req.Model
	if model == "" {
		model = c.model
	}
	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c.logger.Debug("openai.generate.request",
		"req_id", reqID, "model", model, "prompt_bytes", len(req.Prompt), "timeout", timeout,
	)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(req.Prompt)},
		Temperature: openai.Float(req.Options.Temperature),
		TopP:        openai.Float(req.Options.TopP),
	})
	if err != nil {
		timedOut := errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			err = fmt.Errorf("openai error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return nil, &TransportError{URL: c.urlForErrors(), Timeout: timedOut, Err: err}
	}
	if len(completion.Choices) == 0 {
		return nil, &TransportError{URL: c.urlForErrors(), Err: fmt.Errorf("no choices in response")}
	}

	latency := time.Since(start)
	c.logger.Debug("openai.generate.response",
		"req_id", reqID, "elapsed_ms", latency.Milliseconds(),
	)

	return &GenerateResult{
		Text:      strings.TrimSpace(completion.Choices[0].Message.Content),
		Latency:   latency,
		Model:     model,
		RequestID: reqID,
	}, nil
}

func (c *OpenAIClient) urlForErrors() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return "https://api.openai.com/v1"
}

// Verify interface
var _ Client = (*OpenAIClient)(nil)
