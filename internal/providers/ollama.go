package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	OllamaName    = "ollama"
	OllamaBaseURL = "http://localhost:11434"

	ollamaCheckTimeout = 5 * time.Second
)

// OllamaConfig holds configuration for the Ollama client.
type OllamaConfig struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration // default per-call timeout when the request carries none
	HTTPClient *http.Client  // optional (tests)
	Logger     *slog.Logger
}

// OllamaClient talks to a local Ollama server over its native HTTP API.
type OllamaClient struct {
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
}

// NewOllamaClient creates a new Ollama client.
func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OllamaBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &OllamaClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		client:  cfg.HTTPClient,
		logger:  cfg.Logger,
	}
}

// Name returns the client identifier.
func (c *OllamaClient) Name() string { return OllamaName }

// BaseURL returns the configured service address.
func (c *OllamaClient) BaseURL() string { return c.baseURL }

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Check verifies the server answers /api/tags and that the configured model
// is in its local model list.
func (c *OllamaClient) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ollamaCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return &ConnectionError{URL: c.baseURL, Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &ConnectionError{URL: c.baseURL, Err: fmt.Errorf("is the server running? %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ConnectionError{URL: c.baseURL, Err: fmt.Errorf("unexpected status %d from /api/tags", resp.StatusCode)}
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return &ConnectionError{URL: c.baseURL, Err: fmt.Errorf("decode /api/tags response: %w", err)}
	}

	for _, m := range tags.Models {
		if modelMatches(m.Name, c.model) {
			return nil
		}
	}
	return &ConnectionError{
		URL:   c.baseURL,
		Model: c.model,
		Err:   fmt.Errorf("model not in local list; pull it first (e.g. `ollama pull %s`)", c.model),
	}
}

// modelMatches treats "llama3.1:8b" and "llama3.1:8b"/"llama3.1:8b-*" tags as
// the same model; a bare name matches its ":latest" tag.
func modelMatches(have, want string) bool {
	if have == want {
		return true
	}
	return strings.TrimSuffix(have, ":latest") == want || strings.TrimSuffix(want, ":latest") == have
}

type ollamaGenerateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options GenerateOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate issues one blocking, non-streaming generation call.
func (c *OllamaClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
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

	payload := ollamaGenerateRequest{
		Model:   model,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: req.Options,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode generate request: %w", err)
	}

	url := c.baseURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("ollama.generate.request",
		"req_id", reqID,
		"model", model,
		"prompt_bytes", len(req.Prompt),
		"timeout", timeout,
	)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		timedOut := errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded
		c.logger.Warn("ollama.generate.transport_error",
			"req_id", reqID, "error", err, "timeout", timedOut,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, &TransportError{URL: url, Timeout: timedOut, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("read response body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 200))}
	}

	var genResp ollamaGenerateResponse
	if err := json.Unmarshal(raw, &genResp); err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("decode response body: %w", err)}
	}

	latency := time.Since(start)
	c.logger.Debug("ollama.generate.response",
		"req_id", reqID,
		"bytes", len(genResp.Response),
		"elapsed_ms", latency.Milliseconds(),
	)

	return &GenerateResult{
		Text:      strings.TrimSpace(genResp.Response),
		Latency:   latency,
		Model:     model,
		RequestID: reqID,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Verify interface
var _ Client = (*OllamaClient)(nil)
