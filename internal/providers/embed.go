package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Embedder produces embedding vectors for batches of text. Like Generate,
// one call is one blocking request; retry policy belongs to the caller.
type Embedder interface {
	Embed(ctx context.Context, req *EmbedRequest) (*EmbedResult, error)
}

// EmbedRequest is one embedding call over a batch of inputs.
type EmbedRequest struct {
	Model   string
	Input   []string
	Timeout time.Duration

	// RequestID correlates log lines; generated when empty.
	RequestID string
}

// EmbedResult carries one vector per input, in input order.
type EmbedResult struct {
	Embeddings [][]float64
	Model      string
	RequestID  string
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float64 `json:"embeddings"`
}

// Embed issues one blocking embedding call against /api/embed.
func (c *OllamaClient) Embed(ctx context.Context, req *EmbedRequest) (*EmbedResult, error) {
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

	body, err := json.Marshal(ollamaEmbedRequest{Model: model, Input: req.Input})
	if err != nil {
		return nil, fmt.Errorf("encode embed request: %w", err)
	}

	url := c.baseURL + "/api/embed"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("ollama.embed.request",
		"req_id", reqID, "model", model, "inputs", len(req.Input),
	)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		timedOut := errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded
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

	var embResp ollamaEmbedResponse
	if err := json.Unmarshal(raw, &embResp); err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("decode response body: %w", err)}
	}
	if len(embResp.Embeddings) != len(req.Input) {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("got %d embeddings for %d inputs", len(embResp.Embeddings), len(req.Input))}
	}

	c.logger.Debug("ollama.embed.response",
		"req_id", reqID, "vectors", len(embResp.Embeddings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return &EmbedResult{
		Embeddings: embResp.Embeddings,
		Model:      embResp.Model,
		RequestID:  reqID,
	}, nil
}

// Verify interface
var _ Embedder = (*OllamaClient)(nil)
