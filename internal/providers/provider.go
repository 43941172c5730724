// Package providers contains inference service clients. A client performs a
// pre-flight reachability check and single blocking generation calls; it owns
// no retry policy and never alters a prompt. Corrective retries belong to the
// pipeline because they must change the prompt, not merely repeat it.
package providers

import (
	"context"
	"time"
)

// Client is the inference boundary.
type Client interface {
	// Name returns the client identifier (e.g. "ollama").
	Name() string

	// Check verifies the service is reachable and the configured model is
	// known to it. Called once per pipeline run, before any attempt is spent.
	// Failure is a *ConnectionError carrying the offending URL and model.
	Check(ctx context.Context) error

	// Generate issues one blocking inference call bounded by req.Timeout.
	// Transport failures are *TransportError; no retries are performed.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)
}

// GenerateOptions are the sampling parameters passed through to the model.
type GenerateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	TopK        int     `json:"top_k"`
}

// DefaultOptions favors deterministic output for extraction work.
func DefaultOptions() GenerateOptions {
	return GenerateOptions{Temperature: 0.1, TopP: 0.9, TopK: 40}
}

// GenerateRequest is one inference call.
type GenerateRequest struct {
	Model   string
	Prompt  string
	Options GenerateOptions
	Timeout time.Duration

	// RequestID correlates log lines; generated when empty.
	RequestID string
}

// GenerateResult is the raw outcome of one inference call.
type GenerateResult struct {
	Text      string
	Latency   time.Duration
	Model     string
	RequestID string
}
