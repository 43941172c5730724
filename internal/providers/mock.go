package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockClient is a Client for testing. Responses are scripted per call; the
// last entry repeats once the script is exhausted.
type MockClient struct {
	// Configurable behavior
	Responses   []string
	CheckErr    error
	GenerateErr error   // returned on every Generate call when set
	ErrOnCalls  []error // per-call errors; nil entries succeed
	Latency     time.Duration
	Model       string

	// State
	generateCount atomic.Int64
	checkCount    atomic.Int64
}

// NewMockClient returns a mock that answers every call with response.
func NewMockClient(response string) *MockClient {
	return &MockClient{Responses: []string{response}, Model: "mock-model"}
}

// Name returns the client identifier.
func (c *MockClient) Name() string { return MockName }

// Check returns the configured pre-flight error, if any.
func (c *MockClient) Check(ctx context.Context) error {
	c.checkCount.Add(1)
	return c.CheckErr
}

// Generate returns the next scripted response or error.
func (c *MockClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	n := int(c.generateCount.Add(1))
	start := time.Now()

	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, &TransportError{URL: "mock://", Err: ctx.Err()}
		case <-time.After(c.Latency):
		}
	}

	if c.GenerateErr != nil {
		return nil, c.GenerateErr
	}
	if len(c.ErrOnCalls) >= n && c.ErrOnCalls[n-1] != nil {
		return nil, c.ErrOnCalls[n-1]
	}

	if len(c.Responses) == 0 {
		return nil, fmt.Errorf("mock client has no scripted responses")
	}
	idx := n - 1
	if idx >= len(c.Responses) {
		idx = len(c.Responses) - 1
	}

	return &GenerateResult{
		Text:      c.Responses[idx],
		Latency:   time.Since(start),
		Model:     c.Model,
		RequestID: fmt.Sprintf("mock-%d", n),
	}, nil
}

// GenerateCalls returns how many Generate calls were made.
func (c *MockClient) GenerateCalls() int { return int(c.generateCount.Load()) }

// CheckCalls returns how many Check calls were made.
func (c *MockClient) CheckCalls() int { return int(c.checkCount.Load()) }

// Verify interface
var _ Client = (*MockClient)(nil)
