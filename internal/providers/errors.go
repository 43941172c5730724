package providers

import (
	"errors"
	"fmt"
)

// ConnectionError means the inference service is unreachable or does not know
// the configured model. It is fatal: the pipeline raises it at pre-flight
// before any retry budget is spent.
type ConnectionError struct {
	URL   string
	Model string
	Err   error
}

func (e *ConnectionError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("inference service at %s does not serve model %q: %v", e.URL, e.Model, e.Err)
	}
	return fmt.Sprintf("cannot reach inference service at %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TransportError means one inference call failed at the network layer. It is
// retriable and consumes retry budget with exponential backoff.
type TransportError struct {
	URL     string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("inference call to %s timed out: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("inference call to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsConnection reports whether err is (or wraps) a ConnectionError.
func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
