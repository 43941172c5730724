// Package pipeline drives a document through text acquisition, normalization
// and the corrective-retry extraction loop against an inference service. It
// is the only component with retry control; one Pipeline value is safe for
// concurrent runs because every run owns its own state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/docsift/docsift/internal/extract"
	"github.com/docsift/docsift/internal/parse"
	"github.com/docsift/docsift/internal/prompt"
	"github.com/docsift/docsift/internal/providers"
	"github.com/docsift/docsift/internal/schema"
	"github.com/docsift/docsift/internal/textnorm"
)

// Config carries every tunable of a pipeline run. Values are explicit so
// pipeline instances are independently testable and safe to run in parallel.
type Config struct {
	Model         string
	Timeout       time.Duration // per inference call
	MaxRetries    int           // attempt budget for the extraction loop
	MinTextLength int           // raw text shorter than this triggers fallback extraction
	BackoffBase   time.Duration // base delay for transport-failure backoff
	Options       providers.GenerateOptions
}

func (c Config) withDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.MinTextLength == 0 {
		c.MinTextLength = 50
	}
	if c.BackoffBase == 0 {
		c.BackoffBase = time.Second
	}
	if c.Options == (providers.GenerateOptions{}) {
		c.Options = providers.DefaultOptions()
	}
	return c
}

// Pipeline is the orchestrator.
type Pipeline struct {
	cfg           Config
	client        providers.Client
	builder       *prompt.Builder
	logger        *slog.Logger
	strategiesFor func(string) []extract.Strategy
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithStrategies overrides extraction strategy selection (tests inject fakes
// here).
func WithStrategies(fn func(string) []extract.Strategy) Option {
	return func(p *Pipeline) { p.strategiesFor = fn }
}

// New builds a Pipeline around an inference client.
func New(cfg Config, client providers.Client, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:           cfg.withDefaults(),
		client:        client,
		builder:       prompt.NewBuilder(),
		logger:        slog.Default(),
		strategiesFor: extract.StrategiesFor,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Attempt is the immutable record of one extraction attempt.
type Attempt struct {
	N       int
	Raw     string
	Err     error
	Latency time.Duration
}

// runState is owned by exactly one Run invocation.
type runState struct {
	attempts []Attempt
}

func (s *runState) record(a Attempt) { s.attempts = append(s.attempts, a) }

func (s *runState) last() Attempt {
	if len(s.attempts) == 0 {
		return Attempt{}
	}
	return s.attempts[len(s.attempts)-1]
}

// RetryBudgetError means retriable failures persisted past the attempt
// budget. It carries the last raw response and last error for diagnostics.
type RetryBudgetError struct {
	Attempts int
	LastRaw  string
	Err      error
}

func (e *RetryBudgetError) Error() string {
	return fmt.Sprintf("extraction failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryBudgetError) Unwrap() error { return e.Err }

// Run processes one document into a validated record. Terminal outcomes are a
// *schema.Record or one of: *extract.ExtractionError, *providers.ConnectionError,
// *RetryBudgetError, or the context error on cancellation.
func (p *Pipeline) Run(ctx context.Context, path string) (*schema.Record, error) {
	doc, err := extract.Acquire(path, p.strategiesFor(path), p.cfg.MinTextLength)
	if err != nil {
		return nil, err
	}
	p.logger.Info("text acquired", "path", path, "method", doc.Method, "bytes", len(doc.Text))

	cleaned := textnorm.Normalize(doc.Text)
	if cleaned == "" {
		return nil, &extract.ExtractionError{Path: path, Attempts: []string{doc.Method + ": text empty after normalization"}}
	}

	// Pre-flight: a connection failure costs zero attempts.
	if err := p.client.Check(ctx); err != nil {
		return nil, err
	}

	return p.ExtractRecord(ctx, cleaned)
}

// ExtractRecord runs the corrective-retry loop over already-cleaned text.
func (p *Pipeline) ExtractRecord(ctx context.Context, cleaned string) (*schema.Record, error) {
	state := &runState{}
	var rec *schema.Record

	err := retry.Do(
		func() error {
			n := len(state.attempts) + 1

			text := p.builder.Base(cleaned)
			if n > 1 {
				last := state.last()
				text = p.builder.Corrective(cleaned, last.Raw, last.Err.Error())
			}

			res, err := p.client.Generate(ctx, &providers.GenerateRequest{
				Model:   p.cfg.Model,
				Prompt:  text,
				Options: p.cfg.Options,
				Timeout: p.cfg.Timeout,
			})
			if err != nil {
				state.record(Attempt{N: n, Err: err})
				p.logger.Warn("inference call failed", "attempt", n, "error", err)
				return err
			}

			obj, err := parse.ExtractObject(res.Text)
			if err != nil {
				state.record(Attempt{N: n, Raw: res.Text, Err: err, Latency: res.Latency})
				p.logger.Warn("response not parseable", "attempt", n, "error", err)
				return err
			}

			r, err := schema.ValidateAndFill(obj)
			if err != nil {
				state.record(Attempt{N: n, Raw: res.Text, Err: err, Latency: res.Latency})
				p.logger.Warn("response failed validation", "attempt", n, "error", err)
				return err
			}

			state.record(Attempt{N: n, Raw: res.Text, Latency: res.Latency})
			rec = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(p.cfg.MaxRetries)),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetriable),
		// Transport failures back off exponentially; parse/validation
		// failures re-prompt immediately since the cost there is model
		// latency, not service load.
		retry.DelayType(func(n uint, err error, _ *retry.Config) time.Duration {
			if providers.IsTransport(err) {
				return p.cfg.BackoffBase << n
			}
			return 0
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if providers.IsConnection(err) {
			return nil, err
		}
		last := state.last()
		return nil, &RetryBudgetError{Attempts: len(state.attempts), LastRaw: last.Raw, Err: err}
	}
	return rec, nil
}

// isRetriable admits transport, parse and validation failures into the retry
// budget; anything else terminates the loop.
func isRetriable(err error) bool {
	// Run cancellation is terminal. A per-call deadline is not: it surfaces
	// as a transport timeout and consumes budget like any transport failure;
	// retry.Context stops the loop if the whole run's context is done.
	if errors.Is(err, context.Canceled) {
		return false
	}
	var (
		te *providers.TransportError
		pe *parse.ParseError
		ve *schema.ValidationError
	)
	return errors.As(err, &te) || errors.As(err, &pe) || errors.As(err, &ve)
}
