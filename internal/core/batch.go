package core

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// BatchRunner executes independent pipeline runs concurrently, one
// Pipeline instance per request. Runs share nothing: each gets its own
// orchestrator state, so no synchronization is needed beyond collecting
// the results.
type BatchRunner struct {
	agents      Agents
	cfg         Config
	concurrency int
	logger      *slog.Logger
}

// NewBatchRunner creates a runner that executes at most concurrency
// pipelines at once. Zero or negative concurrency means unbounded.
func NewBatchRunner(agents Agents, cfg Config, concurrency int) *BatchRunner {
	return &BatchRunner{
		agents:      agents,
		cfg:         cfg,
		concurrency: concurrency,
		logger:      slog.Default(),
	}
}

// WithLogger sets a custom logger.
func (b *BatchRunner) WithLogger(logger *slog.Logger) *BatchRunner {
	b.logger = logger
	return b
}

// Run executes one pipeline per input and returns results in input order.
// Individual run failures surface through each result's status, never as
// an error here; the returned error is reserved for context cancellation.
func (b *BatchRunner) Run(ctx context.Context, inputs []string) ([]*Result, error) {
	results := make([]*Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	if b.concurrency > 0 {
		g.SetLimit(b.concurrency)
	}

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			p := New(b.agents, b.cfg, WithLogger(b.logger.With("batch_index", i)))
			results[i] = p.Execute(ctx, input)

			b.logger.Info("batch run finished",
				"batch_index", i,
				"run_id", results[i].RunID,
				"status", string(results[i].Status))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
