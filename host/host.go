// Package host runs dagflow graphs on behalf of a caller: it mints run
// IDs, gives every run its own runner, logs the run lifecycle and
// journals terminal outcomes to an optional RunStore.
package host

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/dagflow/graph"
	"github.com/smallnest/dagflow/log"
	"github.com/smallnest/dagflow/store"
)

// Host executes runs of one graph.
type Host struct {
	graph      *graph.Graph
	name       string
	store      store.RunStore
	logger     log.Logger
	runnerOpts []graph.RunnerOption
}

// Option configures a Host.
type Option func(*Host)

// WithName labels the graph in logs and journal records. The output source
// identity is used otherwise.
func WithName(name string) Option {
	return func(h *Host) { h.name = name }
}

// WithStore journals every finished run to the given store.
func WithStore(s store.RunStore) Option {
	return func(h *Host) { h.store = s }
}

// WithLogger sets the host's logger.
func WithLogger(l log.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// WithRunnerOptions passes options through to each run's runner.
func WithRunnerOptions(opts ...graph.RunnerOption) Option {
	return func(h *Host) { h.runnerOpts = opts }
}

// New creates a Host for a built graph.
func New(g *graph.Graph, opts ...Option) *Host {
	h := &Host{
		graph:  g,
		name:   g.Output(),
		logger: log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Result is the outcome of one hosted run.
type Result struct {
	RunID  string
	Output any
	Status store.Status
	Err    error
}

// Run executes the graph once with a fresh runner, so concurrent Runs on
// the same Host never share node state. The returned error is the run's
// failure, if any; the Result is populated either way.
func (h *Host) Run(ctx context.Context, input any) (*Result, error) {
	runID := uuid.NewString()
	started := time.Now()

	h.logger.Info("dagflow: run %s starting on graph %s", runID, h.name)

	runner := h.graph.NewRunner(h.runnerOpts...)
	out, err := runner.Invoke(ctx, input)

	result := &Result{
		RunID:  runID,
		Output: out,
		Status: classify(err),
		Err:    err,
	}

	switch result.Status {
	case store.StatusCompleted:
		h.logger.Info("dagflow: run %s completed in %s", runID, time.Since(started))
	case store.StatusCanceled:
		h.logger.Warn("dagflow: run %s canceled", runID)
	default:
		h.logger.Error("dagflow: run %s %s: %v", runID, result.Status, err)
	}

	if h.store != nil {
		record := &store.RunRecord{
			ID:         runID,
			Graph:      h.name,
			Input:      input,
			Output:     out,
			Status:     result.Status,
			StartedAt:  started,
			FinishedAt: time.Now(),
		}
		if err != nil {
			record.Error = err.Error()
		}
		if saveErr := h.store.Save(ctx, record); saveErr != nil {
			// Journal failures never mask the run's own outcome.
			h.logger.Warn("dagflow: run %s journal save failed: %v", runID, saveErr)
		}
	}

	return result, err
}

func classify(err error) store.Status {
	switch {
	case err == nil:
		return store.StatusCompleted
	case isCanceled(err):
		return store.StatusCanceled
	case errors.Is(err, graph.ErrNoOutput):
		return store.StatusEmpty
	default:
		return store.StatusFailed
	}
}

func isCanceled(err error) bool {
	var canceled *graph.CanceledError
	return errors.As(err, &canceled)
}
