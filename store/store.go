// Package store defines the run journal: durable records of finished graph
// runs and the RunStore interface their backends implement.
//
// A RunRecord captures only the terminal outcome of a run - its input, its
// yielded output or failure, and timing. It is deliberately not a
// checkpoint of in-flight graph state; resuming half-finished runs is out
// of scope for dagflow.
//
// Backends: memory (tests, single process), redis (TTL expiry, shared
// cache), sqlite (zero-config file database) and postgres (production).
package store

import (
	"context"
	"time"
)

// Status classifies how a run ended.
type Status string

const (
	// StatusCompleted - the run yielded an output.
	StatusCompleted Status = "completed"

	// StatusFailed - a dispatch or handler error failed the run.
	StatusFailed Status = "failed"

	// StatusCanceled - the run's cancellation signal fired first.
	StatusCanceled Status = "canceled"

	// StatusEmpty - the queue drained without any node yielding.
	StatusEmpty Status = "empty"
)

// RunRecord is the journal entry for one finished run.
type RunRecord struct {
	ID         string         `json:"id"`
	Graph      string         `json:"graph"`
	Input      any            `json:"input"`
	Output     any            `json:"output"`
	Status     Status         `json:"status"`
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// RunStore persists run records.
type RunStore interface {
	// Save stores a record, replacing any record with the same ID.
	Save(ctx context.Context, record *RunRecord) error

	// Load retrieves a record by run ID.
	Load(ctx context.Context, runID string) (*RunRecord, error)

	// List returns all records for a graph name.
	List(ctx context.Context, graphName string) ([]*RunRecord, error)

	// Delete removes a record.
	Delete(ctx context.Context, runID string) error

	// Clear removes all records for a graph name.
	Clear(ctx context.Context, graphName string) error
}
