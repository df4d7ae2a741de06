package graph

import (
	"errors"
	"fmt"
	"reflect"
)

// Build-time errors. Build reports every violation wrapped around one of
// these sentinels; none of them can surface during a run of a built graph.
var (
	// ErrDuplicateNode is returned when a node identity is added twice.
	ErrDuplicateNode = errors.New("duplicate node identity")

	// ErrUnknownNode is returned when an edge or designation references
	// an identity that was never added.
	ErrUnknownNode = errors.New("unknown node identity")

	// ErrNoStartNode is returned when Build runs without a start node.
	ErrNoStartNode = errors.New("start node not set")

	// ErrNoOutputNode is returned when Build runs without an output source.
	ErrNoOutputNode = errors.New("output source not set")

	// ErrUnreachableOutput is returned when no path exists from the start
	// node to the output source.
	ErrUnreachableOutput = errors.New("output source unreachable from start node")

	// ErrEdgeConflict is returned when a node is given a second outgoing
	// edge. Each node has exactly one outgoing route.
	ErrEdgeConflict = errors.New("node already has an outgoing edge")

	// ErrBuilderSpent is returned when a Builder is used after Build.
	ErrBuilderSpent = errors.New("builder already built")
)

// Run-time errors.
var (
	// ErrNoOutput is returned when the pending queue drains without any
	// node yielding. The run did not complete; hosts should treat this as
	// a stalled graph, not a success.
	ErrNoOutput = errors.New("run ended without an output")

	// ErrNoRoute is returned when a node emits but has no outgoing edge.
	// Emissions are never silently dropped.
	ErrNoRoute = errors.New("no outgoing edge for emission")

	// ErrMaxStepsExceeded is returned when a run dispatches more
	// envelopes than the configured limit allows.
	ErrMaxStepsExceeded = errors.New("run exceeded max steps")

	// ErrJoinComplete is returned when an envelope reaches a join node
	// that already merged and yielded. Reset the node before reuse.
	ErrJoinComplete = errors.New("join already complete, reset required")
)

// DispatchError reports an envelope whose payload type did not match the
// destination node's declared input type. It fails the run immediately.
type DispatchError struct {
	Node string
	Got  reflect.Type
	Want reflect.Type
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("undeliverable envelope for node %s: payload type %v, want %v", e.Node, e.Got, e.Want)
}

// NodeError wraps a failure inside a node handler. The runner never retries;
// the error propagates to the caller as the run's failure.
type NodeError struct {
	Node  string
	Cause error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.Node, e.Cause)
}

// Unwrap returns the handler's error.
func (e *NodeError) Unwrap() error {
	return e.Cause
}

// CanceledError reports a run stopped by its cancellation signal. The run
// yielded nothing; cancellation and completion are mutually exclusive.
type CanceledError struct {
	Cause error
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("run canceled: %v", e.Cause)
}

// Unwrap returns the context error, so errors.Is(err, context.Canceled)
// keeps working.
func (e *CanceledError) Unwrap() error {
	return e.Cause
}
