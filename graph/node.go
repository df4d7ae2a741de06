package graph

import (
	"context"
	"reflect"
)

// Node is a unit of computation in the graph. Implementations declare their
// identity and input type once; all mutable accumulation lives in the
// NodeState the runner instantiates per node.
//
// The runner depends only on this interface, never on concrete node kinds.
type Node interface {
	// Name returns the node's identity, unique within a graph.
	Name() string

	// InputType returns the declared input type. The payload of every
	// envelope delivered to the node must be assignable to it. A nil
	// type accepts any payload.
	InputType() reflect.Type

	// NewState instantiates the node's private per-run state.
	NewState() NodeState

	// Handle processes one delivered envelope against the node's own
	// state. It may emit messages, yield a terminal output, or both.
	Handle(ctx context.Context, env Envelope, state NodeState) (NodeResult, error)
}

// NodeState is the run-scoped mutable state of a node. It is held in the
// runner's arena, keyed by node identity, and is only ever handed to the
// owning node's Handle.
type NodeState interface {
	// Reset clears accumulated state so the node can participate in a
	// later run against the same runner.
	Reset()
}

// NodeResult is what a handler produced for one delivery.
type NodeResult struct {
	// Emits are messages to route along the node's outgoing edge, in
	// order. An emitting node must have an outgoing edge.
	Emits []any

	// Output is the terminal value. Only meaningful when Yielded is set,
	// so a node can yield nil deliberately.
	Output any

	// Yielded marks Output as valid.
	Yielded bool
}

// Emit returns a NodeResult carrying the given emissions.
func Emit(msgs ...any) NodeResult {
	return NodeResult{Emits: msgs}
}

// Yield returns a NodeResult carrying a terminal output.
func Yield(v any) NodeResult {
	return NodeResult{Output: v, Yielded: true}
}

// TypeOf returns the reflect.Type of T, for declaring node input types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// statelessState is shared by nodes that accumulate nothing.
type statelessState struct{}

func (statelessState) Reset() {}

// PassthroughNode re-emits its payload unchanged along its single outgoing
// edge. It seeds a run from an externally supplied trigger message.
type PassthroughNode struct {
	name string
}

// Passthrough creates a pass-through node.
func Passthrough(name string) *PassthroughNode {
	return &PassthroughNode{name: name}
}

// Name returns the node identity.
func (n *PassthroughNode) Name() string { return n.name }

// InputType accepts any payload.
func (n *PassthroughNode) InputType() reflect.Type { return nil }

// NewState returns a shared no-op state.
func (n *PassthroughNode) NewState() NodeState { return statelessState{} }

// Handle re-emits the payload.
func (n *PassthroughNode) Handle(ctx context.Context, env Envelope, state NodeState) (NodeResult, error) {
	return Emit(env.Payload), nil
}

// TransformNode wraps a plain function as a node. The function's result is
// emitted along the node's outgoing edge; a nil result with nil error emits
// nothing.
type TransformNode struct {
	name  string
	input reflect.Type
	fn    func(ctx context.Context, in any) (any, error)
}

// Transform creates a node around fn. The node accepts any payload unless
// narrowed with WithInput.
func Transform(name string, fn func(ctx context.Context, in any) (any, error)) *TransformNode {
	return &TransformNode{name: name, fn: fn}
}

// WithInput declares the input type the node accepts and returns the node.
func (n *TransformNode) WithInput(t reflect.Type) *TransformNode {
	n.input = t
	return n
}

// Name returns the node identity.
func (n *TransformNode) Name() string { return n.name }

// InputType returns the declared input type, nil when unrestricted.
func (n *TransformNode) InputType() reflect.Type { return n.input }

// NewState returns a shared no-op state.
func (n *TransformNode) NewState() NodeState { return statelessState{} }

// Handle applies the wrapped function and emits its result.
func (n *TransformNode) Handle(ctx context.Context, env Envelope, state NodeState) (NodeResult, error) {
	out, err := n.fn(ctx, env.Payload)
	if err != nil {
		return NodeResult{}, err
	}
	if out == nil {
		return NodeResult{}, nil
	}
	return Emit(out), nil
}

// YieldNode yields whatever payload reaches it, ending the run with that
// value. Useful as an output source for linear graphs that need no join.
type YieldNode struct {
	name  string
	input reflect.Type
}

// Yielder creates a yield node accepting any payload.
func Yielder(name string) *YieldNode {
	return &YieldNode{name: name}
}

// Name returns the node identity.
func (n *YieldNode) Name() string { return n.name }

// InputType returns the declared input type, nil when unrestricted.
func (n *YieldNode) InputType() reflect.Type { return n.input }

// NewState returns a shared no-op state.
func (n *YieldNode) NewState() NodeState { return statelessState{} }

// Handle yields the payload.
func (n *YieldNode) Handle(ctx context.Context, env Envelope, state NodeState) (NodeResult, error) {
	return Yield(env.Payload), nil
}
