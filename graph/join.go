package graph

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// MergeFunc merges the sub-results a join node collected, in arrival order,
// into the node's terminal output.
type MergeFunc func(parts []any) (any, error)

// CollectParts is the default merge: it returns a copy of the collected
// sub-results in arrival order.
func CollectParts(parts []any) (any, error) {
	return append([]any(nil), parts...), nil
}

// ConcatStrings returns a merge that joins string sub-results with sep, in
// arrival order. A non-string part is an error.
func ConcatStrings(sep string) MergeFunc {
	return func(parts []any) (any, error) {
		ss := make([]string, 0, len(parts))
		for _, p := range parts {
			s, ok := p.(string)
			if !ok {
				return nil, fmt.Errorf("concat merge: part %T is not a string", p)
			}
			ss = append(ss, s)
		}
		return strings.Join(ss, sep), nil
	}
}

// JoinNode aggregates fan-in sub-results. Each delivery appends to an
// ordered buffer; once the buffer reaches the node's arity the merge runs
// and the node yields exactly once.
//
// The buffer is not cleared after yielding. A delivery to an unreset,
// complete join fails the run with ErrJoinComplete; Reset returns the node
// to its empty state. Sub-results arrive in completion order of their
// producing branches, not declaration order.
type JoinNode struct {
	name  string
	arity int
	input reflect.Type
	merge MergeFunc
}

// Join creates a join node expecting exactly arity sub-results. A nil merge
// uses CollectParts.
func Join(name string, arity int, merge MergeFunc) *JoinNode {
	if merge == nil {
		merge = CollectParts
	}
	return &JoinNode{name: name, arity: arity, merge: merge}
}

// WithInput declares the input type the node accepts and returns the node.
func (n *JoinNode) WithInput(t reflect.Type) *JoinNode {
	n.input = t
	return n
}

// Name returns the node identity.
func (n *JoinNode) Name() string { return n.name }

// InputType returns the declared input type, nil when unrestricted.
func (n *JoinNode) InputType() reflect.Type { return n.input }

// Arity returns the number of sub-results the node waits for.
func (n *JoinNode) Arity() int { return n.arity }

// NewState returns an empty accumulation buffer.
func (n *JoinNode) NewState() NodeState {
	return &joinState{}
}

// Handle appends the payload and yields the merged output when the buffer
// reaches the node's arity.
func (n *JoinNode) Handle(ctx context.Context, env Envelope, state NodeState) (NodeResult, error) {
	st, ok := state.(*joinState)
	if !ok {
		return NodeResult{}, fmt.Errorf("join %s: unexpected state %T", n.name, state)
	}
	if st.complete {
		return NodeResult{}, ErrJoinComplete
	}

	st.parts = append(st.parts, env.Payload)
	if len(st.parts) < n.arity {
		return NodeResult{}, nil
	}

	out, err := n.merge(st.parts)
	if err != nil {
		return NodeResult{}, err
	}
	st.complete = true
	return Yield(out), nil
}

// joinState moves Empty -> Accumulating -> Complete. Reset returns it to
// Empty from any state.
type joinState struct {
	parts    []any
	complete bool
}

// Len reports how many sub-results arrived so far.
func (s *joinState) Len() int { return len(s.parts) }

// Complete reports whether the node merged and yielded.
func (s *joinState) Complete() bool { return s.complete }

func (s *joinState) Reset() {
	s.parts = nil
	s.complete = false
}
