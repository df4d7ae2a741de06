package graph

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/smallnest/dagflow/log"
)

// Runner drives runs of one Graph. It owns the pending-envelope queue and
// the arena of per-node state, keyed by identity. The arena is created when
// the Runner is created and survives across sequential Invokes, so stateful
// nodes (joins) must be Reset between reuses.
//
// A Runner serializes its own Invokes. For concurrent runs of the same
// Graph, create one Runner per run.
type Runner struct {
	graph    *Graph
	arena    map[string]NodeState
	locks    map[string]*sync.Mutex
	logger   log.Logger
	listener RunListener
	maxSteps int
	parallel bool

	mu sync.Mutex
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner's logger. The package-level default is used
// otherwise.
func WithLogger(l log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithListener sets a RunListener observing the runner.
func WithListener(l RunListener) RunnerOption {
	return func(r *Runner) { r.listener = l }
}

// WithMaxSteps caps how many envelopes a run may dispatch. Zero means no
// cap; set one for graphs with cycles.
func WithMaxSteps(n int) RunnerOption {
	return func(r *Runner) { r.maxSteps = n }
}

// WithParallelDispatch executes each queued round of envelopes
// concurrently. Sibling fan-out branches are data-independent until they
// reconverge, so they run in parallel; fan-in buffers then fill in
// completion order, not declaration order.
func WithParallelDispatch() RunnerOption {
	return func(r *Runner) { r.parallel = true }
}

// NewRunner instantiates per-run node state for every node and returns a
// Runner for this graph.
func (g *Graph) NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		graph:  g,
		arena:  make(map[string]NodeState, len(g.nodes)),
		locks:  make(map[string]*sync.Mutex, len(g.nodes)),
		logger: log.GetDefaultLogger(),
	}
	for name, n := range g.nodes {
		r.arena[name] = n.NewState()
		r.locks[name] = &sync.Mutex{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reset resets the state of every node in the arena.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, st := range r.arena {
		st.Reset()
	}
}

// ResetNode resets one node's state.
func (r *Runner) ResetNode(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.arena[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	st.Reset()
	return nil
}

// Invoke injects input at the start node and drives dispatch until the
// queue drains or the run fails. It returns the first yield in dispatch
// order; yielding does not cancel still-pending deliveries, so other fan-in
// branches keep recording arrivals after the result is known.
//
// Cancellation is observed at dispatch boundaries and reported as a
// CanceledError; a canceled run never returns an output. A drained queue
// with no yield is ErrNoOutput.
func (r *Runner) Invoke(ctx context.Context, input any) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.emit(ctx, RunEventStart, r.graph.start, input, nil)
	out, err := r.run(ctx, Envelope{To: r.graph.start, Payload: input})
	r.emit(ctx, RunEventEnd, "", out, err)
	return out, err
}

func (r *Runner) run(ctx context.Context, seed Envelope) (any, error) {
	queue := []Envelope{seed}
	var out any
	yielded := false
	steps := 0

	record := func(from string, res NodeResult) error {
		if res.Yielded {
			r.emit(ctx, RunEventYield, from, res.Output, nil)
			if !yielded {
				out = res.Output
				yielded = true
			} else {
				r.logger.Debug("dagflow: discarding extra yield from node %s", from)
			}
		}
		next, err := r.expand(from, res.Emits)
		if err != nil {
			return err
		}
		queue = append(queue, next...)
		return nil
	}

	fail := func(err error) (any, error) {
		r.emit(ctx, RunEventError, "", nil, err)
		return nil, err
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return fail(&CanceledError{Cause: err})
		}

		var round []Envelope
		if r.parallel {
			round, queue = queue, nil
		} else {
			round, queue = queue[:1], queue[1:]
		}

		steps += len(round)
		if r.maxSteps > 0 && steps > r.maxSteps {
			return fail(ErrMaxStepsExceeded)
		}

		if len(round) == 1 {
			res, err := r.safeDeliver(ctx, round[0])
			if err != nil {
				return fail(err)
			}
			if err := record(round[0].To, res); err != nil {
				return fail(err)
			}
			continue
		}

		// Parallel round: every queued envelope is dispatched at once and
		// outcomes are collected in completion order.
		type outcome struct {
			from string
			res  NodeResult
			err  error
		}
		results := make(chan outcome, len(round))
		var wg sync.WaitGroup
		for _, env := range round {
			wg.Add(1)
			go func(env Envelope) {
				defer wg.Done()
				res, err := r.safeDeliver(ctx, env)
				results <- outcome{from: env.To, res: res, err: err}
			}(env)
		}
		go func() {
			wg.Wait()
			close(results)
		}()

		var firstErr error
		for oc := range results {
			if oc.err != nil {
				if firstErr == nil {
					firstErr = oc.err
				}
				continue
			}
			if err := record(oc.from, oc.res); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if firstErr != nil {
			return fail(firstErr)
		}
	}

	if !yielded {
		return fail(ErrNoOutput)
	}
	return out, nil
}

// safeDeliver converts a handler panic into a NodeError, so sequential and
// parallel dispatch report panics the same way.
func (r *Runner) safeDeliver(ctx context.Context, env Envelope) (res NodeResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = NodeResult{}, &NodeError{Node: env.To, Cause: fmt.Errorf("panic: %v", p)}
		}
	}()
	return r.deliver(ctx, env)
}

// deliver type-checks one envelope and runs the destination handler against
// its own arena entry.
func (r *Runner) deliver(ctx context.Context, env Envelope) (NodeResult, error) {
	node, ok := r.graph.nodes[env.To]
	if !ok {
		return NodeResult{}, fmt.Errorf("%w: %s", ErrUnknownNode, env.To)
	}
	if want := node.InputType(); want != nil {
		got := reflect.TypeOf(env.Payload)
		if got == nil || !got.AssignableTo(want) {
			return NodeResult{}, &DispatchError{Node: env.To, Got: got, Want: want}
		}
	}

	r.emit(ctx, RunEventDispatch, env.To, env.Payload, nil)
	r.logger.Debug("dagflow: dispatch to %s", env.To)

	// The deferred unlock releases the node even when Handle panics, so a
	// sibling delivery in the same parallel round is never blocked forever.
	res, err := func() (NodeResult, error) {
		lock := r.locks[env.To]
		lock.Lock()
		defer lock.Unlock()
		return node.Handle(ctx, env, r.arena[env.To])
	}()
	if err != nil {
		return NodeResult{}, &NodeError{Node: env.To, Cause: err}
	}
	return res, nil
}

// expand turns a node's emissions into envelopes along its outgoing edge.
func (r *Runner) expand(from string, emits []any) ([]Envelope, error) {
	if len(emits) == 0 {
		return nil, nil
	}
	e, ok := r.graph.route(from)
	if !ok {
		return nil, fmt.Errorf("%w: node %s", ErrNoRoute, from)
	}

	var out []Envelope
	for _, msg := range emits {
		if e.Kind == EdgeFanOut {
			for _, to := range e.To {
				out = append(out, Envelope{To: to, Payload: msg})
			}
			continue
		}
		// Direct and fan-in edges deliver to their single destination.
		out = append(out, Envelope{To: e.To[0], Payload: msg})
	}
	return out, nil
}

func (r *Runner) emit(ctx context.Context, event RunEvent, node string, payload any, err error) {
	if r.listener == nil {
		return
	}
	r.listener.OnRunEvent(ctx, event, node, payload, err)
}
