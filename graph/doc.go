// Package graph provides the core construction and execution engine for
// dagflow: typed message-passing dataflow graphs.
//
// A graph composes heterogeneous computation units into a directed
// message-passing topology. Work fans out across data-independent branches,
// partial results fan back in at a join node, and the run yields a single
// terminal output once the join's arity is met.
//
// # Construction
//
// Graphs are declared through a single-use Builder and validated by Build,
// which returns an immutable Graph. Dangling edge references, duplicate
// identities and an unreachable output source are all build-time errors;
// none of them can surface during a run.
//
//	b := graph.NewBuilder()
//	b.AddNode(graph.Passthrough("start"))
//	b.AddNode(graph.Respond("fr", frenchProvider))
//	b.AddNode(graph.Respond("en", englishProvider))
//	b.AddNode(graph.Join("agg", 2, graph.ConcatStrings("\n")))
//	b.ConnectFanOut("start", "fr", "en")
//	b.ConnectFanIn([]string{"fr", "en"}, "agg")
//	b.SetStart("start")
//	b.SetOutput("agg")
//	g, err := b.Build()
//
// # Execution
//
// A Runner instantiates per-node state for one graph and drives envelope
// dispatch. Envelopes are delivered FIFO; emissions are expanded along the
// emitting node's edge (direct, fan-out broadcast, or fan-in delivery to
// the join). The first yield in dispatch order becomes the run's result;
// the queue keeps draining afterwards so remaining branches still record
// arrivals.
//
//	runner := g.NewRunner()
//	out, err := runner.Invoke(ctx, "Hello")
//
// A Graph is immutable and safe to share: give every concurrent run its own
// Runner. Reusing one Runner sequentially requires Reset in between, since
// join buffers are deliberately not cleared by yielding.
//
// # Node kinds
//
// The runner depends only on the Node interface. Built-in kinds:
// Passthrough (re-emits its input), Transform (wraps a function), Join
// (fan-in aggregation with fixed arity), Yielder (terminal output for
// linear graphs) and Respond (calls a computation provider).
package graph
