package graph

// Graph is a validated, immutable set of nodes and edges with a designated
// start node and output source. It is safe to share across concurrent runs:
// all per-run mutable state lives in runners created by NewRunner.
type Graph struct {
	nodes      map[string]Node
	order      []string
	edges      []Edge
	routes     map[string]Edge
	fanInArity map[string]int
	start      string
	output     string
}

// Start returns the identity of the start node.
func (g *Graph) Start() string { return g.start }

// Output returns the identity of the output source.
func (g *Graph) Output() string { return g.output }

// Nodes returns node identities in declaration order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// Edges returns a copy of the edge set in declaration order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e.clone())
	}
	return out
}

// Node returns the named node, or nil.
func (g *Graph) Node(name string) Node {
	return g.nodes[name]
}

// JoinArity returns the number of distinct upstream sources feeding the
// named fan-in destination, fixed at build time. Zero for nodes that are
// not a fan-in destination.
func (g *Graph) JoinArity(name string) int {
	return g.fanInArity[name]
}

// route returns the single outgoing edge of a node, if any.
func (g *Graph) route(name string) (Edge, bool) {
	e, ok := g.routes[name]
	return e, ok
}
