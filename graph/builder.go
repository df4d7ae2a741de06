package graph

import (
	"errors"
	"fmt"
)

// Builder incrementally declares nodes and edges and validates them into an
// immutable Graph. A Builder is single-use: after a successful Build every
// further call fails with ErrBuilderSpent.
//
// Edges may reference nodes that have not been added yet; dangling
// references are caught by Build, never at run time.
type Builder struct {
	nodes  map[string]Node
	order  []string
	edges  []Edge
	routed map[string]bool
	start  string
	output string
	errs   []error
	built  bool
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		nodes:  make(map[string]Node),
		routed: make(map[string]bool),
	}
}

// AddNode declares a node. A duplicate identity is reported immediately and
// again by Build.
func (b *Builder) AddNode(n Node) error {
	if b.built {
		return ErrBuilderSpent
	}
	name := n.Name()
	if name == "" {
		err := fmt.Errorf("%w: empty identity", ErrUnknownNode)
		b.errs = append(b.errs, err)
		return err
	}
	if _, exists := b.nodes[name]; exists {
		err := fmt.Errorf("%w: %s", ErrDuplicateNode, name)
		b.errs = append(b.errs, err)
		return err
	}
	b.nodes[name] = n
	b.order = append(b.order, name)
	return nil
}

// Connect declares a direct edge from one node to another.
func (b *Builder) Connect(from, to string) {
	b.addEdge(Edge{Kind: EdgeDirect, From: []string{from}, To: []string{to}})
}

// ConnectFanOut declares a fan-out edge: each emission of from is broadcast,
// as an identical copy, to every listed destination.
func (b *Builder) ConnectFanOut(from string, to ...string) {
	b.addEdge(Edge{Kind: EdgeFanOut, From: []string{from}, To: append([]string(nil), to...)})
}

// ConnectFanIn declares a fan-in edge: every emission of each listed source
// is delivered to the join destination. The destination alone interprets
// the arity.
func (b *Builder) ConnectFanIn(from []string, to string) {
	b.addEdge(Edge{Kind: EdgeFanIn, From: append([]string(nil), from...), To: []string{to}})
}

func (b *Builder) addEdge(e Edge) {
	if b.built {
		b.errs = append(b.errs, ErrBuilderSpent)
		return
	}
	// Every source identity takes this edge as its single outgoing route.
	for _, from := range e.From {
		if b.routed[from] {
			b.errs = append(b.errs, fmt.Errorf("%w: %s", ErrEdgeConflict, from))
			return
		}
	}
	for _, from := range e.From {
		b.routed[from] = true
	}
	b.edges = append(b.edges, e)
}

// SetStart designates the node that receives the run's initial message.
func (b *Builder) SetStart(name string) {
	if b.built {
		b.errs = append(b.errs, ErrBuilderSpent)
		return
	}
	b.start = name
}

// SetOutput designates the node whose yield becomes the run's result.
func (b *Builder) SetOutput(name string) {
	if b.built {
		b.errs = append(b.errs, ErrBuilderSpent)
		return
	}
	b.output = name
}

// Build validates the declared topology and returns an immutable Graph.
// It fails on duplicate identities, edges or designations referencing
// undeclared identities, and an output source unreachable from the start
// node. On success the Builder is spent.
func (b *Builder) Build() (*Graph, error) {
	if b.built {
		return nil, ErrBuilderSpent
	}

	errs := append([]error(nil), b.errs...)

	for _, e := range b.edges {
		for _, name := range e.From {
			if _, ok := b.nodes[name]; !ok {
				errs = append(errs, fmt.Errorf("%w: edge source %s", ErrUnknownNode, name))
			}
		}
		for _, name := range e.To {
			if _, ok := b.nodes[name]; !ok {
				errs = append(errs, fmt.Errorf("%w: edge destination %s", ErrUnknownNode, name))
			}
		}
	}

	switch {
	case b.start == "":
		errs = append(errs, ErrNoStartNode)
	default:
		if _, ok := b.nodes[b.start]; !ok {
			errs = append(errs, fmt.Errorf("%w: start node %s", ErrUnknownNode, b.start))
		}
	}
	switch {
	case b.output == "":
		errs = append(errs, ErrNoOutputNode)
	default:
		if _, ok := b.nodes[b.output]; !ok {
			errs = append(errs, fmt.Errorf("%w: output source %s", ErrUnknownNode, b.output))
		}
	}

	if len(errs) == 0 && !b.reachable(b.start, b.output) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnreachableOutput, b.output))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	g := &Graph{
		nodes:      make(map[string]Node, len(b.nodes)),
		order:      append([]string(nil), b.order...),
		routes:     make(map[string]Edge),
		fanInArity: make(map[string]int),
		start:      b.start,
		output:     b.output,
	}
	for name, n := range b.nodes {
		g.nodes[name] = n
	}
	for _, e := range b.edges {
		g.edges = append(g.edges, e.clone())
		for _, from := range e.From {
			g.routes[from] = e.clone()
		}
		if e.Kind == EdgeFanIn {
			g.fanInArity[e.To[0]] = countDistinct(e.From)
		}
	}

	b.built = true
	return g, nil
}

// reachable walks edges breadth-first from start.
func (b *Builder) reachable(start, target string) bool {
	if start == target {
		return true
	}
	seen := map[string]bool{start: true}
	frontier := []string{start}
	for len(frontier) > 0 {
		name := frontier[0]
		frontier = frontier[1:]
		for _, e := range b.edges {
			fromHere := false
			for _, from := range e.From {
				if from == name {
					fromHere = true
					break
				}
			}
			if !fromHere {
				continue
			}
			for _, to := range e.To {
				if to == target {
					return true
				}
				if !seen[to] {
					seen[to] = true
					frontier = append(frontier, to)
				}
			}
		}
	}
	return false
}

func countDistinct(names []string) int {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}
	return len(seen)
}
