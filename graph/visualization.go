package graph

import (
	"fmt"
	"strings"
)

// Exporter renders a built Graph in diagram formats.
type Exporter struct {
	graph *Graph
}

// NewExporter creates an exporter for the given graph.
func NewExporter(g *Graph) *Exporter {
	return &Exporter{graph: g}
}

// MermaidOptions configures Mermaid diagram generation.
type MermaidOptions struct {
	// Direction of the flowchart, e.g. "TD" or "LR".
	Direction string
}

// DrawMermaid generates a Mermaid flowchart of the graph.
func (ex *Exporter) DrawMermaid() string {
	return ex.DrawMermaidWithOptions(MermaidOptions{Direction: "TD"})
}

// DrawMermaidWithOptions generates a Mermaid flowchart with custom options.
// Fan-out and fan-in edges are drawn per destination/source pair, with the
// edge kind as a label.
func (ex *Exporter) DrawMermaidWithOptions(opts MermaidOptions) string {
	var sb strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))

	for _, name := range ex.graph.Nodes() {
		switch name {
		case ex.graph.Start():
			sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", name, name))
		default:
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", name, name))
		}
	}

	for _, e := range ex.graph.Edges() {
		for _, pair := range edgePairs(e) {
			switch e.Kind {
			case EdgeDirect:
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", pair[0], pair[1]))
			default:
				sb.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", pair[0], e.Kind, pair[1]))
			}
		}
	}

	sb.WriteString(fmt.Sprintf("    style %s fill:#87CEEB\n", ex.graph.Start()))
	sb.WriteString(fmt.Sprintf("    style %s fill:#90EE90\n", ex.graph.Output()))

	return sb.String()
}

// DrawDOT generates a Graphviz DOT representation of the graph.
func (ex *Exporter) DrawDOT() string {
	var sb strings.Builder

	sb.WriteString("digraph G {\n")
	sb.WriteString("    rankdir=TD;\n")
	sb.WriteString("    node [shape=box];\n")
	sb.WriteString(fmt.Sprintf("    %s [style=filled, fillcolor=lightblue];\n", ex.graph.Start()))
	sb.WriteString(fmt.Sprintf("    %s [style=filled, fillcolor=lightgreen];\n", ex.graph.Output()))

	for _, e := range ex.graph.Edges() {
		for _, pair := range edgePairs(e) {
			switch e.Kind {
			case EdgeDirect:
				sb.WriteString(fmt.Sprintf("    %s -> %s;\n", pair[0], pair[1]))
			default:
				sb.WriteString(fmt.Sprintf("    %s -> %s [label=\"%s\"];\n", pair[0], pair[1], e.Kind))
			}
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// edgePairs flattens an edge into (from, to) pairs.
func edgePairs(e Edge) [][2]string {
	var pairs [][2]string
	for _, from := range e.From {
		for _, to := range e.To {
			pairs = append(pairs, [2]string{from, to})
		}
	}
	return pairs
}
