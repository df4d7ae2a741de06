package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_DrawMermaid(t *testing.T) {
	g := translateGraph(t, 2)
	out := NewExporter(g).DrawMermaid()

	assert.Contains(t, out, "flowchart TD")
	assert.Contains(t, out, `start[["start"]]`)
	assert.Contains(t, out, `fr["fr"]`)
	assert.Contains(t, out, "start -->|fan-out| fr")
	assert.Contains(t, out, "start -->|fan-out| en")
	assert.Contains(t, out, "fr -->|fan-in| agg")
	assert.Contains(t, out, "en -->|fan-in| agg")
	assert.Contains(t, out, "style start")
	assert.Contains(t, out, "style agg")
}

func TestExporter_DrawMermaidDirection(t *testing.T) {
	g := translateGraph(t, 2)
	out := NewExporter(g).DrawMermaidWithOptions(MermaidOptions{Direction: "LR"})
	assert.Contains(t, out, "flowchart LR")
}

func TestExporter_DrawDOT(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddNode(Passthrough("a")))
	require.NoError(t, b.AddNode(Yielder("b")))
	b.Connect("a", "b")
	b.SetStart("a")
	b.SetOutput("b")
	g, err := b.Build()
	require.NoError(t, err)

	out := NewExporter(g).DrawDOT()
	assert.Contains(t, out, "digraph G {")
	assert.Contains(t, out, "a -> b;")
	assert.Contains(t, out, "fillcolor=lightblue")
	assert.Contains(t, out, "fillcolor=lightgreen")
}
