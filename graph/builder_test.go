package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echo(name string) *TransformNode {
	return Transform(name, func(ctx context.Context, in any) (any, error) {
		return in, nil
	})
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddNode(Passthrough("start")))
	assert.NoError(t, b.AddNode(echo("mid")))
	assert.NoError(t, b.AddNode(Yielder("out")))
	b.Connect("start", "mid")
	b.Connect("mid", "out")
	b.SetStart("start")
	b.SetOutput("out")

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "start", g.Start())
	assert.Equal(t, "out", g.Output())
	assert.Equal(t, []string{"start", "mid", "out"}, g.Nodes())
	assert.Len(t, g.Edges(), 2)
}

func TestBuilder_DuplicateNode(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddNode(Passthrough("a")))

	err := b.AddNode(echo("a"))
	assert.ErrorIs(t, err, ErrDuplicateNode)

	// The duplicate is reported again at build time.
	b.SetStart("a")
	b.SetOutput("a")
	_, err = b.Build()
	assert.ErrorIs(t, err, ErrDuplicateNode)
}

func TestBuilder_UnknownEdgeReference(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddNode(Passthrough("a")))
	b.Connect("a", "ghost")
	b.SetStart("a")
	b.SetOutput("a")

	g, err := b.Build()
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestBuilder_MissingDesignations(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddNode(Passthrough("a")))

	_, err := b.Build()
	assert.ErrorIs(t, err, ErrNoStartNode)
	assert.ErrorIs(t, err, ErrNoOutputNode)
}

func TestBuilder_UnreachableOutput(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddNode(Passthrough("a")))
	assert.NoError(t, b.AddNode(Passthrough("b")))
	assert.NoError(t, b.AddNode(Yielder("island")))
	b.Connect("a", "b")
	b.SetStart("a")
	b.SetOutput("island")

	_, err := b.Build()
	assert.ErrorIs(t, err, ErrUnreachableOutput)
}

func TestBuilder_EdgeConflict(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddNode(Passthrough("a")))
	assert.NoError(t, b.AddNode(Passthrough("b")))
	assert.NoError(t, b.AddNode(Passthrough("c")))
	b.Connect("a", "b")
	b.Connect("a", "c")
	b.SetStart("a")
	b.SetOutput("b")

	_, err := b.Build()
	assert.ErrorIs(t, err, ErrEdgeConflict)
}

func TestBuilder_SingleUse(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddNode(Yielder("only")))
	b.SetStart("only")
	b.SetOutput("only")

	_, err := b.Build()
	require.NoError(t, err)

	assert.ErrorIs(t, b.AddNode(Passthrough("late")), ErrBuilderSpent)
	_, err = b.Build()
	assert.ErrorIs(t, err, ErrBuilderSpent)
}

func TestBuilder_FanInArity(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddNode(Passthrough("start")))
	assert.NoError(t, b.AddNode(echo("b")))
	assert.NoError(t, b.AddNode(echo("c")))
	assert.NoError(t, b.AddNode(Join("agg", 2, nil)))
	b.ConnectFanOut("start", "b", "c")
	b.ConnectFanIn([]string{"b", "c"}, "agg")
	b.SetStart("start")
	b.SetOutput("agg")

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, g.JoinArity("agg"))
	assert.Equal(t, 0, g.JoinArity("start"))
}

// Identical builder call sequences must produce structurally equal graphs.
func TestBuilder_Idempotence(t *testing.T) {
	build := func() *Graph {
		b := NewBuilder()
		assert.NoError(t, b.AddNode(Passthrough("start")))
		assert.NoError(t, b.AddNode(echo("b")))
		assert.NoError(t, b.AddNode(echo("c")))
		assert.NoError(t, b.AddNode(Join("agg", 2, nil)))
		b.ConnectFanOut("start", "b", "c")
		b.ConnectFanIn([]string{"b", "c"}, "agg")
		b.SetStart("start")
		b.SetOutput("agg")
		g, err := b.Build()
		require.NoError(t, err)
		return g
	}

	g1 := build()
	g2 := build()

	assert.Equal(t, g1.Nodes(), g2.Nodes())
	assert.Equal(t, g1.Edges(), g2.Edges())
	assert.Equal(t, g1.Start(), g2.Start())
	assert.Equal(t, g1.Output(), g2.Output())
	assert.Equal(t, g1.JoinArity("agg"), g2.JoinArity("agg"))
}
