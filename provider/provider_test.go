package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_Reply(t *testing.T) {
	m := &Mock{Reply: "pong"}

	out, err := m.Generate(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", out)
	assert.Equal(t, []string{"ping"}, m.Calls())
}

func TestMock_ReplyFn(t *testing.T) {
	m := &Mock{ReplyFn: func(prompt string) string { return prompt + "!" }}

	out, err := m.Generate(context.Background(), "hey")
	require.NoError(t, err)
	assert.Equal(t, "hey!", out)
}

func TestMock_Err(t *testing.T) {
	boom := errors.New("overloaded")
	m := &Mock{Err: boom}

	_, err := m.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestMock_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Mock{Reply: "never", Delay: cancel}

	_, err := m.Generate(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Calls())
}

func TestFunc_Adapter(t *testing.T) {
	p := Func(func(ctx context.Context, prompt string) (string, error) {
		return "fn:" + prompt, nil
	})

	out, err := p.Generate(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "fn:a", out)
}
