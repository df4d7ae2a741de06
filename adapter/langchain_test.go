package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// mockLLM is a mock implementation of llms.Model for testing.
type mockLLM struct {
	response string
	err      error
	prompts  []string
}

func (m *mockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.prompts = append(m.prompts, messages[0].Parts[0].(llms.TextContent).Text)

	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: m.response},
		},
	}, nil
}

func (m *mockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	m.prompts = append(m.prompts, prompt)

	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestFromLangChain(t *testing.T) {
	llm := &mockLLM{response: "test"}
	p := FromLangChain(llm)

	require.NotNil(t, p)
	assert.Equal(t, llm, p.model)
}

func TestLangChainProvider_Generate(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		response string
	}{
		{
			name:     "successful generation",
			prompt:   "Hello, world!",
			response: "Hello! How can I help you?",
		},
		{
			name:     "empty prompt",
			prompt:   "",
			response: "Empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLM{response: tt.response}
			p := FromLangChain(llm)

			got, err := p.Generate(context.Background(), tt.prompt)
			require.NoError(t, err)
			assert.Equal(t, tt.response, got)
			assert.Equal(t, []string{tt.prompt}, llm.prompts)
		})
	}
}

func TestLangChainProvider_GenerateError(t *testing.T) {
	llm := &mockLLM{err: errors.New("generation error")}
	p := FromLangChain(llm)

	_, err := p.Generate(context.Background(), "test")
	assert.ErrorContains(t, err, "generation error")
}

func TestLangChainProvider_ContextCancellation(t *testing.T) {
	llm := &mockLLM{response: "response"}
	p := FromLangChain(llm)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, "test")
	assert.Error(t, err)
}
