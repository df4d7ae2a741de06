// Package adapter bridges third-party model abstractions into dagflow's
// provider contract.
package adapter

import (
	"context"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/dagflow/provider"
)

// LangChainProvider adapts a langchaingo llms.Model to provider.Provider,
// so any model langchaingo supports can back a responder node.
type LangChainProvider struct {
	model llms.Model
}

var _ provider.Provider = (*LangChainProvider)(nil)

// FromLangChain wraps a langchaingo model.
func FromLangChain(model llms.Model) *LangChainProvider {
	return &LangChainProvider{model: model}
}

// Generate implements provider.Provider.
func (p *LangChainProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, p.model, prompt)
}
