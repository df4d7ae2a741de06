// Package provider defines the computation provider contract that
// provider-backed nodes call into, plus a mock for tests. Concrete
// implementations live in sub-packages and in the adapter package.
package provider

import (
	"context"
	"sync"
)

// Provider is an opaque asynchronous computation: it takes a prompt and
// returns a typed result or fails. The graph core treats provider failures
// exactly like handler failures.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to the Provider interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate implements Provider.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Mock is a canned Provider for tests. It records every prompt it receives.
type Mock struct {
	// Reply is returned for every prompt when ReplyFn is nil.
	Reply string

	// ReplyFn computes the reply from the prompt.
	ReplyFn func(prompt string) string

	// Err, when set, is returned instead of a reply.
	Err error

	// Delay, when set, is called before answering. Lets tests model a
	// slow provider without a real sleep in the mock itself.
	Delay func()

	mu    sync.Mutex
	calls []string
}

// Generate implements Provider.
func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	if m.Delay != nil {
		m.Delay()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if m.ReplyFn != nil {
		return m.ReplyFn(prompt), nil
	}
	return m.Reply, nil
}

// Calls returns the prompts received so far.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
