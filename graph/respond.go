package graph

import (
	"context"
	"fmt"
	"reflect"

	"github.com/smallnest/dagflow/provider"
)

// ResponderNode calls a computation provider with its string payload and
// emits the provider's reply. Provider failures propagate as handler
// failures; the runner never retries them.
type ResponderNode struct {
	name     string
	p        provider.Provider
	template string
}

// Respond creates a provider-backed node.
func Respond(name string, p provider.Provider) *ResponderNode {
	return &ResponderNode{name: name, p: p}
}

// WithPromptTemplate wraps the payload in a printf template before it is
// sent to the provider. The template must contain exactly one %s verb.
func (n *ResponderNode) WithPromptTemplate(tmpl string) *ResponderNode {
	n.template = tmpl
	return n
}

// Name returns the node identity.
func (n *ResponderNode) Name() string { return n.name }

// InputType declares string input.
func (n *ResponderNode) InputType() reflect.Type { return TypeOf[string]() }

// NewState returns a shared no-op state.
func (n *ResponderNode) NewState() NodeState { return statelessState{} }

// Handle sends the payload to the provider and emits the reply.
func (n *ResponderNode) Handle(ctx context.Context, env Envelope, state NodeState) (NodeResult, error) {
	prompt, _ := env.Payload.(string)
	if n.template != "" {
		prompt = fmt.Sprintf(n.template, prompt)
	}

	reply, err := n.p.Generate(ctx, prompt)
	if err != nil {
		return NodeResult{}, fmt.Errorf("provider: %w", err)
	}
	return Emit(reply), nil
}
