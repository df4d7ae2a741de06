package graph

import "context"

// RunEvent classifies runner callbacks.
type RunEvent string

const (
	// RunEventStart fires once when a run begins.
	RunEventStart RunEvent = "start"

	// RunEventDispatch fires before an envelope is delivered. The payload
	// is the envelope's payload.
	RunEventDispatch RunEvent = "dispatch"

	// RunEventYield fires when a node yields a terminal output, including
	// yields after the first, which are discarded.
	RunEventYield RunEvent = "yield"

	// RunEventError fires when a delivery fails. The error is the run's
	// failure.
	RunEventError RunEvent = "error"

	// RunEventEnd fires once when the run finishes, whatever the outcome.
	RunEventEnd RunEvent = "end"
)

// RunListener observes runner activity. Listener calls happen inline at
// dispatch boundaries; implementations should return quickly.
type RunListener interface {
	OnRunEvent(ctx context.Context, event RunEvent, node string, payload any, err error)
}

// RunListenerFunc is a function adapter for RunListener.
type RunListenerFunc func(ctx context.Context, event RunEvent, node string, payload any, err error)

// OnRunEvent implements RunListener.
func (f RunListenerFunc) OnRunEvent(ctx context.Context, event RunEvent, node string, payload any, err error) {
	f(ctx, event, node, payload, err)
}
