package graph

// Envelope is a message in flight: a payload plus the identity of the node
// it is addressed to. Envelopes are created by the runner when it expands a
// node's emissions along the node's outgoing edge.
type Envelope struct {
	// To is the identity of the destination node.
	To string

	// Payload is the message content. Its dynamic type must be assignable
	// to the destination node's declared input type.
	Payload any
}

// EdgeKind selects how emissions are routed along an edge.
type EdgeKind int

const (
	// EdgeDirect routes each emission to a single destination.
	EdgeDirect EdgeKind = iota

	// EdgeFanOut broadcasts an identical copy of each emission to every
	// destination of the edge.
	EdgeFanOut

	// EdgeFanIn routes emissions from several upstream sources to one
	// join destination. The number of distinct sources is the edge's
	// arity, fixed at build time.
	EdgeFanIn
)

// String returns a printable name for the edge kind.
func (k EdgeKind) String() string {
	switch k {
	case EdgeDirect:
		return "direct"
	case EdgeFanOut:
		return "fan-out"
	case EdgeFanIn:
		return "fan-in"
	default:
		return "unknown"
	}
}

// Edge is a directed connection between nodes.
//
// For EdgeDirect, From and To each hold one identity. For EdgeFanOut, From
// holds one identity and To holds every broadcast destination. For EdgeFanIn,
// From holds every upstream identity and To holds the single join destination.
type Edge struct {
	Kind EdgeKind
	From []string
	To   []string
}

func (e Edge) clone() Edge {
	return Edge{
		Kind: e.Kind,
		From: append([]string(nil), e.From...),
		To:   append([]string(nil), e.To...),
	}
}
