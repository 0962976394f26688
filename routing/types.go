package routing

// Address identifies a network endpoint (a MAC-like token).
// Opaque; compared by equality only.
type Address string

// DatapathID identifies a single switch instance.
type DatapathID string

// Action identifies an output decision for a flow.
type Action string

// ActionFlood is the reserved broadcast action. It is the universal safe
// fallback and the only candidate action known a priori for a never-seen
// flow.
const ActionFlood Action = "flood"

// PacketEvent is delivered by the boundary for every packet punted to the
// decision path.
type PacketEvent struct {
	ID       string     // boundary-assigned event ID (may be empty)
	Datapath DatapathID // switch that observed the packet
	Src      Address
	Dst      Address
	InPort   int
	Buffered bool   // payload is buffered at the switch; Forward must not resend it
	Payload  []byte // raw payload when not buffered
}

// FlowRule describes a flow-table rule the core asks the boundary to install.
type FlowRule struct {
	Priority         int
	MatchAll         bool
	SendToController bool
}

// DefaultFlowRule is installed on every switch handshake: lowest priority,
// match everything, punt to the decision path.
func DefaultFlowRule() FlowRule {
	return FlowRule{Priority: 0, MatchAll: true, SendToController: true}
}

// Boundary receives the effects the core emits. Implementations translate
// them into whatever the southbound protocol needs (OpenFlow messages,
// JSON frames, an in-memory log for tests).
type Boundary interface {
	// InstallDefaultRule is emitted once per switch handshake.
	InstallDefaultRule(dpid DatapathID, rule FlowRule) error
	// Forward emits the routing decision for a packet event. The event is
	// passed back so the boundary can honor the Buffered flag.
	Forward(ev PacketEvent, action Action) error
}
