package boundary

// EventMessage is one inbound frame from a controller shim. Type selects
// which fields are meaningful.
type EventMessage struct {
	Type     string `json:"type"` // "switch_connected" | "packet_observed" | "snapshot"
	Datapath string `json:"datapath,omitempty"`
	Src      string `json:"src,omitempty"`
	Dst      string `json:"dst,omitempty"`
	InPort   int    `json:"in_port,omitempty"`
	Buffered bool   `json:"buffered,omitempty"`
	Payload  []byte `json:"payload,omitempty"`
}

// Inbound event types.
const (
	EventSwitchConnected = "switch_connected"
	EventPacketObserved  = "packet_observed"
	EventSnapshot        = "snapshot"
)

// EffectMessage is one outbound frame. Type selects which fields are set.
type EffectMessage struct {
	Type     string `json:"type"` // "install_rule" | "forward" | "snapshot" | "error"
	Datapath string `json:"datapath,omitempty"`

	// install_rule fields
	Priority         int  `json:"priority,omitempty"`
	MatchAll         bool `json:"match_all,omitempty"`
	SendToController bool `json:"send_to_controller,omitempty"`

	// forward fields
	EventID  string `json:"event_id,omitempty"`
	Action   string `json:"action,omitempty"`
	Buffered bool   `json:"buffered,omitempty"`
	Payload  []byte `json:"payload,omitempty"`
	Cached   bool   `json:"cached,omitempty"` // served from the decision cache, core not consulted

	// snapshot fields
	Global map[string]map[string]map[string]float64 `json:"global,omitempty"`
	Trust  map[string]float64                       `json:"trust,omitempty"`

	Error string `json:"error,omitempty"`
}

// Outbound effect types.
const (
	EffectInstallRule = "install_rule"
	EffectForward     = "forward"
	EffectSnapshot    = "snapshot"
	EffectError       = "error"
)
