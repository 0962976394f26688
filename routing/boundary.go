package routing

// InstalledRule is one InstallDefaultRule effect captured by a
// RecordingBoundary.
type InstalledRule struct {
	Datapath DatapathID
	Rule     FlowRule
}

// ForwardedPacket is one Forward effect captured by a RecordingBoundary.
type ForwardedPacket struct {
	Event  PacketEvent
	Action Action
}

// RecordingBoundary is an in-memory Boundary that logs every effect.
// Used by the simulate command and by tests; it never fails.
type RecordingBoundary struct {
	Rules    []InstalledRule
	Forwards []ForwardedPacket
}

// NewRecordingBoundary creates an empty RecordingBoundary.
func NewRecordingBoundary() *RecordingBoundary {
	return &RecordingBoundary{}
}

// InstallDefaultRule implements Boundary.
func (b *RecordingBoundary) InstallDefaultRule(dpid DatapathID, rule FlowRule) error {
	b.Rules = append(b.Rules, InstalledRule{Datapath: dpid, Rule: rule})
	return nil
}

// Forward implements Boundary.
func (b *RecordingBoundary) Forward(ev PacketEvent, action Action) error {
	b.Forwards = append(b.Forwards, ForwardedPacket{Event: ev, Action: action})
	return nil
}
