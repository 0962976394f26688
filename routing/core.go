package routing

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fedroute/fedroute/routing/trace"
)

const (
	// DefaultReward is applied to every local Q-update. Real
	// delivery-success feedback is not measured; the boundary would have
	// to supply it.
	DefaultReward = 1.0

	// PlaceholderSuccessRate is fed to every trust update. Placeholder
	// for an observed per-source delivery success rate.
	PlaceholderSuccessRate = 0.9
)

// Core orchestrates decision, learning, trust and aggregation for every
// boundary event. All state lives for the process lifetime; nothing is
// persisted or evicted.
//
// Events are handled to completion under a single mutex, including any
// triggered aggregation round, so a concurrent boundary (one goroutine
// per switch connection) can never observe a torn snapshot across the
// three stores.
type Core struct {
	mu sync.Mutex

	cfg        Config
	local      *LocalStore
	global     *GlobalStore
	trust      *TrustTracker
	policy     *DecisionPolicy
	aggregator *Aggregator

	boundary Boundary
	trace    *trace.DecisionTrace

	aggregations int
}

// NewCore wires up a routing core. rec may be nil to disable tracing.
func NewCore(cfg Config, rng *PartitionedRNG, boundary Boundary, rec *trace.DecisionTrace) *Core {
	global := NewGlobalStore()
	trust := NewTrustTracker(cfg.Trust)
	return &Core{
		cfg:        cfg,
		local:      NewLocalStore(cfg.Learning),
		global:     global,
		trust:      trust,
		policy:     NewDecisionPolicy(global, trust, cfg.Trust.Threshold, rng.ForSubsystem(SubsystemDecision)),
		aggregator: NewAggregator(cfg.Aggregation, rng.ForSubsystem(SubsystemAggregation)),
		boundary:   boundary,
		trace:      rec,
	}
}

// OnSwitchConnected handles a completed switch handshake: install the
// lowest-priority match-everything rule that punts unmatched traffic to
// the decision path.
func (c *Core) OnSwitchConnected(dpid DatapathID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	logrus.Infof("Handshake completed with %s", dpid)
	return c.boundary.InstallDefaultRule(dpid, DefaultFlowRule())
}

// OnPacketObserved handles one observed packet: decide, forward, learn,
// update trust, and maybe aggregate. The returned Decision is what was
// forwarded; a Forward error is reported after learning completes, since
// the stores must advance regardless of southbound delivery.
func (c *Core) OnPacketObserved(ev PacketEvent) (Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	decision := c.policy.Decide(ev.Src, ev.Dst)

	err := c.boundary.Forward(ev, decision.Action)
	logrus.Infof("Packet from %s to %s forwarded via %s", ev.Src, ev.Dst, decision.Action)

	newValue := c.local.Update(ev.Datapath, ev.Src, ev.Dst, decision.Action, DefaultReward)
	logrus.Debugf("Updated local Q-value for datapath %s, %s->%s action %s: %v",
		ev.Datapath, ev.Src, ev.Dst, decision.Action, newValue)

	newTrust := c.trust.UpdateTrust(ev.Src, PlaceholderSuccessRate)
	logrus.Debugf("Updated trust value for node %s: %v", ev.Src, newTrust)

	if c.trace.Enabled() {
		c.trace.RecordDecision(trace.DecisionRecord{
			EventID:  ev.ID,
			Datapath: string(ev.Datapath),
			Src:      string(ev.Src),
			Dst:      string(ev.Dst),
			Action:   string(decision.Action),
			QValue:   decision.QValue,
			Trust:    decision.Trust,
			Fallback: decision.Fallback,
		})
	}

	if c.aggregator.ShouldAggregate() {
		c.runAggregation()
	}

	return decision, err
}

// runAggregation executes one aggregate+redistribute round. Caller holds
// the lock.
func (c *Core) runAggregation() {
	datapaths := len(c.local.Datapaths())
	merged := c.aggregator.Aggregate(c.local, c.global)
	c.aggregator.Redistribute(c.local, c.global)
	c.aggregations++
	logrus.Infof("Global Q-values aggregated and redistributed (round %d, %d datapaths, %d values)",
		c.aggregations, datapaths, merged)

	if c.trace.Enabled() {
		c.trace.RecordAggregation(trace.AggregationRecord{
			Sequence:     c.aggregations,
			Datapaths:    datapaths,
			MergedValues: merged,
		})
	}
}

// GlobalSnapshot returns a serializable copy of the global Q-table.
func (c *Core) GlobalSnapshot() map[Address]map[Address]map[Action]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.global.Export()
}

// TrustSnapshot returns a copy of the trust table.
func (c *Core) TrustSnapshot() map[Address]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trust.Snapshot()
}

// Aggregations returns the number of completed aggregation rounds.
func (c *Core) Aggregations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aggregations
}
