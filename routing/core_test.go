package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedroute/fedroute/routing/trace"
)

func newTestCore(seed int64, rec *trace.DecisionTrace) (*Core, *RecordingBoundary) {
	bnd := NewRecordingBoundary()
	core := NewCore(DefaultConfig(), NewPartitionedRNG(NewRunKey(seed)), bnd, rec)
	return core, bnd
}

func TestCore_SwitchConnectedInstallsDefaultRule(t *testing.T) {
	core, bnd := newTestCore(42, nil)

	require.NoError(t, core.OnSwitchConnected("dp1"))

	require.Len(t, bnd.Rules, 1)
	rule := bnd.Rules[0]
	assert.Equal(t, DatapathID("dp1"), rule.Datapath)
	assert.Equal(t, 0, rule.Rule.Priority)
	assert.True(t, rule.Rule.MatchAll)
	assert.True(t, rule.Rule.SendToController)
}

func TestCore_PacketObservedForwardsAndLearns(t *testing.T) {
	core, bnd := newTestCore(42, nil)

	ev := PacketEvent{
		ID:       "ev-1",
		Datapath: "dp1",
		Src:      "A",
		Dst:      "B",
		InPort:   2,
		Buffered: true,
	}
	d, err := core.OnPacketObserved(ev)
	require.NoError(t, err)

	// Cold flow, full default trust: flood, no fallback.
	assert.Equal(t, ActionFlood, d.Action)
	assert.False(t, d.Fallback)
	assert.Equal(t, 1.0, d.Trust, "decision uses trust from before the update")

	// The forward effect carries the original event, buffered flag intact.
	require.Len(t, bnd.Forwards, 1)
	assert.Equal(t, ev, bnd.Forwards[0].Event)
	assert.Equal(t, ActionFlood, bnd.Forwards[0].Action)

	// Local Q-table advanced with reward 1 and zero bootstrap: 0.6.
	entry, ok := core.local.Table("dp1").Lookup("A", "B")
	require.True(t, ok)
	v, _ := entry.Get(ActionFlood)
	assert.InDelta(t, 0.6, v, 1e-12)

	// Trust folded in the placeholder success rate once: 0.99.
	assert.InDelta(t, 0.99, core.trust.TrustOf("A"), 1e-12)
}

func TestCore_EveryPacketUpdatesTrustOfSourceOnly(t *testing.T) {
	core, _ := newTestCore(42, nil)

	for i := 0; i < 3; i++ {
		_, err := core.OnPacketObserved(PacketEvent{Datapath: "dp1", Src: "A", Dst: "B"})
		require.NoError(t, err)
	}

	// Three EMA steps toward 0.9 from 1.0.
	want := 1.0
	for i := 0; i < 3; i++ {
		want = 0.9*want + 0.1*PlaceholderSuccessRate
	}
	assert.InDelta(t, want, core.trust.TrustOf("A"), 1e-12)
	assert.Equal(t, DefaultTrust, core.trust.TrustOf("B"), "destination trust untouched")
}

func TestCore_AggregationTriggersAtConfiguredRate(t *testing.T) {
	rec := trace.NewDecisionTrace(trace.Config{Level: trace.LevelDecisions})
	core, _ := newTestCore(42, rec)

	for i := 0; i < 10000; i++ {
		_, err := core.OnPacketObserved(PacketEvent{Datapath: "dp1", Src: "A", Dst: "B"})
		require.NoError(t, err)
	}

	rounds := core.Aggregations()
	assert.Greater(t, rounds, 500-66, "3 sigma around 5% of 10000")
	assert.Less(t, rounds, 500+66)
	assert.Len(t, rec.Aggregations, rounds)
	assert.Len(t, rec.Decisions, 10000)
}

func TestCore_AggregationSynchronizesLocalTables(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Aggregation.Probability = 1 // every packet triggers a round
	bnd := NewRecordingBoundary()
	core := NewCore(cfg, NewPartitionedRNG(NewRunKey(42)), bnd, nil)

	_, err := core.OnPacketObserved(PacketEvent{Datapath: "dp1", Src: "A", Dst: "B"})
	require.NoError(t, err)
	_, err = core.OnPacketObserved(PacketEvent{Datapath: "dp2", Src: "A", Dst: "B"})
	require.NoError(t, err)

	// After the second round both datapaths hold identical deep copies of
	// the global table.
	want := core.global.Export()
	assert.Equal(t, want, core.local.Table("dp1").Export())
	assert.Equal(t, want, core.local.Table("dp2").Export())
}

func TestCore_SameSeedSameDecisions(t *testing.T) {
	run := func() []ForwardedPacket {
		core, bnd := newTestCore(1234, nil)
		events := []PacketEvent{
			{Datapath: "dp1", Src: "A", Dst: "B"},
			{Datapath: "dp1", Src: "B", Dst: "A"},
			{Datapath: "dp2", Src: "A", Dst: "C"},
			{Datapath: "dp2", Src: "C", Dst: "B"},
		}
		for _, ev := range events {
			_, err := core.OnPacketObserved(ev)
			require.NoError(t, err)
		}
		return bnd.Forwards
	}

	assert.Equal(t, run(), run())
}

func TestCore_SnapshotsAreCopies(t *testing.T) {
	core, _ := newTestCore(42, nil)
	_, err := core.OnPacketObserved(PacketEvent{Datapath: "dp1", Src: "A", Dst: "B"})
	require.NoError(t, err)

	global := core.GlobalSnapshot()
	global["A"]["B"][ActionFlood] = 1e9
	fresh := core.GlobalSnapshot()
	assert.NotEqual(t, 1e9, fresh["A"]["B"][ActionFlood])

	trustSnap := core.TrustSnapshot()
	trustSnap["A"] = -1
	assert.NotEqual(t, -1.0, core.trust.TrustOf("A"))
}
