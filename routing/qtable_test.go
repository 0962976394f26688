package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// === QEntry ===

func TestQEntry_MaxOnEmptyIsZero(t *testing.T) {
	e := NewQEntry()
	assert.Equal(t, 0.0, e.Max())

	_, _, ok := e.ArgMax()
	assert.False(t, ok)
}

func TestQEntry_ArgMaxFirstMaximumWins(t *testing.T) {
	// GIVEN two actions holding the same maximum value
	e := NewQEntry()
	e.Set("port:1", 2.5)
	e.Set("port:2", 2.5)
	e.Set("port:3", 1.0)

	// THEN the earlier-inserted action wins the tie
	best, value, ok := e.ArgMax()
	require.True(t, ok)
	assert.Equal(t, Action("port:1"), best)
	assert.Equal(t, 2.5, value)

	// WHEN a later action strictly exceeds the maximum it takes over
	e.Set("port:3", 3.0)
	best, value, _ = e.ArgMax()
	assert.Equal(t, Action("port:3"), best)
	assert.Equal(t, 3.0, value)
}

func TestQEntry_CloneIsIndependent(t *testing.T) {
	e := NewQEntry()
	e.Set(ActionFlood, 0.4)

	c := e.Clone()
	c.Set(ActionFlood, 9.0)
	c.Set("port:7", 1.0)

	v, _ := e.Get(ActionFlood)
	assert.Equal(t, 0.4, v)
	assert.Equal(t, 1, e.Len())
}

// === FlowTable ===

func TestFlowTable_EntryAutoCreates(t *testing.T) {
	table := NewFlowTable()

	_, ok := table.Lookup("a", "b")
	assert.False(t, ok)

	entry := table.Entry("a", "b")
	require.NotNil(t, entry)

	again, ok := table.Lookup("a", "b")
	require.True(t, ok)
	assert.Same(t, entry, again)
}

func TestFlowTable_MaxUnderUsesDestinationAsSourceKey(t *testing.T) {
	table := NewFlowTable()
	// Flows under source "b": the shape the Q-update bootstraps from.
	table.Entry("b", "c").Set("port:1", 4.0)
	table.Entry("b", "d").Set("port:2", 7.0)
	// Flows *to* "b" must not contribute.
	table.Entry("a", "b").Set("port:9", 100.0)

	assert.Equal(t, 7.0, table.MaxUnder("b"))
	assert.Equal(t, 0.0, table.MaxUnder("c"), "c never appears as a source")
}

func TestFlowTable_CloneIsDeep(t *testing.T) {
	table := NewFlowTable()
	table.Entry("a", "b").Set(ActionFlood, 0.25)

	clone := table.Clone()
	clone.Entry("a", "b").Set(ActionFlood, 99.0)
	clone.Entry("x", "y").Set("port:3", 1.0)

	orig, _ := table.Lookup("a", "b")
	v, _ := orig.Get(ActionFlood)
	assert.Equal(t, 0.25, v)
	_, ok := table.Lookup("x", "y")
	assert.False(t, ok)
}

// === LocalStore ===

func TestLocalStore_UpdateFromEmptyTable(t *testing.T) {
	// GIVEN a fresh local table (old value 0, nextMax 0)
	store := NewLocalStore(DefaultConfig().Learning)

	// WHEN one update with reward 1 arrives
	got := store.Update("dp1", "A", "B", ActionFlood, 1)

	// THEN q = 0 + 0.6*(1 + 0.95*0 - 0)
	assert.InDelta(t, 0.6, got, 1e-12)
}

func TestLocalStore_UpdateFromSeededValue(t *testing.T) {
	// GIVEN a local entry holding value v for the fallback action (as
	// after a redistribution copied the global init down)
	store := NewLocalStore(DefaultConfig().Learning)
	v := 0.3
	store.Table("dp1").Entry("A", "B").Set(ActionFlood, v)

	got := store.Update("dp1", "A", "B", ActionFlood, 1)

	// THEN q = v + 0.6*(1 + 0.95*0 - v) with nextMax 0
	want := v + 0.6*(1+0.95*0-v)
	assert.InDelta(t, want, got, 1e-12)
}

func TestLocalStore_UpdateBootstrapsFromDestinationAsSource(t *testing.T) {
	store := NewLocalStore(DefaultConfig().Learning)
	// "B" appears as a source one hop forward with max value 2.0.
	store.Table("dp1").Entry("B", "C").Set("port:1", 2.0)

	got := store.Update("dp1", "A", "B", ActionFlood, 1)

	// q = 0 + 0.6*(1 + 0.95*2.0 - 0)
	assert.InDelta(t, 0.6*(1+0.95*2.0), got, 1e-12)
}

func TestLocalStore_TablesAreIndependentPerDatapath(t *testing.T) {
	store := NewLocalStore(DefaultConfig().Learning)
	store.Update("dp1", "A", "B", ActionFlood, 1)

	_, ok := store.Table("dp2").Lookup("A", "B")
	assert.False(t, ok)
	assert.Equal(t, []DatapathID{"dp1", "dp2"}, store.Datapaths())
}
