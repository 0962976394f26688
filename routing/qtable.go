package routing

import "sort"

// === QEntry ===

// QEntry maps candidate actions to learned Q-values for one flow.
// Actions are inserted lazily; there is no fixed action set. Insertion
// order is preserved so ArgMax ties break deterministically (first
// maximum encountered), which plain map iteration would not give.
type QEntry struct {
	order  []Action
	values map[Action]float64
}

// NewQEntry creates an empty entry.
func NewQEntry() *QEntry {
	return &QEntry{values: make(map[Action]float64)}
}

// Get returns the value for action and whether it is present.
func (e *QEntry) Get(action Action) (float64, bool) {
	v, ok := e.values[action]
	return v, ok
}

// GetOr returns the value for action, or def when absent.
func (e *QEntry) GetOr(action Action, def float64) float64 {
	if v, ok := e.values[action]; ok {
		return v
	}
	return def
}

// Set stores value for action, appending to the insertion order on first
// insert.
func (e *QEntry) Set(action Action, value float64) {
	if _, ok := e.values[action]; !ok {
		e.order = append(e.order, action)
	}
	e.values[action] = value
}

// Len returns the number of candidate actions.
func (e *QEntry) Len() int {
	return len(e.values)
}

// Actions returns the candidate actions in insertion order.
func (e *QEntry) Actions() []Action {
	out := make([]Action, len(e.order))
	copy(out, e.order)
	return out
}

// Max returns the maximum value over all actions, 0 when the entry is
// empty. The 0 default is what makes the next-state bootstrap in
// LocalStore.Update total.
func (e *QEntry) Max() float64 {
	if len(e.order) == 0 {
		return 0
	}
	max := e.values[e.order[0]]
	for _, a := range e.order[1:] {
		if v := e.values[a]; v > max {
			max = v
		}
	}
	return max
}

// ArgMax returns the first action (in insertion order) holding the
// maximum value. ok is false when the entry is empty.
func (e *QEntry) ArgMax() (best Action, value float64, ok bool) {
	if len(e.order) == 0 {
		return "", 0, false
	}
	best = e.order[0]
	value = e.values[best]
	for _, a := range e.order[1:] {
		if v := e.values[a]; v > value {
			best, value = a, v
		}
	}
	return best, value, true
}

// Clone returns a deep copy of the entry.
func (e *QEntry) Clone() *QEntry {
	c := &QEntry{
		order:  make([]Action, len(e.order)),
		values: make(map[Action]float64, len(e.values)),
	}
	copy(c.order, e.order)
	for a, v := range e.values {
		c.values[a] = v
	}
	return c
}

// === FlowTable ===

// FlowTable maps (source, destination) flows to Q-entries. All accessors
// auto-create missing levels, so lookups are total. Entries are never
// evicted; growth is bounded only by the number of distinct flows.
type FlowTable struct {
	flows map[Address]map[Address]*QEntry
}

// NewFlowTable creates an empty table.
func NewFlowTable() *FlowTable {
	return &FlowTable{flows: make(map[Address]map[Address]*QEntry)}
}

// Entry returns the QEntry for (src, dst), inserting an empty one on
// first access.
func (t *FlowTable) Entry(src, dst Address) *QEntry {
	dsts, ok := t.flows[src]
	if !ok {
		dsts = make(map[Address]*QEntry)
		t.flows[src] = dsts
	}
	entry, ok := dsts[dst]
	if !ok {
		entry = NewQEntry()
		dsts[dst] = entry
	}
	return entry
}

// Lookup returns the QEntry for (src, dst) without inserting.
func (t *FlowTable) Lookup(src, dst Address) (*QEntry, bool) {
	if dsts, ok := t.flows[src]; ok {
		if entry, ok := dsts[dst]; ok {
			return entry, true
		}
	}
	return nil, false
}

// Sources returns all source addresses in sorted order.
func (t *FlowTable) Sources() []Address {
	out := make([]Address, 0, len(t.flows))
	for src := range t.flows {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Destinations returns all destination addresses under src in sorted
// order, nil when src is absent.
func (t *FlowTable) Destinations(src Address) []Address {
	dsts, ok := t.flows[src]
	if !ok {
		return nil
	}
	out := make([]Address, 0, len(dsts))
	for dst := range dsts {
		out = append(out, dst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MaxUnder returns the maximum value over every QEntry stored under the
// given source key, 0 when none exist. This is the lookup shape the
// Q-update bootstraps its next-state estimate from: the packet's
// destination indexed as if it were a source one hop forward.
func (t *FlowTable) MaxUnder(src Address) float64 {
	dsts, ok := t.flows[src]
	if !ok {
		return 0
	}
	max := 0.0
	first := true
	for _, entry := range dsts {
		if entry.Len() == 0 {
			continue
		}
		if m := entry.Max(); first || m > max {
			max = m
			first = false
		}
	}
	if first {
		return 0
	}
	return max
}

// Clone returns a deep copy: mutating the copy never affects the
// original.
func (t *FlowTable) Clone() *FlowTable {
	c := NewFlowTable()
	for src, dsts := range t.flows {
		cd := make(map[Address]*QEntry, len(dsts))
		for dst, entry := range dsts {
			cd[dst] = entry.Clone()
		}
		c.flows[src] = cd
	}
	return c
}

// Export flattens the table into plain nested maps for serialization.
func (t *FlowTable) Export() map[Address]map[Address]map[Action]float64 {
	out := make(map[Address]map[Address]map[Action]float64, len(t.flows))
	for src, dsts := range t.flows {
		od := make(map[Address]map[Action]float64, len(dsts))
		for dst, entry := range dsts {
			oe := make(map[Action]float64, entry.Len())
			for _, a := range entry.order {
				oe[a] = entry.values[a]
			}
			od[dst] = oe
		}
		out[src] = od
	}
	return out
}

// === LocalStore ===

// LocalStore holds one independent Q-table per datapath. Each table is
// updated only by packets observed at that switch, and overwritten
// wholesale on redistribution.
type LocalStore struct {
	cfg    LearningConfig
	tables map[DatapathID]*FlowTable
}

// NewLocalStore creates an empty store with the given learning
// parameters.
func NewLocalStore(cfg LearningConfig) *LocalStore {
	return &LocalStore{
		cfg:    cfg,
		tables: make(map[DatapathID]*FlowTable),
	}
}

// Table returns dpid's table, inserting an empty one on first access.
func (s *LocalStore) Table(dpid DatapathID) *FlowTable {
	t, ok := s.tables[dpid]
	if !ok {
		t = NewFlowTable()
		s.tables[dpid] = t
	}
	return t
}

// Datapaths returns all known datapaths in sorted order, so aggregation
// visits them deterministically.
func (s *LocalStore) Datapaths() []DatapathID {
	out := make([]DatapathID, 0, len(s.tables))
	for dpid := range s.tables {
		out = append(out, dpid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Replace overwrites dpid's entire table. Used by redistribution; the
// caller must pass a table it will not mutate afterward.
func (s *LocalStore) Replace(dpid DatapathID, table *FlowTable) {
	s.tables[dpid] = table
}

// Update applies the one-step Q-learning rule for the given observation
// and returns the stored value:
//
//	q ← q + lr·(reward + discount·nextMax − q)
//
// where nextMax bootstraps from this datapath's table indexed by dst as a
// source key (FlowTable.MaxUnder), not from the (·, dst) entries. That
// lookup shape is kept for parity with the controller this core was
// derived from; for a flow whose destination never appears as a source,
// nextMax is 0.
func (s *LocalStore) Update(dpid DatapathID, src, dst Address, action Action, reward float64) float64 {
	table := s.Table(dpid)
	entry := table.Entry(src, dst)
	oldValue := entry.GetOr(action, 0)
	nextMax := table.MaxUnder(dst)
	newValue := oldValue + s.cfg.LearningRate*(reward+s.cfg.DiscountFactor*nextMax-oldValue)
	entry.Set(action, newValue)
	return newValue
}

// === GlobalStore ===

// GlobalStore is the single federated Q-table shared across all switches.
// It is mutated only by the Aggregator's merge and read by the decision
// policy; after every redistribution all switches hold a deep copy of it.
type GlobalStore struct {
	flows *FlowTable
}

// NewGlobalStore creates an empty global store.
func NewGlobalStore() *GlobalStore {
	return &GlobalStore{flows: NewFlowTable()}
}

// Entry returns the global QEntry for (src, dst), inserting an empty one
// on first access.
func (g *GlobalStore) Entry(src, dst Address) *QEntry {
	return g.flows.Entry(src, dst)
}

// Lookup returns the global QEntry for (src, dst) without inserting.
func (g *GlobalStore) Lookup(src, dst Address) (*QEntry, bool) {
	return g.flows.Lookup(src, dst)
}

// Clone returns a deep copy of the global table for redistribution.
func (g *GlobalStore) Clone() *FlowTable {
	return g.flows.Clone()
}

// Export flattens the global table for serialization.
func (g *GlobalStore) Export() map[Address]map[Address]map[Action]float64 {
	return g.flows.Export()
}
