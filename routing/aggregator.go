package routing

import "math/rand"

// Aggregator merges every local Q-table into the global table and pushes
// the result back down, on a probabilistic per-event schedule.
type Aggregator struct {
	probability float64
	rng         *rand.Rand
}

// NewAggregator creates an Aggregator. rng must be the dedicated
// aggregation stream so trigger sequences are reproducible under a fixed
// RunKey.
func NewAggregator(cfg AggregationConfig, rng *rand.Rand) *Aggregator {
	return &Aggregator{probability: cfg.Probability, rng: rng}
}

// ShouldAggregate runs one Bernoulli trial. Independent across calls;
// there is no timer.
func (a *Aggregator) ShouldAggregate() bool {
	return a.rng.Float64() < a.probability
}

// Aggregate merges all local tables into the global store and returns the
// number of action values merged.
//
// The merge is a sequential pairwise average: the first datapath to
// contribute a (src, dst, action) key copies its value verbatim, each
// later contributor replaces the global value with the mean of the
// running global value and its own. For a key touched by N datapaths the
// result therefore depends on merge order — it is NOT the N-way mean.
// That semantics is deliberate (parity with the original controller);
// datapaths are visited in sorted order so the result is at least
// reproducible.
func (a *Aggregator) Aggregate(local *LocalStore, global *GlobalStore) int {
	merged := 0
	for _, dpid := range local.Datapaths() {
		table := local.Table(dpid)
		for _, src := range table.Sources() {
			for _, dst := range table.Destinations(src) {
				entry, _ := table.Lookup(src, dst)
				globalEntry := global.Entry(src, dst)
				for _, action := range entry.Actions() {
					value, _ := entry.Get(action)
					if existing, ok := globalEntry.Get(action); ok {
						globalEntry.Set(action, (existing+value)/2)
					} else {
						globalEntry.Set(action, value)
					}
					merged++
				}
			}
		}
	}
	return merged
}

// Redistribute overwrites every datapath's entire local table with a deep
// copy of the global store. Full synchronization: any local
// specialization accumulated since the last aggregation is discarded, and
// no two datapaths share entry pointers afterward.
func (a *Aggregator) Redistribute(local *LocalStore, global *GlobalStore) {
	for _, dpid := range local.Datapaths() {
		local.Replace(dpid, global.Clone())
	}
}
