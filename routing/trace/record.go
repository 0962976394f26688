// Package trace provides decision-trace recording for routing-core
// analysis. This package has no dependencies on routing/ — it stores pure
// data types.
package trace

// DecisionRecord captures a single routing decision.
type DecisionRecord struct {
	EventID  string
	Datapath string
	Src      string
	Dst      string
	Action   string
	QValue   float64 // global Q-value of the chosen action at decision time
	Trust    float64 // source trust at decision time
	Fallback bool    // low trust forced the flood action
}

// AggregationRecord captures one aggregate+redistribute round.
type AggregationRecord struct {
	Sequence     int // 1-based round counter
	Datapaths    int // local tables merged
	MergedValues int // action values folded into the global table
}
