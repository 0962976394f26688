package trace

// Summary aggregates statistics from a DecisionTrace.
type Summary struct {
	TotalDecisions     int
	FallbackCount      int
	FallbackRate       float64
	UniqueFlows        int
	MeanTrust          float64
	ActionDistribution map[string]int // action → count of decisions
	AggregationRounds  int
	MergedValues       int // total action values merged across all rounds
}

// Summarize computes aggregate statistics from a DecisionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(dt *DecisionTrace) *Summary {
	summary := &Summary{
		ActionDistribution: make(map[string]int),
	}
	if dt == nil {
		return summary
	}

	summary.TotalDecisions = len(dt.Decisions)
	flows := make(map[[2]string]bool)
	totalTrust := 0.0
	for _, d := range dt.Decisions {
		summary.ActionDistribution[d.Action]++
		if d.Fallback {
			summary.FallbackCount++
		}
		flows[[2]string{d.Src, d.Dst}] = true
		totalTrust += d.Trust
	}
	summary.UniqueFlows = len(flows)
	if summary.TotalDecisions > 0 {
		summary.FallbackRate = float64(summary.FallbackCount) / float64(summary.TotalDecisions)
		summary.MeanTrust = totalTrust / float64(summary.TotalDecisions)
	}

	summary.AggregationRounds = len(dt.Aggregations)
	for _, a := range dt.Aggregations {
		summary.MergedValues += a.MergedValues
	}

	return summary
}
