package routing

// DefaultTrust is the score assumed for a never-seen address: full trust.
const DefaultTrust = 1.0

// TrustTracker maintains a decaying reputation score per source address.
// Scores are an exponential moving average of observed success rates: with
// smoothing α, each update computes α·prev + (1-α)·successRate, so a score
// never jumps discontinuously and is pulled toward the most recent
// observation. Entries are never evicted.
type TrustTracker struct {
	smoothing float64
	scores    map[Address]float64
}

// NewTrustTracker creates an empty tracker with the given EMA parameters.
func NewTrustTracker(cfg TrustConfig) *TrustTracker {
	return &TrustTracker{
		smoothing: cfg.Smoothing,
		scores:    make(map[Address]float64),
	}
}

// TrustOf returns the current score for addr, DefaultTrust if unseen.
func (t *TrustTracker) TrustOf(addr Address) float64 {
	if score, ok := t.scores[addr]; ok {
		return score
	}
	return DefaultTrust
}

// UpdateTrust folds successRate into addr's score and returns the new
// score. successRate is assumed caller-validated to [0,1]; out-of-range
// inputs are not rejected and will produce out-of-range scores.
func (t *TrustTracker) UpdateTrust(addr Address, successRate float64) float64 {
	score := t.smoothing*t.TrustOf(addr) + (1-t.smoothing)*successRate
	t.scores[addr] = score
	return score
}

// Len returns the number of tracked addresses.
func (t *TrustTracker) Len() int {
	return len(t.scores)
}

// Snapshot returns a copy of the trust table. Unseen addresses are absent
// (they implicitly hold DefaultTrust).
func (t *TrustTracker) Snapshot() map[Address]float64 {
	out := make(map[Address]float64, len(t.scores))
	for addr, score := range t.scores {
		out[addr] = score
	}
	return out
}
