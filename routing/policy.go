package routing

import "math/rand"

// Decision is the outcome of one routing decision.
type Decision struct {
	Action   Action  // chosen output action
	QValue   float64 // global Q-value of the chosen action (0 if untracked)
	Trust    float64 // source trust score at decision time
	Fallback bool    // true when low trust forced the flood action
}

// DecisionPolicy selects an output action for a flow from the global
// table, gated by the trust score of the source.
type DecisionPolicy struct {
	global    *GlobalStore
	trust     *TrustTracker
	threshold float64
	rng       *rand.Rand
}

// NewDecisionPolicy creates a policy reading from global and trust. rng
// must be the dedicated decision stream; it seeds initial Q-values for
// never-seen flows.
func NewDecisionPolicy(global *GlobalStore, trust *TrustTracker, threshold float64, rng *rand.Rand) *DecisionPolicy {
	return &DecisionPolicy{global: global, trust: trust, threshold: threshold, rng: rng}
}

// Decide returns the action for (src, dst).
//
// A never-seen flow is first seeded with the flood action at a uniform
// random value in [0,1), so the argmax below is always well-defined and a
// cold decision trivially returns flood. The argmax breaks ties in favor
// of the first maximum in entry insertion order. When the source's trust
// is below the threshold the learned action is discarded and the flood
// fallback returned instead, whatever the table says.
func (p *DecisionPolicy) Decide(src, dst Address) Decision {
	entry, ok := p.global.Lookup(src, dst)
	if !ok || entry.Len() == 0 {
		entry = p.global.Entry(src, dst)
		entry.Set(ActionFlood, p.rng.Float64())
	}

	best, value, _ := entry.ArgMax()

	trust := p.trust.TrustOf(src)
	if trust < p.threshold {
		return Decision{
			Action:   ActionFlood,
			QValue:   entry.GetOr(ActionFlood, 0),
			Trust:    trust,
			Fallback: true,
		}
	}
	return Decision{Action: best, QValue: value, Trust: trust}
}
