package routing

import "fmt"

// LearningConfig groups the Q-learning update parameters.
type LearningConfig struct {
	LearningRate   float64 `yaml:"learning_rate"`   // step size toward the TD target (must be in (0,1])
	DiscountFactor float64 `yaml:"discount_factor"` // weight of the next-state estimate (must be in [0,1])
}

// TrustConfig groups the trust EMA parameters.
type TrustConfig struct {
	Smoothing float64 `yaml:"smoothing"` // weight kept on the previous score (must be in [0,1))
	Threshold float64 `yaml:"threshold"` // below this, decisions fall back to flood
}

// AggregationConfig groups the federated aggregation parameters.
type AggregationConfig struct {
	// Probability of triggering aggregate+redistribute on each packet
	// event (a Bernoulli trial per event, not a timer).
	Probability float64 `yaml:"probability"`
	// Interval is parsed for compatibility with older deployments but the
	// trigger never reads it; the probabilistic trigger above is the
	// actual behavior.
	Interval int `yaml:"interval"`
}

// Config is the full configuration of the routing core.
type Config struct {
	Learning    LearningConfig    `yaml:"learning"`
	Trust       TrustConfig       `yaml:"trust"`
	Aggregation AggregationConfig `yaml:"aggregation"`
}

// DefaultConfig returns the stock parameters of the controller:
// learning rate 0.6, discount 0.95, trust EMA 0.9/0.1 with threshold 0.5,
// aggregation probability 0.05.
func DefaultConfig() Config {
	return Config{
		Learning:    LearningConfig{LearningRate: 0.6, DiscountFactor: 0.95},
		Trust:       TrustConfig{Smoothing: 0.9, Threshold: 0.5},
		Aggregation: AggregationConfig{Probability: 0.05, Interval: 10},
	}
}

// Validate reports the first out-of-range parameter.
func (c Config) Validate() error {
	if c.Learning.LearningRate <= 0 || c.Learning.LearningRate > 1 {
		return fmt.Errorf("learning_rate %v out of range (0,1]", c.Learning.LearningRate)
	}
	if c.Learning.DiscountFactor < 0 || c.Learning.DiscountFactor > 1 {
		return fmt.Errorf("discount_factor %v out of range [0,1]", c.Learning.DiscountFactor)
	}
	if c.Trust.Smoothing < 0 || c.Trust.Smoothing >= 1 {
		return fmt.Errorf("trust smoothing %v out of range [0,1)", c.Trust.Smoothing)
	}
	if c.Trust.Threshold < 0 || c.Trust.Threshold > 1 {
		return fmt.Errorf("trust threshold %v out of range [0,1]", c.Trust.Threshold)
	}
	if c.Aggregation.Probability < 0 || c.Aggregation.Probability > 1 {
		return fmt.Errorf("aggregation probability %v out of range [0,1]", c.Aggregation.Probability)
	}
	return nil
}
