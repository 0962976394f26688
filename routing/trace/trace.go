package trace

// Level controls the verbosity of decision tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelDecisions captures all routing decisions and aggregation
	// rounds.
	LevelDecisions Level = "decisions"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:      true,
	LevelDecisions: true,
	"":             true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized
// trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Config controls trace collection behavior.
type Config struct {
	Level Level
}

// DecisionTrace collects decision and aggregation records during a run.
type DecisionTrace struct {
	Config       Config
	Decisions    []DecisionRecord
	Aggregations []AggregationRecord
}

// NewDecisionTrace creates a DecisionTrace ready for recording.
func NewDecisionTrace(config Config) *DecisionTrace {
	return &DecisionTrace{
		Config:       config,
		Decisions:    make([]DecisionRecord, 0),
		Aggregations: make([]AggregationRecord, 0),
	}
}

// Enabled reports whether records should be collected.
func (dt *DecisionTrace) Enabled() bool {
	return dt != nil && dt.Config.Level == LevelDecisions
}

// RecordDecision appends a routing decision record.
func (dt *DecisionTrace) RecordDecision(record DecisionRecord) {
	dt.Decisions = append(dt.Decisions, record)
}

// RecordAggregation appends an aggregation round record.
func (dt *DecisionTrace) RecordAggregation(record AggregationRecord) {
	dt.Aggregations = append(dt.Aggregations, record)
}
