package model

import "time"

// DefaultThreshold is the passing threshold applied to individual metric
// scores and to overall results.
const DefaultThreshold = 0.7

// TestCase is one (input, expected output) pair used to exercise a
// single-agent evaluation. Immutable once created. Decoded from both
// JSON requests and YAML batch files, so fields carry both tag forms.
type TestCase struct {
	ID             string         `json:"id,omitempty" yaml:"id,omitempty"`
	Input          string         `json:"input" yaml:"input"`
	ExpectedOutput string         `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`
	Context        map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	SessionID      string         `json:"session_id,omitempty" yaml:"session_id,omitempty"`
}

// AgentMessage is a single message in an agent conversation.
type AgentMessage struct {
	FromAgent string         `json:"from_agent" yaml:"from_agent"`
	ToAgent   string         `json:"to_agent" yaml:"to_agent"`
	Message   string         `json:"message" yaml:"message"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// AgentConversation is an ordered exchange of messages between named
// agents, evaluated as a unit.
//
// Agents is caller-supplied and deliberately not reconciled against the
// sender/receiver ids appearing in Messages, so agent counts reported in
// result metadata reflect the caller's declaration, not the literal set
// of conversants.
type AgentConversation struct {
	ConversationID string         `json:"conversation_id"`
	Agents         []string       `json:"agents"`
	Messages       []AgentMessage `json:"messages"`
	WorkflowType   WorkflowType   `json:"workflow_type"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// EvaluationScore is one metric's graded outcome for an evaluated unit.
type EvaluationScore struct {
	Metric      Metric  `json:"metric"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation,omitempty"`
	Passed      bool    `json:"passed"`
	Threshold   float64 `json:"threshold"`
}

// NewScore builds an EvaluationScore against the default threshold.
func NewScore(metric Metric, score float64, explanation string) EvaluationScore {
	return EvaluationScore{
		Metric:      metric,
		Score:       score,
		Explanation: explanation,
		Passed:      score >= DefaultThreshold,
		Threshold:   DefaultThreshold,
	}
}

// EvaluationResult is the graded outcome for one evaluated unit: a single
// test case or a whole conversation.
type EvaluationResult struct {
	EvaluationID    string            `json:"evaluation_id"`
	AgentID         string            `json:"agent_id,omitempty"`
	WorkflowID      string            `json:"workflow_id,omitempty"`
	TestCaseID      string            `json:"test_case_id,omitempty"`
	Scores          []EvaluationScore `json:"scores"`
	OverallScore    float64           `json:"overall_score"`
	Passed          bool              `json:"passed"`
	ExecutionTimeMS float64           `json:"execution_time_ms"`
	Timestamp       time.Time         `json:"timestamp"`
	TraceID         string            `json:"trace_id,omitempty"`
	SessionID       string            `json:"session_id,omitempty"`
	Metadata        map[string]any    `json:"metadata,omitempty"`
}

// OverallScore is the arithmetic mean of the component scores, 0.0 when
// there are none.
func OverallScore(scores []EvaluationScore) float64 {
	if len(scores) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s.Score
	}
	return sum / float64(len(scores))
}

// WithAppendedScore returns a copy of the result with one more score and
// OverallScore/Passed recomputed over the extended list. This is the only
// sanctioned way to extend a completed result.
func (r EvaluationResult) WithAppendedScore(score EvaluationScore) EvaluationResult {
	scores := make([]EvaluationScore, 0, len(r.Scores)+1)
	scores = append(scores, r.Scores...)
	scores = append(scores, score)

	r.Scores = scores
	r.OverallScore = OverallScore(scores)
	r.Passed = r.OverallScore >= DefaultThreshold
	return r
}

// BatchEvaluationResult aggregates the results of a heterogeneous batch.
type BatchEvaluationResult struct {
	BatchID         string             `json:"batch_id"`
	Results         []EvaluationResult `json:"results"`
	TotalTests      int                `json:"total_tests"`
	PassedTests     int                `json:"passed_tests"`
	FailedTests     int                `json:"failed_tests"`
	AverageScore    float64            `json:"average_score"`
	ExecutionTimeMS float64            `json:"execution_time_ms"`
	Timestamp       time.Time          `json:"timestamp"`
}
