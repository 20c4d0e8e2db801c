// Package evaluation runs test cases and agent conversations through the
// metric evaluators and aggregates the graded outcomes. Everything below
// the request-validation boundary degrades instead of failing: a broken
// judge call, metric, agent, or sink shows up as low scores and diagnostic
// explanations, never as an aborted evaluation.
package evaluation

import (
	"context"
	"time"

	"github.com/stellarlinkco/agent-judge/internal/model"
)

// AgentFunc produces an agent response for one test-case input. The
// context carries the per-call execution deadline.
type AgentFunc func(ctx context.Context, input string, agentContext map[string]any) (string, error)

// EvaluationRequest is one validated single-agent evaluation: an agent
// identity plus the test cases and metrics to grade it with.
type EvaluationRequest struct {
	AgentID        string           `json:"agent_id"`
	TestCases      []model.TestCase `json:"test_cases"`
	Evaluators     []model.Metric   `json:"evaluators"`
	ProjectName    string           `json:"project_name,omitempty"`
	ExperimentName string           `json:"experiment_name,omitempty"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
}

// MultiAgentEvaluationRequest is one validated whole-conversation
// evaluation.
type MultiAgentEvaluationRequest struct {
	WorkflowID     string                  `json:"workflow_id"`
	WorkflowType   model.WorkflowType      `json:"workflow_type"`
	Conversation   model.AgentConversation `json:"conversation"`
	Evaluators     []model.Metric          `json:"evaluators"`
	ProjectName    string                  `json:"project_name,omitempty"`
	ExperimentName string                  `json:"experiment_name,omitempty"`
	Metadata       map[string]any          `json:"metadata,omitempty"`
}

// AgentSummary is the upward-facing result of a single-agent evaluation:
// per-case results plus the aggregate counts over them.
type AgentSummary struct {
	SessionID    string                   `json:"session_id"`
	AgentID      string                   `json:"agent_id"`
	TotalTests   int                      `json:"total_tests"`
	PassedTests  int                      `json:"passed_tests"`
	FailedTests  int                      `json:"failed_tests"`
	AverageScore float64                  `json:"average_score"`
	Results      []model.EvaluationResult `json:"results"`
}

// WorkflowSummary is the upward-facing result of a multi-agent
// evaluation.
type WorkflowSummary struct {
	SessionID    string                 `json:"session_id"`
	WorkflowID   string                 `json:"workflow_id"`
	WorkflowType model.WorkflowType     `json:"workflow_type"`
	Result       model.EvaluationResult `json:"result"`
}

// BatchItem is one entry in a heterogeneous batch. Type "multiagent"
// selects the workflow path; any other value, including absence, means
// single-agent.
// Items arrive over HTTP as JSON and from CLI batch files as YAML, so
// every field carries both tag forms with the same key.
type BatchItem struct {
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	AgentID   string           `json:"agent_id,omitempty" yaml:"agent_id,omitempty"`
	TestCases []model.TestCase `json:"test_cases,omitempty" yaml:"test_cases,omitempty"`

	WorkflowID   string               `json:"workflow_id,omitempty" yaml:"workflow_id,omitempty"`
	WorkflowType string               `json:"workflow_type,omitempty" yaml:"workflow_type,omitempty"`
	Agents       []string             `json:"agents,omitempty" yaml:"agents,omitempty"`
	Messages     []model.AgentMessage `json:"conversation_messages,omitempty" yaml:"conversation_messages,omitempty"`

	Evaluators []string       `json:"evaluators" yaml:"evaluators"`
	Metadata   map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// BatchItemResult is one batch entry's outcome: exactly one of Agent,
// Workflow, or Error is populated. Failed entries carry the request back
// so the caller can tell which input produced the error.
type BatchItemResult struct {
	Agent    *AgentSummary    `json:"agent,omitempty"`
	Workflow *WorkflowSummary `json:"workflow,omitempty"`
	Error    string           `json:"error,omitempty"`
	Request  *BatchItem       `json:"request,omitempty"`
}

// Failed reports whether this entry errored rather than completing.
func (r BatchItemResult) Failed() bool { return r.Error != "" }

// BatchSummary aggregates a batch run. Test counts and the overall
// average cover only the entries that completed; failed entries are
// counted separately and excluded.
type BatchSummary struct {
	BatchID               string            `json:"batch_id"`
	TotalEvaluations      int               `json:"total_evaluations"`
	SuccessfulEvaluations int               `json:"successful_evaluations"`
	FailedEvaluations     int               `json:"failed_evaluations"`
	TotalTests            int               `json:"total_tests"`
	PassedTests           int               `json:"passed_tests"`
	FailedTests           int               `json:"failed_tests"`
	OverallAverageScore   float64           `json:"overall_average_score"`
	ExecutionTimeMS       float64           `json:"execution_time_ms"`
	Results               []BatchItemResult `json:"results"`
	Timestamp             time.Time         `json:"timestamp"`
}
