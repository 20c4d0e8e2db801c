package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stellarlinkco/agent-judge/internal/model"
)

// Service is the upward boundary consumed by the transport layer. It
// accepts metric and workflow-type names as strings and validates them
// against the closed enumerations: an unrecognized name here is a hard
// error, unlike the internal accuracy fallback which only applies to
// already-validated values.
type Service struct {
	eval    *Evaluator
	agentFn AgentFunc
}

// NewService wires an Evaluator to the agent function it exercises.
func NewService(eval *Evaluator, agentFn AgentFunc) *Service {
	return &Service{eval: eval, agentFn: agentFn}
}

// EvaluateAgent validates and runs one single-agent evaluation. A fresh
// session id is minted for the request and stamped onto every test case;
// test cases without ids get one.
func (s *Service) EvaluateAgent(ctx context.Context, agentID string, testCases []model.TestCase, evaluatorNames []string, projectName, experimentName string, metadata map[string]any) (*AgentSummary, error) {
	if s == nil || s.eval == nil {
		return nil, fmt.Errorf("evaluation: service not configured")
	}
	if agentID == "" {
		return nil, fmt.Errorf("evaluation: missing agent id")
	}
	if len(testCases) == 0 {
		return nil, fmt.Errorf("evaluation: no test cases provided")
	}

	metrics, err := model.ParseMetrics(evaluatorNames)
	if err != nil {
		return nil, fmt.Errorf("evaluation: %w", err)
	}

	sessionID := uuid.NewString()
	cases := make([]model.TestCase, len(testCases))
	for i, tc := range testCases {
		if tc.ID == "" {
			tc.ID = uuid.NewString()
		}
		tc.SessionID = sessionID
		cases[i] = tc
	}

	req := EvaluationRequest{
		AgentID:        agentID,
		TestCases:      cases,
		Evaluators:     metrics,
		ProjectName:    projectName,
		ExperimentName: experimentName,
		Metadata:       metadata,
	}

	results := s.eval.EvaluateAgent(ctx, req, s.agentFn)

	summary := &AgentSummary{
		SessionID:    sessionID,
		AgentID:      agentID,
		TotalTests:   len(results),
		AverageScore: averageOverall(results),
		Results:      results,
	}
	for _, r := range results {
		if r.Passed {
			summary.PassedTests++
		} else {
			summary.FailedTests++
		}
	}
	return summary, nil
}

// EvaluateMultiAgentWorkflow validates and runs one whole-conversation
// evaluation. The agent2agent workflow type takes the protocol-compliance
// extension path; all other types take the base path.
func (s *Service) EvaluateMultiAgentWorkflow(ctx context.Context, workflowID, workflowType string, agents []string, messages []model.AgentMessage, evaluatorNames []string, projectName, experimentName string, metadata map[string]any) (*WorkflowSummary, error) {
	if s == nil || s.eval == nil {
		return nil, fmt.Errorf("evaluation: service not configured")
	}
	if workflowID == "" {
		return nil, fmt.Errorf("evaluation: missing workflow id")
	}

	wt, err := model.ParseWorkflowType(workflowType)
	if err != nil {
		return nil, fmt.Errorf("evaluation: %w", err)
	}
	metrics, err := model.ParseMetrics(evaluatorNames)
	if err != nil {
		return nil, fmt.Errorf("evaluation: %w", err)
	}

	sessionID := uuid.NewString()
	msgs := make([]model.AgentMessage, len(messages))
	for i, msg := range messages {
		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now().UTC()
		}
		msgs[i] = msg
	}

	req := MultiAgentEvaluationRequest{
		WorkflowID:   workflowID,
		WorkflowType: wt,
		Conversation: model.AgentConversation{
			ConversationID: uuid.NewString(),
			Agents:         agents,
			Messages:       msgs,
			WorkflowType:   wt,
			Metadata:       metadata,
		},
		Evaluators:     metrics,
		ProjectName:    projectName,
		ExperimentName: experimentName,
		Metadata:       metadata,
	}

	var result model.EvaluationResult
	if wt == model.WorkflowAgent2Agent {
		result = s.eval.EvaluateAgent2AgentFlow(ctx, req)
	} else {
		result = s.eval.EvaluateMultiAgentWorkflow(ctx, req)
	}
	result.SessionID = sessionID

	return &WorkflowSummary{
		SessionID:    sessionID,
		WorkflowID:   workflowID,
		WorkflowType: wt,
		Result:       result,
	}, nil
}

func averageOverall(results []model.EvaluationResult) float64 {
	if len(results) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.OverallScore
	}
	return sum / float64(len(results))
}
