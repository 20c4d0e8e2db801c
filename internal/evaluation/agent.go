package evaluation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stellarlinkco/agent-judge/internal/model"
)

// EvaluateAgent runs the agent function over every test case in the
// request, in order, and grades each response. The returned slice always
// has exactly one result per test case: an agent that times out or
// returns an error is evaluated against placeholder failure text, and a
// panic anywhere in the per-case run becomes a failed result with the
// error recorded in metadata.
func (e *Evaluator) EvaluateAgent(ctx context.Context, req EvaluationRequest, agentFn AgentFunc) []model.EvaluationResult {
	results := make([]model.EvaluationResult, 0, len(req.TestCases))

	for _, testCase := range req.TestCases {
		result, err := e.evaluateCase(ctx, req, testCase, agentFn)
		if err != nil {
			e.logger.Warn("test case evaluation failed",
				"agent_id", req.AgentID, "test_case_id", testCase.ID, "error", err)
			result = model.EvaluationResult{
				EvaluationID: uuid.NewString(),
				AgentID:      req.AgentID,
				TestCaseID:   testCase.ID,
				Scores:       []model.EvaluationScore{},
				OverallScore: 0.0,
				Passed:       false,
				Timestamp:    time.Now().UTC(),
				SessionID:    testCase.SessionID,
				Metadata:     map[string]any{"error": err.Error()},
			}
		}
		results = append(results, result)
	}

	return results
}

// evaluateCase runs one agent call plus its grading. A panic in the
// agent function or the surrounding orchestration is recovered into the
// returned error; timeouts and agent errors are not errors here, they
// are scored as placeholder text.
func (e *Evaluator) evaluateCase(ctx context.Context, req EvaluationRequest, testCase model.TestCase, agentFn AgentFunc) (result model.EvaluationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluation: test case panicked: %v", r)
		}
	}()

	response, err := e.executeAgent(ctx, agentFn, testCase.Input, testCase.Context)
	if err != nil {
		return model.EvaluationResult{}, err
	}

	result = e.EvaluateSingleCase(ctx, testCase, response, req.Evaluators, req.ProjectName)
	result.AgentID = req.AgentID
	return result, nil
}

// executeAgent invokes the agent function under the configured timeout.
// A timeout or agent error degrades into placeholder response text that
// is scored like any other response; only a panicking agent function
// surfaces as an error.
func (e *Evaluator) executeAgent(ctx context.Context, agentFn AgentFunc, input string, agentContext map[string]any) (string, error) {
	if agentFn == nil {
		return "Agent execution failed: no agent function configured", nil
	}
	if agentContext == nil {
		agentContext = map[string]any{}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.agentTimeout)
	defer cancel()

	type agentReply struct {
		text string
		err  error
	}
	done := make(chan agentReply, 1)
	panicked := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				panicked <- fmt.Errorf("evaluation: agent function panicked: %v", r)
			}
		}()
		text, err := agentFn(callCtx, input, agentContext)
		done <- agentReply{text: text, err: err}
	}()

	select {
	case reply := <-done:
		if reply.err != nil {
			if errors.Is(reply.err, context.DeadlineExceeded) {
				return "Agent execution timed out", nil
			}
			return "Agent execution failed: " + reply.err.Error(), nil
		}
		return reply.text, nil
	case err := <-panicked:
		return "", err
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "Agent execution timed out", nil
		}
		return "Agent execution failed: " + callCtx.Err().Error(), nil
	}
}
