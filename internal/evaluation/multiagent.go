package evaluation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stellarlinkco/agent-judge/internal/metric"
	"github.com/stellarlinkco/agent-judge/internal/model"
)

// workflowCompletedText is the constant output placeholder for
// conversation evaluations: the workflow already happened, nothing is
// re-executed.
const workflowCompletedText = "Multi-agent workflow completed"

// EvaluateMultiAgentWorkflow grades an entire conversation as one unit
// against the requested metrics. Per-metric failures are isolated the
// same way as single-case evaluation, with a workflow-specific
// diagnostic prefix.
func (e *Evaluator) EvaluateMultiAgentWorkflow(ctx context.Context, req MultiAgentEvaluationRequest) model.EvaluationResult {
	start := time.Now()
	evaluationID := uuid.NewString()

	conv := req.Conversation
	flattened := metric.FormatConversation(conv.Messages)

	startTime, endTime := conversationBounds(conv.Messages)

	in := metric.Inputs{
		Messages:     conv.Messages,
		Conversation: flattened,
		Agents:       conv.Agents,
		WorkflowType: req.WorkflowType,
		StartTime:    startTime,
		EndTime:      endTime,
	}
	out := metric.Outputs{Output: workflowCompletedText}

	scores := make([]model.EvaluationScore, 0, len(req.Evaluators))
	for _, m := range req.Evaluators {
		value, explanation, err := e.forMetric(m, e.judge).Score(ctx, in, out, nil)
		if err != nil {
			scores = append(scores, model.NewScore(m, 0.0, "Multi-agent evaluation failed: "+err.Error()))
			continue
		}
		scores = append(scores, model.NewScore(m, value, explanation))
	}

	overall := model.OverallScore(scores)

	inputPayload := map[string]any{
		"workflow_type": string(req.WorkflowType),
		"agents":        conv.Agents,
		"messages":      conv.Messages,
		"conversation":  flattened,
		"start_time":    startTime.Format(time.RFC3339),
		"end_time":      endTime.Format(time.RFC3339),
	}
	outputPayload := map[string]any{
		"workflow_result": "completed",
		"scores":          scores,
	}
	traceID := e.record(ctx, evaluationID, inputPayload, outputPayload, scores, req.ProjectName)

	return model.EvaluationResult{
		EvaluationID:    evaluationID,
		WorkflowID:      req.WorkflowID,
		Scores:          scores,
		OverallScore:    overall,
		Passed:          overall >= model.DefaultThreshold,
		ExecutionTimeMS: float64(time.Since(start)) / float64(time.Millisecond),
		Timestamp:       time.Now().UTC(),
		TraceID:         traceID,
		Metadata: map[string]any{
			"workflow_type": string(req.WorkflowType),
			"agent_count":   len(conv.Agents),
			"message_count": len(conv.Messages),
		},
	}
}

// EvaluateAgent2AgentFlow runs the base workflow evaluation and then
// appends one protocol-compliance score under the agent_coordination
// tag, recomputing the overall score over the extended list. This is the
// only path that extends a completed result.
func (e *Evaluator) EvaluateAgent2AgentFlow(ctx context.Context, req MultiAgentEvaluationRequest) model.EvaluationResult {
	result := e.EvaluateMultiAgentWorkflow(ctx, req)

	value, explanation := metric.ScoreProtocolCompliance(ctx, e.judge, req.Conversation)
	return result.WithAppendedScore(model.NewScore(model.MetricAgentCoordination, value, explanation))
}

// conversationBounds returns the first and last message timestamps, or
// the current time twice for an empty conversation.
func conversationBounds(msgs []model.AgentMessage) (time.Time, time.Time) {
	if len(msgs) == 0 {
		now := time.Now().UTC()
		return now, now
	}
	return msgs[0].Timestamp, msgs[len(msgs)-1].Timestamp
}
