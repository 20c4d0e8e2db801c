package evaluation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunBatch dispatches each item to the single-agent or multi-agent path
// based on its type discriminator and aggregates summary statistics. One
// item's failure is recorded alongside the request that caused it and
// never aborts its siblings. Test counts and the overall average cover
// completed items only; batch timing is wall-clock for the whole run.
func (s *Service) RunBatch(ctx context.Context, items []BatchItem, projectName, experimentName string) BatchSummary {
	start := time.Now()

	summary := BatchSummary{
		BatchID:          uuid.NewString(),
		TotalEvaluations: len(items),
		Results:          make([]BatchItemResult, 0, len(items)),
	}

	scoreSum := 0.0
	scoreCount := 0

	for i := range items {
		item := items[i]
		entry := s.runBatchItem(ctx, item, projectName, experimentName)
		summary.Results = append(summary.Results, entry)

		if entry.Failed() {
			summary.FailedEvaluations++
			continue
		}
		summary.SuccessfulEvaluations++

		switch {
		case entry.Agent != nil:
			summary.TotalTests += entry.Agent.TotalTests
			summary.PassedTests += entry.Agent.PassedTests
			summary.FailedTests += entry.Agent.FailedTests
			scoreSum += entry.Agent.AverageScore
			scoreCount++
		case entry.Workflow != nil:
			scoreSum += entry.Workflow.Result.OverallScore
			scoreCount++
		}
	}

	if scoreCount > 0 {
		summary.OverallAverageScore = scoreSum / float64(scoreCount)
	}
	summary.ExecutionTimeMS = float64(time.Since(start)) / float64(time.Millisecond)
	summary.Timestamp = time.Now().UTC()
	return summary
}

func (s *Service) runBatchItem(ctx context.Context, item BatchItem, projectName, experimentName string) BatchItemResult {
	if item.Type == "multiagent" {
		workflow, err := s.EvaluateMultiAgentWorkflow(ctx,
			item.WorkflowID, item.WorkflowType, item.Agents, item.Messages,
			item.Evaluators, projectName, experimentName, item.Metadata)
		if err != nil {
			return BatchItemResult{Error: err.Error(), Request: &item}
		}
		return BatchItemResult{Workflow: workflow}
	}

	agent, err := s.EvaluateAgent(ctx,
		item.AgentID, item.TestCases, item.Evaluators,
		projectName, experimentName, item.Metadata)
	if err != nil {
		return BatchItemResult{Error: err.Error(), Request: &item}
	}
	return BatchItemResult{Agent: agent}
}
