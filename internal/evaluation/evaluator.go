package evaluation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stellarlinkco/agent-judge/internal/judge"
	"github.com/stellarlinkco/agent-judge/internal/metric"
	"github.com/stellarlinkco/agent-judge/internal/model"
	"github.com/stellarlinkco/agent-judge/internal/sink"
)

// DefaultAgentTimeout bounds one agent-function call.
const DefaultAgentTimeout = 300 * time.Second

// Evaluator grades test cases and conversations. All evaluation within
// one request is strictly sequential: metrics within a case, cases within
// a request. The only suspension points are the agent call (bounded by
// agentTimeout) and the judge call.
type Evaluator struct {
	judge        *judge.Client
	sink         sink.ResultSink
	logger       *slog.Logger
	agentTimeout time.Duration

	// forMetric is swapped in tests to inject failing evaluators.
	forMetric func(model.Metric, *judge.Client) metric.Evaluator
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithSink sets the result sink traces are recorded to. Without one,
// trace ids fall back to evaluation ids.
func WithSink(s sink.ResultSink) EvaluatorOption {
	return func(e *Evaluator) { e.sink = s }
}

// WithLogger sets the logger for degraded-path warnings.
func WithLogger(logger *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAgentTimeout bounds each agent-function invocation.
func WithAgentTimeout(d time.Duration) EvaluatorOption {
	return func(e *Evaluator) {
		if d > 0 {
			e.agentTimeout = d
		}
	}
}

// NewEvaluator builds an Evaluator over a judge client.
func NewEvaluator(judgeClient *judge.Client, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		judge:        judgeClient,
		logger:       slog.Default(),
		agentTimeout: DefaultAgentTimeout,
		forMetric:    metric.ForMetric,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// EvaluateSingleCase grades one agent response against the requested
// metrics, in order. A metric that errors contributes a zero score with a
// diagnostic explanation instead of aborting its siblings. The completed
// result is forwarded to the sink; a sink failure is warn-logged and the
// evaluation id stands in as the trace id.
func (e *Evaluator) EvaluateSingleCase(ctx context.Context, testCase model.TestCase, agentResponse string, metrics []model.Metric, projectName string) model.EvaluationResult {
	start := time.Now()
	evaluationID := uuid.NewString()

	in := metric.Inputs{
		Input:   testCase.Input,
		Context: testCase.Context,
	}
	out := metric.Outputs{Output: agentResponse}
	ref := &metric.Reference{ExpectedOutput: testCase.ExpectedOutput}

	scores := make([]model.EvaluationScore, 0, len(metrics))
	for _, m := range metrics {
		value, explanation, err := e.forMetric(m, e.judge).Score(ctx, in, out, ref)
		if err != nil {
			scores = append(scores, model.NewScore(m, 0.0, "Evaluation failed: "+err.Error()))
			continue
		}
		scores = append(scores, model.NewScore(m, value, explanation))
	}

	overall := model.OverallScore(scores)

	inputPayload := map[string]any{
		"input":   testCase.Input,
		"context": testCase.Context,
	}
	outputPayload := map[string]any{
		"output": agentResponse,
		"scores": scores,
	}
	traceID := e.record(ctx, evaluationID, inputPayload, outputPayload, scores, projectName)

	return model.EvaluationResult{
		EvaluationID:    evaluationID,
		TestCaseID:      testCase.ID,
		Scores:          scores,
		OverallScore:    overall,
		Passed:          overall >= model.DefaultThreshold,
		ExecutionTimeMS: float64(time.Since(start)) / float64(time.Millisecond),
		Timestamp:       time.Now().UTC(),
		TraceID:         traceID,
		SessionID:       testCase.SessionID,
		Metadata:        testCase.Metadata,
	}
}

// record forwards a completed evaluation to the sink. It never fails:
// without a sink, or when the sink errors, the evaluation id doubles as
// the trace id so results always carry a non-empty reference.
func (e *Evaluator) record(ctx context.Context, evaluationID string, input, output map[string]any, scores []model.EvaluationScore, projectName string) string {
	if e.sink == nil {
		return evaluationID
	}

	traceID, err := e.sink.Record(ctx, evaluationID, input, output, scores, projectName)
	if err != nil {
		e.logger.Warn("failed to record evaluation trace",
			"evaluation_id", evaluationID, "project", projectName, "error", err)
		return evaluationID
	}
	return traceID
}
