package evaluation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stellarlinkco/agent-judge/internal/judge"
	"github.com/stellarlinkco/agent-judge/internal/llm"
	"github.com/stellarlinkco/agent-judge/internal/metric"
	"github.com/stellarlinkco/agent-judge/internal/model"
)

// scriptProvider replies with a fixed sequence of texts, repeating the
// last one, and records every prompt it saw.
type scriptProvider struct {
	mu      sync.Mutex
	replies []string
	calls   int
	prompts []string
}

func (p *scriptProvider) Name() string { return "script" }

func (p *scriptProvider) Complete(_ context.Context, req *llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	reply := "SCORE: 1.0\nEXPLANATION: perfect"
	if len(p.replies) > 0 {
		idx := p.calls
		if idx >= len(p.replies) {
			idx = len(p.replies) - 1
		}
		reply = p.replies[idx]
	}
	p.calls++
	if req != nil && len(req.Messages) > 0 {
		p.prompts = append(p.prompts, req.Messages[0].Content)
	}
	return &llm.Response{Content: []llm.ContentBlock{{Type: "text", Text: reply}}}, nil
}

func (p *scriptProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *scriptProvider) seenPrompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}

// fakeSink records forwarded evaluations and optionally fails.
type fakeSink struct {
	mu      sync.Mutex
	traceID string
	err     error
	records int
	lastIn  map[string]any
	lastOut map[string]any
}

func (s *fakeSink) Record(_ context.Context, evaluationID string, input, output map[string]any, _ []model.EvaluationScore, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records++
	s.lastIn = input
	s.lastOut = output
	if s.err != nil {
		return "", s.err
	}
	if s.traceID != "" {
		return s.traceID, nil
	}
	return "trace-" + evaluationID, nil
}

// failingEvaluator always errors; injected through the dispatch hook to
// exercise per-metric isolation.
type failingEvaluator struct{ name string }

func (f *failingEvaluator) Name() string { return f.name }

func (f *failingEvaluator) Score(context.Context, metric.Inputs, metric.Outputs, *metric.Reference) (float64, string, error) {
	return 0, "", errors.New("boom")
}

func perfectJudge() (*judge.Client, *scriptProvider) {
	p := &scriptProvider{}
	return judge.NewClient(p, judge.WithLogger(slog.New(slog.DiscardHandler))), p
}

func sampleCase() model.TestCase {
	return model.TestCase{
		ID:             "tc-1",
		Input:          "What is Go?",
		ExpectedOutput: "A programming language.",
		Context:        map[string]any{"domain": "programming"},
		Metadata:       map[string]any{"suite": "smoke"},
		SessionID:      "session-1",
	}
}

func TestEvaluateSingleCase(t *testing.T) {
	t.Parallel()

	client, provider := perfectJudge()
	snk := &fakeSink{}
	e := NewEvaluator(client, WithSink(snk))

	result := e.EvaluateSingleCase(context.Background(), sampleCase(), "Go is a language.",
		[]model.Metric{model.MetricAccuracy, model.MetricRelevance}, "proj")

	if len(result.Scores) != 2 {
		t.Fatalf("scores = %d, want 2", len(result.Scores))
	}
	if result.Scores[0].Metric != model.MetricAccuracy || result.Scores[1].Metric != model.MetricRelevance {
		t.Fatalf("metric order = %v, %v", result.Scores[0].Metric, result.Scores[1].Metric)
	}
	if result.OverallScore != 1.0 || !result.Passed {
		t.Fatalf("overall = %v, passed = %v", result.OverallScore, result.Passed)
	}
	if result.EvaluationID == "" || result.TestCaseID != "tc-1" || result.SessionID != "session-1" {
		t.Fatalf("identity fields = %+v", result)
	}
	if result.TraceID != "trace-"+result.EvaluationID {
		t.Fatalf("trace id = %q", result.TraceID)
	}
	if provider.callCount() != 2 {
		t.Fatalf("judge calls = %d, want 2", provider.callCount())
	}
	if snk.records != 1 {
		t.Fatalf("sink records = %d, want 1", snk.records)
	}
	if snk.lastOut["output"] != "Go is a language." {
		t.Fatalf("sink output payload = %v", snk.lastOut)
	}
}

func TestEvaluateSingleCase_SinkFailureFallsBack(t *testing.T) {
	t.Parallel()

	client, _ := perfectJudge()
	e := NewEvaluator(client,
		WithSink(&fakeSink{err: errors.New("backend down")}),
		WithLogger(slog.New(slog.DiscardHandler)))

	result := e.EvaluateSingleCase(context.Background(), sampleCase(), "out",
		[]model.Metric{model.MetricAccuracy}, "proj")

	if result.TraceID != result.EvaluationID {
		t.Fatalf("trace id = %q, want evaluation id %q", result.TraceID, result.EvaluationID)
	}
	if len(result.Scores) != 1 || !result.Passed {
		t.Fatalf("evaluation degraded by sink failure: %+v", result)
	}
}

func TestEvaluateSingleCase_NoSink(t *testing.T) {
	t.Parallel()

	client, _ := perfectJudge()
	e := NewEvaluator(client)

	result := e.EvaluateSingleCase(context.Background(), sampleCase(), "out",
		[]model.Metric{model.MetricAccuracy}, "proj")
	if result.TraceID != result.EvaluationID {
		t.Fatalf("trace id = %q, want evaluation id", result.TraceID)
	}
}

func TestEvaluateSingleCase_MetricFailureIsolated(t *testing.T) {
	t.Parallel()

	client, _ := perfectJudge()
	e := NewEvaluator(client)
	e.forMetric = func(m model.Metric, c *judge.Client) metric.Evaluator {
		if m == model.MetricAccuracy {
			return &failingEvaluator{name: "accuracy"}
		}
		return metric.ForMetric(m, c)
	}

	result := e.EvaluateSingleCase(context.Background(), sampleCase(), "out",
		[]model.Metric{model.MetricAccuracy, model.MetricRelevance}, "proj")

	if len(result.Scores) != 2 {
		t.Fatalf("scores = %d, want 2", len(result.Scores))
	}
	failed := result.Scores[0]
	if failed.Score != 0.0 || failed.Passed || failed.Explanation != "Evaluation failed: boom" {
		t.Fatalf("failed score = %+v", failed)
	}
	if result.Scores[1].Score != 1.0 {
		t.Fatalf("sibling metric affected: %+v", result.Scores[1])
	}
	if result.OverallScore != 0.5 {
		t.Fatalf("overall = %v, want 0.5", result.OverallScore)
	}
}

func TestEvaluateSingleCase_EmptyMetrics(t *testing.T) {
	t.Parallel()

	client, provider := perfectJudge()
	e := NewEvaluator(client)

	result := e.EvaluateSingleCase(context.Background(), sampleCase(), "out", nil, "proj")
	if result.OverallScore != 0.0 || result.Passed {
		t.Fatalf("empty metrics result = %+v", result)
	}
	if provider.callCount() != 0 {
		t.Fatalf("judge calls = %d, want 0", provider.callCount())
	}
}

func TestEvaluateSingleCase_Idempotent(t *testing.T) {
	t.Parallel()

	client, _ := perfectJudge()
	e := NewEvaluator(client)

	metrics := []model.Metric{model.MetricAccuracy, model.MetricHelpfulness}
	first := e.EvaluateSingleCase(context.Background(), sampleCase(), "out", metrics, "proj")
	second := e.EvaluateSingleCase(context.Background(), sampleCase(), "out", metrics, "proj")

	if first.EvaluationID == second.EvaluationID {
		t.Fatal("evaluation ids should differ")
	}
	if first.OverallScore != second.OverallScore || len(first.Scores) != len(second.Scores) {
		t.Fatalf("non-deterministic results: %+v vs %+v", first, second)
	}
	for i := range first.Scores {
		if first.Scores[i] != second.Scores[i] {
			t.Fatalf("score %d differs: %+v vs %+v", i, first.Scores[i], second.Scores[i])
		}
	}
}
