package api

import (
	"context"

	"github.com/stellarlinkco/agent-judge/internal/llm"
	"github.com/stellarlinkco/agent-judge/internal/model"
	"github.com/stellarlinkco/agent-judge/internal/sink"
)

type fakeStore struct {
	RecordFunc     func(ctx context.Context, evaluationID string, input, output map[string]any, scores []model.EvaluationScore, projectName string) (string, error)
	GetTraceFunc   func(ctx context.Context, id string) (*sink.TraceRecord, error)
	ListTracesFunc func(ctx context.Context, filter sink.TraceFilter) ([]*sink.TraceRecord, error)
	CloseFunc      func() error
}

func (s *fakeStore) Record(ctx context.Context, evaluationID string, input, output map[string]any, scores []model.EvaluationScore, projectName string) (string, error) {
	if s.RecordFunc != nil {
		return s.RecordFunc(ctx, evaluationID, input, output, scores, projectName)
	}
	return "trace-" + evaluationID, nil
}

func (s *fakeStore) GetTrace(ctx context.Context, id string) (*sink.TraceRecord, error) {
	if s.GetTraceFunc != nil {
		return s.GetTraceFunc(ctx, id)
	}
	return nil, nil
}

func (s *fakeStore) ListTraces(ctx context.Context, filter sink.TraceFilter) ([]*sink.TraceRecord, error) {
	if s.ListTracesFunc != nil {
		return s.ListTracesFunc(ctx, filter)
	}
	return nil, nil
}

func (s *fakeStore) Close() error {
	if s.CloseFunc != nil {
		return s.CloseFunc()
	}
	return nil
}

type fakeProvider struct {
	CompleteFunc func(ctx context.Context, req *llm.Request) (*llm.Response, error)
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if p.CompleteFunc != nil {
		return p.CompleteFunc(ctx, req)
	}
	return &llm.Response{Content: []llm.ContentBlock{{Type: "text", Text: "SCORE: 1.0\nEXPLANATION: perfect"}}}, nil
}
