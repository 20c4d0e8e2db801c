package judge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stellarlinkco/agent-judge/internal/llm"
)

type fakeProvider struct {
	reply string
	err   error
	calls int

	lastMaxTokens int
	lastPrompt    string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(_ context.Context, req *llm.Request) (*llm.Response, error) {
	p.calls++
	if req != nil {
		p.lastMaxTokens = req.MaxTokens
		if len(req.Messages) > 0 {
			p.lastPrompt = req.Messages[0].Content
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{
		Content: []llm.ContentBlock{{Type: "text", Text: p.reply}},
	}, nil
}

func TestClient_Invoke(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{reply: "SCORE: 1.0\nEXPLANATION: perfect"}
	c := NewClient(p)

	got := c.Invoke(context.Background(), "grade me", 0)
	if got != "SCORE: 1.0\nEXPLANATION: perfect" {
		t.Fatalf("Invoke = %q", got)
	}
	if p.lastMaxTokens != DefaultMaxTokens {
		t.Fatalf("max tokens = %d, want default %d", p.lastMaxTokens, DefaultMaxTokens)
	}
	if p.lastPrompt != "grade me" {
		t.Fatalf("prompt = %q", p.lastPrompt)
	}
}

func TestClient_Invoke_ExplicitMaxTokens(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{reply: "ok"}
	c := NewClient(p, WithMaxTokens(250))

	c.Invoke(context.Background(), "x", 42)
	if p.lastMaxTokens != 42 {
		t.Fatalf("max tokens = %d, want 42", p.lastMaxTokens)
	}

	c.Invoke(context.Background(), "x", 0)
	if p.lastMaxTokens != 250 {
		t.Fatalf("max tokens = %d, want configured 250", p.lastMaxTokens)
	}
}

func TestClient_Invoke_NeverFails(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{err: errors.New("connection refused")}
	c := NewClient(p)

	got := c.Invoke(context.Background(), "grade me", 0)
	if !strings.HasPrefix(got, "LLM evaluation failed: ") {
		t.Fatalf("Invoke = %q, want failure sentinel", got)
	}
	if !strings.Contains(got, "connection refused") {
		t.Fatalf("Invoke = %q, want underlying error text", got)
	}
}

func TestClient_Invoke_EmptyReply(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{reply: "   "}
	c := NewClient(p)

	got := c.Invoke(context.Background(), "grade me", 0)
	if !strings.HasPrefix(got, "LLM evaluation failed: ") {
		t.Fatalf("Invoke = %q, want failure sentinel", got)
	}
}

func TestClient_Invoke_NoProvider(t *testing.T) {
	t.Parallel()

	c := NewClient(nil)
	got := c.Invoke(context.Background(), "grade me", 0)
	if !strings.HasPrefix(got, "LLM evaluation failed: ") {
		t.Fatalf("Invoke = %q, want failure sentinel", got)
	}
}

func TestClient_Invoke_FailureDegradesToNeutralScore(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{err: errors.New("boom")}
	c := NewClient(p)

	score, explanation := ParseScore(c.Invoke(context.Background(), "grade me", 0))
	if score != 0.5 {
		t.Fatalf("score = %v, want neutral 0.5", score)
	}
	if explanation != "Evaluation completed" {
		t.Fatalf("explanation = %q", explanation)
	}
}
