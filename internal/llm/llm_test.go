package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stellarlinkco/agent-judge/internal/config"
)

func messageResponse(id, model, stopReason string, blocks []map[string]any, in, out int) map[string]any {
	return map[string]any{
		"id":          id,
		"type":        "message",
		"role":        "assistant",
		"model":       model,
		"content":     blocks,
		"stop_reason": stopReason,
		"usage": map[string]any{
			"input_tokens":  in,
			"output_tokens": out,
		},
	}
}

func textBlock(text string) map[string]any {
	return map[string]any{"type": "text", "text": text}
}

func TestClaudeProvider_Complete(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.Error(w, "bad path", http.StatusBadRequest)
			return
		}
		if r.Header.Get("anthropic-version") == "" {
			http.Error(w, "missing version header", http.StatusBadRequest)
			return
		}
		w.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(w).Encode(messageResponse(
			"msg_1", "m", "end_turn",
			[]map[string]any{textBlock("SCORE: 0.9\nEXPLANATION: fine")},
			3, 7,
		))
	}))
	t.Cleanup(srv.Close)

	p := NewClaudeProvider("k", srv.URL+"/v1", "m")
	resp, err := p.Complete(context.Background(), &Request{
		Messages:  []Message{{Role: "user", Content: "grade this"}},
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := Text(resp); got != "SCORE: 0.9\nEXPLANATION: fine" {
		t.Fatalf("Text = %q", got)
	}
	if resp.Usage.InputTokens != 3 || resp.Usage.OutputTokens != 7 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
}

func TestClaudeProvider_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	t.Cleanup(srv.Close)

	p := NewClaudeProvider("k", srv.URL+"/v1", "m")
	_, err := p.Complete(context.Background(), &Request{
		Messages:  []Message{{Role: "user", Content: "x"}},
		MaxTokens: 10,
	})
	if err == nil {
		t.Fatal("expected api error")
	}
}

func TestText_Nil(t *testing.T) {
	t.Parallel()

	if Text(nil) != "" {
		t.Fatal("Text(nil) should be empty")
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	p := NewOpenAIProvider("k", "", "")
	r.Register(p)

	got, ok := r.Get("OpenAI")
	if !ok || got != Provider(p) {
		t.Fatalf("Get(OpenAI) = %v, %v", got, ok)
	}
	if _, ok := r.Get("claude"); ok {
		t.Fatal("claude should not be registered")
	}
}

func TestDefaultProviderFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "openai"
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"openai": {APIKey: "k"},
	}

	p, err := DefaultProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("DefaultProviderFromConfig: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("provider = %q, want openai", p.Name())
	}
}

func TestDefaultProviderFromConfig_Unknown(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"mystery": {APIKey: "k"},
	}

	if _, err := DefaultProviderFromConfig(cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
