// Package judge wraps a single call to the grading model and the lenient
// parsing of its free-form reply. Judge failures never surface as errors:
// they degrade into sentinel text that the score parser turns into
// neutral scores, so one flaky model call cannot abort an evaluation.
package judge

import (
	"context"
	"log/slog"
	"strings"

	"github.com/stellarlinkco/agent-judge/internal/llm"
)

const (
	// DefaultMaxTokens caps the judge reply when the caller passes no limit.
	DefaultMaxTokens = 1000

	// judgeTemperature is fixed per deployment, not exposed per call.
	judgeTemperature = 0.1

	failurePrefix = "LLM evaluation failed: "
)

// Client issues judge prompts against an llm.Provider.
type Client struct {
	provider  llm.Provider
	maxTokens int
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMaxTokens sets the default reply cap.
func WithMaxTokens(n int) Option {
	return func(c *Client) {
		if c == nil || n <= 0 {
			return
		}
		c.maxTokens = n
	}
}

// WithLogger sets the logger used for degraded-call warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if c == nil || logger == nil {
			return
		}
		c.logger = logger
	}
}

// NewClient builds a judge client on top of a provider.
func NewClient(provider llm.Provider, opts ...Option) *Client {
	c := &Client{
		provider:  provider,
		maxTokens: DefaultMaxTokens,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Invoke sends a rendered prompt to the judge model and returns its raw
// text reply. It never fails: transport and model errors come back as a
// sentinel string the score parser downgrades gracefully.
func (c *Client) Invoke(ctx context.Context, prompt string, maxTokens int) string {
	if c == nil || c.provider == nil {
		return failurePrefix + "no judge provider configured"
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	resp, err := c.provider.Complete(ctx, &llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: judgeTemperature,
	})
	if err != nil {
		c.warn("judge call failed", "provider", c.provider.Name(), "error", err)
		return failurePrefix + err.Error()
	}

	text := llm.Text(resp)
	if strings.TrimSpace(text) == "" {
		c.warn("judge returned empty reply", "provider", c.provider.Name())
		return failurePrefix + "empty model response"
	}
	return text
}

func (c *Client) warn(msg string, args ...any) {
	if c == nil || c.logger == nil {
		return
	}
	c.logger.Warn(msg, args...)
}
