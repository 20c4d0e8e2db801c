package evaluation

import (
	"context"
	"fmt"

	"github.com/stellarlinkco/agent-judge/internal/llm"
)

const agentMaxTokens = 500

// ProviderAgent builds an AgentFunc backed by an llm.Provider: a
// production-style assistant agent whose persona comes from the test
// case's "scenario" context key. A model failure comes back as apology
// text, not an error, so the failure itself gets scored.
func ProviderAgent(provider llm.Provider) AgentFunc {
	return func(ctx context.Context, input string, agentContext map[string]any) (string, error) {
		scenario := "general assistant"
		if v, ok := agentContext["scenario"].(string); ok && v != "" {
			scenario = v
		}

		system := fmt.Sprintf(`You are a helpful %s agent.
Respond naturally and helpfully to the user's request.
Be concise but thorough. Provide actionable guidance when appropriate.`, scenario)

		resp, err := provider.Complete(ctx, &llm.Request{
			System:      system,
			Messages:    []llm.Message{{Role: "user", Content: input}},
			MaxTokens:   agentMaxTokens,
			Temperature: 0.3,
		})
		if err != nil {
			return "I apologize, but I encountered an issue processing your request: " + err.Error(), nil
		}
		return llm.Text(resp), nil
	}
}
