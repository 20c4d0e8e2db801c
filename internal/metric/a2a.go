package metric

import (
	"context"
	"text/template"

	"github.com/stellarlinkco/agent-judge/internal/judge"
	"github.com/stellarlinkco/agent-judge/internal/model"
)

const protocolCompliancePromptTemplate = `You are an expert evaluator assessing Agent2Agent (A2A) protocol compliance.

Task: Evaluate how well this multi-agent conversation follows A2A protocol standards.

Conversation:
{{.Conversation}}

Evaluation Criteria:
- Proper message routing between agents
- Clear sender and receiver identification
- Appropriate handoff protocols
- Message format consistency
- Protocol adherence

Please provide:
1. A score from 0.0 to 1.0 (where 1.0 is fully compliant)
2. A brief explanation of your scoring

Format your response EXACTLY as:
SCORE: [number between 0.0 and 1.0]
EXPLANATION: [Your reasoning in one sentence]`

var protocolCompliancePromptTmpl = template.Must(
	template.New("protocol_compliance").Parse(protocolCompliancePromptTemplate))

// ScoreProtocolCompliance grades an agent-to-agent conversation's routing,
// handoff, and format adherence. An empty conversation short-circuits to
// 0.0 without a judge call.
func ScoreProtocolCompliance(ctx context.Context, client *judge.Client, conv model.AgentConversation) (float64, string) {
	if len(conv.Messages) == 0 {
		return 0.0, "No messages in conversation"
	}

	prompt, err := renderPrompt(protocolCompliancePromptTmpl, map[string]string{
		"Conversation": FormatConversation(conv.Messages),
	})
	if err != nil {
		return 0.0, "Evaluation failed: " + err.Error()
	}

	return judge.ParseScore(client.Invoke(ctx, prompt, 0))
}
