package metric

import (
	"context"
	"strings"
	"text/template"

	"github.com/stellarlinkco/agent-judge/internal/judge"
)

const conversationQualityPromptTemplate = `You are an expert evaluator assessing the quality of multi-agent conversations.

Task: Evaluate the overall quality of this multi-agent conversation.

Conversation:
{{.Conversation}}

Evaluation Criteria:
- Coherent flow between agents
- Clear communication and handoffs
- Productive exchanges that advance the goal
- Appropriate agent interactions
- Overall conversation effectiveness

Please provide:
1. A score from 0.0 to 1.0 (where 1.0 is excellent conversation quality)
2. A brief explanation of your scoring

Format your response EXACTLY as:
SCORE: [number between 0.0 and 1.0]
EXPLANATION: [Your reasoning in one sentence]`

var conversationQualityPromptTmpl = template.Must(
	template.New("conversation_quality").Parse(conversationQualityPromptTemplate))

// ConversationQuality scores the overall quality of a multi-agent
// conversation.
type ConversationQuality struct {
	Judge *judge.Client
}

func (ConversationQuality) Name() string { return "conversation_quality" }

func (e *ConversationQuality) Score(ctx context.Context, in Inputs, _ Outputs, _ *Reference) (float64, string, error) {
	// Nothing to grade without conversation data; skip the judge entirely.
	if len(in.Messages) == 0 && in.Conversation == "" {
		return 0.0, "No conversation data provided", nil
	}

	formatted := in.Conversation
	if len(in.Messages) > 0 {
		formatted = FormatConversation(in.Messages)
	}

	prompt, err := renderPrompt(conversationQualityPromptTmpl, map[string]string{
		"Conversation": formatted,
	})
	if err != nil {
		return 0, "", err
	}

	score, explanation := judge.ParseScore(e.Judge.Invoke(ctx, prompt, 0))
	return score, explanation, nil
}

const agentCoordinationPromptTemplate = `You are an expert evaluator assessing agent coordination in multi-agent systems.

Task: Evaluate how well the agents coordinate with each other.

Participating Agents: {{.Agents}}

Conversation:
{{.Conversation}}

Evaluation Criteria:
- Proper handoffs between agents
- Clear role delineation
- Effective task delegation
- Minimal redundancy or confusion
- Smooth workflow transitions

Please provide:
1. A score from 0.0 to 1.0 (where 1.0 is excellent coordination)
2. A brief explanation of your scoring

Format your response EXACTLY as:
SCORE: [number between 0.0 and 1.0]
EXPLANATION: [Your reasoning in one sentence]`

var agentCoordinationPromptTmpl = template.Must(
	template.New("agent_coordination").Parse(agentCoordinationPromptTemplate))

// AgentCoordination scores handoffs and delegation between agents.
type AgentCoordination struct {
	Judge *judge.Client
}

func (AgentCoordination) Name() string { return "agent_coordination" }

func (e *AgentCoordination) Score(ctx context.Context, in Inputs, _ Outputs, _ *Reference) (float64, string, error) {
	// Coordination is only observable across at least one handoff.
	if len(in.Messages) < 2 {
		return 0.5, "Insufficient messages for coordination evaluation", nil
	}

	agents := "Multiple agents"
	if len(in.Agents) > 0 {
		agents = strings.Join(in.Agents, ", ")
	}

	prompt, err := renderPrompt(agentCoordinationPromptTmpl, map[string]string{
		"Agents":       agents,
		"Conversation": FormatConversation(in.Messages),
	})
	if err != nil {
		return 0, "", err
	}

	score, explanation := judge.ParseScore(e.Judge.Invoke(ctx, prompt, 0))
	return score, explanation, nil
}

const workflowEfficiencyPromptTemplate = `You are an expert evaluator assessing workflow efficiency in multi-agent systems.

Task: Evaluate the efficiency of this {{.WorkflowType}} workflow.

Workflow Messages ({{.MessageCount}} total):
{{.Conversation}}

Evaluation Criteria:
- Minimal unnecessary steps or messages
- Direct path to goal completion
- Efficient use of agent capabilities
- No redundant communications
- Optimal task distribution

Please provide:
1. A score from 0.0 to 1.0 (where 1.0 is highly efficient)
2. A brief explanation of your scoring

Format your response EXACTLY as:
SCORE: [number between 0.0 and 1.0]
EXPLANATION: [Your reasoning in one sentence]`

var workflowEfficiencyPromptTmpl = template.Must(
	template.New("workflow_efficiency").Parse(workflowEfficiencyPromptTemplate))

// WorkflowEfficiency scores the directness of a workflow's path to its
// goal.
type WorkflowEfficiency struct {
	Judge *judge.Client
}

func (WorkflowEfficiency) Name() string { return "workflow_efficiency" }

func (e *WorkflowEfficiency) Score(ctx context.Context, in Inputs, _ Outputs, _ *Reference) (float64, string, error) {
	if len(in.Messages) == 0 {
		return 0.5, "No workflow data provided", nil
	}

	workflowType := string(in.WorkflowType)
	if workflowType == "" {
		workflowType = "unknown"
	}

	prompt, err := renderPrompt(workflowEfficiencyPromptTmpl, map[string]any{
		"WorkflowType": workflowType,
		"MessageCount": len(in.Messages),
		"Conversation": FormatConversation(in.Messages),
	})
	if err != nil {
		return 0, "", err
	}

	score, explanation := judge.ParseScore(e.Judge.Invoke(ctx, prompt, 0))
	return score, explanation, nil
}
