// Package metric implements the judge-prompt evaluators, one per
// evaluation dimension. Each evaluator renders its rubric prompt,
// delegates to the judge client, and parses the reply into a score and
// explanation.
package metric

import (
	"context"
	"strings"
	"time"

	"github.com/stellarlinkco/agent-judge/internal/judge"
	"github.com/stellarlinkco/agent-judge/internal/model"
)

// Inputs is the evaluated unit's input view: the user query and context
// for single-agent cases, the conversation fields for workflow cases.
type Inputs struct {
	Input        string
	Context      map[string]any
	Messages     []model.AgentMessage
	Conversation string
	Agents       []string
	WorkflowType model.WorkflowType
	StartTime    time.Time
	EndTime      time.Time
}

// Outputs is the evaluated unit's output view.
type Outputs struct {
	Output string
}

// Reference carries the expected output, when the caller supplied one.
type Reference struct {
	ExpectedOutput string
}

// Evaluator scores one evaluation dimension.
type Evaluator interface {
	Name() string
	Score(ctx context.Context, in Inputs, out Outputs, ref *Reference) (float64, string, error)
}

// ForMetric resolves the evaluator for a metric tag. Tags without a
// dedicated evaluator (completeness, factuality, toxicity, bias) dispatch
// to the accuracy evaluator; the fallback is this one explicit default
// arm rather than scattered lookups.
func ForMetric(m model.Metric, client *judge.Client) Evaluator {
	switch m {
	case model.MetricRelevance:
		return &Relevance{Judge: client}
	case model.MetricCoherence:
		return &Coherence{Judge: client}
	case model.MetricHelpfulness:
		return &Helpfulness{Judge: client}
	case model.MetricConversationQuality:
		return &ConversationQuality{Judge: client}
	case model.MetricAgentCoordination:
		return &AgentCoordination{Judge: client}
	case model.MetricWorkflowEfficiency:
		return &WorkflowEfficiency{Judge: client}
	default:
		return &Accuracy{Judge: client}
	}
}

// FormatConversation renders messages as "sender -> receiver: text" lines,
// the shape every workflow prompt embeds.
func FormatConversation(msgs []model.AgentMessage) string {
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		lines = append(lines, msg.FromAgent+" -> "+msg.ToAgent+": "+msg.Message)
	}
	return strings.Join(lines, "\n")
}
