package metric

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/stellarlinkco/agent-judge/internal/judge"
)

const accuracyPromptTemplate = `You are an expert evaluator assessing the accuracy of AI agent responses.

Task: Evaluate how accurate and factually correct the agent's response is compared to the expected response.

Input Query: {{.Input}}

Agent Response: {{.Output}}

Expected Response: {{.Expected}}

Evaluation Criteria:
- Factual correctness
- Completeness of information
- Alignment with expected response
- Absence of hallucinations or errors

Please provide:
1. A score from 0.0 to 1.0 (where 1.0 is perfectly accurate)
2. A brief explanation of your scoring

Format your response EXACTLY as:
SCORE: [number between 0.0 and 1.0]
EXPLANATION: [Your reasoning in one sentence]`

var accuracyPromptTmpl = template.Must(template.New("accuracy").Parse(accuracyPromptTemplate))

// Accuracy scores factual correctness against the expected output.
type Accuracy struct {
	Judge *judge.Client
}

func (Accuracy) Name() string { return "accuracy" }

func (e *Accuracy) Score(ctx context.Context, in Inputs, out Outputs, ref *Reference) (float64, string, error) {
	expected := ""
	if ref != nil {
		expected = ref.ExpectedOutput
	}

	prompt, err := renderPrompt(accuracyPromptTmpl, map[string]string{
		"Input":    in.Input,
		"Output":   out.Output,
		"Expected": expected,
	})
	if err != nil {
		return 0, "", err
	}

	score, explanation := judge.ParseScore(e.Judge.Invoke(ctx, prompt, 0))
	return score, explanation, nil
}

const relevancePromptTemplate = `You are an expert evaluator assessing the relevance of AI agent responses.

Task: Evaluate how relevant and on-topic the agent's response is to the user's query.

User Query: {{.Input}}

Context: {{.Context}}

Agent Response: {{.Output}}

Evaluation Criteria:
- Direct relevance to the user's question
- Appropriate use of context
- Staying on topic
- Addressing the core intent

Please provide:
1. A score from 0.0 to 1.0 (where 1.0 is perfectly relevant)
2. A brief explanation of your scoring

Format your response EXACTLY as:
SCORE: [number between 0.0 and 1.0]
EXPLANATION: [Your reasoning in one sentence]`

var relevancePromptTmpl = template.Must(template.New("relevance").Parse(relevancePromptTemplate))

// Relevance scores topical fit between query and response.
type Relevance struct {
	Judge *judge.Client
}

func (Relevance) Name() string { return "relevance" }

func (e *Relevance) Score(ctx context.Context, in Inputs, out Outputs, _ *Reference) (float64, string, error) {
	contextText := "No additional context"
	if len(in.Context) > 0 {
		b, err := json.MarshalIndent(in.Context, "", "  ")
		if err != nil {
			return 0, "", fmt.Errorf("metric: relevance: marshal context: %w", err)
		}
		contextText = string(b)
	}

	prompt, err := renderPrompt(relevancePromptTmpl, map[string]string{
		"Input":   in.Input,
		"Context": contextText,
		"Output":  out.Output,
	})
	if err != nil {
		return 0, "", err
	}

	score, explanation := judge.ParseScore(e.Judge.Invoke(ctx, prompt, 0))
	return score, explanation, nil
}

const coherencePromptTemplate = `You are an expert evaluator assessing the coherence of AI agent responses.

Task: Evaluate how coherent, well-structured, and logically organized the agent's response is.

User Query: {{.Input}}

Agent Response: {{.Output}}

Evaluation Criteria:
- Logical flow and structure
- Clear and understandable language
- Consistent reasoning throughout
- Proper grammar and syntax
- Well-organized information

Please provide:
1. A score from 0.0 to 1.0 (where 1.0 is perfectly coherent)
2. A brief explanation of your scoring

Format your response EXACTLY as:
SCORE: [number between 0.0 and 1.0]
EXPLANATION: [Your reasoning in one sentence]`

var coherencePromptTmpl = template.Must(template.New("coherence").Parse(coherencePromptTemplate))

// Coherence scores structure and logical flow.
type Coherence struct {
	Judge *judge.Client
}

func (Coherence) Name() string { return "coherence" }

func (e *Coherence) Score(ctx context.Context, in Inputs, out Outputs, _ *Reference) (float64, string, error) {
	prompt, err := renderPrompt(coherencePromptTmpl, map[string]string{
		"Input":  in.Input,
		"Output": out.Output,
	})
	if err != nil {
		return 0, "", err
	}

	score, explanation := judge.ParseScore(e.Judge.Invoke(ctx, prompt, 0))
	return score, explanation, nil
}

const helpfulnessPromptTemplate = `You are an expert evaluator assessing the helpfulness of AI agent responses.

Task: Evaluate how helpful and actionable the agent's response is to the user.

User Query: {{.Input}}

Agent Response: {{.Output}}

Evaluation Criteria:
- Provides actionable information or guidance
- Addresses the user's needs effectively
- Offers clear next steps or solutions
- Demonstrates understanding of user intent
- Provides value to the user

Please provide:
1. A score from 0.0 to 1.0 (where 1.0 is extremely helpful)
2. A brief explanation of your scoring

Format your response EXACTLY as:
SCORE: [number between 0.0 and 1.0]
EXPLANATION: [Your reasoning in one sentence]`

var helpfulnessPromptTmpl = template.Must(template.New("helpfulness").Parse(helpfulnessPromptTemplate))

// Helpfulness scores actionable value to the user.
type Helpfulness struct {
	Judge *judge.Client
}

func (Helpfulness) Name() string { return "helpfulness" }

func (e *Helpfulness) Score(ctx context.Context, in Inputs, out Outputs, _ *Reference) (float64, string, error) {
	prompt, err := renderPrompt(helpfulnessPromptTmpl, map[string]string{
		"Input":  in.Input,
		"Output": out.Output,
	})
	if err != nil {
		return 0, "", err
	}

	score, explanation := judge.ParseScore(e.Judge.Invoke(ctx, prompt, 0))
	return score, explanation, nil
}

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("metric: %s: render prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
