package evaluation

import (
	"fmt"
	"time"

	"github.com/stellarlinkco/agent-judge/internal/model"
)

// Catalog describes the available metrics and workflow types, keyed the
// way callers supply them.
type Catalog struct {
	SingleAgentMetrics map[string]string `json:"single_agent_metrics"`
	MultiAgentMetrics  map[string]string `json:"multiagent_metrics"`
	WorkflowTypes      map[string]string `json:"workflow_types"`
}

// MetricCatalog returns the static metric and workflow-type catalogue.
func MetricCatalog() Catalog {
	return Catalog{
		SingleAgentMetrics: map[string]string{
			"accuracy":     "Measures how accurate the agent's response is compared to expected output",
			"relevance":    "Evaluates how relevant the response is to the input query",
			"coherence":    "Assesses the logical flow and consistency of the response",
			"completeness": "Checks if the response fully addresses the input",
			"factuality":   "Verifies the factual correctness of the response",
			"helpfulness":  "Measures how helpful the response is to the user",
			"toxicity":     "Detects harmful or toxic content in the response",
			"bias":         "Identifies potential biases in the agent's response",
		},
		MultiAgentMetrics: map[string]string{
			"conversation_quality": "Evaluates the overall quality of multi-agent conversations",
			"agent_coordination":   "Measures how well agents coordinate and hand off tasks",
			"workflow_efficiency":  "Assesses the efficiency of the multi-agent workflow",
		},
		WorkflowTypes: map[string]string{
			"single":      "Single agent evaluation",
			"multi_agent": "General multi-agent system",
			"agent2agent": "Agent-to-Agent (A2A) protocol workflows",
			"graph":       "Graph-based multi-agent workflows",
			"swarm":       "Swarm intelligence patterns",
			"workflow":    "Sequential workflow patterns",
		},
	}
}

// SampleData is generated test input for trying the evaluators out.
type SampleData struct {
	SingleAgentTests []model.TestCase `json:"single_agent_tests"`
	MultiAgentTests  []BatchItem      `json:"multiagent_tests"`
}

// GenerateSampleData builds canned single-agent test cases and
// agent2agent conversations. kinds selects which sections to populate:
// "single", "multiagent", or both.
func GenerateSampleData(numTestCases int, kinds []string) SampleData {
	if numTestCases <= 0 {
		numTestCases = 5
	}
	if len(kinds) == 0 {
		kinds = []string{"single", "multiagent"}
	}

	wantSingle, wantMulti := false, false
	for _, kind := range kinds {
		switch kind {
		case "single":
			wantSingle = true
		case "multiagent":
			wantMulti = true
		}
	}

	data := SampleData{
		SingleAgentTests: []model.TestCase{},
		MultiAgentTests:  []BatchItem{},
	}

	if wantSingle {
		for i := 1; i <= numTestCases; i++ {
			data.SingleAgentTests = append(data.SingleAgentTests, model.TestCase{
				ID:             fmt.Sprintf("test-%d", i),
				Input:          fmt.Sprintf("Test question %d: What is artificial intelligence?", i),
				ExpectedOutput: "Artificial Intelligence (AI) is a field of computer science focused on creating systems that can perform tasks that typically require human intelligence.",
				Context:        map[string]any{"domain": "AI", "difficulty": "basic"},
				Metadata:       map[string]any{"test_type": "knowledge", "category": "AI basics"},
			})
		}
	}

	if wantMulti {
		for i := 1; i <= numTestCases; i++ {
			now := time.Now().UTC()
			data.MultiAgentTests = append(data.MultiAgentTests, BatchItem{
				Type:         "multiagent",
				WorkflowID:   fmt.Sprintf("workflow-%d", i),
				WorkflowType: string(model.WorkflowAgent2Agent),
				Agents:       []string{"researcher", "writer", "reviewer"},
				Messages: []model.AgentMessage{
					{FromAgent: "user", ToAgent: "researcher", Message: fmt.Sprintf("Research topic: AI trends %d", i), Timestamp: now},
					{FromAgent: "researcher", ToAgent: "writer", Message: fmt.Sprintf("Research findings: AI trend %d shows significant growth", i), Timestamp: now},
					{FromAgent: "writer", ToAgent: "reviewer", Message: fmt.Sprintf("Draft article about AI trend %d", i), Timestamp: now},
					{FromAgent: "reviewer", ToAgent: "user", Message: fmt.Sprintf("Final article about AI trend %d - approved", i), Timestamp: now},
				},
				Evaluators: []string{"conversation_quality", "agent_coordination", "workflow_efficiency"},
				Metadata:   map[string]any{"test_type": "workflow", "complexity": "medium"},
			})
		}
	}

	return data
}
