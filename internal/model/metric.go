package model

import (
	"fmt"
	"strings"
)

// Metric identifies an evaluation dimension with its own judge prompt
// and rubric.
type Metric string

const (
	MetricAccuracy            Metric = "accuracy"
	MetricRelevance           Metric = "relevance"
	MetricCoherence           Metric = "coherence"
	MetricCompleteness        Metric = "completeness"
	MetricFactuality          Metric = "factuality"
	MetricHelpfulness         Metric = "helpfulness"
	MetricToxicity            Metric = "toxicity"
	MetricBias                Metric = "bias"
	MetricConversationQuality Metric = "conversation_quality"
	MetricAgentCoordination   Metric = "agent_coordination"
	MetricWorkflowEfficiency  Metric = "workflow_efficiency"
)

var knownMetrics = map[Metric]struct{}{
	MetricAccuracy:            {},
	MetricRelevance:           {},
	MetricCoherence:           {},
	MetricCompleteness:        {},
	MetricFactuality:          {},
	MetricHelpfulness:         {},
	MetricToxicity:            {},
	MetricBias:                {},
	MetricConversationQuality: {},
	MetricAgentCoordination:   {},
	MetricWorkflowEfficiency:  {},
}

// ParseMetric validates a caller-supplied metric name. Unknown names are
// rejected here, at the request boundary; metric dispatch further down has
// its own accuracy fallback for enum values without a dedicated evaluator.
func ParseMetric(name string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(name)))
	if m == "" {
		return "", fmt.Errorf("model: empty metric name")
	}
	if _, ok := knownMetrics[m]; !ok {
		return "", fmt.Errorf("model: unknown metric %q", name)
	}
	return m, nil
}

// ParseMetrics validates a list of metric names, preserving order.
func ParseMetrics(names []string) ([]Metric, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("model: no metrics requested")
	}
	out := make([]Metric, 0, len(names))
	for _, name := range names {
		m, err := ParseMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// WorkflowType tags the shape of a multi-agent workflow.
type WorkflowType string

const (
	WorkflowSingle      WorkflowType = "single"
	WorkflowMultiAgent  WorkflowType = "multi_agent"
	WorkflowAgent2Agent WorkflowType = "agent2agent"
	WorkflowGraph       WorkflowType = "graph"
	WorkflowSwarm       WorkflowType = "swarm"
	WorkflowSequential  WorkflowType = "workflow"
)

var knownWorkflowTypes = map[WorkflowType]struct{}{
	WorkflowSingle:      {},
	WorkflowMultiAgent:  {},
	WorkflowAgent2Agent: {},
	WorkflowGraph:       {},
	WorkflowSwarm:       {},
	WorkflowSequential:  {},
}

// ParseWorkflowType validates a caller-supplied workflow type.
func ParseWorkflowType(name string) (WorkflowType, error) {
	w := WorkflowType(strings.ToLower(strings.TrimSpace(name)))
	if w == "" {
		return "", fmt.Errorf("model: empty workflow type")
	}
	if _, ok := knownWorkflowTypes[w]; !ok {
		return "", fmt.Errorf("model: unknown workflow type %q", name)
	}
	return w, nil
}
