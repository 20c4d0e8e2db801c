package api

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stellarlinkco/agent-judge/internal/evaluation"
	"github.com/stellarlinkco/agent-judge/internal/model"
	"github.com/stellarlinkco/agent-judge/internal/sink"
)

type agentEvalRequest struct {
	AgentID        string           `json:"agent_id"`
	TestCases      []model.TestCase `json:"test_cases"`
	Evaluators     []string         `json:"evaluators"`
	ProjectName    string           `json:"project_name"`
	ExperimentName string           `json:"experiment_name"`
	Metadata       map[string]any   `json:"metadata"`
}

// wireMessage carries conversation messages with string timestamps so a
// malformed timestamp is a request-validation error, not a decode panic.
type wireMessage struct {
	FromAgent string         `json:"from_agent"`
	ToAgent   string         `json:"to_agent"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata"`
}

type workflowEvalRequest struct {
	WorkflowID     string         `json:"workflow_id"`
	WorkflowType   string         `json:"workflow_type"`
	Agents         []string       `json:"agents"`
	Messages       []wireMessage  `json:"conversation_messages"`
	Evaluators     []string       `json:"evaluators"`
	ProjectName    string         `json:"project_name"`
	ExperimentName string         `json:"experiment_name"`
	Metadata       map[string]any `json:"metadata"`
}

type batchEvalRequest struct {
	Evaluations    []evaluation.BatchItem `json:"evaluations"`
	ProjectName    string                 `json:"project_name"`
	ExperimentName string                 `json:"experiment_name"`
}

type testDataRequest struct {
	NumTestCases int      `json:"num_test_cases"`
	AgentTypes   []string `json:"agent_types"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, evaluation.MetricCatalog())
}

func (s *Server) handleGetStatus(c *gin.Context) {
	total, active := s.counters()
	c.JSON(http.StatusOK, gin.H{
		"status":            "running",
		"version":           serverVersion,
		"storage_connected": s.store != nil,
		"uptime_seconds":    time.Since(s.startTime).Seconds(),
		"total_evaluations": total,
		"active_sessions":   active,
	})
}

func (s *Server) handleEvaluateAgent(c *gin.Context) {
	var req agentEvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	tracking := s.beginSession(uuid.NewString())
	completed := 0
	defer func() { s.endSession(tracking, completed) }()

	summary, err := s.service.EvaluateAgent(c.Request.Context(),
		req.AgentID, req.TestCases, req.Evaluators,
		req.ProjectName, req.ExperimentName, req.Metadata)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	completed = summary.TotalTests
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleEvaluateWorkflow(c *gin.Context) {
	var req workflowEvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	messages, err := parseWireMessages(req.Messages)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	tracking := s.beginSession(uuid.NewString())
	completed := 0
	defer func() { s.endSession(tracking, completed) }()

	summary, err := s.service.EvaluateMultiAgentWorkflow(c.Request.Context(),
		req.WorkflowID, req.WorkflowType, req.Agents, messages,
		req.Evaluators, req.ProjectName, req.ExperimentName, req.Metadata)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	completed = 1
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleEvaluateBatch(c *gin.Context) {
	var req batchEvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Evaluations) == 0 {
		respondError(c, http.StatusBadRequest, errors.New("no evaluations provided"))
		return
	}

	tracking := s.beginSession(uuid.NewString())
	completed := 0
	defer func() { s.endSession(tracking, completed) }()

	summary := s.service.RunBatch(c.Request.Context(),
		req.Evaluations, req.ProjectName, req.ExperimentName)

	completed = summary.TotalTests
	for _, entry := range summary.Results {
		if entry.Workflow != nil {
			completed++
		}
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleListTraces(c *gin.Context) {
	if s.store == nil {
		respondError(c, http.StatusServiceUnavailable, errors.New("trace store not configured"))
		return
	}

	filter := sink.TraceFilter{
		ProjectName: strings.TrimSpace(c.Query("project")),
	}

	if raw := strings.TrimSpace(c.Query("since")); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Errorf("invalid since timestamp: %w", err))
			return
		}
		filter.Since = since
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		filter.Limit = limit
	}

	traces, err := s.store.ListTraces(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if traces == nil {
		traces = []*sink.TraceRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"traces": traces, "count": len(traces)})
}

func (s *Server) handleGetTrace(c *gin.Context) {
	if s.store == nil {
		respondError(c, http.StatusServiceUnavailable, errors.New("trace store not configured"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing trace id"))
		return
	}

	trace, err := s.store.GetTrace(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, fmt.Errorf("trace %q not found", id))
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, trace)
}

func (s *Server) handleCreateTestData(c *gin.Context) {
	var req testDataRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, evaluation.GenerateSampleData(req.NumTestCases, req.AgentTypes))
}

// parseWireMessages converts wire messages, validating timestamps at the
// boundary. A missing timestamp defaults downstream; a present but
// malformed one rejects the request.
func parseWireMessages(msgs []wireMessage) ([]model.AgentMessage, error) {
	out := make([]model.AgentMessage, 0, len(msgs))
	for i, msg := range msgs {
		parsed := model.AgentMessage{
			FromAgent: msg.FromAgent,
			ToAgent:   msg.ToAgent,
			Message:   msg.Message,
			Metadata:  msg.Metadata,
		}
		if raw := strings.TrimSpace(msg.Timestamp); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, fmt.Errorf("message %d: invalid timestamp %q: %w", i, raw, err)
			}
			parsed.Timestamp = ts
		}
		out = append(out, parsed)
	}
	return out, nil
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
