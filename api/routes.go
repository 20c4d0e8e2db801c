package api

import (
	"errors"
	"os"
	"strings"
)

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	api := s.router.Group("/api")
	apiKey := strings.TrimSpace(os.Getenv("AGENT_JUDGE_API_KEY"))
	if apiKey != "" {
		api.Use(apiKeyAuthMiddleware(apiKey))
	} else if strings.EqualFold(strings.TrimSpace(os.Getenv("AGENT_JUDGE_DISABLE_AUTH")), "true") {
		// Explicitly allow unauthenticated access.
	} else {
		return errors.New("api: missing auth configuration: set AGENT_JUDGE_API_KEY or set AGENT_JUDGE_DISABLE_AUTH=true")
	}

	api.GET("/health", s.handleHealth)
	api.GET("/metrics", s.handleGetMetrics)
	api.GET("/status", s.handleGetStatus)

	api.POST("/evaluations/agent", s.handleEvaluateAgent)
	api.POST("/evaluations/workflow", s.handleEvaluateWorkflow)
	api.POST("/evaluations/batch", s.handleEvaluateBatch)

	api.GET("/traces", s.handleListTraces)
	api.GET("/traces/:id", s.handleGetTrace)

	api.POST("/testdata", s.handleCreateTestData)

	return nil
}
