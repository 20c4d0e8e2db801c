// Package api exposes the evaluation service over HTTP. The transport
// layer owns the externally visible counters (total evaluations, active
// sessions); the evaluation core stays free of ambient state.
package api

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/agent-judge/internal/config"
	"github.com/stellarlinkco/agent-judge/internal/evaluation"
	"github.com/stellarlinkco/agent-judge/internal/sink"
)

const serverVersion = "1.0.0"

type Server struct {
	router  *gin.Engine
	service *evaluation.Service
	store   sink.Store
	config  *config.Config

	startTime time.Time

	// Counters are touched only at request entry/exit so concurrent
	// requests never double count.
	mu               sync.Mutex
	totalEvaluations int
	activeSessions   map[string]struct{}
}

func NewServer(cfg *config.Config, svc *evaluation.Service, st sink.Store) (*Server, error) {
	r := gin.New()
	s := &Server{
		router:         r,
		service:        svc,
		store:          st,
		config:         cfg,
		startTime:      time.Now(),
		activeSessions: make(map[string]struct{}),
	}
	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}

// beginSession registers an in-flight request and returns the tracking
// id to release on exit.
func (s *Server) beginSession(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeSessions[id] = struct{}{}
	return id
}

// endSession releases an in-flight request and adds its completed
// evaluation count to the running total.
func (s *Server) endSession(id string, completed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activeSessions, id)
	s.totalEvaluations += completed
}

func (s *Server) counters() (total, active int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalEvaluations, len(s.activeSessions)
}
