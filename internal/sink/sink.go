// Package sink records completed evaluations to a system of record and
// hands back trace identifiers.
package sink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stellarlinkco/agent-judge/internal/config"
	"github.com/stellarlinkco/agent-judge/internal/model"
)

// ResultSink accepts a completed evaluation and returns a trace id. A
// failing sink must not take the evaluation down with it; callers catch
// the error, log it, and fall back to the evaluation id as the trace id.
type ResultSink interface {
	Record(ctx context.Context, evaluationID string, input, output map[string]any, scores []model.EvaluationScore, projectName string) (string, error)
}

// TraceReader defines read access to recorded traces.
type TraceReader interface {
	GetTrace(ctx context.Context, id string) (*TraceRecord, error)
	ListTraces(ctx context.Context, filter TraceFilter) ([]*TraceRecord, error)
}

// Store combines recording and querying over one backend.
type Store interface {
	ResultSink
	TraceReader
	Close() error
}

// TraceRecord is one durably stored evaluation trace.
type TraceRecord struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	ProjectName  string                  `json:"project_name"`
	EvaluationID string                  `json:"evaluation_id"`
	Input        map[string]any          `json:"input,omitempty"`
	Output       map[string]any          `json:"output,omitempty"`
	Scores       []model.EvaluationScore `json:"scores,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

// TraceFilter filters trace listings.
type TraceFilter struct {
	ProjectName string
	Since       time.Time
	Limit       int
}

const DefaultSQLitePath = "data/agent-judge.db"

// Open builds a Store from config.
func Open(cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("sink: missing config")
	}

	storageType := strings.ToLower(strings.TrimSpace(cfg.Storage.Type))
	if storageType == "" {
		storageType = "sqlite"
	}

	switch storageType {
	case "sqlite":
		path := strings.TrimSpace(cfg.Storage.Path)
		if path == "" {
			path = DefaultSQLitePath
		}
		return NewSQLiteStore(path)
	case "memory":
		return NewSQLiteStore(":memory:")
	default:
		return nil, fmt.Errorf("sink: unsupported type %q", storageType)
	}
}
