package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarlinkco/agent-judge/internal/model"
)

const defaultListLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertTraceStmt *sql.Stmt
	getTraceStmt    *sql.Stmt
}

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sink: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sink: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sink: open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sink: ping sqlite: %w", err)
	}

	if err := initSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSQLiteSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS traces (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			project_name TEXT NOT NULL,
			evaluation_id TEXT NOT NULL,
			input_json TEXT,
			output_json TEXT,
			scores_json TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_traces_project ON traces(project_name)`,
		`CREATE INDEX IF NOT EXISTS idx_traces_created_at ON traces(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("sink: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("sink: nil store")
	}

	var err error
	s.insertTraceStmt, err = s.db.Prepare(`INSERT INTO traces
		(id, name, project_name, evaluation_id, input_json, output_json, scores_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sink: prepare insert trace: %w", err)
	}

	s.getTraceStmt, err = s.db.Prepare(`SELECT
		id, name, project_name, evaluation_id, input_json, output_json, scores_json, created_at
		FROM traces WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("sink: prepare get trace: %w", err)
	}

	return nil
}

// Record stores one evaluation trace and returns its trace id.
func (s *SQLiteStore) Record(ctx context.Context, evaluationID string, input, output map[string]any, scores []model.EvaluationScore, projectName string) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("sink: nil store")
	}
	if ctx == nil {
		return "", errors.New("sink: nil context")
	}
	evaluationID = strings.TrimSpace(evaluationID)
	if evaluationID == "" {
		return "", errors.New("sink: empty evaluation id")
	}
	if strings.TrimSpace(projectName) == "" {
		projectName = "default"
	}

	inputJSON, err := marshalPayload(input)
	if err != nil {
		return "", fmt.Errorf("sink: marshal input: %w", err)
	}
	outputJSON, err := marshalPayload(output)
	if err != nil {
		return "", fmt.Errorf("sink: marshal output: %w", err)
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return "", fmt.Errorf("sink: marshal scores: %w", err)
	}

	traceID := uuid.NewString()
	_, err = s.insertTraceStmt.ExecContext(ctx,
		traceID,
		"evaluation-"+evaluationID,
		projectName,
		evaluationID,
		inputJSON,
		outputJSON,
		string(scoresJSON),
		time.Now().UTC().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("sink: insert trace: %w", err)
	}
	return traceID, nil
}

// GetTrace loads one trace by id.
func (s *SQLiteStore) GetTrace(ctx context.Context, id string) (*TraceRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sink: nil store")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("sink: empty trace id")
	}

	row := s.getTraceStmt.QueryRowContext(ctx, id)
	rec, err := scanTrace(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sink: trace %q not found: %w", id, err)
		}
		return nil, fmt.Errorf("sink: get trace: %w", err)
	}
	return rec, nil
}

// ListTraces returns traces, newest first.
func (s *SQLiteStore) ListTraces(ctx context.Context, filter TraceFilter) ([]*TraceRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sink: nil store")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, name, project_name, evaluation_id, input_json, output_json, scores_json, created_at
		FROM traces`
	args := make([]any, 0, 3)
	where := make([]string, 0, 2)
	if v := strings.TrimSpace(filter.ProjectName); v != "" {
		where = append(where, "project_name = ?")
		args = append(args, v)
	}
	if !filter.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, filter.Since.UTC().Unix())
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sink: list traces: %w", err)
	}
	defer rows.Close()

	var out []*TraceRecord
	for rows.Next() {
		rec, err := scanTrace(rows)
		if err != nil {
			return nil, fmt.Errorf("sink: scan trace: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sink: list traces: %w", err)
	}
	return out, nil
}

// Close releases the database handle and prepared statements.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	if s.insertTraceStmt != nil {
		_ = s.insertTraceStmt.Close()
	}
	if s.getTraceStmt != nil {
		_ = s.getTraceStmt.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrace(row rowScanner) (*TraceRecord, error) {
	var (
		rec        TraceRecord
		inputJSON  sql.NullString
		outputJSON sql.NullString
		scoresJSON sql.NullString
		createdAt  int64
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.ProjectName, &rec.EvaluationID,
		&inputJSON, &outputJSON, &scoresJSON, &createdAt); err != nil {
		return nil, err
	}

	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	if inputJSON.Valid && inputJSON.String != "" {
		if err := json.Unmarshal([]byte(inputJSON.String), &rec.Input); err != nil {
			return nil, fmt.Errorf("decode input: %w", err)
		}
	}
	if outputJSON.Valid && outputJSON.String != "" {
		if err := json.Unmarshal([]byte(outputJSON.String), &rec.Output); err != nil {
			return nil, fmt.Errorf("decode output: %w", err)
		}
	}
	if scoresJSON.Valid && scoresJSON.String != "" {
		if err := json.Unmarshal([]byte(scoresJSON.String), &rec.Scores); err != nil {
			return nil, fmt.Errorf("decode scores: %w", err)
		}
	}
	return &rec, nil
}

func marshalPayload(payload map[string]any) (string, error) {
	if payload == nil {
		return "", nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
