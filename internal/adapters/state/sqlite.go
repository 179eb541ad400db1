package state

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	_ "modernc.org/sqlite"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// SQLiteAnalysisStore implements AnalysisStore with SQLite storage.
type SQLiteAnalysisStore struct {
	dbPath string
	db     *sql.DB // Write connection
	readDB *sql.DB // Read-only connection
	now    func() time.Time

	maxRetries    int
	baseRetryWait time.Duration
}

// SQLiteOption configures the store.
type SQLiteOption func(*SQLiteAnalysisStore)

// WithClock sets the clock used for created_at.
func WithClock(now func() time.Time) SQLiteOption {
	return func(s *SQLiteAnalysisStore) {
		s.now = now
	}
}

// WithRetry sets how often busy writes are retried.
func WithRetry(maxRetries int, baseWait time.Duration) SQLiteOption {
	return func(s *SQLiteAnalysisStore) {
		s.maxRetries = maxRetries
		s.baseRetryWait = baseWait
	}
}

// NewSQLiteAnalysisStore opens or creates the database at dbPath.
func NewSQLiteAnalysisStore(dbPath string, opts ...SQLiteOption) (*SQLiteAnalysisStore, error) {
	s := &SQLiteAnalysisStore{
		dbPath:        dbPath,
		now:           time.Now,
		maxRetries:    5,
		baseRetryWait: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening write database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	s.db = db

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	readDB, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&mode=ro&_pragma=busy_timeout(1000)")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening read database: %w", err)
	}
	readDB.SetMaxOpenConns(10)
	readDB.SetMaxIdleConns(5)
	readDB.SetConnMaxLifetime(5 * time.Minute)
	s.readDB = readDB

	return s, nil
}

func (s *SQLiteAnalysisStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("checking schema version: %w", err)
	}

	for i, migration := range []string{migrationV1} {
		version := i + 1
		if version <= current {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration transaction: %w", err)
		}
		for _, stmt := range splitStatements(migration) {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("executing migration v%d: %w", version, err)
			}
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration v%d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", version, err)
		}
	}
	return nil
}

// splitStatements splits a SQL script into statements, dropping comment
// lines.
func splitStatements(script string) []string {
	var statements []string
	for _, stmt := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(stmt, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" && !strings.HasPrefix(trimmed, "--") {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			statements = append(statements, strings.Join(lines, "\n"))
		}
	}
	return statements
}

// Save inserts or replaces the result stored under its run id.
func (s *SQLiteAnalysisStore) Save(ctx context.Context, result *core.AggregateResult) error {
	if result == nil || result.RunID == "" {
		return core.ErrValidation(core.CodeMissingField, "missing required field: run_id")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}

	p := result.StartupProfile
	return s.retryWrite(ctx, "saving analysis", func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO analyses (run_id, domain, stage, geography, customer_type, readiness, completed_agents, created_at, result_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id) DO UPDATE SET
				readiness = excluded.readiness,
				completed_agents = excluded.completed_agents,
				result_json = excluded.result_json`,
			result.RunID, p.Domain, p.Stage, p.Geography, p.CustomerType,
			string(result.Strategy.Value.FundraisingReadiness), result.Metadata.CompletedAgents,
			s.now().UTC().Format(time.RFC3339Nano), string(data),
		)
		return err
	})
}

// Load returns the result stored under runID.
func (s *SQLiteAnalysisStore) Load(ctx context.Context, runID string) (*core.AggregateResult, error) {
	var data string
	err := s.readDB.QueryRowContext(ctx, "SELECT result_json FROM analyses WHERE run_id = ?", runID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound("analysis", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading analysis %s: %w", runID, err)
	}

	var result core.AggregateResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("decoding analysis %s: %w", runID, err)
	}
	return &result, nil
}

// List returns summaries, newest first. A non-positive limit lists all.
func (s *SQLiteAnalysisStore) List(ctx context.Context, limit int) ([]core.AnalysisSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.readDB.QueryContext(ctx, `
		SELECT run_id, domain, stage, geography, readiness, completed_agents, created_at
		FROM analyses
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	summaries := []core.AnalysisSummary{}
	for rows.Next() {
		var sum core.AnalysisSummary
		if err := rows.Scan(&sum.RunID, &sum.Domain, &sum.Stage, &sum.Geography,
			&sum.Readiness, &sum.CompletedAgents, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Close closes both connections.
func (s *SQLiteAnalysisStore) Close() error {
	return errors.Join(s.readDB.Close(), s.db.Close())
}

// retryWrite retries fn while the database reports it is busy.
func (s *SQLiteAnalysisStore) retryWrite(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isSQLiteBusy(err) {
			return fmt.Errorf("%s: %w", operation, err)
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.baseRetryWait * time.Duration(1<<attempt)):
		}
	}
	return fmt.Errorf("%s failed after %d retries: %w", operation, s.maxRetries, lastErr)
}

func isSQLiteBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED")
}
