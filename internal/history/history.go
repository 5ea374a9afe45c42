// Package history persists an opt-in audit trail of scan runs to Postgres.
// It is deliberately outside the engine's required state: the core's only
// mandatory persistence is the scan cache and rule metadata, so history is
// wired in only when the configuration enables it.
package history

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested record is not in the database.
var ErrNotFound = errors.New("history: record not found")

// ScanRun is one completed scan, summarised.
type ScanRun struct {
	ID           int64     `db:"id"`
	Root         string    `db:"root"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
	TotalFiles   int       `db:"total_files"`
	ScannedFiles int       `db:"scanned_files"`
	CacheHits    int       `db:"cache_hits"`
	FindingCount int       `db:"finding_count"`
	Truncated    bool      `db:"truncated"`
}

// FindingRecord is one finding row attached to a ScanRun.
type FindingRecord struct {
	ID       int64  `db:"id"`
	RunID    int64  `db:"run_id"`
	RuleID   string `db:"rule_id"`
	Severity string `db:"severity"`
	FilePath string `db:"file_path"`
	Line     int    `db:"line"`
	Column   int    `db:"col"`
}

// Store defines the history persistence operations.
//
//go:generate mockgen -destination=../../mocks/mock_history_store.go -package=mocks github.com/sevigo/codelens/internal/history Store
type Store interface {
	SaveRun(ctx context.Context, run *ScanRun, findings []FindingRecord) error
	GetRun(ctx context.Context, id int64) (*ScanRun, error)
	RecentRuns(ctx context.Context, limit int) ([]ScanRun, error)
	FindingsForRun(ctx context.Context, runID int64) ([]FindingRecord, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a Postgres-backed Store.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

// SaveRun inserts the run and its findings in one transaction.
func (s *postgresStore) SaveRun(ctx context.Context, run *ScanRun, findings []FindingRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowxContext(ctx, `
		INSERT INTO scan_runs (root, started_at, finished_at, total_files, scanned_files, cache_hits, finding_count, truncated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		run.Root, run.StartedAt, run.FinishedAt, run.TotalFiles, run.ScannedFiles, run.CacheHits, run.FindingCount, run.Truncated)
	if err := row.Scan(&run.ID); err != nil {
		return err
	}

	for i := range findings {
		findings[i].RunID = run.ID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO scan_findings (run_id, rule_id, severity, file_path, line, col)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			findings[i].RunID, findings[i].RuleID, findings[i].Severity,
			findings[i].FilePath, findings[i].Line, findings[i].Column); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRun returns one run by id.
func (s *postgresStore) GetRun(ctx context.Context, id int64) (*ScanRun, error) {
	var run ScanRun
	err := s.db.GetContext(ctx, &run, `
		SELECT id, root, started_at, finished_at, total_files, scanned_files, cache_hits, finding_count, truncated
		FROM scan_runs
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *postgresStore) RecentRuns(ctx context.Context, limit int) ([]ScanRun, error) {
	var runs []ScanRun
	err := s.db.SelectContext(ctx, &runs, `
		SELECT id, root, started_at, finished_at, total_files, scanned_files, cache_hits, finding_count, truncated
		FROM scan_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// FindingsForRun returns the findings recorded for one run.
func (s *postgresStore) FindingsForRun(ctx context.Context, runID int64) ([]FindingRecord, error) {
	var out []FindingRecord
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, run_id, rule_id, severity, file_path, line, col
		FROM scan_findings
		WHERE run_id = $1
		ORDER BY file_path, line, col`, runID)
	if err != nil {
		return nil, err
	}
	return out, nil
}
