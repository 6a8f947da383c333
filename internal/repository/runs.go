package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joseph-ayodele/resume-extractor/constants"
	"github.com/joseph-ayodele/resume-extractor/internal/entity"
)

var ErrRunNotFound = errors.New("run not found")

// Run is one batch execution.
type Run struct {
	ID         string     `json:"id"`
	InputDir   string     `json:"input_dir"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Scanned    int        `json:"scanned"`
	Succeeded  int        `json:"succeeded"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
}

// RunStats are the counters written when a run finishes.
type RunStats struct {
	Scanned   int
	Succeeded int
	Skipped   int
	Failed    int
}

// Outcome is the ledger row for one document of a run.
type Outcome struct {
	RunID        string
	Index        int
	DocumentID   string
	SourcePath   string
	ContentHash  string
	Format       string
	Status       constants.DocStatus
	ErrorMessage string
	Record       *entity.ExtractionRecord
}

type RunRepository interface {
	StartRun(ctx context.Context, inputDir string) (*Run, error)
	RecordOutcome(ctx context.Context, o Outcome) error
	FinishRun(ctx context.Context, runID string, stats RunStats) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	ListOutcomes(ctx context.Context, runID string) ([]Outcome, error)
}

type runRepo struct {
	db  *DB
	log *slog.Logger

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewRunRepository(db *DB, log *slog.Logger) RunRepository {
	if log == nil {
		log = slog.Default()
	}
	return &runRepo{db: db, log: log, entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (r *runRepo) newID(now time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), r.entropy).String()
}

func (r *runRepo) StartRun(ctx context.Context, inputDir string) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{ID: r.newID(now), InputDir: inputDir, StartedAt: now}
	_, err := r.db.ExecContext(ctx,
		r.db.rebind(`INSERT INTO run (id, input_dir, started_at) VALUES (?, ?, ?)`),
		run.ID, run.InputDir, now.UnixMilli())
	if err != nil {
		r.log.Error("run start failed", "input_dir", inputDir, "err", err)
		return nil, fmt.Errorf("insert run: %w", err)
	}
	r.log.Info("run started", "run_id", run.ID, "input_dir", inputDir)
	return run, nil
}

func (r *runRepo) RecordOutcome(ctx context.Context, o Outcome) error {
	var recordJSON sql.NullString
	if o.Record != nil {
		b, err := json.Marshal(o.Record)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		recordJSON = sql.NullString{String: string(b), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		r.db.rebind(`INSERT INTO document_outcome
			(run_id, idx, document_id, source_path, content_hash, format, status, error_message, record_json, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		o.RunID, o.Index, o.DocumentID, o.SourcePath, o.ContentHash, o.Format,
		string(o.Status), o.ErrorMessage, recordJSON, time.Now().UTC().UnixMilli())
	if err != nil {
		r.log.Error("outcome insert failed", "run_id", o.RunID, "path", o.SourcePath, "err", err)
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

func (r *runRepo) FinishRun(ctx context.Context, runID string, stats RunStats) error {
	res, err := r.db.ExecContext(ctx,
		r.db.rebind(`UPDATE run SET finished_at = ?, scanned = ?, succeeded = ?, skipped = ?, failed = ? WHERE id = ?`),
		time.Now().UTC().UnixMilli(), stats.Scanned, stats.Succeeded, stats.Skipped, stats.Failed, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	r.log.Info("run finished", "run_id", runID,
		"succeeded", stats.Succeeded, "skipped", stats.Skipped, "failed", stats.Failed)
	return nil
}

const runColumns = `id, input_dir, started_at, finished_at, scanned, succeeded, skipped, failed`

func (r *runRepo) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+runColumns+` FROM run WHERE id = ?`), runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

func (r *runRepo) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		r.db.rebind(`SELECT `+runColumns+` FROM run ORDER BY started_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

func (r *runRepo) ListOutcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := r.db.QueryContext(ctx,
		r.db.rebind(`SELECT run_id, idx, document_id, source_path, content_hash, format, status, error_message, record_json
			FROM document_outcome WHERE run_id = ? ORDER BY idx`), runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var (
			o          Outcome
			status     string
			recordJSON sql.NullString
		)
		if err := rows.Scan(&o.RunID, &o.Index, &o.DocumentID, &o.SourcePath, &o.ContentHash,
			&o.Format, &status, &o.ErrorMessage, &recordJSON); err != nil {
			return nil, err
		}
		o.Status = constants.DocStatus(status)
		if recordJSON.Valid {
			var rec entity.ExtractionRecord
			if err := json.Unmarshal([]byte(recordJSON.String), &rec); err != nil {
				return nil, fmt.Errorf("decode record for %s: %w", o.SourcePath, err)
			}
			rec.Index = o.Index
			o.Record = &rec
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run      Run
		started  int64
		finished sql.NullInt64
	)
	if err := s.Scan(&run.ID, &run.InputDir, &started, &finished,
		&run.Scanned, &run.Succeeded, &run.Skipped, &run.Failed); err != nil {
		return nil, err
	}
	run.StartedAt = time.UnixMilli(started).UTC()
	if finished.Valid {
		t := time.UnixMilli(finished.Int64).UTC()
		run.FinishedAt = &t
	}
	return &run, nil
}
