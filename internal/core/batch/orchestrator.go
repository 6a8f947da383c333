// Package batch drives one extraction run over a directory of résumés.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joseph-ayodele/resume-extractor/constants"
	"github.com/joseph-ayodele/resume-extractor/internal/common"
	"github.com/joseph-ayodele/resume-extractor/internal/core/async"
	"github.com/joseph-ayodele/resume-extractor/internal/entity"
	"github.com/joseph-ayodele/resume-extractor/internal/ingest"
	"github.com/joseph-ayodele/resume-extractor/internal/repository"
)

type Config struct {
	TextArchiveDir string
	ConversionDir  string
	KeepArtifacts  bool // leave both working directories in place after the run
}

// DocumentProcessor turns one document into a record.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, doc *entity.Document) (*entity.ExtractionRecord, error)
}

// Summary counts what happened to the files of one run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Scanned   int           `json:"scanned"` // files enumerated (lock markers and directories excluded)
	Matched   int           `json:"matched"` // files with a supported extension
	Succeeded int           `json:"succeeded"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration_ns"`
}

// Result is the ordered record list of a run plus its summary.
type Result struct {
	Records []entity.ExtractionRecord
	Summary Summary
}

type Orchestrator struct {
	cfg    Config
	proc   DocumentProcessor
	pool   *async.Pool
	ledger repository.RunRepository // nil = no ledger
	logger *slog.Logger
}

func New(cfg Config, proc DocumentProcessor, pool *async.Pool, ledger repository.RunRepository, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if pool == nil {
		pool = async.NewPool(logger)
	}
	return &Orchestrator{cfg: cfg, proc: proc, pool: pool, ledger: ledger, logger: logger}
}

// Run extracts one record per adaptable file in inputDir, in enumeration order.
func (o *Orchestrator) Run(ctx context.Context, inputDir string) ([]entity.ExtractionRecord, error) {
	res, err := o.Execute(ctx, inputDir)
	if res == nil {
		return nil, err
	}
	return res.Records, err
}

// Execute is Run with the run summary. Only setup failures (working directories,
// directory listing, ledger run row) abort; per-document failures are counted.
// On cancellation the records finished so far are returned with ctx's error.
func (o *Orchestrator) Execute(ctx context.Context, inputDir string) (_ *Result, err error) {
	start := time.Now()

	if err := o.setup(); err != nil {
		return nil, err
	}
	defer o.cleanup()

	paths, dirStats, err := ingest.ListDirectory(inputDir)
	if err != nil {
		o.logger.Error("failed to list input directory", "dir", inputDir, "error", err)
		return nil, err
	}

	runID, err := o.startRun(ctx, inputDir)
	if err != nil {
		return nil, err
	}
	ctx = common.WithRunID(ctx, runID)
	logger := o.logger.With("run_id", runID)
	logger.Info("starting extraction run",
		"dir", inputDir,
		"files", len(paths),
		"matched", dirStats.Matched,
		"locked", dirStats.Locked,
		"workers", o.pool.Workers(),
	)

	stems := ingest.ArchiveStems(paths)
	slots := make([]*entity.ExtractionRecord, len(paths))
	statuses := make([]constants.DocStatus, len(paths))
	runErr := o.pool.Run(ctx, len(paths), func(ctx context.Context, i int) {
		slots[i], statuses[i] = o.processOne(ctx, logger, runID, i, paths[i], stems[i])
	})

	res := &Result{Summary: Summary{
		RunID:   runID,
		Scanned: len(paths),
		Matched: int(dirStats.Matched),
	}}
	for i, rec := range slots {
		switch statuses[i] {
		case constants.DocStatusOK:
			res.Summary.Succeeded++
			res.Records = append(res.Records, *rec)
		case constants.DocStatusSkipped:
			res.Summary.Skipped++
		case constants.DocStatusFailed:
			res.Summary.Failed++
		}
	}
	res.Summary.Duration = time.Since(start)

	o.finishRun(ctx, logger, res.Summary)
	logger.Info("extraction run finished",
		"succeeded", res.Summary.Succeeded,
		"skipped", res.Summary.Skipped,
		"failed", res.Summary.Failed,
		"duration_ms", res.Summary.Duration.Milliseconds(),
	)
	return res, runErr
}

func (o *Orchestrator) processOne(ctx context.Context, logger *slog.Logger, runID string, idx int, path, archiveStem string) (*entity.ExtractionRecord, constants.DocStatus) {
	doc := entity.NewDocument(idx, path)
	doc.ArchiveStem = archiveStem
	ctx = common.WithDocumentID(ctx, doc.ID.String())
	logger = logger.With("path", path, "document_id", doc.ID.String())

	if hash, err := ingest.HashFile(path); err != nil {
		logger.Warn("could not hash file", "error", err)
	} else {
		doc.ContentHash = hash
	}

	rec, err := o.proc.ProcessDocument(ctx, doc)
	status := constants.DocStatusOK
	switch {
	case err == nil:
		logger.Info("document extracted", "name", rec.Name, "format", rec.Format)
	case errors.Is(err, common.ErrUnsupportedFormat):
		status = constants.DocStatusSkipped
		logger.Info("skipping unsupported file", "ext", doc.Ext)
	default:
		status = constants.DocStatusFailed
		logger.Error("document failed", "code", common.CodeOf(err), "error", err)
	}
	if status != constants.DocStatusOK {
		rec = nil
	}

	o.recordOutcome(ctx, logger, runID, doc, status, rec, err)
	return rec, status
}

func (o *Orchestrator) setup() error {
	for _, dir := range []string{o.cfg.TextArchiveDir, o.cfg.ConversionDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			o.logger.Error("failed to create working directory", "dir", dir, "error", err)
			return fmt.Errorf("setup %s: %w", dir, err)
		}
	}
	return nil
}

// cleanup removes the working directories; failures are only logged.
func (o *Orchestrator) cleanup() {
	if o.cfg.KeepArtifacts {
		o.logger.Debug("keeping working directories",
			"text_archive_dir", o.cfg.TextArchiveDir,
			"conversion_dir", o.cfg.ConversionDir)
		return
	}
	for _, dir := range []string{o.cfg.TextArchiveDir, o.cfg.ConversionDir} {
		if dir == "" {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			o.logger.Warn("failed to remove working directory", "dir", dir, "error", err)
		}
	}
}

func (o *Orchestrator) startRun(ctx context.Context, inputDir string) (string, error) {
	if o.ledger == nil {
		return ulid.Make().String(), nil
	}
	run, err := o.ledger.StartRun(ctx, inputDir)
	if err != nil {
		return "", fmt.Errorf("start ledger run: %w", err)
	}
	return run.ID, nil
}

func (o *Orchestrator) recordOutcome(ctx context.Context, logger *slog.Logger, runID string, doc *entity.Document,
	status constants.DocStatus, rec *entity.ExtractionRecord, procErr error) {
	if o.ledger == nil {
		return
	}
	out := repository.Outcome{
		RunID:       runID,
		Index:       doc.Index,
		DocumentID:  doc.ID.String(),
		SourcePath:  doc.SourcePath,
		ContentHash: doc.ContentHash,
		Format:      string(doc.Format),
		Status:      status,
		Record:      rec,
	}
	if procErr != nil {
		out.ErrorMessage = procErr.Error()
	}
	// the run keeps going without its audit row
	if err := o.ledger.RecordOutcome(context.WithoutCancel(ctx), out); err != nil {
		logger.Warn("ledger outcome not recorded", "error", err)
	}
}

func (o *Orchestrator) finishRun(ctx context.Context, logger *slog.Logger, s Summary) {
	if o.ledger == nil {
		return
	}
	err := o.ledger.FinishRun(context.WithoutCancel(ctx), s.RunID, repository.RunStats{
		Scanned:   s.Scanned,
		Succeeded: s.Succeeded,
		Skipped:   s.Skipped,
		Failed:    s.Failed,
	})
	if err != nil {
		logger.Warn("ledger run not finished", "error", err)
	}
}
