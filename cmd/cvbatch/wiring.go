package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/joseph-ayodele/resume-extractor/internal/common"
	"github.com/joseph-ayodele/resume-extractor/internal/core"
	"github.com/joseph-ayodele/resume-extractor/internal/core/adapter"
	"github.com/joseph-ayodele/resume-extractor/internal/core/async"
	"github.com/joseph-ayodele/resume-extractor/internal/core/batch"
	"github.com/joseph-ayodele/resume-extractor/internal/core/contact"
	"github.com/joseph-ayodele/resume-extractor/internal/core/names"
	"github.com/joseph-ayodele/resume-extractor/internal/core/nlp"
	"github.com/joseph-ayodele/resume-extractor/internal/gazetteer"
	"github.com/joseph-ayodele/resume-extractor/internal/repository"
)

// loadConfig reads the environment then applies any flags the user set.
func loadConfig(c *cli.Context) (*common.Config, error) {
	cfg := common.LoadConfig()
	if c.IsSet("workers") {
		cfg.Batch.Workers = c.Int("workers")
	}
	if c.IsSet("keep-artifacts") {
		cfg.Batch.KeepArtifacts = c.Bool("keep-artifacts")
	}
	if c.IsSet("ledger") {
		cfg.Ledger.DSN = c.String("ledger")
	}
	if c.IsSet("names") {
		cfg.Extract.GazetteerPath = c.String("names")
	}
	if c.IsSet("patterns") {
		cfg.Extract.ContactPatternsFile = c.String("patterns")
	}
	if c.Bool("verbose") {
		cfg.Log.Level = common.LogLevelDebug
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(c *cli.Context, cfg *common.Config) *slog.Logger {
	logger := common.NewLogger(cfg.Log.Level, c.App.ErrWriter)
	slog.SetDefault(logger)
	return logger
}

func openLedger(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.RunRepository, func(), error) {
	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Ledger.DSN,
		MaxConns:    cfg.Ledger.MaxConns,
		DialTimeout: cfg.Ledger.DialTimeout,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger: %w", err)
	}
	return repository.NewRunRepository(db, logger), func() { db.Close(logger) }, nil
}

// buildOrchestrator wires the whole extraction stack. The returned func releases
// the ledger connection, if any.
func buildOrchestrator(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*batch.Orchestrator, func(), error) {
	gaz, err := gazetteer.Load(cfg.Extract.GazetteerPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("gazetteer loaded", "path", cfg.Extract.GazetteerPath, "names", gaz.Len())

	patterns := contact.DefaultPatterns()
	if cfg.Extract.ContactPatternsFile != "" {
		if patterns, err = contact.LoadPatterns(cfg.Extract.ContactPatternsFile); err != nil {
			return nil, nil, err
		}
	}

	ad := adapter.New(adapter.Config{
		TextArchiveDir:  cfg.Adapter.TextArchiveDir,
		ConversionDir:   cfg.Adapter.ConversionDir,
		DocumentTimeout: cfg.Adapter.DocumentTimeout,
		MaxFileSize:     cfg.Adapter.MaxFileSize,
	}, adapter.NewOfficeConverter(cfg.Adapter.OfficeBin, logger), logger)

	proc := core.NewProcessor(logger, ad,
		nlp.NewTokenizer(nlp.NewProseTagger(), logger),
		names.NewEngine(gaz, logger),
		contact.NewExtractor(patterns, logger))

	var (
		ledger  repository.RunRepository
		release = func() {}
	)
	if cfg.Ledger.DSN != "" {
		if ledger, release, err = openLedger(ctx, cfg, logger); err != nil {
			return nil, nil, err
		}
	}

	orch := batch.New(batch.Config{
		TextArchiveDir: cfg.Adapter.TextArchiveDir,
		ConversionDir:  cfg.Adapter.ConversionDir,
		KeepArtifacts:  cfg.Batch.KeepArtifacts,
	}, proc, async.NewPool(logger, async.WithWorkers(cfg.Batch.Workers)), ledger, logger)
	return orch, release, nil
}
