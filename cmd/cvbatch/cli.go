package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/joseph-ayodele/resume-extractor/internal/common"
	"github.com/joseph-ayodele/resume-extractor/internal/core/batch"
	"github.com/joseph-ayodele/resume-extractor/internal/export"
	"github.com/joseph-ayodele/resume-extractor/internal/ingest"
)

// DefaultOutputName is the spreadsheet written next to the input directory.
const DefaultOutputName = "cv_info.xlsx"

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "cvbatch",
		Usage:   "Extract names, phone numbers and emails from a folder of résumés",
		Version: Version,
		Commands: []*cli.Command{
			extractCmd(),
			watchCmd(),
			runsCmd(),
		},
	}
	// errors are returned to main instead of exiting inside Run
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Required: true, Usage: "Directory of .doc/.docx/.pdf résumés"},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output XLSX path (default <parent of dir>/" + DefaultOutputName + ")"},
		&cli.StringFlag{Name: "jsonl", Usage: "Also write records as JSON lines to this path"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Documents processed concurrently (env WORKERS)"},
		&cli.BoolFlag{Name: "keep-artifacts", Usage: "Keep the text archive and conversion directories"},
		&cli.StringFlag{Name: "ledger", Usage: "Run ledger DSN, sqlite path or postgres:// URL (env LEDGER_DSN)"},
		&cli.StringFlag{Name: "names", Usage: "Gazetteer file, one first name per line (env GAZETTEER_PATH)"},
		&cli.StringFlag{Name: "patterns", Usage: "YAML file overriding contact patterns (env CONTACT_PATTERNS_FILE)"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Debug logging"},
	}
}

// outputPath resolves --out, defaulting to a file beside the input directory.
func outputPath(dir, out string) string {
	if out != "" {
		return out
	}
	return filepath.Join(filepath.Dir(filepath.Clean(dir)), DefaultOutputName)
}

// extractCmd runs one batch over --dir and writes the spreadsheet.
func extractCmd() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Process every résumé in a directory once",
		Flags: pipelineFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return outputError(err)
			}
			logger := newLogger(c, cfg)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			orch, release, err := buildOrchestrator(ctx, cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer release()

			summary, err := runOnce(ctx, c, orch, logger)
			if summary != nil {
				if perr := outputJSON(c.App.Writer, summary); perr != nil {
					logger.Warn("failed to print summary", "error", perr)
				}
			}
			if err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// watchCmd re-runs the batch whenever the directory's résumés change.
func watchCmd() *cli.Command {
	flags := append(pipelineFlags(),
		&cli.DurationFlag{Name: "debounce", Value: 2 * time.Second, Usage: "Quiet period before re-running"},
	)
	return &cli.Command{
		Name:  "watch",
		Usage: "Process the directory, then again after every change",
		Flags: flags,
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return outputError(err)
			}
			logger := newLogger(c, cfg)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			orch, release, err := buildOrchestrator(ctx, cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer release()

			changes, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
				Dir:      c.String("dir"),
				Debounce: c.Duration("debounce"),
			}, logger)
			if err != nil {
				return outputError(err)
			}

			if _, err := runOnce(ctx, c, orch, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("initial run failed", "error", err)
			}
			logger.Info("watching for changes", "dir", c.String("dir"))
			for {
				select {
				case <-ctx.Done():
					logger.Info("watch stopped")
					return nil
				case _, ok := <-changes:
					if !ok {
						return nil
					}
					if _, err := runOnce(ctx, c, orch, logger); err != nil && !errors.Is(err, context.Canceled) {
						logger.Error("run failed", "error", err)
					}
				case err, ok := <-errs:
					if ok && err != nil {
						logger.Warn("watcher reported an error", "error", err)
					}
				}
			}
		},
	}
}

// runOnce executes the batch and writes the exports. Records finished before a
// cancellation are still written.
func runOnce(ctx context.Context, c *cli.Context, orch *batch.Orchestrator, logger *slog.Logger) (*batch.Summary, error) {
	dir := c.String("dir")
	res, runErr := orch.Execute(ctx, dir)
	if res == nil {
		return nil, runErr
	}

	exporter := export.NewService(logger)
	out := outputPath(dir, c.String("out"))
	if err := exporter.WriteXLSX(out, res.Records); err != nil {
		return &res.Summary, fmt.Errorf("write xlsx: %w", err)
	}
	if path := c.String("jsonl"); path != "" {
		if err := exporter.WriteJSONLFile(path, res.Records); err != nil {
			return &res.Summary, fmt.Errorf("write jsonl: %w", err)
		}
	}
	logger.Info("results written", "out", out, "records", len(res.Records))
	return &res.Summary, runErr
}

// runsCmd lists recent runs from the ledger.
func runsCmd() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List recent runs recorded in the ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ledger", Usage: "Run ledger DSN (env LEDGER_DSN)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Maximum runs to list"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Debug logging"},
		},
		Action: func(c *cli.Context) error {
			cfg := common.LoadConfig()
			if c.IsSet("ledger") {
				cfg.Ledger.DSN = c.String("ledger")
			}
			if c.Bool("verbose") {
				cfg.Log.Level = common.LogLevelDebug
			}
			if cfg.Ledger.DSN == "" {
				return outputError(common.NewAppError(common.CodeConfig, "--ledger or LEDGER_DSN is required", common.ErrInvalidInput))
			}
			logger := newLogger(c, cfg)

			runs, release, err := openLedger(c.Context, cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer release()

			list, err := runs.ListRuns(c.Context, c.Int("limit"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, list)
		},
	}
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
