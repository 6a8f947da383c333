package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/resume-extractor/constants"
	"github.com/joseph-ayodele/resume-extractor/internal/common"
	"github.com/joseph-ayodele/resume-extractor/internal/entity"
)

var (
	errLocked   = errors.New("lock marker file")
	errTooLarge = errors.New("file exceeds size limit")
)

type Config struct {
	TextArchiveDir  string        // <stem>.txt copies land here
	ConversionDir   string        // converted .docx files land here
	DocumentTimeout time.Duration // 0 = no per-document deadline
	MaxFileSize     int64         // 0 = no limit
}

// Result is the outcome of adapting one document.
type Result struct {
	Text     string
	Pages    int
	Format   constants.Format
	Method   string // "docx" | "doc-convert" | "pdf-content"
	Duration time.Duration
	Warnings []string
}

// Adapter turns résumé files into plain text.
type Adapter struct {
	cfg       Config
	converter Converter
	logger    *slog.Logger
}

func New(cfg Config, converter Converter, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TextArchiveDir == "" {
		cfg.TextArchiveDir = "./txts"
	}
	if cfg.ConversionDir == "" {
		cfg.ConversionDir = "./doc2docx"
	}
	if converter == nil {
		converter = NewOfficeConverter("", logger)
	}
	return &Adapter{cfg: cfg, converter: converter, logger: logger}
}

// Adapt fills doc.Text and doc.TextPath and returns the recovered text.
func (a *Adapter) Adapt(ctx context.Context, doc *entity.Document) (string, error) {
	res, err := a.Extract(ctx, doc)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Extract picks a strategy based on the document format and archives the text.
func (a *Adapter) Extract(ctx context.Context, doc *entity.Document) (Result, error) {
	start := time.Now()
	logger := common.LoggerFromContext(ctx, a.logger).With("path", doc.SourcePath, "format", string(doc.Format))
	logger.Debug("starting text adaptation")

	if doc.Format == constants.Unsupported {
		return Result{}, common.NewUnsupportedFormatError(doc.SourcePath, doc.Ext)
	}
	if err := a.checkSize(doc.SourcePath); err != nil {
		return Result{Format: doc.Format}, err
	}

	ctx, cancel := common.WithTimeout(ctx, a.cfg.DocumentTimeout)
	defer cancel()

	var (
		res Result
		err error
	)
	switch doc.Format {
	case constants.DOC:
		res, err = a.extractDOC(ctx, doc, logger)
	case constants.DOCX:
		res, err = a.extractDOCX(doc.WorkingPath, logger)
	case constants.PDF:
		res, err = a.extractPDF(ctx, doc.WorkingPath)
	}
	res.Format = doc.Format
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	stem := doc.ArchiveStem
	if stem == "" {
		stem = constants.Stem(doc.SourcePath)
	}
	textPath, err := archiveText(a.cfg.TextArchiveDir, stem, res.Text)
	if err != nil {
		return res, err
	}
	doc.Text = res.Text
	doc.TextPath = textPath

	logger.Debug("text adaptation done",
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (a *Adapter) extractDOC(ctx context.Context, doc *entity.Document, logger *slog.Logger) (Result, error) {
	if constants.IsLocked(doc.SourcePath) {
		return Result{}, common.NewConversionError(doc.SourcePath, errLocked)
	}
	out, err := a.converter.Convert(ctx, doc.SourcePath, a.cfg.ConversionDir)
	if err != nil {
		logger.Error("doc conversion failed", "error", err)
		return Result{}, common.NewConversionError(doc.SourcePath, err)
	}
	doc.WorkingPath = out

	res, err := a.extractDOCX(out, logger)
	res.Method = "doc-convert"
	return res, err
}

func (a *Adapter) extractDOCX(path string, logger *slog.Logger) (Result, error) {
	text, found, err := readDocx(path)
	if err != nil {
		return Result{}, common.NewConversionError(path, err)
	}
	res := Result{Text: text, Pages: 1, Method: "docx"}
	if !found {
		logger.Warn("docx has no readable segments", "error", common.NewArchiveReadError(path))
		res.Warnings = append(res.Warnings, common.ErrArchiveRead.Error())
	}
	return res, nil
}

func (a *Adapter) extractPDF(ctx context.Context, path string) (Result, error) {
	text, pages, warns, err := readPDF(ctx, path)
	if err != nil {
		return Result{Warnings: warns}, common.NewConversionError(path, err)
	}
	return Result{Text: text, Pages: pages, Method: "pdf-content", Warnings: warns}, nil
}

func (a *Adapter) checkSize(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return common.NewConversionError(path, err)
	}
	if a.cfg.MaxFileSize > 0 && st.Size() > a.cfg.MaxFileSize {
		return common.NewConversionError(path, fmt.Errorf("%w: %d > %d bytes", errTooLarge, st.Size(), a.cfg.MaxFileSize))
	}
	return nil
}
