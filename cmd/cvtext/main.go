package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/resume-extractor/internal/common"
	"github.com/joseph-ayodele/resume-extractor/internal/core/adapter"
	"github.com/joseph-ayodele/resume-extractor/internal/entity"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log.Level, os.Stderr)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "cvtext <resume.doc|docx|pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	// keep the scratch output away from the caller's working directory
	scratch, err := os.MkdirTemp("", "cvtext-*")
	if err != nil {
		logger.Error("create scratch dir", "error", err)
		os.Exit(1)
	}
	defer os.RemoveAll(scratch)

	ad := adapter.New(adapter.Config{
		TextArchiveDir:  filepath.Join(scratch, "txts"),
		ConversionDir:   filepath.Join(scratch, "doc2docx"),
		DocumentTimeout: cfg.Adapter.DocumentTimeout,
		MaxFileSize:     cfg.Adapter.MaxFileSize,
	}, adapter.NewOfficeConverter(cfg.Adapter.OfficeBin, logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := ad.Extract(ctx, entity.NewDocument(0, path))
	if err != nil {
		logger.Error("text extraction failed", "path", path, "code", common.CodeOf(err), "error", err)
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"format", res.Format,
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"warnings", len(res.Warnings),
		"duration_ms", res.Duration.Milliseconds(),
	)
	fmt.Println(res.Text)
}
