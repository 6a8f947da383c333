package common

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log levels accepted on the command line and in LOG_LEVEL.
const (
	LogLevelInfo  = "INFO"
	LogLevelDebug = "DEBUG"
)

// NewLogger builds the JSON slog logger used by every binary.
// Anything other than DEBUG logs at info level.
func NewLogger(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	lvl := slog.LevelInfo
	if strings.EqualFold(level, LogLevelDebug) {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
	}))
}

// LoggerFromContext returns logger with the run and document ids carried by ctx.
func LoggerFromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := RunIDFromContext(ctx); id != "" {
		logger = logger.With("run_id", id)
	}
	if id := DocumentIDFromContext(ctx); id != "" {
		logger = logger.With("document_id", id)
	}
	return logger
}
