package adapter

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"
)

// stderrLogLimit caps how much converter stderr lands in one log line.
const stderrLogLimit = 8 << 10

// Runner executes the external converter binary; tests stub it.
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) (stdout, stderr []byte, err error)
}

// execRunner runs the converter as a child process that dies with ctx.
type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, bin string, args ...string) ([]byte, []byte, error) {
	start := time.Now()
	var src string
	if len(args) > 0 {
		src = args[len(args)-1]
	}
	logger := r.logger.With("bin", filepath.Base(bin), "src", src)
	logger.Debug("converter started", "args", args)

	cmd := exec.CommandContext(ctx, bin, args...)
	// office suites can leave helper processes holding the pipes after a kill
	cmd.WaitDelay = 5 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		logger.Error("converter failed",
			"duration_ms", elapsed,
			"error", err,
			"stderr", clip(stderr.String(), stderrLogLimit),
		)
	} else {
		logger.Debug("converter finished",
			"duration_ms", elapsed,
			"stdout_bytes", stdout.Len(),
		)
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// clip shortens s to at most max bytes, marking the cut.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
