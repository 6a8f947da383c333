package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/resume-extractor/constants"
)

// targetFormat is the office suite's filter name for Word 2007+ output.
const targetFormat = "docx"

// Converter turns a legacy .doc into a .docx inside dstDir and returns its path.
type Converter interface {
	Convert(ctx context.Context, src, dstDir string) (string, error)
}

// OfficeConverter drives a headless office suite (LibreOffice's soffice by default).
type OfficeConverter struct {
	bin    string
	runner Runner
	logger *slog.Logger
}

func NewOfficeConverter(bin string, logger *slog.Logger) *OfficeConverter {
	if logger == nil {
		logger = slog.Default()
	}
	if bin == "" {
		bin = "soffice"
	}
	return &OfficeConverter{bin: bin, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner; used by tests.
func (c *OfficeConverter) WithRunner(r Runner) *OfficeConverter {
	c.runner = r
	return c
}

// Convert runs: soffice --headless --convert-to docx --outdir <dstDir> <src>
func (c *OfficeConverter) Convert(ctx context.Context, src, dstDir string) (string, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", err
	}
	_, errb, err := c.runner.Run(ctx, c.bin,
		"--headless", "--convert-to", targetFormat, "--outdir", dstDir, src)
	if err != nil {
		return "", fmt.Errorf("%s convert: %w (%s)", filepath.Base(c.bin), err, strings.TrimSpace(clip(string(errb), 512)))
	}

	out := filepath.Join(dstDir, constants.Stem(src)+"."+targetFormat)
	if st, statErr := os.Stat(out); statErr != nil || st.IsDir() {
		return "", fmt.Errorf("conversion produced no output at %s", out)
	}
	c.logger.Debug("doc converted to docx", "src", src, "dst", out)
	return out, nil
}
