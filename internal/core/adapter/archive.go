package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/resume-extractor/constants"
	"github.com/joseph-ayodele/resume-extractor/internal/common"
	"github.com/joseph-ayodele/resume-extractor/internal/core/nlp"
)

// archiveText writes the ASCII form of text to <dir>/<stem>.txt and returns the path.
func archiveText(dir, stem, text string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", common.NewAppError(common.CodeArchiveWrite, dir, err)
	}
	out := filepath.Join(dir, fmt.Sprintf("%s.%s", stem, constants.TextExt))
	if err := os.WriteFile(out, []byte(nlp.ToASCII(text)), 0o644); err != nil {
		return "", common.NewAppError(common.CodeArchiveWrite, out, err)
	}
	return out, nil
}
