package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/joseph-ayodele/resume-extractor/internal/entity"
)

// WriteJSONL encodes one validated record per line. It stops at the first record
// that fails validation; the error names its file.
func (s *Service) WriteJSONL(w io.Writer, records []entity.ExtractionRecord) error {
	start := time.Now()
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if r.NameHints == nil {
			r.NameHints = []string{}
		}
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.FileName, err)
		}
		if err := ValidateRecordJSON(b); err != nil {
			return fmt.Errorf("%s: %w", r.FileName, err)
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	s.logger.Info("export.jsonl.ok",
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// WriteJSONLFile writes the JSON Lines export to path.
func (s *Service) WriteJSONLFile(path string, records []entity.ExtractionRecord) error {
	var buf bytes.Buffer
	if err := s.WriteJSONL(&buf, records); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}
