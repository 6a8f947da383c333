package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/resume-extractor/internal/entity"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func sampleRecords() []entity.ExtractionRecord {
	return []entity.ExtractionRecord{
		{
			FileName: "jane.docx", Name: "Jane Doe", NameHints: []string{"Jane D", "J Doe"},
			Mobile: "987-654-3210", Email: "jane@example.com", SourcePath: "/cvs/jane.docx", Format: "DOCX",
		},
		{FileName: "blank.pdf", Format: "PDF"},
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "cv_info.xlsx")
	require.NoError(t, NewService(quietLogger()).WriteXLSX(path, sampleRecords()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, Columns, rows[0])
	require.Equal(t, []string{"jane.docx", "Jane Doe", "987-654-3210", "jane@example.com", "Jane D, J Doe"}, rows[1])
	require.Equal(t, "blank.pdf", rows[2][0])
}

func TestWriteXLSX_Empty(t *testing.T) {
	b, err := NewService(quietLogger()).RecordsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Equal(t, [][]string{Columns}, rows)
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewService(quietLogger()).WriteJSONL(&buf, sampleRecords()))

	sc := bufio.NewScanner(&buf)
	var lines []map[string]any
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)
	require.Equal(t, "Jane Doe", lines[0]["name"])
	require.Equal(t, []any{"Jane D", "J Doe"}, lines[0]["name_hints"])
	require.Equal(t, []any{}, lines[1]["name_hints"])
}

func TestWriteJSONL_RejectsInvalidRecord(t *testing.T) {
	recs := []entity.ExtractionRecord{{FileName: "x.docx", Name: "R2 D2", Format: "DOCX"}}
	err := NewService(quietLogger()).WriteJSONL(io.Discard, recs)
	require.Error(t, err)
	require.Contains(t, err.Error(), "x.docx")

	recs = []entity.ExtractionRecord{{FileName: "", Format: "DOCX"}}
	require.Error(t, NewService(quietLogger()).WriteJSONL(io.Discard, recs))
}

func TestWriteJSONLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	require.NoError(t, NewService(quietLogger()).WriteJSONLFile(path, sampleRecords()))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, bytes.Count(b, []byte("\n")))
}

func TestValidateRecordJSON(t *testing.T) {
	require.NoError(t, ValidateRecordJSON([]byte(`{"file_name":"a.pdf","name":"","mobile":"","email":"","name_hints":[]}`)))
	require.Error(t, ValidateRecordJSON([]byte(`{"file_name":"a.pdf"}`)))
	require.Error(t, ValidateRecordJSON([]byte(`{"file_name":"a.pdf","name":"","mobile":"","email":"","name_hints":[],"extra":1}`)))
	require.Error(t, ValidateRecordJSON([]byte(`not json`)))
}
