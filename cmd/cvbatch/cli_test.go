package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/resume-extractor/internal/core/batch"
	"github.com/joseph-ayodele/resume-extractor/internal/export"
	"github.com/joseph-ayodele/resume-extractor/internal/repository"
	"github.com/joseph-ayodele/resume-extractor/internal/testutil"
)

// testEnv points every working path of the CLI into a temp dir and returns the
// input directory.
func testEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	names := filepath.Join(root, "names.txt")
	require.NoError(t, os.WriteFile(names, []byte("jane\njohn\n"), 0o644))

	t.Setenv("GAZETTEER_PATH", names)
	t.Setenv("TEXT_ARCHIVE_DIR", filepath.Join(root, "txts"))
	t.Setenv("CONVERSION_DIR", filepath.Join(root, "doc2docx"))
	t.Setenv("LEDGER_DSN", "")
	t.Setenv("WORKERS", "1")

	in := filepath.Join(root, "resumes")
	require.NoError(t, os.MkdirAll(in, 0o755))
	testutil.WriteSimpleDocx(t, filepath.Join(in, "jane.docx"), "Jane Doe", "jane@doe.com", "9876543210")
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("ignore me"), 0o644))
	return in
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"cvbatch"}, args...))
	return out.String(), err
}

func TestOutputPath(t *testing.T) {
	require.Equal(t, filepath.Join("/data", DefaultOutputName), outputPath("/data/resumes", ""))
	require.Equal(t, filepath.Join("/data", DefaultOutputName), outputPath("/data/resumes/", ""))
	require.Equal(t, "/tmp/x.xlsx", outputPath("/data/resumes", "/tmp/x.xlsx"))
}

func TestExtractCommand(t *testing.T) {
	in := testEnv(t)
	jsonl := filepath.Join(t.TempDir(), "records.jsonl")

	stdout, err := runApp(t, "extract", "--dir", in, "--jsonl", jsonl)
	require.NoError(t, err)

	var summary batch.Summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	require.Equal(t, 2, summary.Scanned)
	require.Equal(t, 1, summary.Succeeded)
	require.Equal(t, 1, summary.Skipped)

	xlsx := filepath.Join(filepath.Dir(in), DefaultOutputName)
	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "jane.docx", rows[1][0])

	b, err := os.ReadFile(jsonl)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], `"email":"jane@doe.com"`)
	require.Contains(t, lines[0], `"mobile":"9876543210"`)
}

func TestExtractCommand_RequiresDir(t *testing.T) {
	testEnv(t)
	_, err := runApp(t, "extract")
	require.Error(t, err)
}

func TestExtractCommand_MissingGazetteer(t *testing.T) {
	in := testEnv(t)
	_, err := runApp(t, "extract", "--dir", in, "--names", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestRunsCommand(t *testing.T) {
	in := testEnv(t)
	ledger := filepath.Join(t.TempDir(), "ledger.db")

	_, err := runApp(t, "extract", "--dir", in, "--ledger", ledger)
	require.NoError(t, err)

	stdout, err := runApp(t, "runs", "--ledger", ledger)
	require.NoError(t, err)
	var runs []repository.Run
	require.NoError(t, json.Unmarshal([]byte(stdout), &runs))
	require.Len(t, runs, 1)
	require.Equal(t, in, runs[0].InputDir)
	require.Equal(t, 1, runs[0].Succeeded)
}

func TestRunsCommand_RequiresLedger(t *testing.T) {
	testEnv(t)
	_, err := runApp(t, "runs")
	require.Error(t, err)
}
