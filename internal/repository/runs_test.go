package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-extractor/constants"
	"github.com/joseph-ayodele/resume-extractor/internal/entity"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: filepath.Join(t.TempDir(), "ledger.db")}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(quietLogger()) })
	return db
}

func TestDialectOf(t *testing.T) {
	require.Equal(t, Postgres, DialectOf("postgres://u:p@localhost:5432/db"))
	require.Equal(t, Postgres, DialectOf(" PostgreSQL://localhost/db"))
	require.Equal(t, SQLite, DialectOf("file:ledger.db"))
	require.Equal(t, SQLite, DialectOf("./ledger.db"))
}

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: Postgres}
	require.Equal(t, "UPDATE t SET a = $1 WHERE b = $2", pg.rebind("UPDATE t SET a = ? WHERE b = ?"))
	lite := &DB{Dialect: SQLite}
	require.Equal(t, "SELECT ?", lite.rebind("SELECT ?"))
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{}, quietLogger())
	require.Error(t, err)
}

func TestOpen_MigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	for i := 0; i < 2; i++ {
		db, err := Open(context.Background(), Config{DSN: path}, quietLogger())
		require.NoError(t, err)
		require.NoError(t, db.HealthCheck(context.Background(), 0, quietLogger()))
		db.Close(quietLogger())
	}
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t), quietLogger())

	run, err := repo.StartRun(ctx, "/cvs")
	require.NoError(t, err)
	require.Len(t, run.ID, 26)

	rec := &entity.ExtractionRecord{
		FileName:  "jane.docx",
		Name:      "Jane Doe",
		NameHints: []string{"Jane D"},
		Email:     "jane@example.com",
		Format:    "DOCX",
	}
	require.NoError(t, repo.RecordOutcome(ctx, Outcome{
		RunID: run.ID, Index: 1, DocumentID: "doc-2", SourcePath: "/cvs/notes.txt",
		Status: constants.DocStatusSkipped, ErrorMessage: "unsupported format",
	}))
	require.NoError(t, repo.RecordOutcome(ctx, Outcome{
		RunID: run.ID, Index: 0, DocumentID: "doc-1", SourcePath: "/cvs/jane.docx",
		ContentHash: "abc", Format: "DOCX", Status: constants.DocStatusOK, Record: rec,
	}))
	require.NoError(t, repo.FinishRun(ctx, run.ID, RunStats{Scanned: 2, Succeeded: 1, Skipped: 1}))

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, "/cvs", got.InputDir)
	require.NotNil(t, got.FinishedAt)
	require.Equal(t, 2, got.Scanned)
	require.Equal(t, 1, got.Succeeded)
	require.Equal(t, 1, got.Skipped)

	outs, err := repo.ListOutcomes(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, outs, 2)
	require.Equal(t, constants.DocStatusOK, outs[0].Status)
	require.NotNil(t, outs[0].Record)
	require.Equal(t, "Jane Doe", outs[0].Record.Name)
	require.Equal(t, []string{"Jane D"}, outs[0].Record.NameHints)
	require.Equal(t, constants.DocStatusSkipped, outs[1].Status)
	require.Nil(t, outs[1].Record)
	require.Equal(t, "unsupported format", outs[1].ErrorMessage)
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t), quietLogger())

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := repo.StartRun(ctx, "/cvs")
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	runs, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, ids[2], runs[0].ID)
	require.Equal(t, ids[1], runs[1].ID)
	require.Nil(t, runs[0].FinishedAt)
}

func TestRunNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t), quietLogger())

	_, err := repo.GetRun(ctx, "missing")
	require.ErrorIs(t, err, ErrRunNotFound)
	require.ErrorIs(t, repo.FinishRun(ctx, "missing", RunStats{}), ErrRunNotFound)
}
