package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRelevant(t *testing.T) {
	cases := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"docx create", fsnotify.Event{Name: "/in/cv.docx", Op: fsnotify.Create}, true},
		{"pdf write", fsnotify.Event{Name: "/in/cv.PDF", Op: fsnotify.Write}, true},
		{"doc removed", fsnotify.Event{Name: "/in/cv.doc", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/in/cv.docx", Op: fsnotify.Chmod}, false},
		{"lock marker", fsnotify.Event{Name: "/in/~$cv.docx", Op: fsnotify.Create}, false},
		{"unsupported", fsnotify.Event{Name: "/in/notes.txt", Op: fsnotify.Create}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, relevant(tc.ev))
		})
	}
}

func TestWatch_SignalsAfterChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, _, err := Watch(ctx, WatchConfig{Dir: dir, Debounce: 50 * time.Millisecond}, quietLogger())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cv.docx"), []byte("x"), 0o644))
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatch_MissingDir(t *testing.T) {
	_, _, err := Watch(context.Background(), WatchConfig{Dir: filepath.Join(t.TempDir(), "nope")}, quietLogger())
	require.Error(t, err)

	_, _, err = Watch(context.Background(), WatchConfig{}, quietLogger())
	require.Error(t, err)
}
