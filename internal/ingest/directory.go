package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/resume-extractor/constants"
)

// ListDirectory returns the regular files directly under root, sorted by name.
// Subdirectories are not descended into and lock-marker files are left out;
// unsupported extensions are kept so the caller can report them.
func ListDirectory(root string) ([]string, DirStats, error) {
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, errors.New("input directory is required")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, stats, fmt.Errorf("read dir: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		stats.Scanned++
		if e.IsDir() {
			stats.Dirs++
			continue
		}
		path := filepath.Join(root, e.Name())
		if constants.IsLocked(path) {
			stats.Locked++
			continue
		}
		stats.Files++
		if constants.MapExtToFormat(filepath.Ext(path)) != constants.Unsupported {
			stats.Matched++
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, stats, nil
}

// ArchiveStems returns the text-archive stem for each path: its bare stem, or its
// full base name when another supported file shares the stem (a.doc next to
// a.docx), so concurrent documents never write the same archive file.
func ArchiveStems(paths []string) []string {
	supported := func(p string) bool {
		return constants.MapExtToFormat(filepath.Ext(p)) != constants.Unsupported
	}
	counts := make(map[string]int, len(paths))
	for _, p := range paths {
		if supported(p) {
			counts[strings.ToLower(constants.Stem(p))]++
		}
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = constants.Stem(p)
		if supported(p) && counts[strings.ToLower(out[i])] > 1 {
			out[i] = filepath.Base(p)
		}
	}
	return out
}

// HashFile returns the hex sha256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
