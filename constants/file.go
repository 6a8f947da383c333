package constants

import (
	"path/filepath"
	"strings"
)

// Format is the document kind the text adapter dispatches on.
type Format string

const (
	DOC         Format = "DOC"  // legacy binary Word document
	DOCX        Format = "DOCX" // Office Open XML container
	PDF         Format = "PDF"
	Unsupported Format = ""
)

// FileTypes holds the formats stored in the ledger's format column.
var FileTypes = []string{string(DOC), string(DOCX), string(PDF)}

// AllowedExtensions maps the supported résumé extensions to their format.
var AllowedExtensions = map[string]Format{
	"doc":  DOC,
	"docx": DOCX,
	"pdf":  PDF,
}

// LockMarkerPrefix marks owner files left next to documents that are open in an editor.
const LockMarkerPrefix = "~$"

// TextExt is the extension used for archived plain-text copies.
const TextExt = "txt"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the format for ext, or Unsupported.
func MapExtToFormat(ext string) Format {
	return AllowedExtensions[NormalizeExt(ext)]
}

// IsLocked reports whether the base name of path carries the lock-marker prefix.
func IsLocked(path string) bool {
	return strings.HasPrefix(filepath.Base(path), LockMarkerPrefix)
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
