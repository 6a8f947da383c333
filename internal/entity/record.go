package entity

import "strings"

// ExtractionRecord is the per-document result handed to the exporters.
type ExtractionRecord struct {
	Index      int      `json:"-"`
	FileName   string   `json:"file_name"`
	Name       string   `json:"name"`
	NameHints  []string `json:"name_hints"`
	Mobile     string   `json:"mobile"`
	Email      string   `json:"email"`
	SourcePath string   `json:"source_path"`
	Format     string   `json:"format"`
	TextPath   string   `json:"text_path,omitempty"`
}

// NameHintsJoined renders the alternates the way the spreadsheet column shows them.
func (r ExtractionRecord) NameHintsJoined() string {
	return strings.Join(r.NameHints, ", ")
}
