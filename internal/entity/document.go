package entity

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-extractor/constants"
)

// Document is one input file moving through the pipeline.
// Identity is SourcePath; the adapter fills WorkingPath, Text and TextPath once.
type Document struct {
	ID          uuid.UUID        `json:"id"`
	Index       int              `json:"index"` // enumeration order within the batch
	SourcePath  string           `json:"source_path"`
	WorkingPath string           `json:"working_path"` // differs from SourcePath after .doc conversion
	Ext         string           `json:"ext"`
	Format      constants.Format `json:"format"`
	ContentHash string           `json:"content_hash,omitempty"`
	Text        string           `json:"-"`
	TextPath    string           `json:"text_path,omitempty"`
	ArchiveStem string           `json:"archive_stem,omitempty"` // <ArchiveStem>.txt in the text archive
}

// NewDocument builds a Document for path at enumeration index idx.
func NewDocument(idx int, path string) *Document {
	ext := constants.NormalizeExt(filepath.Ext(path))
	return &Document{
		ID:          uuid.New(),
		Index:       idx,
		SourcePath:  path,
		WorkingPath: path,
		Ext:         ext,
		Format:      constants.MapExtToFormat(ext),
		ArchiveStem: constants.Stem(path),
	}
}

// FileName is the base name of the original file.
func (d *Document) FileName() string {
	return filepath.Base(d.SourcePath)
}
