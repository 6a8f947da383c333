package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/resume-extractor/internal/common"
	"github.com/joseph-ayodele/resume-extractor/internal/core/contact"
	"github.com/joseph-ayodele/resume-extractor/internal/core/names"
	"github.com/joseph-ayodele/resume-extractor/internal/core/nlp"
	"github.com/joseph-ayodele/resume-extractor/internal/entity"
)

// TextAdapter turns a document into plain text.
type TextAdapter interface {
	Adapt(ctx context.Context, doc *entity.Document) (string, error)
}

// Processor coordinates text adaptation then field extraction for one document.
type Processor struct {
	logger    *slog.Logger
	adapter   TextAdapter
	tokenizer *nlp.Tokenizer
	names     *names.Engine
	contact   *contact.Extractor
}

func NewProcessor(
	logger *slog.Logger,
	adapter TextAdapter,
	tokenizer *nlp.Tokenizer,
	nameEngine *names.Engine,
	contactExtractor *contact.Extractor,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		adapter:   adapter,
		tokenizer: tokenizer,
		names:     nameEngine,
		contact:   contactExtractor,
	}
}

// ProcessDocument adapts doc and builds its record. Adaptation errors are returned
// as is; a tokenizer failure only leaves the name fields empty.
func (p *Processor) ProcessDocument(ctx context.Context, doc *entity.Document) (*entity.ExtractionRecord, error) {
	start := time.Now()
	logger := common.LoggerFromContext(ctx, p.logger).With("path", doc.SourcePath)

	// 1) text
	text, err := p.adapter.Adapt(ctx, doc)
	if err != nil {
		return nil, err
	}

	// 2) names from tagged lines
	name, hints := "", []string{}
	tok, err := p.tokenizer.Tokenize(text)
	if err != nil {
		logger.Error("tokenize failed; name left empty", "code", common.CodeOf(err), "error", err)
	} else {
		name, hints = p.names.Extract(tok.Lines)
	}

	// 3) contact fields from the raw text
	rec := &entity.ExtractionRecord{
		Index:      doc.Index,
		FileName:   doc.FileName(),
		Name:       name,
		NameHints:  hints,
		Mobile:     p.contact.ExtractMobile(text),
		Email:      p.contact.ExtractEmail(text),
		SourcePath: doc.SourcePath,
		Format:     string(doc.Format),
		TextPath:   doc.TextPath,
	}

	logger.Debug("document processed",
		"name", rec.Name,
		"hints", len(rec.NameHints),
		"has_mobile", rec.Mobile != "",
		"has_email", rec.Email != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}
