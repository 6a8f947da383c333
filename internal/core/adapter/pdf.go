package adapter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/resume-extractor/internal/core/nlp"
)

type pdfResult struct {
	text     string
	pages    int
	warnings []string
	err      error
}

// readPDF decodes path page by page. pdfcpu has no context support, so decoding
// runs in its own goroutine and the caller stops waiting once ctx is done.
func readPDF(ctx context.Context, path string) (string, int, []string, error) {
	done := make(chan pdfResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- pdfResult{err: fmt.Errorf("pdf decode panic: %v", r)}
			}
		}()
		text, pages, warns, err := decodePDF(ctx, path)
		done <- pdfResult{text: text, pages: pages, warnings: warns, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", 0, nil, ctx.Err()
	case r := <-done:
		return r.text, r.pages, r.warnings, r.err
	}
}

func decodePDF(ctx context.Context, path string) (string, int, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return "", 0, nil, fmt.Errorf("read pdf: %w", err)
	}

	var (
		b     strings.Builder
		warns []string
	)
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", pageNr - 1, warns, err
		}
		r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
		if err != nil {
			warns = append(warns, fmt.Sprintf("page %d: %v", pageNr, err))
			continue
		}
		if r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			warns = append(warns, fmt.Sprintf("page %d: %v", pageNr, err))
			continue
		}
		// pages are joined without a separator
		b.WriteString(nlp.ToASCII(contentText(data)))
	}
	return b.String(), pctx.PageCount, warns, nil
}
