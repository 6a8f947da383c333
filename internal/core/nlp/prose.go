package nlp

import (
	"fmt"
	"sync"

	"github.com/jdkato/prose/v2"
)

// ProseTagger tags English text with prose's averaged perceptron model.
// The model is loaded once; ProseTagger is safe for concurrent use.
type ProseTagger struct {
	once  sync.Once
	model *prose.Model
	err   error
}

func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

func (p *ProseTagger) load() (*prose.Model, error) {
	p.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				p.err = fmt.Errorf("load prose model: %v", r)
			}
		}()
		seed, err := prose.NewDocument("seed",
			prose.WithSegmentation(false),
			prose.WithExtraction(false))
		if err != nil {
			p.err = fmt.Errorf("load prose model: %w", err)
			return
		}
		p.model = seed.Model
	})
	return p.model, p.err
}

func (p *ProseTagger) Tag(text string) ([]TaggedToken, error) {
	model, err := p.load()
	if err != nil {
		return nil, err
	}
	doc, err := prose.NewDocument(text,
		prose.UsingModel(model),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}
	toks := doc.Tokens()
	out := make([]TaggedToken, 0, len(toks))
	for _, tok := range toks {
		out = append(out, TaggedToken{Text: tok.Text, Tag: tok.Tag})
	}
	return out, nil
}

func (p *ProseTagger) Sentences(text string) ([]string, error) {
	model, err := p.load()
	if err != nil {
		return nil, err
	}
	doc, err := prose.NewDocument(text,
		prose.UsingModel(model),
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}
	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		out = append(out, s.Text)
	}
	return out, nil
}
