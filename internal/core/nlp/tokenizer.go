package nlp

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/resume-extractor/internal/common"
)

// TaggedToken is one word with its Penn Treebank part-of-speech tag.
type TaggedToken struct {
	Text string
	Tag  string
}

// TaggedLine is the tagged tokens of one line (or sentence) of text.
type TaggedLine []TaggedToken

// Words returns the token texts of the line.
func (l TaggedLine) Words() []string {
	out := make([]string, len(l))
	for i, tok := range l {
		out[i] = tok.Text
	}
	return out
}

// Tokenized is the normalized view of a document handed to the name engine.
type Tokenized struct {
	Tokens    []string
	Lines     []TaggedLine
	Sentences []TaggedLine
}

// Tagger splits and tags text. Implementations need not be safe for concurrent use
// unless documented.
type Tagger interface {
	Tag(text string) ([]TaggedToken, error)
	Sentences(text string) ([]string, error)
}

// IsNoun reports whether tag is one of NN, NNS, NNP, NNPS.
func IsNoun(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

type Tokenizer struct {
	tagger Tagger
	logger *slog.Logger
}

func NewTokenizer(tagger Tagger, logger *slog.Logger) *Tokenizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tokenizer{tagger: tagger, logger: logger}
}

// Tokenize drops non-ASCII code points, then tags every non-empty line and every
// sentence of the text.
func (t *Tokenizer) Tokenize(text string) (out Tokenized, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = common.NewTokenizeError(fmt.Errorf("tagger panic: %v", r))
			out = Tokenized{}
		}
	}()

	ascii := ToASCII(text)
	for _, ln := range Lines(ascii) {
		tags, err := t.tagger.Tag(ln)
		if err != nil {
			return Tokenized{}, t.fail(err)
		}
		if len(tags) > 0 {
			out.Lines = append(out.Lines, TaggedLine(tags))
		}
	}

	sentences, err := t.tagger.Sentences(ascii)
	if err != nil {
		return Tokenized{}, t.fail(err)
	}
	for _, s := range sentences {
		if strings.TrimSpace(s) == "" {
			continue
		}
		tags, err := t.tagger.Tag(s)
		if err != nil {
			return Tokenized{}, t.fail(err)
		}
		line := TaggedLine(tags)
		out.Sentences = append(out.Sentences, line)
		out.Tokens = append(out.Tokens, line.Words()...)
	}
	t.logger.Debug("text tokenized",
		"lines", len(out.Lines),
		"sentences", len(out.Sentences),
		"tokens", len(out.Tokens),
	)
	return out, nil
}

// fail wraps cause; the caller decides how to log it.
func (t *Tokenizer) fail(cause error) error {
	return common.NewTokenizeError(cause)
}
