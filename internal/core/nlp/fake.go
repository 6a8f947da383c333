package nlp

import (
	"strings"
	"unicode"
)

// RuleTagger is a deterministic whitespace tagger: capitalized words are NNP,
// numbers CD, other alphabetic words NN, anything else SYM. Sentences end at
// newlines and at ". ". It stands in for the statistical tagger in tests and in
// environments where the model cannot be loaded.
type RuleTagger struct {
	// Tags overrides the tag of specific words (exact match).
	Tags map[string]string
}

func (r RuleTagger) Tag(text string) ([]TaggedToken, error) {
	fields := strings.Fields(text)
	out := make([]TaggedToken, 0, len(fields))
	for _, w := range fields {
		out = append(out, TaggedToken{Text: w, Tag: r.tagOf(w)})
	}
	return out, nil
}

func (r RuleTagger) tagOf(w string) string {
	if tag, ok := r.Tags[w]; ok {
		return tag
	}
	first := []rune(w)[0]
	switch {
	case unicode.IsDigit(first) || first == '+':
		return "CD"
	case unicode.IsUpper(first):
		return "NNP"
	case unicode.IsLetter(first):
		return "NN"
	default:
		return "SYM"
	}
}

func (r RuleTagger) Sentences(text string) ([]string, error) {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		for _, s := range strings.SplitAfter(ln, ". ") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out, nil
}
