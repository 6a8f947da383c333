// Package names finds a person's name in tagged résumé lines by anchoring noun
// chunks on a gazetteer of known given names.
package names

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/resume-extractor/internal/core/nlp"
	"github.com/joseph-ayodele/resume-extractor/internal/gazetteer"
)

// DefaultWindow is how many tokens a candidate spans from its gazetteer hit.
const DefaultWindow = 3

var reNonNameChars = regexp.MustCompile(`[^a-zA-Z -]`)

type Engine struct {
	gaz     *gazetteer.Gazetteer
	grammar *Grammar
	window  int
	logger  *slog.Logger
}

func NewEngine(gaz *gazetteer.Gazetteer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		gaz:     gaz,
		grammar: MustParseGrammar(NameGrammar),
		window:  DefaultWindow,
		logger:  logger,
	}
}

// Extract returns the title-cased best name and the remaining cleaned candidates.
// It never fails; a panic while chunking yields no name.
func (e *Engine) Extract(lines []nlp.TaggedLine) (name string, alternates []string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("name extraction panicked", "error", fmt.Sprint(r))
			name, alternates = "", []string{}
		}
	}()

	var cleaned []string
	for _, raw := range e.Candidates(lines) {
		if c := strings.TrimSpace(reNonNameChars.ReplaceAllString(raw, "")); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return "", []string{}
	}
	return TitleCase(cleaned[0]), cleaned[1:]
}

// Candidates returns raw candidates in line order, then hit order.
func (e *Engine) Candidates(lines []nlp.TaggedLine) []string {
	var out []string
	for _, line := range lines {
		for _, chunk := range e.grammar.Chunk(line) {
			for i, leaf := range chunk {
				if !nlp.IsNoun(leaf.Tag) || !e.gaz.Contains(leaf.Text) {
					continue
				}
				end := min(i+e.window, len(chunk))
				raw := strings.Join(chunk[i:end].Words(), " ")
				if strings.ContainsAny(raw, "0123456789,:") {
					continue
				}
				out = append(out, raw)
			}
		}
	}
	return out
}

// TitleCase upper-cases the first letter of every space-separated word and
// lower-cases the rest; "mary-jane" becomes "Mary-jane".
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}
