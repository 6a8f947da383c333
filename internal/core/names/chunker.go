package names

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/resume-extractor/internal/core/nlp"
)

// NameGrammar matches two or more consecutive noun tags.
const NameGrammar = "NAME: {<NN.*><NN.*><NN.*>*}"

var reTagPattern = regexp.MustCompile(`<([^<>]+)>([*+?]?)`)

// Grammar is a single-rule tag-pattern chunker. Tag patterns are regular
// expressions over one tag each, written between angle brackets and optionally
// followed by *, + or ?.
type Grammar struct {
	Label string
	re    *regexp.Regexp
}

// ParseGrammar compiles a rule of the form "LABEL: {<TAG><TAG>*...}".
func ParseGrammar(rule string) (*Grammar, error) {
	label, body, ok := strings.Cut(rule, ":")
	if !ok {
		return nil, fmt.Errorf("grammar %q: missing label", rule)
	}
	label = strings.TrimSpace(label)
	body = strings.TrimSpace(body)
	if label == "" || !strings.HasPrefix(body, "{") || !strings.HasSuffix(body, "}") {
		return nil, fmt.Errorf("grammar %q: want LABEL: {<pattern>...}", rule)
	}
	body = strings.TrimSpace(body[1 : len(body)-1])

	var expr strings.Builder
	rest := body
	for rest != "" {
		loc := reTagPattern.FindStringSubmatchIndex(rest)
		if loc == nil || loc[0] != 0 {
			return nil, fmt.Errorf("grammar %q: bad tag pattern at %q", rule, rest)
		}
		tag := rest[loc[2]:loc[3]]
		quant := rest[loc[4]:loc[5]]
		// "." must not cross a tag boundary
		expr.WriteString("(?:<" + strings.ReplaceAll(tag, ".", "[^<>]") + ">)" + quant)
		rest = strings.TrimSpace(rest[loc[1]:])
	}
	if expr.Len() == 0 {
		return nil, fmt.Errorf("grammar %q: empty pattern", rule)
	}

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("grammar %q: %w", rule, err)
	}
	return &Grammar{Label: label, re: re}, nil
}

func MustParseGrammar(rule string) *Grammar {
	g, err := ParseGrammar(rule)
	if err != nil {
		panic(err)
	}
	return g
}

// Chunk returns the maximal non-overlapping token runs of line whose tags match
// the rule, scanning left to right.
func (g *Grammar) Chunk(line nlp.TaggedLine) []nlp.TaggedLine {
	if len(line) == 0 {
		return nil
	}
	var enc strings.Builder
	starts := make(map[int]int, len(line)+1)
	for i, tok := range line {
		starts[enc.Len()] = i
		enc.WriteString("<" + tok.Tag + ">")
	}
	starts[enc.Len()] = len(line)

	var chunks []nlp.TaggedLine
	for _, m := range g.re.FindAllStringIndex(enc.String(), -1) {
		from, okFrom := starts[m[0]]
		to, okTo := starts[m[1]]
		if !okFrom || !okTo || to <= from {
			continue
		}
		chunks = append(chunks, line[from:to])
	}
	return chunks
}
