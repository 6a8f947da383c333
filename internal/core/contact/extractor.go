// Package contact pulls phone numbers and e-mail addresses out of raw text.
package contact

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/resume-extractor/internal/common"
)

const joinSep = ", "

// Extractor is safe for concurrent use.
type Extractor struct {
	patterns *Patterns
	logger   *slog.Logger
}

func NewExtractor(p *Patterns, logger *slog.Logger) *Extractor {
	if p == nil {
		p = DefaultPatterns()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{patterns: p, logger: logger}
}

// ExtractMobile returns every phone-like match, deduplicated in first-seen order
// across patterns and joined with ", ".
func (e *Extractor) ExtractMobile(text string) (out string) {
	defer e.recoverField("mobile", &out)

	var seen orderedSet
	for _, re := range e.patterns.Mobile {
		for _, m := range re.FindAllString(text, -1) {
			seen.add(m)
		}
	}
	return strings.Join(seen.items, joinSep)
}

// ExtractEmail returns lowercased, deduplicated addresses whose last domain label
// is whitelisted, joined with ", ".
func (e *Extractor) ExtractEmail(text string) (out string) {
	defer e.recoverField("email", &out)

	var seen orderedSet
	for _, m := range e.patterns.Email.FindAllString(text, -1) {
		m = strings.ToLower(m)
		tld := m[strings.LastIndex(m, ".")+1:]
		if _, ok := e.patterns.AllowedTLDs[tld]; !ok {
			continue
		}
		seen.add(m)
	}
	return strings.Join(seen.items, joinSep)
}

func (e *Extractor) recoverField(field string, out *string) {
	if r := recover(); r != nil {
		*out = ""
		e.logger.Error("contact extraction failed",
			"field", field,
			"error", common.NewPatternMatchError(field, fmt.Errorf("%v", r)))
	}
}

type orderedSet struct {
	items []string
	index map[string]struct{}
}

func (s *orderedSet) add(v string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[v]; ok {
		return
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
}
